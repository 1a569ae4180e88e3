package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	catCmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a remote file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runCat,
	}

	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	fs, _, _, err := buildFs()
	if err != nil {
		return err
	}

	f, err := fs.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}
