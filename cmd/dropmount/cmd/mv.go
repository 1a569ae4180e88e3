package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	mvCmd := &cobra.Command{
		Use:   "mv <old> <new>",
		Short: "Move or rename a remote file or directory",
		Args:  cobra.ExactArgs(2),
		RunE:  runMv,
	}

	rootCmd.AddCommand(mvCmd)
}

func runMv(cmd *cobra.Command, args []string) error {
	fs, _, _, err := buildFs()
	if err != nil {
		return err
	}
	return fs.Rename(args[0], args[1])
}
