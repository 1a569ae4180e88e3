package cmd

import (
	"github.com/spf13/cobra"
)

var mkdirParents bool

func init() {
	mkdirCmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a remote directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runMkdir,
	}
	mkdirCmd.Flags().BoolVarP(&mkdirParents, "parents", "p", false, "create missing parent directories")

	rootCmd.AddCommand(mkdirCmd)
}

func runMkdir(cmd *cobra.Command, args []string) error {
	fs, _, _, err := buildFs()
	if err != nil {
		return err
	}

	if mkdirParents {
		return fs.MkdirAll(args[0], 0o755)
	}
	return fs.Mkdir(args[0], 0o755)
}
