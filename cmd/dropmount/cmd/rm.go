package cmd

import (
	"github.com/spf13/cobra"
)

var rmRecursive bool

func init() {
	rmCmd := &cobra.Command{
		Use:   "rm <path>...",
		Short: "Remove remote files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRm,
	}
	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "remove directories and their contents")

	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	fs, _, _, err := buildFs()
	if err != nil {
		return err
	}

	for _, path := range args {
		if rmRecursive {
			if err := fs.RemoveAll(path); err != nil {
				return err
			}
			continue
		}
		if err := fs.Remove(path); err != nil {
			return err
		}
	}
	return nil
}
