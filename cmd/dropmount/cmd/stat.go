package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	statCmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Show metadata of a remote entry",
		Args:  cobra.ExactArgs(1),
		RunE:  runStat,
	}

	rootCmd.AddCommand(statCmd)
}

func runStat(cmd *cobra.Command, args []string) error {
	fs, _, _, err := buildFs()
	if err != nil {
		return err
	}

	info, err := fs.Stat(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("name: %s\n", info.Name())
	fmt.Printf("mode: %s\n", info.Mode())
	if info.IsDir() {
		fmt.Println("type: directory")
		return nil
	}

	fmt.Println("type: file")
	fmt.Printf("size: %d\n", info.Size())
	fmt.Printf("modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05 MST"))
	return nil
}
