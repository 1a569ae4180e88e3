package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var lsLong bool

func init() {
	lsCmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a remote directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLs,
	}
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "show sizes and modification times")

	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	path := "/"
	if len(args) == 1 {
		path = args[0]
	}

	fs, _, _, err := buildFs()
	if err != nil {
		return err
	}

	infos, err := afero.ReadDir(fs, path)
	if err != nil {
		return err
	}

	if !lsLong {
		for _, info := range infos {
			name := info.Name()
			if info.IsDir() {
				name += "/"
			}
			fmt.Println(name)
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, info := range infos {
		kind := "-"
		modified := "-"
		if info.IsDir() {
			kind = "d"
		} else {
			modified = info.ModTime().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", kind, info.Size(), modified, info.Name())
	}
	return w.Flush()
}
