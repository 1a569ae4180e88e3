package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	getCmd := &cobra.Command{
		Use:   "get <remote-path> [local-path]",
		Short: "Download a remote file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runGet,
	}

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	remote := args[0]
	local := filepath.Base(remote)
	if len(args) == 2 {
		local = args[1]
	}

	fs, _, _, err := buildFs()
	if err != nil {
		return err
	}

	data, err := afero.ReadFile(fs, remote)
	if err != nil {
		return err
	}

	if err := os.WriteFile(local, data, 0o644); err != nil {
		return err
	}

	slog.Info("downloaded file", "remote", remote, "local", local, "size", len(data))
	return nil
}
