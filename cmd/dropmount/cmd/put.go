package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/dropmount/dropmount/internal/dropbox"
	"github.com/dropmount/dropmount/internal/pathutil"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	putVerify  bool
	putWorkers int
)

func init() {
	putCmd := &cobra.Command{
		Use:   "put <local-file>... <remote-dir>",
		Short: "Upload local files into a remote directory",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runPut,
	}
	putCmd.Flags().BoolVar(&putVerify, "verify", false, "verify uploads against the remote content hash")
	putCmd.Flags().IntVar(&putWorkers, "workers", 4, "max concurrent uploads")

	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	locals := args[:len(args)-1]
	remoteDir := pathutil.SlashClean(args[len(args)-1])

	fs, client, _, err := buildFs()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p := pool.New().WithMaxGoroutines(putWorkers).WithErrors()

	for _, local := range locals {
		local := local
		p.Go(func() error {
			data, err := os.ReadFile(local)
			if err != nil {
				return err
			}

			remote := path.Join(remoteDir, filepath.Base(local))
			if err := afero.WriteFile(fs, remote, data, 0o644); err != nil {
				return err
			}

			if putVerify {
				meta, err := client.GetMetadata(ctx, pathutil.Remote(remote))
				if err != nil {
					return err
				}
				localHash, err := dropbox.ContentHash(bytes.NewReader(data))
				if err != nil {
					return err
				}
				if meta.ContentHash != localHash {
					return fmt.Errorf("content hash mismatch for %s: local %s, remote %s", remote, localHash, meta.ContentHash)
				}
			}

			slog.Info("uploaded file", "local", local, "remote", remote, "size", len(data))
			return nil
		})
	}

	return p.Wait()
}
