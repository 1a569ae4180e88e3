package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dropmount/dropmount/internal/backend"
	"github.com/dropmount/dropmount/internal/config"
	"github.com/dropmount/dropmount/internal/dropbox"
	"github.com/dropmount/dropmount/internal/dropboxfs"
	"github.com/dropmount/dropmount/internal/slogutil"
	"github.com/spf13/afero"
)

// buildFs is the composition root: it loads configuration, configures
// logging, constructs the remote client and assembles the filesystem
// through the backend registry.
func buildFs() (afero.Fs, dropbox.Client, *config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Default().Error("failed to load config", "err", err)
		return nil, nil, nil, err
	}

	logger := slogutil.Setup(cfg.Log)
	slog.SetDefault(logger)

	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, nil, nil, err
	}

	client := dropbox.NewHTTPClient(token,
		dropbox.WithTimeout(time.Duration(cfg.Dropbox.TimeoutSeconds)*time.Second),
		dropbox.WithRetries(cfg.Dropbox.MaxRetries),
	)

	if _, ok := backend.Lookup(dropboxfs.BackendName); !ok {
		if err := backend.Register(dropboxfs.Descriptor()); err != nil {
			return nil, nil, nil, err
		}
	}

	descriptor, _ := backend.Lookup(dropboxfs.BackendName)
	opts := backend.Options{
		dropboxfs.OptionClient:       dropbox.Client(client),
		dropboxfs.OptionMaxListPages: cfg.FS.MaxListPages,
	}

	if err := descriptor.CheckOptions(opts); err != nil {
		return nil, nil, nil, err
	}
	if !descriptor.Available(opts) {
		return nil, nil, nil, fmt.Errorf("backend %s is not available", dropboxfs.BackendName)
	}

	fs, err := descriptor.New(opts)
	if err != nil {
		return nil, nil, nil, err
	}

	return fs, client, cfg, nil
}
