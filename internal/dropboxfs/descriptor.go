package dropboxfs

import (
	"fmt"

	"github.com/dropmount/dropmount/internal/backend"
	"github.com/dropmount/dropmount/internal/dropbox"
	"github.com/spf13/afero"
)

// BackendName is the name the filesystem registers under.
const BackendName = "dropbox"

// Option names accepted by the backend descriptor.
const (
	// OptionClient is the required pre-authenticated remote client
	// (a dropbox.Client).
	OptionClient = "client"
	// OptionMaxListPages optionally overrides the pagination cap (an int).
	OptionMaxListPages = "max_list_pages"
)

// Descriptor returns the backend descriptor for registration.
func Descriptor() backend.Descriptor {
	return backend.Descriptor{
		Name: BackendName,
		Options: []backend.OptionSpec{
			{
				Name:        OptionClient,
				Description: "pre-authenticated remote storage client",
				Required:    true,
			},
			{
				Name:        OptionMaxListPages,
				Description: "directory listing continuation page cap",
			},
		},
		Available: func(opts backend.Options) bool {
			client, ok := opts[OptionClient].(dropbox.Client)
			return ok && client != nil
		},
		New: func(opts backend.Options) (afero.Fs, error) {
			client, ok := opts[OptionClient].(dropbox.Client)
			if !ok || client == nil {
				return nil, fmt.Errorf("backend %s: option %q must hold a remote client", BackendName, OptionClient)
			}

			var fsOpts []Option
			if raw, present := opts[OptionMaxListPages]; present {
				pages, ok := raw.(int)
				if !ok || pages < 1 {
					return nil, fmt.Errorf("backend %s: option %q must be a positive int", BackendName, OptionMaxListPages)
				}
				fsOpts = append(fsOpts, WithMaxListPages(pages))
			}

			return New(client, fsOpts...), nil
		},
	}
}
