package dropbox

import "context"

// Client is the remote storage operations the filesystem adapter consumes.
// Paths are root-relative: "" for the root, "/a/b" otherwise. Implementations
// own authentication, transport and transient-failure retries; callers treat
// every call as a single remote operation.
type Client interface {
	// GetMetadata fetches the metadata of a single entry. The root path
	// cannot be described by the remote store and must not be passed.
	GetMetadata(ctx context.Context, path string) (*Metadata, error)

	// Download fetches the full content of a file along with its metadata.
	Download(ctx context.Context, path string) ([]byte, *Metadata, error)

	// Upload replaces or creates the file at path with the given content.
	Upload(ctx context.Context, path string, data []byte, mode WriteMode) (*Metadata, error)

	// Delete removes the entry at path. Folder deletion is recursive.
	Delete(ctx context.Context, path string) (*Metadata, error)

	// CreateFolder creates a folder, including missing parents.
	CreateFolder(ctx context.Context, path string) (*Metadata, error)

	// Move relocates an entry. The remote store refuses to overwrite an
	// existing destination.
	Move(ctx context.Context, fromPath, toPath string) (*Metadata, error)

	// ListFolder starts a paginated listing of a folder's direct children.
	ListFolder(ctx context.Context, path string) (*ListResult, error)

	// ListFolderContinue fetches the next page for a cursor returned by
	// ListFolder.
	ListFolderContinue(ctx context.Context, cursor string) (*ListResult, error)
}
