// Package dropbox provides a minimal client for the Dropbox API v2 file
// operations consumed by the filesystem adapter.
package dropbox

import "time"

// Metadata tag values returned by the remote store.
const (
	TagFile    = "file"
	TagFolder  = "folder"
	TagDeleted = "deleted"
)

// WriteMode selects the conflict policy for uploads.
type WriteMode string

const (
	// WriteModeAdd fails the upload when the path already exists.
	WriteModeAdd WriteMode = "add"
	// WriteModeOverwrite replaces any existing content at the path.
	WriteModeOverwrite WriteMode = "overwrite"
)

// Metadata describes a single remote entry. Tag discriminates between file,
// folder and deleted entries; size and server-modified time are only set for
// files.
type Metadata struct {
	Tag            string    `json:".tag"`
	Name           string    `json:"name"`
	PathLower      string    `json:"path_lower"`
	PathDisplay    string    `json:"path_display"`
	ID             string    `json:"id"`
	Size           uint64    `json:"size"`
	ServerModified time.Time `json:"server_modified"`
	ContentHash    string    `json:"content_hash"`
}

// IsFolder reports whether the entry is a folder.
func (m *Metadata) IsFolder() bool {
	return m.Tag == TagFolder
}

// ListResult is one page of a folder listing. Cursor continues the listing
// when HasMore is set.
type ListResult struct {
	Entries []*Metadata `json:"entries"`
	Cursor  string      `json:"cursor"`
	HasMore bool        `json:"has_more"`
}
