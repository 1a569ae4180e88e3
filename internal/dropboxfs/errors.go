package dropboxfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/dropmount/dropmount/internal/dropbox"
)

// translate maps the remote store's tagged-union error value onto a
// POSIX-style errno. Wrapper tags recurse into their nested value, so a
// leaf produces the same errno at any wrapping depth.
func translate(v *dropbox.ErrorValue) error {
	switch v.Tag {
	case "path", "path_lookup", "path_write", "from_lookup", "from_write", "to", "reason":
		if v.Inner != nil {
			return translate(v.Inner)
		}
		return fmt.Errorf("%s: %w", v.Tag, syscall.EINVAL)
	case "malformed_path":
		return syscall.EBADF
	case "disallowed_name", "duplicated_or_nested_paths", "cant_move_folder_into_itself":
		return syscall.EINVAL
	case "not_found":
		return syscall.ENOENT
	case "not_file":
		return syscall.EISDIR
	case "not_folder":
		return syscall.ENOTDIR
	case "restricted_content", "no_write_permission", "conflict", "team_folder",
		"cant_copy_shared_folder", "cant_nest_shared_folder", "cant_move_shared_folder":
		return syscall.EPERM
	case "insufficient_space", "insufficient_quota", "too_many_files":
		return syscall.ENOSPC
	case "too_many_write_operations":
		return syscall.EAGAIN
	case "locked", "file_lock_conflict":
		return syscall.EBUSY
	case "content_hash_mismatch":
		return syscall.EBADMSG
	case "unsupported_content_type":
		return syscall.ENOMSG
	case "payload_too_large":
		return syscall.EMSGSIZE
	case "internal_error", "cant_transfer_ownership", "suppressed",
		"template_error", "properties_error", "other":
		return syscall.EIO
	default:
		// Unrecognized tags keep their text for diagnostics.
		return fmt.Errorf("%s: %w", v.Tag, syscall.EINVAL)
	}
}

// mapPathErr shapes a remote failure into a *fs.PathError for op on name.
func mapPathErr(op, name string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *dropbox.APIError
	if errors.As(err, &apiErr) {
		return &fs.PathError{Op: op, Path: name, Err: translate(&apiErr.Value)}
	}

	return &fs.PathError{Op: op, Path: name, Err: err}
}

// mapLinkErr shapes a remote failure into an *os.LinkError for rename.
func mapLinkErr(oldname, newname string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *dropbox.APIError
	if errors.As(err, &apiErr) {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: translate(&apiErr.Value)}
	}

	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: err}
}
