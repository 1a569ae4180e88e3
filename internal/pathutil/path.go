// Package pathutil provides path normalization utilities for mapping
// virtual-filesystem paths onto remote store paths.
package pathutil

import (
	"path"
	"strings"
)

// SlashClean normalizes a path to a clean, absolute, slash-separated form.
// Backslashes are treated as separators so Windows-style input behaves.
func SlashClean(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" || name[0] != '/' {
		name = "/" + name
	}
	return path.Clean(name)
}

// Remote converts a virtual-filesystem path into the form the remote store
// expects: the empty string for the root, a single-leading-slash absolute
// path for everything else.
func Remote(name string) string {
	name = SlashClean(name)
	if name == "/" {
		return ""
	}
	return name
}

// Parent returns the parent of a cleaned virtual path. The parent of the
// root is the root itself.
func Parent(name string) string {
	return path.Dir(SlashClean(name))
}

// Base returns the last element of a cleaned virtual path.
func Base(name string) string {
	return path.Base(SlashClean(name))
}

// IsRoot reports whether name refers to the virtual root directory.
func IsRoot(name string) bool {
	return SlashClean(name) == "/"
}
