// Package dropboxfs adapts the afero filesystem contract to a remote
// Dropbox-style object store. Every operation is stateless: stats are
// recomputed per call, file contents are fetched eagerly on open and
// written back wholesale on sync, and remote failures are translated into
// POSIX-style errors.
package dropboxfs

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/dropmount/dropmount/internal/dropbox"
	"github.com/dropmount/dropmount/internal/pathutil"
	"github.com/dropmount/dropmount/internal/slogutil"
	"github.com/spf13/afero"
)

// DefaultMaxListPages caps directory listing continuation fetches. The cap
// guards against a malformed cursor chain looping forever.
const DefaultMaxListPages = 100

// Fs implements afero.Fs on top of a remote storage client.
type Fs struct {
	client       dropbox.Client
	log          *slog.Logger
	maxListPages int
}

var (
	_ afero.Fs         = (*Fs)(nil)
	_ afero.Lstater    = (*Fs)(nil)
	_ afero.Symlinker  = (*Fs)(nil)
	_ afero.LinkReader = (*Fs)(nil)
)

// Option configures the filesystem.
type Option func(*Fs)

// WithMaxListPages overrides the directory listing pagination cap.
func WithMaxListPages(n int) Option {
	return func(d *Fs) {
		if n > 0 {
			d.maxListPages = n
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(log *slog.Logger) Option {
	return func(d *Fs) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates a filesystem backed by the given remote client.
func New(client dropbox.Client, opts ...Option) *Fs {
	d := &Fs{
		client:       client,
		log:          slog.Default(),
		maxListPages: DefaultMaxListPages,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Name returns the filesystem name.
func (d *Fs) Name() string {
	return "dropboxfs"
}

// fileInfo is the fs.FileInfo synthesized from remote metadata.
type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi fileInfo) ModTime() time.Time { return fi.modTime }
func (fi fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fileInfo) Sys() any           { return nil }

func rootInfo() fs.FileInfo {
	return fileInfo{
		name: "/",
		mode: fs.ModeDir | 0o755,
	}
}

func infoFromMetadata(meta *dropbox.Metadata) fs.FileInfo {
	if meta.IsFolder() {
		return fileInfo{
			name: meta.Name,
			mode: fs.ModeDir | 0o755,
		}
	}

	return fileInfo{
		name:    meta.Name,
		size:    int64(meta.Size),
		mode:    0o644,
		modTime: meta.ServerModified,
	}
}

// Stat returns file information. The root is never queried remotely; it
// always yields a synthetic directory descriptor.
func (d *Fs) Stat(name string) (fs.FileInfo, error) {
	ctx := slogutil.With(context.Background(), "file_path", name)
	return d.stat(ctx, pathutil.SlashClean(name))
}

func (d *Fs) stat(ctx context.Context, name string) (fs.FileInfo, error) {
	if pathutil.IsRoot(name) {
		return rootInfo(), nil
	}

	meta, err := d.client.GetMetadata(ctx, pathutil.Remote(name))
	if err != nil {
		return nil, mapPathErr("stat", name, err)
	}

	switch meta.Tag {
	case dropbox.TagFile, dropbox.TagFolder:
		return infoFromMetadata(meta), nil
	case dropbox.TagDeleted:
		return nil, &fs.PathError{Op: "stat", Path: name, Err: syscall.ENOENT}
	default:
		return nil, &fs.PathError{Op: "stat", Path: name, Err: unknownTagError(meta.Tag)}
	}
}

func unknownTagError(tag string) error {
	return &unknownTag{tag: tag}
}

// unknownTag keeps the unrecognized remote type tag for diagnostics while
// classifying as invalid argument.
type unknownTag struct {
	tag string
}

func (e *unknownTag) Error() string {
	return "unrecognized metadata tag " + e.tag + ": invalid argument"
}

func (e *unknownTag) Is(target error) bool {
	return target == syscall.EINVAL
}

// Open opens a file or directory for reading.
func (d *Fs) Open(name string) (afero.File, error) {
	return d.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens the named entry. File content is downloaded eagerly into
// an in-memory buffer; writes stay local until Sync or Close uploads the
// whole buffer.
func (d *Fs) OpenFile(name string, flag int, _ os.FileMode) (afero.File, error) {
	name = pathutil.SlashClean(name)
	ctx := slogutil.With(context.Background(), "file_path", name)

	info, err := d.stat(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, syscall.ENOENT) && flag&os.O_CREATE != 0:
		return d.create(ctx, name, flag)
	default:
		return nil, err
	}

	if info.IsDir() {
		if isWriteFlag(flag) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: syscall.EISDIR}
		}
		return newDir(d, ctx, name, info), nil
	}

	if flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: syscall.EEXIST}
	}

	if flag&os.O_TRUNC != 0 {
		return d.create(ctx, name, flag)
	}

	data, meta, err := d.client.Download(ctx, pathutil.Remote(name))
	if err != nil {
		return nil, mapPathErr("open", name, err)
	}

	d.log.DebugContext(ctx, "opened remote file", "size", len(data))

	f := newFile(d, ctx, name, data, flag, infoFromMetadata(meta))
	if flag&os.O_APPEND != 0 {
		f.off = int64(len(data))
	}
	return f, nil
}

// Create establishes the entry remotely with a zero-length upload and
// returns a handle seeded with empty content.
func (d *Fs) Create(name string) (afero.File, error) {
	name = pathutil.SlashClean(name)
	ctx := slogutil.With(context.Background(), "file_path", name)

	return d.create(ctx, name, os.O_RDWR|os.O_CREATE|os.O_TRUNC)
}

func (d *Fs) create(ctx context.Context, name string, flag int) (afero.File, error) {
	meta, err := d.client.Upload(ctx, pathutil.Remote(name), nil, dropbox.WriteModeOverwrite)
	if err != nil {
		return nil, mapPathErr("create", name, err)
	}

	info := fileInfo{
		name:    pathutil.Base(name),
		mode:    0o644,
		modTime: meta.ServerModified,
	}
	if info.modTime.IsZero() {
		info.modTime = time.Now()
	}

	return newFile(d, ctx, name, nil, flag, info), nil
}

// Remove removes a file or an empty directory.
func (d *Fs) Remove(name string) error {
	name = pathutil.SlashClean(name)
	ctx := slogutil.With(context.Background(), "file_path", name)

	info, err := d.stat(ctx, name)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return d.rmdir(ctx, name)
	}

	return d.unlink(ctx, name)
}

// Unlink removes a file, failing with EISDIR on a directory.
func (d *Fs) Unlink(name string) error {
	name = pathutil.SlashClean(name)
	ctx := slogutil.With(context.Background(), "file_path", name)

	info, err := d.stat(ctx, name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "unlink", Path: name, Err: syscall.EISDIR}
	}

	return d.unlink(ctx, name)
}

func (d *Fs) unlink(ctx context.Context, name string) error {
	if _, err := d.client.Delete(ctx, pathutil.Remote(name)); err != nil {
		return mapPathErr("remove", name, err)
	}
	return nil
}

// Rmdir removes a directory, failing with ENOTEMPTY when it has entries.
func (d *Fs) Rmdir(name string) error {
	name = pathutil.SlashClean(name)
	ctx := slogutil.With(context.Background(), "file_path", name)

	return d.rmdir(ctx, name)
}

func (d *Fs) rmdir(ctx context.Context, name string) error {
	entries, err := d.listDir(ctx, name)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return &fs.PathError{Op: "remove", Path: name, Err: syscall.ENOTEMPTY}
	}

	if _, err := d.client.Delete(ctx, pathutil.Remote(name)); err != nil {
		return mapPathErr("remove", name, err)
	}
	return nil
}

// RemoveAll removes the entry and any children. The remote delete is
// natively recursive, so no emptiness check is made. A missing path is
// not an error.
func (d *Fs) RemoveAll(name string) error {
	name = pathutil.SlashClean(name)
	ctx := slogutil.With(context.Background(), "file_path", name)

	if _, err := d.client.Delete(ctx, pathutil.Remote(name)); err != nil {
		mapped := mapPathErr("removeall", name, err)
		if errors.Is(mapped, syscall.ENOENT) {
			return nil
		}
		return mapped
	}
	return nil
}

// Mkdir creates a directory. Remote folder creation is implicitly
// recursive, so the parent is checked explicitly to keep non-recursive
// semantics.
func (d *Fs) Mkdir(name string, _ os.FileMode) error {
	name = pathutil.SlashClean(name)
	ctx := slogutil.With(context.Background(), "file_path", name)

	if pathutil.IsRoot(name) {
		return &fs.PathError{Op: "mkdir", Path: name, Err: syscall.EEXIST}
	}

	parent := pathutil.Parent(name)
	info, err := d.stat(ctx, parent)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "mkdir", Path: name, Err: syscall.ENOTDIR}
	}

	if _, err := d.client.CreateFolder(ctx, pathutil.Remote(name)); err != nil {
		return mapPathErr("mkdir", name, err)
	}
	return nil
}

// MkdirAll creates a directory along with any missing parents, using the
// remote store's native recursive folder creation.
func (d *Fs) MkdirAll(name string, _ os.FileMode) error {
	name = pathutil.SlashClean(name)
	ctx := slogutil.With(context.Background(), "file_path", name)

	info, err := d.stat(ctx, name)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return &fs.PathError{Op: "mkdir", Path: name, Err: syscall.ENOTDIR}
	case !errors.Is(err, syscall.ENOENT):
		return err
	}

	if _, err := d.client.CreateFolder(ctx, pathutil.Remote(name)); err != nil {
		return mapPathErr("mkdir", name, err)
	}
	return nil
}

// Rename moves an entry. The remote store refuses to overwrite on move, so
// an existing destination file is deleted first; an existing destination
// directory fails with EISDIR. A missing destination equal to the source
// reports the source as missing.
func (d *Fs) Rename(oldname, newname string) error {
	oldname = pathutil.SlashClean(oldname)
	newname = pathutil.SlashClean(newname)
	ctx := slogutil.With(context.Background(), "file_path", oldname, "new_file_path", newname)

	info, err := d.stat(ctx, newname)
	switch {
	case err == nil && info.IsDir():
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EISDIR}
	case err == nil:
		if _, derr := d.client.Delete(ctx, pathutil.Remote(newname)); derr != nil {
			return mapLinkErr(oldname, newname, derr)
		}
	case errors.Is(err, syscall.ENOENT):
		if oldname == newname {
			return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.ENOENT}
		}
	default:
		return err
	}

	if _, err := d.client.Move(ctx, pathutil.Remote(oldname), pathutil.Remote(newname)); err != nil {
		return mapLinkErr(oldname, newname, err)
	}
	return nil
}

// listDir fetches a full directory listing, following continuation pages
// until exhausted or the pagination cap is hit.
func (d *Fs) listDir(ctx context.Context, name string) ([]fs.FileInfo, error) {
	res, err := d.client.ListFolder(ctx, pathutil.Remote(name))
	if err != nil {
		return nil, mapPathErr("readdir", name, err)
	}

	infos := make([]fs.FileInfo, 0, len(res.Entries))
	for _, entry := range res.Entries {
		infos = append(infos, infoFromMetadata(entry))
	}

	for pages := 0; res.HasMore; pages++ {
		if pages >= d.maxListPages {
			return nil, &fs.PathError{Op: "readdir", Path: name, Err: syscall.EIO}
		}

		res, err = d.client.ListFolderContinue(ctx, res.Cursor)
		if err != nil {
			return nil, mapPathErr("readdir", name, err)
		}
		for _, entry := range res.Entries {
			infos = append(infos, infoFromMetadata(entry))
		}
	}

	return infos, nil
}

// sync uploads the full buffered content with overwrite semantics.
func (d *Fs) sync(ctx context.Context, name string, data []byte) error {
	if _, err := d.client.Upload(ctx, pathutil.Remote(name), data, dropbox.WriteModeOverwrite); err != nil {
		return mapPathErr("sync", name, err)
	}
	return nil
}

// Chmod is not supported; mode bits are synthesized on stat.
func (d *Fs) Chmod(name string, _ os.FileMode) error {
	return &fs.PathError{Op: "chmod", Path: name, Err: syscall.ENOTSUP}
}

// Chown is not supported.
func (d *Fs) Chown(name string, _, _ int) error {
	return &fs.PathError{Op: "chown", Path: name, Err: syscall.ENOTSUP}
}

// Chtimes is not supported; modification times come from the remote store.
func (d *Fs) Chtimes(name string, _, _ time.Time) error {
	return &fs.PathError{Op: "chtimes", Path: name, Err: syscall.ENOTSUP}
}

// LstatIfPossible falls back to Stat; the remote store has no symlinks.
func (d *Fs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	info, err := d.Stat(name)
	return info, false, err
}

// SymlinkIfPossible always fails; links are unsupported and no remote call
// is made.
func (d *Fs) SymlinkIfPossible(oldname, newname string) error {
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: syscall.ENOTSUP}
}

// ReadlinkIfPossible always fails; links are unsupported and no remote call
// is made.
func (d *Fs) ReadlinkIfPossible(name string) (string, error) {
	return "", &fs.PathError{Op: "readlink", Path: name, Err: syscall.ENOTSUP}
}

func isWriteFlag(flag int) bool {
	return flag&(os.O_WRONLY|os.O_RDWR) != 0
}
