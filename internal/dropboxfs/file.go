package dropboxfs

import (
	"context"
	"io"
	"io/fs"
	"os"
	"sync"
	"syscall"

	"github.com/spf13/afero"
)

// File is an open handle. File content lives in an in-memory buffer:
// fetched whole on open, mutated locally, and uploaded whole on Sync or on
// Close of a dirty handle. Directory handles list their children through
// the paginated remote listing.
type File struct {
	fs   *Fs
	ctx  context.Context
	name string
	flag int

	mu     sync.Mutex
	info   fs.FileInfo
	buf    []byte
	off    int64
	dirty  bool
	closed bool

	dir     bool
	entries []fs.FileInfo
	listed  bool
	dirOff  int
}

var _ afero.File = (*File)(nil)

func newFile(d *Fs, ctx context.Context, name string, data []byte, flag int, info fs.FileInfo) *File {
	return &File{
		fs:   d,
		ctx:  ctx,
		name: name,
		flag: flag,
		info: info,
		buf:  data,
	}
}

func newDir(d *Fs, ctx context.Context, name string, info fs.FileInfo) *File {
	return &File{
		fs:   d,
		ctx:  ctx,
		name: name,
		info: info,
		dir:  true,
	}
}

func (f *File) Name() string {
	return f.name
}

// Close flushes a dirty buffer and invalidates the handle.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: "close", Path: f.name, Err: syscall.EBADF}
	}
	f.closed = true

	if f.dirty {
		if err := f.fs.sync(f.ctx, f.name, f.buf); err != nil {
			return err
		}
		f.dirty = false
	}

	return nil
}

// Sync uploads the full buffered content with overwrite semantics.
func (f *File) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: "sync", Path: f.name, Err: syscall.EBADF}
	}
	if f.dir {
		return nil
	}

	if err := f.fs.sync(f.ctx, f.name, f.buf); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

func (f *File) Stat() (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dir {
		return f.info, nil
	}

	// Reflect local, not-yet-flushed mutations in the size.
	return fileInfo{
		name:    f.info.Name(),
		size:    int64(len(f.buf)),
		mode:    f.info.Mode(),
		modTime: f.info.ModTime(),
	}, nil
}

func (f *File) readable() bool {
	return f.flag&os.O_WRONLY == 0
}

func (f *File) writable() bool {
	return f.flag&(os.O_WRONLY|os.O_RDWR) != 0
}

func (f *File) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, err := f.readAt(p, f.off)
	f.off += int64(n)
	return n, err
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.readAt(p, off)
}

func (f *File) readAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: syscall.EBADF}
	}
	if f.dir {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: syscall.EISDIR}
	}
	if !f.readable() {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: syscall.EBADF}
	}
	if off < 0 {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: syscall.EINVAL}
	}
	if off >= int64(len(f.buf)) {
		return 0, io.EOF
	}

	n := copy(p, f.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: syscall.EBADF}
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.off + offset
	case io.SeekEnd:
		abs = int64(len(f.buf)) + offset
	default:
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: syscall.EINVAL}
	}

	if abs < 0 {
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: syscall.EINVAL}
	}

	f.off = abs
	return abs, nil
}

func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.flag&os.O_APPEND != 0 {
		f.off = int64(len(f.buf))
	}

	n, err := f.writeAt(p, f.off)
	f.off += int64(n)
	return n, err
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.writeAt(p, off)
}

func (f *File) writeAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: syscall.EBADF}
	}
	if f.dir {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: syscall.EISDIR}
	}
	if !f.writable() {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: syscall.EBADF}
	}
	if off < 0 {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: syscall.EINVAL}
	}

	if grown := off + int64(len(p)); grown > int64(len(f.buf)) {
		padded := make([]byte, grown)
		copy(padded, f.buf)
		f.buf = padded
	}

	copy(f.buf[off:], p)
	f.dirty = true
	return len(p), nil
}

func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: "truncate", Path: f.name, Err: syscall.EBADF}
	}
	if f.dir {
		return &fs.PathError{Op: "truncate", Path: f.name, Err: syscall.EISDIR}
	}
	if !f.writable() {
		return &fs.PathError{Op: "truncate", Path: f.name, Err: syscall.EBADF}
	}
	if size < 0 {
		return &fs.PathError{Op: "truncate", Path: f.name, Err: syscall.EINVAL}
	}

	if size <= int64(len(f.buf)) {
		f.buf = f.buf[:size]
	} else {
		padded := make([]byte, size)
		copy(padded, f.buf)
		f.buf = padded
	}

	f.dirty = true
	return nil
}

// Readdir lists the directory's children. The listing is fetched once per
// handle, following continuation pages in order.
func (f *File) Readdir(count int) ([]fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, &fs.PathError{Op: "readdir", Path: f.name, Err: syscall.EBADF}
	}
	if !f.dir {
		return nil, &fs.PathError{Op: "readdir", Path: f.name, Err: syscall.ENOTDIR}
	}

	if !f.listed {
		entries, err := f.fs.listDir(f.ctx, f.name)
		if err != nil {
			return nil, err
		}
		f.entries = entries
		f.listed = true
	}

	if count <= 0 {
		remaining := f.entries[f.dirOff:]
		f.dirOff = len(f.entries)
		return remaining, nil
	}

	if f.dirOff >= len(f.entries) {
		return nil, io.EOF
	}

	end := f.dirOff + count
	if end > len(f.entries) {
		end = len(f.entries)
	}
	window := f.entries[f.dirOff:end]
	f.dirOff = end
	return window, nil
}

func (f *File) Readdirnames(n int) ([]string, error) {
	infos, err := f.Readdir(n)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}
