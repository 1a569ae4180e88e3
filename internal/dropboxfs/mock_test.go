package dropboxfs

import (
	"context"
	"time"

	"github.com/dropmount/dropmount/internal/dropbox"
)

// mockClient records every remote call in order and delegates to optional
// function fields. Unset fields answer not_found so tests only wire what
// they exercise.
type mockClient struct {
	calls []string

	getMetadata  func(path string) (*dropbox.Metadata, error)
	download     func(path string) ([]byte, *dropbox.Metadata, error)
	upload       func(path string, data []byte, mode dropbox.WriteMode) (*dropbox.Metadata, error)
	delete       func(path string) (*dropbox.Metadata, error)
	createFolder func(path string) (*dropbox.Metadata, error)
	move         func(fromPath, toPath string) (*dropbox.Metadata, error)
	listFolder   func(path string) (*dropbox.ListResult, error)
	listContinue func(cursor string) (*dropbox.ListResult, error)
}

var _ dropbox.Client = (*mockClient)(nil)

func (m *mockClient) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockClient) GetMetadata(_ context.Context, path string) (*dropbox.Metadata, error) {
	m.record("get_metadata:" + path)
	if m.getMetadata == nil {
		return nil, notFoundErr()
	}
	return m.getMetadata(path)
}

func (m *mockClient) Download(_ context.Context, path string) ([]byte, *dropbox.Metadata, error) {
	m.record("download:" + path)
	if m.download == nil {
		return nil, nil, notFoundErr()
	}
	return m.download(path)
}

func (m *mockClient) Upload(_ context.Context, path string, data []byte, mode dropbox.WriteMode) (*dropbox.Metadata, error) {
	m.record("upload:" + path)
	if m.upload == nil {
		return fileMeta(path, uint64(len(data))), nil
	}
	return m.upload(path, data, mode)
}

func (m *mockClient) Delete(_ context.Context, path string) (*dropbox.Metadata, error) {
	m.record("delete:" + path)
	if m.delete == nil {
		return fileMeta(path, 0), nil
	}
	return m.delete(path)
}

func (m *mockClient) CreateFolder(_ context.Context, path string) (*dropbox.Metadata, error) {
	m.record("create_folder:" + path)
	if m.createFolder == nil {
		return folderMeta(path), nil
	}
	return m.createFolder(path)
}

func (m *mockClient) Move(_ context.Context, fromPath, toPath string) (*dropbox.Metadata, error) {
	m.record("move:" + fromPath + "->" + toPath)
	if m.move == nil {
		return fileMeta(toPath, 0), nil
	}
	return m.move(fromPath, toPath)
}

func (m *mockClient) ListFolder(_ context.Context, path string) (*dropbox.ListResult, error) {
	m.record("list_folder:" + path)
	if m.listFolder == nil {
		return &dropbox.ListResult{}, nil
	}
	return m.listFolder(path)
}

func (m *mockClient) ListFolderContinue(_ context.Context, cursor string) (*dropbox.ListResult, error) {
	m.record("list_continue:" + cursor)
	if m.listContinue == nil {
		return &dropbox.ListResult{}, nil
	}
	return m.listContinue(cursor)
}

// apiErr builds a remote error with the given wrapping chain, outermost
// tag first.
func apiErr(tags ...string) *dropbox.APIError {
	var root *dropbox.ErrorValue
	var cur *dropbox.ErrorValue
	for _, tag := range tags {
		node := &dropbox.ErrorValue{Tag: tag}
		if root == nil {
			root = node
		} else {
			cur.Inner = node
		}
		cur = node
	}

	return &dropbox.APIError{
		Summary: "test",
		Value:   *root,
		Status:  409,
	}
}

func notFoundErr() *dropbox.APIError {
	return apiErr("path", "not_found")
}

func fileMeta(path string, size uint64) *dropbox.Metadata {
	return &dropbox.Metadata{
		Tag:            dropbox.TagFile,
		Name:           baseName(path),
		PathDisplay:    path,
		PathLower:      path,
		Size:           size,
		ServerModified: time.Date(2025, 5, 12, 15, 50, 38, 0, time.UTC),
	}
}

func folderMeta(path string) *dropbox.Metadata {
	return &dropbox.Metadata{
		Tag:         dropbox.TagFolder,
		Name:        baseName(path),
		PathDisplay: path,
		PathLower:   path,
	}
}

func baseName(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
