package dropboxfs

import (
	"testing"

	"github.com/dropmount/dropmount/internal/backend"
	"github.com/dropmount/dropmount/internal/dropbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptor_Availability(t *testing.T) {
	d := Descriptor()
	assert.Equal(t, BackendName, d.Name)

	assert.False(t, d.Available(backend.Options{}))
	assert.False(t, d.Available(backend.Options{OptionClient: "not a client"}))
	assert.False(t, d.Available(backend.Options{OptionClient: (dropbox.Client)(nil)}))
	assert.True(t, d.Available(backend.Options{OptionClient: dropbox.Client(&mockClient{})}))
}

func TestDescriptor_New(t *testing.T) {
	d := Descriptor()

	t.Run("missing client", func(t *testing.T) {
		_, err := d.New(backend.Options{})
		assert.Error(t, err)
	})

	t.Run("client only", func(t *testing.T) {
		fs, err := d.New(backend.Options{OptionClient: dropbox.Client(&mockClient{})})
		require.NoError(t, err)
		assert.Equal(t, "dropboxfs", fs.Name())
	})

	t.Run("with page cap", func(t *testing.T) {
		fs, err := d.New(backend.Options{
			OptionClient:       dropbox.Client(&mockClient{}),
			OptionMaxListPages: 7,
		})
		require.NoError(t, err)

		dfs, ok := fs.(*Fs)
		require.True(t, ok)
		assert.Equal(t, 7, dfs.maxListPages)
	})

	t.Run("invalid page cap", func(t *testing.T) {
		_, err := d.New(backend.Options{
			OptionClient:       dropbox.Client(&mockClient{}),
			OptionMaxListPages: "ten",
		})
		assert.Error(t, err)
	})
}

func TestDescriptor_RequiredOptionsDeclared(t *testing.T) {
	d := Descriptor()

	require.Error(t, d.CheckOptions(backend.Options{}))
	assert.NoError(t, d.CheckOptions(backend.Options{OptionClient: dropbox.Client(&mockClient{})}))
}

func TestDescriptor_Registers(t *testing.T) {
	r := backend.NewRegistry()
	require.NoError(t, r.Register(Descriptor()))

	got, ok := r.Lookup(BackendName)
	require.True(t, ok)
	assert.Equal(t, BackendName, got.Name)
}
