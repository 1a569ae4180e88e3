package dropbox

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash_Empty(t *testing.T) {
	got, err := ContentHash(bytes.NewReader(nil))
	require.NoError(t, err)

	// No blocks: the overall hash is SHA-256 of the empty string.
	empty := sha256.Sum256(nil)
	assert.Equal(t, hex.EncodeToString(empty[:]), got)
}

func TestContentHash_SingleBlock(t *testing.T) {
	data := []byte("hello dropmount")

	got, err := ContentHash(bytes.NewReader(data))
	require.NoError(t, err)

	blockSum := sha256.Sum256(data)
	overall := sha256.Sum256(blockSum[:])
	assert.Equal(t, hex.EncodeToString(overall[:]), got)
}

func TestContentHash_MultiBlock(t *testing.T) {
	// One full block plus a partial second block.
	data := make([]byte, ContentHashBlockSize+10)
	for i := range data {
		data[i] = byte(i % 251)
	}

	got, err := ContentHash(bytes.NewReader(data))
	require.NoError(t, err)

	first := sha256.Sum256(data[:ContentHashBlockSize])
	second := sha256.Sum256(data[ContentHashBlockSize:])
	overall := sha256.New()
	overall.Write(first[:])
	overall.Write(second[:])
	assert.Equal(t, hex.EncodeToString(overall.Sum(nil)), got)
}

func TestContentHash_ExactBlockBoundary(t *testing.T) {
	data := make([]byte, ContentHashBlockSize)

	got, err := ContentHash(bytes.NewReader(data))
	require.NoError(t, err)

	blockSum := sha256.Sum256(data)
	overall := sha256.Sum256(blockSum[:])
	assert.Equal(t, hex.EncodeToString(overall[:]), got)
}
