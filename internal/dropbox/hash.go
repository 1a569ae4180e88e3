package dropbox

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// ContentHashBlockSize is the block size of the remote store's content hash
// algorithm.
const ContentHashBlockSize = 4 * 1024 * 1024

// ContentHash computes the Dropbox content hash of r: the hex SHA-256 of
// the concatenated SHA-256 digests of each 4 MiB block. It matches the
// content_hash field of file metadata.
func ContentHash(r io.Reader) (string, error) {
	overall := sha256.New()
	block := make([]byte, ContentHashBlockSize)

	for {
		n, err := io.ReadFull(r, block)
		if n > 0 {
			sum := sha256.Sum256(block[:n])
			overall.Write(sum[:])
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(overall.Sum(nil)), nil
}
