package photon

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the hex-encoded BLAKE3 hash of the decoded pixels of layer n.
func (f *File) Digest(n int) (string, error) {
	pix, err := f.Layer(n)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(pix)
	return hex.EncodeToString(sum[:]), nil
}
