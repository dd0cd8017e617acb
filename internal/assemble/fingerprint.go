package assemble

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Fingerprint computes the dedup key for a record: a 128-bit hex digest
// over the identity fields in fixed order. The same algorithm and input
// order must be used for every record so fingerprints stay comparable
// across runs.
func Fingerprint(sourceID, url, title, body string) string {
	h := sha256.New()
	for _, part := range []string{sourceID, url, title, body} {
		io.WriteString(h, part)
		h.Write([]byte{'\n'})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
