// Package fingerprint derives the deterministic identity hash for one
// computation request from its birth parameters.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/astrovault/natalcore/internal/domain"
)

// Hash returns a hex-encoded SHA-256 digest over the birth parameters
// joined with a fixed delimiter. Identical tuples always yield the same
// digest. No normalization happens here: whitespace or format differences
// the caller did not canonicalize produce a different digest.
func Hash(details domain.BirthDetails) string {
	data := fmt.Sprintf("%s|%s|%v|%v|%s",
		details.Date,
		details.Time,
		details.Latitude,
		details.Longitude,
		details.Timezone,
	)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
