package chart

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DomainDescription separates description hashes from any other hash use.
// The version suffix allows changing the encoding later.
const DomainDescription = "launchdash/chart/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns a content hash of the description, suitable as an HTTP ETag.
//
// encoding/json emits struct fields in declaration order, so equal
// descriptions always hash equally.
func (d Description) Hash() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDescription, data), nil
}
