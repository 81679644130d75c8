// Package id generates opaque record identifiers.
//
// Identifiers are 26-character lowercase base32 strings derived from 16
// bytes of crypto/rand entropy, safe for use in URLs and SQL keys.
package id

import (
	crand "crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a new random identifier.
func NewID() (string, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random id bytes: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(b[:])), nil
}
