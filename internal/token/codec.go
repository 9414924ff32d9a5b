// Package token implements the QR payload codec. The payload embedded in a
// scannable symbol is a namespaced ASCII string, "pagcore:<id>", so scanners
// can reject codes belonging to other schemes without a server round trip.
package token

import (
	"errors"
	"strings"
)

// Namespace is the literal prefix marking a payload as ours.
const Namespace = "pagcore"

const (
	prefix   = Namespace + ":"
	maxIDLen = 64
)

// ErrMalformedPayload is returned for any scanned or typed value that is not
// a well-formed pagcore payload. Arbitrary garbage must map here, never panic.
var ErrMalformedPayload = errors.New("malformed token payload")

// Encode turns a token id into its scannable payload.
func Encode(id string) string {
	return prefix + id
}

// Decode extracts the token id from a payload. Round-trip safe:
// Decode(Encode(id)) == id for every valid id.
func Decode(payload string) (string, error) {
	if !strings.HasPrefix(payload, prefix) {
		return "", ErrMalformedPayload
	}
	id := payload[len(prefix):]
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

// ValidateID checks the token id shape: non-empty, bounded length,
// alphanumeric ASCII only. Shared with the manual-entry path so a typed id is
// held to the same rule as a scanned one.
func ValidateID(id string) error {
	if id == "" || len(id) > maxIDLen {
		return ErrMalformedPayload
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			continue
		}
		return ErrMalformedPayload
	}
	return nil
}
