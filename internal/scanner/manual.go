package scanner

import (
	"errors"
	"strings"

	"pagcore/internal/token"
)

// ErrInvalidFormat rejects a typed code locally, before any server call.
var ErrInvalidFormat = errors.New("invalid code format")

// SubmitManualCode accepts an operator-typed token identifier for devices
// without camera access. It takes either the bare id or the full scanned
// payload (users paste both) and holds it to the same shape rule as a scan.
// The returned id feeds the exact same lookup and redemption path as a
// pipeline result.
func SubmitManualCode(typed string) (string, error) {
	v := strings.TrimSpace(typed)

	if id, err := token.Decode(v); err == nil {
		return id, nil
	}
	if err := token.ValidateID(v); err != nil {
		return "", ErrInvalidFormat
	}
	return v, nil
}
