package token

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// Image renders the payload for id as a QR PNG of the given pixel size.
func Image(id string, size int) ([]byte, error) {
	return qrcode.Encode(Encode(id), qrcode.Medium, size)
}

// ImageBase64 renders the payload as a base64 PNG for embedding in API
// responses.
func ImageBase64(id string, size int) (string, error) {
	png, err := Image(id, size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
