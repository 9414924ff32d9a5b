package scanner

import (
	"errors"
	"image"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoCode means the frame held no decodable QR symbol. It is a
// continuation signal, never surfaced past the pipeline.
var ErrNoCode = errors.New("no QR code in frame")

// FrameDecoder attempts to extract a raw QR payload from one frame.
type FrameDecoder interface {
	DecodeFrame(img image.Image) (string, error)
}

type zxingDecoder struct {
	reader gozxing.Reader
}

// NewDecoder returns the default QR frame decoder.
func NewDecoder() FrameDecoder {
	return &zxingDecoder{reader: zxqrcode.NewQRCodeReader()}
}

func (d *zxingDecoder) DecodeFrame(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", ErrNoCode
	}
	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		return "", ErrNoCode
	}
	return result.GetText(), nil
}
