package qr

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Encoder renders content as a scannable image embeddable in a JSON response.
type Encoder interface {
	// DataURI returns the content encoded as a QR code PNG data URI.
	DataURI(content string) (string, error)
}

type pngEncoder struct {
	size int
}

// NewPNGEncoder creates an Encoder producing size x size pixel PNGs.
func NewPNGEncoder(size int) Encoder {
	if size <= 0 {
		size = 256
	}
	return &pngEncoder{size: size}
}

func (e *pngEncoder) DataURI(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr content is empty")
	}
	png, err := qrcode.Encode(content, qrcode.Medium, e.size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
