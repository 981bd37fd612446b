package arview

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	qrcode "github.com/skip2/go-qrcode"
)

// handoffQRSize is the side length in pixels of the handoff code.
const handoffQRSize = 192

// handoffQR encodes url as a QR code image of size x size pixels.
func handoffQR(url string, size int) (image.Image, error) {
	if url == "" {
		return nil, errors.New("empty handoff url")
	}
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode handoff url: %w", err)
	}
	return qr.Image(size), nil
}

// HandoffImage renders url as a QR code so a user on an unsupported device
// can continue on a phone.
func HandoffImage(url string, size int) (*ebiten.Image, error) {
	img, err := handoffQR(url, size)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}
