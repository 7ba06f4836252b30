package export

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// stampQR draws a QR code for url in the bottom-right corner of dst.
func stampQR(dst draw.Image, url string) error {
	b := dst.Bounds()
	size := min(b.Dx(), b.Dy()) / 5
	if size < 21 {
		return fmt.Errorf("canvas %dx%d too small for a QR code", b.Dx(), b.Dy())
	}

	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return err
	}
	img := code.Image(size)

	margin := size / 10
	at := image.Rect(b.Max.X-margin-size, b.Max.Y-margin-size, b.Max.X-margin, b.Max.Y-margin)
	draw.Draw(dst, at, img, img.Bounds().Min, draw.Src)
	return nil
}
