//go:build !darwin || CI

package bindings

import (
	"github.com/kbinani/screenshot"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi/qrcode"
)

func (b *Bindings) ScreenshotQR() ([]string, error) {
	codes := []string{}

	screens := screenshot.NumActiveDisplays()
	reader := qrcode.NewQRCodeMultiReader()
	for i := 0; i < screens; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		b.logger.Debug("capturing screen", "index", i, "bounds", bounds)
		img, err := screenshot.CaptureRect(bounds)
		if err != nil {
			return codes, err
		}

		bmp, err := gozxing.NewBinaryBitmapFromImage(img)
		if err != nil {
			return codes, err
		}

		result, err := reader.DecodeMultiple(bmp, nil)
		if err == nil {
			for _, result := range result {
				b.logger.Debug("QR code found", "screen", i, "points", result.GetResultPoints())
				codes = append(codes, result.GetText())
			}
		}
	}

	return codes, nil
}
