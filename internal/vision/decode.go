// Package vision decodes and preprocesses uploaded images into the fixed
// tensor layout the classification models expect. It is shared by the
// serving path and the offline trainer.
package vision

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// Decode parses raw image bytes into a raster. The whole pipeline works on
// in-memory buffers; nothing is staged to disk.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &model.DecodeError{Reason: "failed to load image"}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &model.DecodeError{Reason: "failed to load image", Err: err}
	}
	return img, nil
}
