package vision

import (
	"image"

	"github.com/nfnt/resize"
)

// Model input geometry. All category models share the same pretrained
// backbone, so the geometry and the normalization statistics are fixed.
const (
	InputSize = 224
	Channels  = 3
)

// TensorLen is the length of one preprocessed image tensor in CHW layout.
const TensorLen = Channels * InputSize * InputSize

// ImageNet per-channel statistics, RGB order. The backbone was pretrained
// against inputs normalized with these, so they must match exactly.
var (
	imagenetMean = [Channels]float32{0.485, 0.456, 0.406}
	imagenetStd  = [Channels]float32{0.229, 0.224, 0.225}
)

// Preprocess converts a decoded raster into the model input tensor:
// resize to 224x224, scale to [0,1], then normalize per channel with the
// ImageNet statistics. The output layout is CHW with RGB plane order,
// batch dimension of 1 implied.
func Preprocess(img image.Image) []float32 {
	resized := resize.Resize(InputSize, InputSize, img, resize.Lanczos3)

	tensor := make([]float32, TensorLen)
	const plane = InputSize * InputSize

	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			idx := y*InputSize + x
			tensor[idx] = (float32(r)/65535.0 - imagenetMean[0]) / imagenetStd[0]
			tensor[plane+idx] = (float32(g)/65535.0 - imagenetMean[1]) / imagenetStd[1]
			tensor[2*plane+idx] = (float32(b)/65535.0 - imagenetMean[2]) / imagenetStd[2]
		}
	}
	return tensor
}
