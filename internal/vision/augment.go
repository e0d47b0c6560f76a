package vision

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/disintegration/gift"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Augmentation ranges, matching the transforms the category models were
// designed around. Applied to the train split only, before normalization.
const (
	flipProbability = 0.5
	maxRotation     = 45.0 // degrees either way
	jitterAmount    = 0.3  // brightness/contrast/saturation, fraction
	hueAmount       = 0.1  // fraction of a half hue cycle
	minCropScale    = 0.7  // of original area
	maxTranslate    = 0.1  // of each dimension
	maxShear        = 10.0 // degrees
)

// Augmenter applies the randomized training-time transform chain:
// horizontal/vertical flips, rotation, color jitter, random resized crop
// and a small random affine. Each Augmenter owns its RNG, so a trainer
// run seeds once and replays deterministically.
type Augmenter struct {
	rng *rand.Rand
}

// NewAugmenter returns an Augmenter seeded for reproducible runs.
func NewAugmenter(seed int64) *Augmenter {
	return &Augmenter{rng: rand.New(rand.NewSource(seed))}
}

// Apply runs the randomized transform chain and returns a 224x224 raster
// ready for Preprocess.
func (a *Augmenter) Apply(img image.Image) image.Image {
	var filters []gift.Filter

	if a.rng.Float64() < flipProbability {
		filters = append(filters, gift.FlipHorizontal())
	}
	if a.rng.Float64() < flipProbability {
		filters = append(filters, gift.FlipVertical())
	}

	angle := a.uniform(-maxRotation, maxRotation)
	filters = append(filters, gift.Rotate(float32(angle), color.Black, gift.CubicInterpolation))

	// gift percentages run -100..100; hue shift is in degrees.
	filters = append(filters,
		gift.Brightness(float32(a.uniform(-jitterAmount, jitterAmount)*100)),
		gift.Contrast(float32(a.uniform(-jitterAmount, jitterAmount)*100)),
		gift.Saturation(float32(a.uniform(-jitterAmount, jitterAmount)*100)),
		gift.Hue(float32(a.uniform(-hueAmount, hueAmount)*360)),
	)

	g := gift.New(filters...)
	jittered := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(jittered, img)

	cropped := a.randomResizedCrop(jittered)
	return a.randomAffine(cropped)
}

// randomResizedCrop takes a random sub-region covering minCropScale..1.0
// of the source area and rescales it to the model input size.
func (a *Augmenter) randomResizedCrop(img *image.RGBA) image.Image {
	bounds := img.Bounds()
	scale := math.Sqrt(a.uniform(minCropScale, 1.0))
	cropW := int(scale * float64(bounds.Dx()))
	cropH := int(scale * float64(bounds.Dy()))
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}

	x0 := bounds.Min.X + a.rng.Intn(bounds.Dx()-cropW+1)
	y0 := bounds.Min.Y + a.rng.Intn(bounds.Dy()-cropH+1)
	rect := image.Rect(x0, y0, x0+cropW, y0+cropH)

	g := gift.New(
		gift.Crop(rect),
		gift.Resize(InputSize, InputSize, gift.LanczosResampling),
	)
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// randomAffine applies a small translation and horizontal shear.
func (a *Augmenter) randomAffine(img image.Image) image.Image {
	bounds := img.Bounds()
	tx := a.uniform(-maxTranslate, maxTranslate) * float64(bounds.Dx())
	ty := a.uniform(-maxTranslate, maxTranslate) * float64(bounds.Dy())
	shear := math.Tan(a.uniform(-maxShear, maxShear) * math.Pi / 180)

	m := f64.Aff3{
		1, shear, tx,
		0, 1, ty,
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.BiLinear.Transform(dst, m, img, bounds, xdraw.Src, nil)
	return dst
}

func (a *Augmenter) uniform(min, max float64) float64 {
	return min + a.rng.Float64()*(max-min)
}
