package credential

import (
	"image"

	"github.com/fdumary/HawkEye/internal/fingerprint"
)

// MaxSampleBytes caps accepted credential sample uploads.
const MaxSampleBytes = 8 << 20

func decode(sample []byte) (image.Image, error) {
	return fingerprint.Decode(sample)
}
