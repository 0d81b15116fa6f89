// Package fingerprint turns credential sample images into comparable
// templates: an exact grayscale digest and a 64-bit difference hash.
package fingerprint

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Decode parses sample bytes into an image. JPEG, PNG, GIF and BMP are
// accepted.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// GrayHash computes the MD5 digest of the image's 8-bit luma plane at
// its original resolution. Identical pixel data always produces the
// same digest, so exact-equality matching has no false positives.
func GrayHash(img image.Image) string {
	gray := toGray(img)
	sum := md5.Sum(gray.Pix)
	return hex.EncodeToString(sum[:])
}

// DHash computes a 64-bit difference hash: the image is scaled to 9x8,
// converted to luma, and each bit records whether a pixel is brighter
// than its right neighbour. Visually similar images land within a small
// Hamming distance of each other.
func DHash(img image.Image) uint64 {
	resized := resize(img, 9, 8)
	gray := toGray(resized)

	var hash uint64
	bit := 63
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if gray.GrayAt(x, y).Y > gray.GrayAt(x+1, y).Y {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// FormatDHash renders a dHash as a fixed-width hex string for storage.
func FormatDHash(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}

// ParseDHash parses a stored dHash hex string.
func ParseDHash(s string) (uint64, error) {
	hash, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dhash %q: %w", s, err)
	}
	return hash, nil
}

// HammingDistance counts differing bits between two 64-bit hashes.
func HammingDistance(a, b uint64) int {
	xor := a ^ b
	distance := 0
	for xor != 0 {
		distance++
		xor &= xor - 1 // clear lowest set bit
	}
	return distance
}

// Similar reports whether two hashes are within threshold bits of each
// other.
func Similar(a, b uint64, threshold int) bool {
	return HammingDistance(a, b) <= threshold
}

// resize scales an image to the given dimensions with bilinear filtering.
func resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// toGray converts an image to an 8-bit grayscale plane using the
// ITU-R BT.601 luma formula.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			gray.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: uint8(luma + 0.5)})
		}
	}
	return gray
}
