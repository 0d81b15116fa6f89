// Package credential decides whether a presented sample matches a
// stored template. The comparator is pluggable so the hash stand-in
// can be swapped for a real biometric matcher without touching the
// verifier contract.
package credential

import (
	"fmt"
	"image"

	"github.com/fdumary/HawkEye/internal/fingerprint"
)

// Comparator turns a decoded sample into a storable template and
// scores a presented template against a stored one. Confidence is in
// [0, 1]; the verifier applies the acceptance threshold.
type Comparator interface {
	Name() string
	Template(img image.Image) (string, error)
	Compare(presented, stored string) float64
}

const (
	// ComparatorExact matches only byte-identical grayscale pixel data.
	ComparatorExact = "exact"
	// ComparatorDHash matches visually similar samples by difference hash.
	ComparatorDHash = "dhash"
)

// NewComparator builds a comparator by name.
func NewComparator(name string) (Comparator, error) {
	switch name {
	case ComparatorExact, "":
		return exactComparator{}, nil
	case ComparatorDHash:
		return dhashComparator{}, nil
	default:
		return nil, fmt.Errorf("unknown comparator %q", name)
	}
}

// exactComparator stores the MD5 of the grayscale pixel plane. Equal
// digests score 1, anything else scores 0, so it has no false
// positives by construction.
type exactComparator struct{}

func (exactComparator) Name() string { return ComparatorExact }

func (exactComparator) Template(img image.Image) (string, error) {
	return fingerprint.GrayHash(img), nil
}

func (exactComparator) Compare(presented, stored string) float64 {
	if presented != "" && presented == stored {
		return 1
	}
	return 0
}

// dhashComparator stores a 64-bit difference hash and scores by
// normalized Hamming similarity.
type dhashComparator struct{}

func (dhashComparator) Name() string { return ComparatorDHash }

func (dhashComparator) Template(img image.Image) (string, error) {
	return fingerprint.FormatDHash(fingerprint.DHash(img)), nil
}

func (dhashComparator) Compare(presented, stored string) float64 {
	a, err := fingerprint.ParseDHash(presented)
	if err != nil {
		return 0
	}
	b, err := fingerprint.ParseDHash(stored)
	if err != nil {
		return 0
	}
	return 1 - float64(fingerprint.HammingDistance(a, b))/64
}
