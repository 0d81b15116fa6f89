// Package identity holds personnel records and their clearance grants.
package identity

import (
	"fmt"
	"strings"
)

// Clearance is an ordered classification level. Higher values outrank
// lower ones: Confidential < Secret < TopSecret.
type Clearance int

const (
	ClearanceUnknown Clearance = iota
	ClearanceConfidential
	ClearanceSecret
	ClearanceTopSecret
)

// String returns the canonical wire representation of the clearance level.
func (c Clearance) String() string {
	switch c {
	case ClearanceConfidential:
		return "CONFIDENTIAL"
	case ClearanceSecret:
		return "SECRET"
	case ClearanceTopSecret:
		return "TOP_SECRET"
	default:
		return "UNKNOWN"
	}
}

// AtLeast reports whether c meets or exceeds the required level.
// An unknown clearance never satisfies any requirement.
func (c Clearance) AtLeast(required Clearance) bool {
	if c == ClearanceUnknown || required == ClearanceUnknown {
		return false
	}
	return c >= required
}

// ParseClearance parses a clearance level from its string form.
// "TOP SECRET" (with a space) is accepted for roster compatibility.
func ParseClearance(s string) (Clearance, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONFIDENTIAL":
		return ClearanceConfidential, nil
	case "SECRET":
		return ClearanceSecret, nil
	case "TOP_SECRET", "TOP SECRET":
		return ClearanceTopSecret, nil
	default:
		return ClearanceUnknown, fmt.Errorf("unknown clearance level %q", s)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (c Clearance) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Clearance) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseClearance(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Identity is a single personnel record. Records are immutable once
// loaded; provisioning changes happen outside the running service.
type Identity struct {
	ID        string    `yaml:"id" json:"soldier_id"`
	Name      string    `yaml:"name" json:"name"`
	Rank      string    `yaml:"rank" json:"rank"`
	Unit      string    `yaml:"unit" json:"unit"`
	Clearance Clearance `yaml:"clearance" json:"clearance_level"`
	Areas     []string  `yaml:"areas" json:"access_areas"`
}

// HasArea reports whether the identity holds an explicit grant for area.
func (id *Identity) HasArea(area string) bool {
	for _, a := range id.Areas {
		if a == area {
			return true
		}
	}
	return false
}
