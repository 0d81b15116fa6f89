package identity

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed personnel.yaml
var defaultRosterYAML []byte

type rosterFile struct {
	Personnel []Identity `yaml:"personnel"`
}

// LoadRoster reads a personnel roster from path. An empty path loads
// the embedded default roster.
func LoadRoster(path string) ([]Identity, error) {
	data := defaultRosterYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading roster %s: %w", path, err)
		}
		data = b
	}

	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	if len(f.Personnel) == 0 {
		return nil, fmt.Errorf("roster contains no personnel")
	}
	return f.Personnel, nil
}

// LoadStore loads a roster and builds a Store from it.
func LoadStore(path string) (*Store, error) {
	roster, err := LoadRoster(path)
	if err != nil {
		return nil, err
	}
	return NewStore(roster)
}
