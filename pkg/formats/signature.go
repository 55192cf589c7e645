package formats

import (
	"fmt"
	"os"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
	"gopkg.in/yaml.v3"
)

// LoadSignature reads a relation signature from a YAML file mapping each
// predicate name to its list of domain identifiers:
//
//	parent: [person, person]
//	age: [person, int]
func LoadSignature(path string) (factstore.Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature file: %w", err)
	}
	return ParseSignature(data)
}

// ParseSignature decodes a YAML relation signature.
func ParseSignature(data []byte) (factstore.Signature, error) {
	sig := factstore.Signature{}
	if err := yaml.Unmarshal(data, &sig); err != nil {
		return nil, fmt.Errorf("failed to parse signature: %w", err)
	}
	for name, roles := range sig {
		for i, d := range roles {
			if d == "" {
				return nil, fmt.Errorf("signature %q: empty domain at position %d", name, i)
			}
		}
	}
	return sig, nil
}

// SaveSignature writes sig as YAML.
func SaveSignature(sig factstore.Signature, path string) error {
	data, err := yaml.Marshal(map[string][]string(sig))
	if err != nil {
		return fmt.Errorf("failed to marshal signature: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write signature file: %w", err)
	}
	return nil
}
