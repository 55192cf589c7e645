package factstore

import (
	"fmt"
)

// StoreConfig configures NewStore
type StoreConfig struct {
	// Type is the store variant: "boolean" (default) or "fuzzy"
	Type StoreType `json:"type,omitempty" mapstructure:"type"`
}

// NewStore creates an empty store of the configured type.
// If config is nil or Type is empty, a BooleanStore is returned.
func NewStore(config *StoreConfig) (Store, error) {
	var t StoreType
	if config != nil {
		t = config.Type
	}

	switch t {
	case StoreTypeBoolean, "":
		return NewBooleanStore(), nil
	case StoreTypeFuzzy:
		return NewFuzzyStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s (supported: boolean, fuzzy)", t)
	}
}
