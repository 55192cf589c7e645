package factstore

// StoreType selects a fact store variant
type StoreType string

const (
	// StoreTypeBoolean holds signed (positive/negative) facts
	StoreTypeBoolean StoreType = "boolean"
	// StoreTypeFuzzy holds facts with a real-valued truth degree
	StoreTypeFuzzy StoreType = "fuzzy"
)

// Store is the read surface shared by both store variants.
type Store interface {
	// PredicateNames returns the distinct predicate names, sorted.
	PredicateNames() []string

	// Count returns the number of distinct predicate names.
	Count() int

	// Size returns the total number of stored facts.
	Size() int

	// Contains reports whether args is stored under name.
	Contains(name string, args Tuple) bool
}

// Stats summarizes a store.
type Stats struct {
	Type       StoreType      `json:"type" yaml:"type"`
	Predicates int            `json:"predicates" yaml:"predicates"`
	Facts      int            `json:"facts" yaml:"facts"`
	PerName    map[string]int `json:"per_name" yaml:"per_name"`
}

var (
	_ Store = (*BooleanStore)(nil)
	_ Store = (*FuzzyStore)(nil)
)

// GetStats computes the summary of s.
func GetStats(s Store) *Stats {
	stats := &Stats{
		Predicates: s.Count(),
		Facts:      s.Size(),
		PerName:    make(map[string]int),
	}
	switch v := s.(type) {
	case *BooleanStore:
		stats.Type = StoreTypeBoolean
		for name, set := range v.positive {
			stats.PerName[name] += set.Len()
		}
		for name, set := range v.negative {
			stats.PerName[name] += set.Len()
		}
	case *FuzzyStore:
		stats.Type = StoreTypeFuzzy
		for name, table := range v.predicates {
			stats.PerName[name] = table.Len()
		}
	}
	return stats
}
