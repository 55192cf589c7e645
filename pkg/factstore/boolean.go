package factstore

import (
	"strings"
)

// BooleanStore holds signed ground facts: for every predicate name, the set
// of tuples asserted true and the set asserted false.
//
// The two sides are independent. The same tuple may be stored as both
// positive and negative; Add does not reject contradictions, use
// Contradictions to report them. A BooleanStore is not safe for concurrent
// use.
type BooleanStore struct {
	positive map[string]TupleSet
	negative map[string]TupleSet
}

// NewBooleanStore creates an empty store.
func NewBooleanStore() *BooleanStore {
	return &BooleanStore{
		positive: make(map[string]TupleSet),
		negative: make(map[string]TupleSet),
	}
}

// Add records args under name on the side selected by sign. Re-adding an
// existing fact is a no-op.
func (s *BooleanStore) Add(name string, args Tuple, sign bool) {
	side := s.negative
	if sign {
		side = s.positive
	}
	set, ok := side[name]
	if !ok {
		set = NewTupleSet()
		side[name] = set
	}
	set.Add(args)
}

// AddValues coerces name and args to strings and adds the fact.
func (s *BooleanStore) AddValues(name any, sign bool, args ...any) {
	s.Add(Coerce(name), NewTuple(args...), sign)
}

// PredicateNames returns the sorted union of names present on either side.
func (s *BooleanStore) PredicateNames() []string {
	names := make(map[string]struct{}, len(s.positive)+len(s.negative))
	for name := range s.positive {
		names[name] = struct{}{}
	}
	for name := range s.negative {
		names[name] = struct{}{}
	}
	return sortedKeys(names)
}

// PositiveNames returns the sorted names that have positive facts.
func (s *BooleanStore) PositiveNames() []string {
	return sortedKeys(s.positive)
}

// NegativeNames returns the sorted names that have negative facts.
func (s *BooleanStore) NegativeNames() []string {
	return sortedKeys(s.negative)
}

// Count returns the number of distinct predicate names, not facts.
func (s *BooleanStore) Count() int {
	return len(s.PredicateNames())
}

// Size returns the total number of stored tuples on both sides.
func (s *BooleanStore) Size() int {
	n := 0
	for _, set := range s.positive {
		n += set.Len()
	}
	for _, set := range s.negative {
		n += set.Len()
	}
	return n
}

// Positive returns a copy of the positive tuples of name. It fails with
// ErrKeyNotFound when name has no positive entry.
func (s *BooleanStore) Positive(name string) (TupleSet, error) {
	set, ok := s.positive[name]
	if !ok {
		return TupleSet{}, &KeyNotFoundError{Predicate: name, Side: SidePositive}
	}
	return set.clone(), nil
}

// Negative returns a copy of the negative tuples of name. It fails with
// ErrKeyNotFound when name has no negative entry.
func (s *BooleanStore) Negative(name string) (TupleSet, error) {
	set, ok := s.negative[name]
	if !ok {
		return TupleSet{}, &KeyNotFoundError{Predicate: name, Side: SideNegative}
	}
	return set.clone(), nil
}

// Unsigned returns the union of the positive and negative tuples of name.
// Both sides must hold an entry for name.
func (s *BooleanStore) Unsigned(name string) (TupleSet, error) {
	pos, err := s.Positive(name)
	if err != nil {
		return TupleSet{}, err
	}
	neg, err := s.Negative(name)
	if err != nil {
		return TupleSet{}, err
	}
	return pos.Union(neg), nil
}

// Contains reports whether args is stored under name with either sign.
// An unknown name is not an error.
func (s *BooleanStore) Contains(name string, args Tuple) bool {
	if set, ok := s.positive[name]; ok && set.Contains(args) {
		return true
	}
	if set, ok := s.negative[name]; ok && set.Contains(args) {
		return true
	}
	return false
}

// Contradictions returns the tuples of name asserted both true and false.
func (s *BooleanStore) Contradictions(name string) TupleSet {
	pos, okPos := s.positive[name]
	neg, okNeg := s.negative[name]
	if !okPos || !okNeg {
		return NewTupleSet()
	}
	return pos.Intersect(neg)
}

// String lists every fact as name(a, b), negative facts prefixed with '!',
// positives first.
func (s *BooleanStore) String() string {
	var b strings.Builder
	write := func(prefix string, side map[string]TupleSet) {
		for _, name := range sortedKeys(side) {
			for _, t := range side[name].Tuples() {
				b.WriteString(prefix)
				b.WriteString(name)
				b.WriteString(t.String())
				b.WriteByte('\n')
			}
		}
	}
	write("", s.positive)
	write("!", s.negative)
	return b.String()
}
