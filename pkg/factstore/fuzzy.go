package factstore

import "sort"

// FuzzyFact is one stored tuple with its truth degree.
type FuzzyFact struct {
	Args  Tuple
	Truth float64
}

// TruthTable maps the tuples of one predicate to their truth degree.
type TruthTable struct {
	entries map[string]FuzzyFact
}

// Truth returns the degree stored for args, or (0, false) when absent.
func (t TruthTable) Truth(args Tuple) (float64, bool) {
	f, ok := t.entries[args.Key()]
	return f.Truth, ok
}

// Contains reports whether args has a stored degree.
func (t TruthTable) Contains(args Tuple) bool {
	_, ok := t.entries[args.Key()]
	return ok
}

// Len returns the number of stored tuples.
func (t TruthTable) Len() int {
	return len(t.entries)
}

// Facts returns the entries ordered by tuple.
func (t TruthTable) Facts() []FuzzyFact {
	out := make([]FuzzyFact, 0, len(t.entries))
	for _, f := range t.entries {
		out = append(out, FuzzyFact{Args: f.Args.clone(), Truth: f.Truth})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Args.less(out[j].Args) })
	return out
}

func (t TruthTable) clone() TruthTable {
	c := TruthTable{entries: make(map[string]FuzzyFact, len(t.entries))}
	for k, f := range t.entries {
		c.entries[k] = f
	}
	return c
}

// FuzzyStore holds facts with a real-valued truth degree. A degree of
// exactly 0.0 means absent and is never stored. A FuzzyStore is not safe
// for concurrent use.
type FuzzyStore struct {
	predicates map[string]TruthTable
}

// NewFuzzyStore creates an empty store.
func NewFuzzyStore() *FuzzyStore {
	return &FuzzyStore{predicates: make(map[string]TruthTable)}
}

// Add sets the truth degree of args under name, replacing any previous
// degree. A zero degree is ignored and leaves an existing entry untouched.
func (s *FuzzyStore) Add(name string, args Tuple, truth float64) {
	if truth == 0.0 {
		return
	}
	table, ok := s.predicates[name]
	if !ok {
		table = TruthTable{entries: make(map[string]FuzzyFact)}
		s.predicates[name] = table
	}
	table.entries[args.Key()] = FuzzyFact{Args: args.clone(), Truth: truth}
}

// AddValues coerces name and args to strings and adds the fact.
func (s *FuzzyStore) AddValues(name any, truth float64, args ...any) {
	s.Add(Coerce(name), NewTuple(args...), truth)
}

// PredicateNames returns the sorted predicate names.
func (s *FuzzyStore) PredicateNames() []string {
	return sortedKeys(s.predicates)
}

// Count returns the number of distinct predicate names.
func (s *FuzzyStore) Count() int {
	return len(s.predicates)
}

// Size returns the total number of stored (tuple, truth) pairs.
func (s *FuzzyStore) Size() int {
	n := 0
	for _, table := range s.predicates {
		n += table.Len()
	}
	return n
}

// Get returns a copy of the truth table of name, failing with
// ErrKeyNotFound when name is absent.
func (s *FuzzyStore) Get(name string) (TruthTable, error) {
	table, ok := s.predicates[name]
	if !ok {
		return TruthTable{}, &KeyNotFoundError{Predicate: name, Side: SideFuzzy}
	}
	return table.clone(), nil
}

// Contains reports whether args has a stored degree under name.
func (s *FuzzyStore) Contains(name string, args Tuple) bool {
	table, ok := s.predicates[name]
	return ok && table.Contains(args)
}

// Truth returns the degree of args under name, or (0, false) when absent.
func (s *FuzzyStore) Truth(name string, args Tuple) (float64, bool) {
	table, ok := s.predicates[name]
	if !ok {
		return 0, false
	}
	return table.Truth(args)
}
