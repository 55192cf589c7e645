package factstore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tuple is an ordered list of ground constants. Position is significant:
// the i-th constant fills the i-th argument role of its predicate.
type Tuple []string

// NewTuple coerces arbitrary values into a Tuple using their default
// string representation.
func NewTuple(values ...any) Tuple {
	t := make(Tuple, len(values))
	for i, v := range values {
		t[i] = Coerce(v)
	}
	return t
}

// Coerce returns the string form used for predicate names and constants.
func Coerce(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// Key returns an injective encoding of the tuple usable as a map key.
func (t Tuple) Key() string {
	var b strings.Builder
	for _, s := range t {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}

// ParseKey decodes a string produced by Key back into its tuple.
func ParseKey(key string) (Tuple, error) {
	t := Tuple{}
	for key != "" {
		sep := strings.IndexByte(key, ':')
		if sep <= 0 {
			return nil, fmt.Errorf("corrupt tuple key: missing length")
		}
		n, err := strconv.Atoi(key[:sep])
		if err != nil || n < 0 || n > len(key)-sep-1 {
			return nil, fmt.Errorf("corrupt tuple key: bad length %q", key[:sep])
		}
		t = append(t, key[sep+1:sep+1+n])
		key = key[sep+1+n:]
	}
	return t, nil
}

// Arity is the number of constants in the tuple.
func (t Tuple) Arity() int {
	return len(t)
}

// Equal reports whether both tuples hold the same constants in the same order.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

func (t Tuple) String() string {
	return "(" + strings.Join(t, ", ") + ")"
}

func (t Tuple) clone() Tuple {
	c := make(Tuple, len(t))
	copy(c, t)
	return c
}

// less orders tuples lexicographically, shorter tuples first on a shared prefix.
func (t Tuple) less(other Tuple) bool {
	for i := 0; i < len(t) && i < len(other); i++ {
		if t[i] != other[i] {
			return t[i] < other[i]
		}
	}
	return len(t) < len(other)
}

// TupleSet is a set of tuples. The zero value is not usable; use NewTupleSet.
type TupleSet struct {
	items map[string]Tuple
}

// NewTupleSet creates a set holding the given tuples.
func NewTupleSet(tuples ...Tuple) TupleSet {
	s := TupleSet{items: make(map[string]Tuple, len(tuples))}
	for _, t := range tuples {
		s.Add(t)
	}
	return s
}

// Add inserts t and reports whether it was not already present.
func (s TupleSet) Add(t Tuple) bool {
	k := t.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = t.clone()
	return true
}

// Contains reports whether t is a member of the set.
func (s TupleSet) Contains(t Tuple) bool {
	_, ok := s.items[t.Key()]
	return ok
}

// Len returns the number of tuples in the set.
func (s TupleSet) Len() int {
	return len(s.items)
}

// Union returns a new set holding the members of both sets.
func (s TupleSet) Union(other TupleSet) TupleSet {
	out := TupleSet{items: make(map[string]Tuple, len(s.items)+len(other.items))}
	for k, t := range s.items {
		out.items[k] = t
	}
	for k, t := range other.items {
		out.items[k] = t
	}
	return out
}

func (s TupleSet) clone() TupleSet {
	return s.Union(TupleSet{})
}

// Intersect returns a new set holding the tuples present in both sets.
func (s TupleSet) Intersect(other TupleSet) TupleSet {
	out := NewTupleSet()
	for k, t := range s.items {
		if _, ok := other.items[k]; ok {
			out.items[k] = t
		}
	}
	return out
}

// Tuples returns the members sorted lexicographically.
func (s TupleSet) Tuples() []Tuple {
	out := make([]Tuple, 0, len(s.items))
	for _, t := range s.items {
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Each calls fn for every member in unspecified order, stopping early
// when fn returns false.
func (s TupleSet) Each(fn func(Tuple) bool) {
	for _, t := range s.items {
		if !fn(t) {
			return
		}
	}
}

// ConstantSet is a set of constants observed in one argument role.
type ConstantSet map[string]struct{}

// Add inserts v.
func (c ConstantSet) Add(v string) {
	c[v] = struct{}{}
}

// Contains reports whether v is a member.
func (c ConstantSet) Contains(v string) bool {
	_, ok := c[v]
	return ok
}

// Sorted returns the members in ascending order.
func (c ConstantSet) Sorted() []string {
	out := make([]string, 0, len(c))
	for v := range c {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
