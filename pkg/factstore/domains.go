package factstore

// Signature maps a predicate name to the domain identifier of each of its
// argument positions, e.g. {"parent": {"person", "person"}}.
type Signature map[string][]string

// Domains maps a domain identifier to the constants observed in that role.
type Domains map[string]ConstantSet

// InferDomains collects, for every domain identifier declared in sig, the
// constants that fill it across the positive facts of the store.
//
// Every declared domain is present in the result, possibly empty. Names not
// in sig are skipped and negative facts are not consulted. A positive tuple
// whose arity differs from its declaration fails the whole call with a
// *ShapeMismatchError.
func (s *BooleanStore) InferDomains(sig Signature) (Domains, error) {
	domains := make(Domains)
	for _, roles := range sig {
		for _, d := range roles {
			if _, ok := domains[d]; !ok {
				domains[d] = make(ConstantSet)
			}
		}
	}

	for _, name := range sortedKeys(s.positive) {
		roles, ok := sig[name]
		if !ok {
			continue
		}
		var mismatch error
		s.positive[name].Each(func(t Tuple) bool {
			if len(t) != len(roles) {
				mismatch = &ShapeMismatchError{Predicate: name, Tuple: t.clone(), Expected: len(roles)}
				return false
			}
			for i, c := range t {
				domains[roles[i]].Add(c)
			}
			return true
		})
		if mismatch != nil {
			return nil, mismatch
		}
	}
	return domains, nil
}
