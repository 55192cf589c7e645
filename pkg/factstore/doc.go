// Package factstore provides in-memory storage for ground logical facts.
//
// Two independent variants are provided:
//   - BooleanStore: per predicate name, the set of tuples asserted true and
//     the set asserted false
//   - FuzzyStore: per predicate name, a truth degree for every tuple; a degree
//     of 0.0 means absent and is never stored
//
// # Usage
//
//	db := factstore.NewBooleanStore()
//	db.Add("parent", factstore.Tuple{"alice", "bob"}, true)
//	db.Add("parent", factstore.Tuple{"bob", "carl"}, true)
//	db.AddValues("age", false, "bob", 7)
//
//	pos, err := db.Positive("parent")
//	if errors.Is(err, factstore.ErrKeyNotFound) {
//	    // no positive facts for "parent"
//	}
//
// # Domain Inference
//
// InferDomains derives, from a relation signature, the constants observed in
// each argument role across the positive facts:
//
//	domains, err := db.InferDomains(factstore.Signature{
//	    "parent": {"person", "person"},
//	})
//	// domains["person"] == {alice, bob, carl}
//
// Lookups by sign are strict and fail with ErrKeyNotFound, while Contains
// treats an unknown name as a plain false. Stores are not safe for
// concurrent use.
package factstore
