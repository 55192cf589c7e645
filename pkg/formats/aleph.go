package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
)

// DecodeAleph reads unsigned records from r into db with the given sign.
func DecodeAleph(r io.Reader, source string, sign bool, db *factstore.BooleanStore) error {
	return scanLines(r, 0, func(line string, lineNo int) error {
		rec, reason := parseRecord(line)
		if reason != "" {
			return &factstore.MalformedInputError{Source: source, Line: lineNo, Record: line, Reason: reason}
		}
		db.Add(rec.name, rec.args, sign)
		return nil
	})
}

// EncodeAleph writes the facts of one sign as name(a, b). clauses. A fact
// whose single constant is empty has no clause of its own and is rejected
// with ErrUnrepresentableFact.
func EncodeAleph(w io.Writer, db *factstore.BooleanStore, sign bool) error {
	names, lookup := db.NegativeNames(), db.Negative
	if sign {
		names, lookup = db.PositiveNames(), db.Positive
	}
	for _, name := range names {
		if err := validateRecordName(name, false); err != nil {
			return err
		}
		set, _ := lookup(name)
		for _, t := range set.Tuples() {
			// p("") and p() share the clause p().
			if len(t) == 1 && t[0] == "" {
				return fmt.Errorf("%w: %s(\"\") reads back as %s()", ErrUnrepresentableFact, name, name)
			}
			if _, err := fmt.Fprintf(w, "%s(%s).\n", name, strings.Join(t, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadAleph loads base.f as positive and base.n as negative facts.
func (c *Codec) ReadAleph(base string, db *factstore.BooleanStore) error {
	for _, part := range []struct {
		path string
		sign bool
	}{
		{base + AlephPositiveExtension, true},
		{base + AlephNegativeExtension, false},
	} {
		c.logger.Debug("Reading aleph file", "path", part.path, "positive", part.sign)
		err := readFile(part.path, func(r io.Reader) error {
			return DecodeAleph(r, part.path, part.sign, db)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteAleph writes positive facts to base.f and negative facts to base.n.
func (c *Codec) WriteAleph(db *factstore.BooleanStore, base string) error {
	for _, sign := range []bool{true, false} {
		path := base + AlephNegativeExtension
		if sign {
			path = base + AlephPositiveExtension
		}
		c.logger.Debug("Writing aleph file", "path", path, "positive", sign)
		err := writeFile(path, func(w io.Writer) error {
			return EncodeAleph(w, db, sign)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
