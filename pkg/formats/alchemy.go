package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
)

// DecodeAlchemy reads signed-literal records from r into db. A leading '!'
// on the predicate name marks a negative fact. source names r in errors.
func DecodeAlchemy(r io.Reader, source string, db *factstore.BooleanStore) error {
	return scanLines(r, 0, func(line string, lineNo int) error {
		sign := true
		body := line
		if strings.HasPrefix(body, "!") {
			sign = false
			body = body[1:]
		}
		rec, reason := parseRecord(body)
		if reason != "" {
			return &factstore.MalformedInputError{Source: source, Line: lineNo, Record: line, Reason: reason}
		}
		db.Add(rec.name, rec.args, sign)
		return nil
	})
}

// EncodeAlchemy writes every fact of db as a name,a,b record, positives
// first, negative records prefixed with '!'. Names that would not read back
// unchanged are rejected with ErrUnrepresentableFact before anything is written.
func EncodeAlchemy(w io.Writer, db *factstore.BooleanStore) error {
	for _, name := range db.PredicateNames() {
		if err := validateRecordName(name, true); err != nil {
			return err
		}
	}
	for _, name := range db.PositiveNames() {
		set, _ := db.Positive(name)
		for _, t := range set.Tuples() {
			if _, err := fmt.Fprintln(w, signedRecord("", name, t)); err != nil {
				return err
			}
		}
	}
	for _, name := range db.NegativeNames() {
		set, _ := db.Negative(name)
		for _, t := range set.Tuples() {
			if _, err := fmt.Fprintln(w, signedRecord("!", name, t)); err != nil {
				return err
			}
		}
	}
	return nil
}

func signedRecord(prefix, name string, t factstore.Tuple) string {
	if len(t) == 0 {
		return prefix + name
	}
	return prefix + name + "," + strings.Join(t, ",")
}

// ReadAlchemy loads a signed-literal file into db.
func (c *Codec) ReadAlchemy(path string, db *factstore.BooleanStore) error {
	c.logger.Debug("Reading alchemy file", "path", path)
	return readFile(path, func(r io.Reader) error {
		return DecodeAlchemy(r, path, db)
	})
}

// WriteAlchemy writes db to a signed-literal file.
func (c *Codec) WriteAlchemy(db *factstore.BooleanStore, path string) error {
	c.logger.Debug("Writing alchemy file", "path", path)
	return writeFile(path, func(w io.Writer) error {
		return EncodeAlchemy(w, db)
	})
}
