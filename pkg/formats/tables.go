package formats

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
)

// DecodeTable reads delimited tuples from r as positive facts of name.
// Whitespace other than the delimiter itself is removed before splitting.
func DecodeTable(r io.Reader, name, delimiter string, db *factstore.BooleanStore) error {
	keep, _ := utf8.DecodeRuneInString(delimiter)
	return scanLines(r, keep, func(line string, _ int) error {
		db.Add(name, factstore.Tuple(strings.Split(line, delimiter)), true)
		return nil
	})
}

// EncodeTable writes tuples one delimited line each.
func EncodeTable(w io.Writer, tuples []factstore.Tuple, delimiter string) error {
	for _, t := range tuples {
		if _, err := fmt.Fprintln(w, strings.Join(t, delimiter)); err != nil {
			return err
		}
	}
	return nil
}

// ReadTables loads every <name>.csv table in dir as the positive facts of
// name.
func (c *Codec) ReadTables(dir string, db *factstore.BooleanStore) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("failed to read table directory: %w", err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*"+TableExtension))
	if err != nil {
		return fmt.Errorf("failed to list tables in %s: %w", dir, err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), TableExtension)
		c.logger.Debug("Reading table", "path", path, "predicate", name)
		err := readFile(path, func(r io.Reader) error {
			return DecodeTable(r, name, c.delimiter, db)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteTables writes one <name>.csv table per positive predicate into dir,
// creating dir if needed. Negative facts are not represented.
func (c *Codec) WriteTables(db *factstore.BooleanStore, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	for _, name := range db.PositiveNames() {
		if err := validatePredicateName(name); err != nil {
			return fmt.Errorf("predicate %q: %w", name, err)
		}
		set, _ := db.Positive(name)
		path := filepath.Join(dir, name+TableExtension)
		c.logger.Debug("Writing table", "path", path, "rows", set.Len())
		err := writeFile(path, func(w io.Writer) error {
			return EncodeTable(w, set.Tuples(), c.delimiter)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
