package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
)

// ErrInvalidPredicateName is returned when a predicate name cannot be used
// as a file name.
var ErrInvalidPredicateName = errors.New("invalid predicate name: contains path traversal or invalid characters")

// ErrUnrepresentableFact is returned when a fact cannot be written in a
// format without changing its meaning on the next read.
var ErrUnrepresentableFact = errors.New("fact cannot be represented in this format")

// stripSpace removes every whitespace rune except keep.
func stripSpace(line string, keep rune) string {
	return strings.Map(func(r rune) rune {
		if r != keep && unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
}

// record is one decoded text line.
type record struct {
	name string
	args factstore.Tuple
}

// parseRecord decodes a whitespace-stripped line in either the record shape
// name,a,b or the clause shape name(a,b). with an optional trailing period.
// A line is a clause only when its first '(' precedes its first ','; record
// constants may carry parentheses of their own.
func parseRecord(line string) (record, string) {
	open := strings.IndexByte(line, '(')
	comma := strings.IndexByte(line, ',')
	if open < 0 || (comma >= 0 && comma < open) {
		tokens := strings.Split(line, ",")
		if tokens[0] == "" {
			return record{}, "empty predicate name"
		}
		if strings.ContainsAny(tokens[0], "()") {
			return record{}, "unbalanced parentheses"
		}
		return record{name: tokens[0], args: factstore.Tuple(tokens[1:])}, ""
	}

	body := strings.TrimSuffix(line, ".")
	if !strings.HasSuffix(body, ")") || strings.Count(body, "(") != 1 || strings.Count(body, ")") != 1 {
		return record{}, "unbalanced parentheses"
	}
	name := body[:open]
	if name == "" {
		return record{}, "empty predicate name"
	}
	inner := body[open+1 : len(body)-1]
	if inner == "" {
		return record{name: name, args: factstore.Tuple{}}, ""
	}
	return record{name: name, args: factstore.Tuple(strings.Split(inner, ","))}, ""
}

// scanLines calls fn with every non-blank, whitespace-stripped line of r
// and its 1-based line number.
func scanLines(r io.Reader, keep rune, fn func(line string, lineNo int) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripSpace(scanner.Text(), keep)
		if line == "" {
			continue
		}
		if err := fn(line, lineNo); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// validatePredicateName checks that a name is safe for use as a file name.
func validatePredicateName(name string) error {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return ErrInvalidPredicateName
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, '\x00') {
		return ErrInvalidPredicateName
	}
	return nil
}

// validateRecordName checks that name reads back unchanged from a record or
// clause line. signed formats additionally reserve a leading '!'.
func validateRecordName(name string, signed bool) error {
	if name == "" || strings.ContainsAny(name, ",()") || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrUnrepresentableFact, name)
	}
	if signed && strings.HasPrefix(name, "!") {
		return fmt.Errorf("%w: %q starts with the negation marker", ErrUnrepresentableFact, name)
	}
	return nil
}

// readFile opens path and hands it to decode.
func readFile(path string, decode func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return decode(f)
}

// writeFile creates path and hands a buffered writer to encode.
func writeFile(path string, encode func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
