package formats

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
)

// Format names a fact serialization.
type Format string

const (
	// FormatTables is a directory of delimited tables, positive facts only
	FormatTables Format = "csv"
	// FormatAlchemy is a single signed-literal file
	FormatAlchemy Format = "alchemy"
	// FormatAleph is a <base>.f / <base>.n pair of clause files
	FormatAleph Format = "aleph"
	// FormatParquet is a Parquet file of fact rows
	FormatParquet Format = "parquet"
)

// Formats lists every supported format.
var Formats = []Format{FormatTables, FormatAlchemy, FormatAleph, FormatParquet}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s (supported: csv, alchemy, aleph, parquet)", s)
}

const (
	// DefaultDelimiter separates table fields unless configured otherwise
	DefaultDelimiter = ","

	// TableExtension is the file extension of a predicate table
	TableExtension = ".csv"

	// AlephPositiveExtension and AlephNegativeExtension name the two files
	// of the split format
	AlephPositiveExtension = ".f"
	AlephNegativeExtension = ".n"
)

// Config configures a Codec
type Config struct {
	// Delimiter separates fields of the table format (default ",")
	Delimiter string `json:"delimiter,omitempty" mapstructure:"delimiter"`
}

// Codec reads and writes stores in every supported format.
type Codec struct {
	delimiter string
	logger    *slog.Logger
}

// New creates a Codec. A nil config uses the defaults and a nil logger
// uses slog.Default().
func New(config *Config, logger *slog.Logger) (*Codec, error) {
	delimiter := DefaultDelimiter
	if config != nil && config.Delimiter != "" {
		delimiter = config.Delimiter
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{delimiter: delimiter, logger: logger}, nil
}

// Delimiter returns the table field delimiter.
func (c *Codec) Delimiter() string {
	return c.delimiter
}

// ReadBoolean loads facts in the given format from path into db.
// For FormatTables path is a directory, for FormatAleph it is the base name
// without extension.
func (c *Codec) ReadBoolean(format Format, path string, db *factstore.BooleanStore) error {
	before := db.Size()
	var err error
	switch format {
	case FormatTables:
		err = c.ReadTables(path, db)
	case FormatAlchemy:
		err = c.ReadAlchemy(path, db)
	case FormatAleph:
		err = c.ReadAleph(path, db)
	case FormatParquet:
		err = c.ReadParquet(path, db)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}
	c.logger.Info("Loaded facts", "format", format, "path", path, "new_facts", db.Size()-before, "predicates", db.Count())
	return nil
}

// WriteBoolean writes db to path in the given format.
func (c *Codec) WriteBoolean(format Format, db *factstore.BooleanStore, path string) error {
	var err error
	switch format {
	case FormatTables:
		err = c.WriteTables(db, path)
	case FormatAlchemy:
		err = c.WriteAlchemy(db, path)
	case FormatAleph:
		err = c.WriteAleph(db, path)
	case FormatParquet:
		err = c.WriteParquet(db, path)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}
	c.logger.Info("Persisted facts", "format", format, "path", path, "facts", db.Size())
	return nil
}

// ReadFuzzy loads a fuzzy store. Only FormatParquet carries truth degrees.
func (c *Codec) ReadFuzzy(format Format, path string, db *factstore.FuzzyStore) error {
	if format != FormatParquet {
		return fmt.Errorf("format %s cannot hold fuzzy facts (supported: parquet)", format)
	}
	if err := c.ReadFuzzyParquet(path, db); err != nil {
		return err
	}
	c.logger.Info("Loaded fuzzy facts", "path", path, "facts", db.Size(), "predicates", db.Count())
	return nil
}

// WriteFuzzy writes a fuzzy store. Only FormatParquet carries truth degrees.
func (c *Codec) WriteFuzzy(format Format, db *factstore.FuzzyStore, path string) error {
	if format != FormatParquet {
		return fmt.Errorf("format %s cannot hold fuzzy facts (supported: parquet)", format)
	}
	if err := c.WriteFuzzyParquet(db, path); err != nil {
		return err
	}
	c.logger.Info("Persisted fuzzy facts", "path", path, "facts", db.Size())
	return nil
}
