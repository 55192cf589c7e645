package formats

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
	"github.com/soundprediction/ecopredicate/pkg/factstore"
)

// ParquetFact represents the schema for a signed fact in Parquet
type ParquetFact struct {
	Predicate string   `parquet:"predicate"`
	Positive  bool     `parquet:"positive"`
	Args      []string `parquet:"args,list"`
}

// ParquetFuzzyFact represents the schema for a fuzzy fact in Parquet
type ParquetFuzzyFact struct {
	Predicate string   `parquet:"predicate"`
	Args      []string `parquet:"args,list"`
	Truth     float64  `parquet:"truth"`
}

// WriteParquet writes every fact of db to a single Parquet file.
func (c *Codec) WriteParquet(db *factstore.BooleanStore, path string) error {
	rows := make([]ParquetFact, 0, db.Size())
	for _, name := range db.PositiveNames() {
		set, _ := db.Positive(name)
		for _, t := range set.Tuples() {
			rows = append(rows, ParquetFact{Predicate: name, Positive: true, Args: t})
		}
	}
	for _, name := range db.NegativeNames() {
		set, _ := db.Negative(name)
		for _, t := range set.Tuples() {
			rows = append(rows, ParquetFact{Predicate: name, Positive: false, Args: t})
		}
	}

	c.logger.Debug("Writing parquet facts", "path", path, "rows", len(rows))
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet file %s: %w", path, err)
	}
	return nil
}

// ReadParquet loads signed facts from a Parquet file into db.
func (c *Codec) ReadParquet(path string, db *factstore.BooleanStore) error {
	c.logger.Debug("Reading parquet facts", "path", path)
	rows, err := parquet.ReadFile[ParquetFact](path)
	if err != nil {
		return fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	for i, row := range rows {
		if row.Predicate == "" {
			return &factstore.MalformedInputError{Source: path, Line: i + 1, Record: fmt.Sprint(row.Args), Reason: "empty predicate name"}
		}
		db.Add(row.Predicate, factstore.Tuple(row.Args), row.Positive)
	}
	return nil
}

// WriteFuzzyParquet writes every fact of a fuzzy store to a Parquet file.
func (c *Codec) WriteFuzzyParquet(db *factstore.FuzzyStore, path string) error {
	rows := make([]ParquetFuzzyFact, 0, db.Size())
	for _, name := range db.PredicateNames() {
		table, _ := db.Get(name)
		for _, f := range table.Facts() {
			rows = append(rows, ParquetFuzzyFact{Predicate: name, Args: f.Args, Truth: f.Truth})
		}
	}

	c.logger.Debug("Writing parquet fuzzy facts", "path", path, "rows", len(rows))
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet file %s: %w", path, err)
	}
	return nil
}

// ReadFuzzyParquet loads fuzzy facts from a Parquet file into db. Rows with
// a zero truth degree are dropped like any other zero-degree add.
func (c *Codec) ReadFuzzyParquet(path string, db *factstore.FuzzyStore) error {
	c.logger.Debug("Reading parquet fuzzy facts", "path", path)
	rows, err := parquet.ReadFile[ParquetFuzzyFact](path)
	if err != nil {
		return fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	for i, row := range rows {
		if row.Predicate == "" {
			return &factstore.MalformedInputError{Source: path, Line: i + 1, Record: fmt.Sprint(row.Args), Reason: "empty predicate name"}
		}
		db.Add(row.Predicate, factstore.Tuple(row.Args), row.Truth)
	}
	return nil
}
