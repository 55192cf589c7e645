// Package formats reads and writes fact stores in plain-text relational
// learning formats and in Parquet.
//
// # Supported Formats
//
//   - FormatTables ("csv"): a directory with one <name>.csv table per
//     positive predicate, one delimited tuple per line
//   - FormatAlchemy ("alchemy"): a single file of name,a,b records; a
//     leading '!' marks a negative fact
//   - FormatAleph ("aleph"): <base>.f holds positive and <base>.n negative
//     facts, written as name(a, b). clauses
//   - FormatParquet ("parquet"): one row per fact, for both store variants
//
// All whitespace is removed from a line before it is split and blank lines
// are skipped. The alchemy and aleph readers accept both the record shape
// (name,a,b) and the clause shape (name(a,b).), so everything the writers
// emit reads back unchanged.
//
// # Usage
//
//	codec, err := formats.New(&formats.Config{Delimiter: ","}, logger)
//	if err != nil {
//	    return err
//	}
//	db := factstore.NewBooleanStore()
//	if err := codec.ReadBoolean(formats.FormatAlchemy, "train.db", db); err != nil {
//	    return err
//	}
//	return codec.WriteBoolean(formats.FormatAleph, db, "train")
package formats
