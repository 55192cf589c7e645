// Package snapshot persists whole fact stores in an embedded badger database.
//
// A snapshot is a named copy of one store. Saving under an existing name
// replaces the previous copy; there is no incremental sync and no
// transactional guarantee across snapshots.
package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/soundprediction/ecopredicate/pkg/factstore"
)

var (
	// ErrInvalidName is returned when a snapshot name is empty or contains a NUL byte
	ErrInvalidName = errors.New("invalid snapshot name")

	// ErrNotFound is returned when loading a snapshot that was never saved
	ErrNotFound = errors.New("snapshot not found")

	// ErrTypeMismatch is returned when loading a snapshot into the other store variant
	ErrTypeMismatch = errors.New("snapshot holds a different store type")
)

const (
	metaPrefix = "m\x00"
	dataPrefix = "d\x00"

	kindPositive = "+"
	kindNegative = "-"
	kindFuzzy    = "f"
)

// Info describes a saved snapshot.
type Info struct {
	Name string              `json:"name"`
	Type factstore.StoreType `json:"type"`
}

// Store saves and loads fact store snapshots.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (creating if needed) a snapshot database in dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return open(badger.DefaultOptions(dir), logger)
}

// OpenInMemory opens a snapshot database that lives only in memory.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := badger.Open(opts.WithLogger(&badgerLogger{logger: logger}))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func validateName(name string) error {
	if name == "" || strings.ContainsRune(name, '\x00') {
		return ErrInvalidName
	}
	return nil
}

func metaKey(name string) []byte {
	return []byte(metaPrefix + name)
}

func snapshotPrefix(name string) []byte {
	return []byte(dataPrefix + name + "\x00")
}

// factKey lays out d\x00<snapshot>\x00<kind>\x00 followed by the predicate
// and its arguments in the length-prefixed form of factstore.Tuple.Key, which
// keeps every byte of every constant.
func factKey(snapshot, kind, predicate string, args factstore.Tuple) []byte {
	fields := append(factstore.Tuple{predicate}, args...)
	return []byte(dataPrefix + snapshot + "\x00" + kind + "\x00" + fields.Key())
}

func parseFactKey(prefix, key []byte) (kind, predicate string, args factstore.Tuple, err error) {
	rest := key[len(prefix):]
	if len(rest) < 2 || rest[1] != 0 {
		return "", "", nil, fmt.Errorf("corrupt snapshot key %q", key)
	}
	fields, err := factstore.ParseKey(string(rest[2:]))
	if err != nil || len(fields) == 0 {
		return "", "", nil, fmt.Errorf("corrupt snapshot key %q", key)
	}
	return string(rest[0]), fields[0], fields[1:], nil
}

func encodeTruth(truth float64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(truth))
	return buf
}

func decodeTruth(b []byte) (float64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("corrupt truth value of %d bytes", len(b))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

type entry struct {
	key   []byte
	value []byte
}

// keysWithPrefix returns every key starting with prefix.
func (s *Store) keysWithPrefix(prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// replace drops any previous copy of the snapshot and writes entries.
func (s *Store) replace(ctx context.Context, name string, storeType factstore.StoreType, entries []entry) error {
	stale, err := s.keysWithPrefix(snapshotPrefix(name))
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("failed to clear snapshot %s: %w", name, err)
		}
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := wb.Set(e.key, e.value); err != nil {
			return fmt.Errorf("failed to write snapshot %s: %w", name, err)
		}
	}
	if err := wb.Set(metaKey(name), []byte(storeType)); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", name, err)
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot %s: %w", name, err)
	}
	s.logger.Info("Persisted snapshot", "name", name, "type", storeType, "facts", len(entries))
	return nil
}

// scan checks the snapshot type and calls fn for every stored fact.
func (s *Store) scan(ctx context.Context, name string, storeType factstore.StoreType, fn func(kind, predicate string, args factstore.Tuple, value []byte) error) error {
	if err := validateName(name); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err != nil {
			return err
		}
		saved, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if factstore.StoreType(saved) != storeType {
			return fmt.Errorf("%w: %s is %s, not %s", ErrTypeMismatch, name, saved, storeType)
		}

		prefix := snapshotPrefix(name)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			kind, predicate, args, err := parseFactKey(prefix, item.KeyCopy(nil))
			if err != nil {
				return err
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(kind, predicate, args, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveBoolean stores a copy of db under name.
func (s *Store) SaveBoolean(ctx context.Context, name string, db *factstore.BooleanStore) error {
	if err := validateName(name); err != nil {
		return err
	}
	entries := make([]entry, 0, db.Size())
	add := func(kind string, names []string, lookup func(string) (factstore.TupleSet, error)) error {
		for _, predicate := range names {
			set, err := lookup(predicate)
			if err != nil {
				return err
			}
			for _, t := range set.Tuples() {
				entries = append(entries, entry{key: factKey(name, kind, predicate, t)})
			}
		}
		return nil
	}
	if err := add(kindPositive, db.PositiveNames(), db.Positive); err != nil {
		return err
	}
	if err := add(kindNegative, db.NegativeNames(), db.Negative); err != nil {
		return err
	}
	return s.replace(ctx, name, factstore.StoreTypeBoolean, entries)
}

// LoadBoolean adds the facts of snapshot name to db.
func (s *Store) LoadBoolean(ctx context.Context, name string, db *factstore.BooleanStore) error {
	n := 0
	err := s.scan(ctx, name, factstore.StoreTypeBoolean, func(kind, predicate string, args factstore.Tuple, _ []byte) error {
		switch kind {
		case kindPositive:
			db.Add(predicate, args, true)
		case kindNegative:
			db.Add(predicate, args, false)
		default:
			return fmt.Errorf("unexpected fact kind %q in boolean snapshot %s", kind, name)
		}
		n++
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Loaded snapshot", "name", name, "facts", n)
	return nil
}

// SaveFuzzy stores a copy of db under name.
func (s *Store) SaveFuzzy(ctx context.Context, name string, db *factstore.FuzzyStore) error {
	if err := validateName(name); err != nil {
		return err
	}
	entries := make([]entry, 0, db.Size())
	for _, predicate := range db.PredicateNames() {
		table, err := db.Get(predicate)
		if err != nil {
			return err
		}
		for _, f := range table.Facts() {
			key := factKey(name, kindFuzzy, predicate, f.Args)
			entries = append(entries, entry{key: key, value: encodeTruth(f.Truth)})
		}
	}
	return s.replace(ctx, name, factstore.StoreTypeFuzzy, entries)
}

// LoadFuzzy adds the facts of snapshot name to db.
func (s *Store) LoadFuzzy(ctx context.Context, name string, db *factstore.FuzzyStore) error {
	n := 0
	err := s.scan(ctx, name, factstore.StoreTypeFuzzy, func(kind, predicate string, args factstore.Tuple, value []byte) error {
		if kind != kindFuzzy {
			return fmt.Errorf("unexpected fact kind %q in fuzzy snapshot %s", kind, name)
		}
		truth, err := decodeTruth(value)
		if err != nil {
			return err
		}
		db.Add(predicate, args, truth)
		n++
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Loaded snapshot", "name", name, "facts", n)
	return nil
}

// List returns the saved snapshots ordered by name.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(metaPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			infos = append(infos, Info{
				Name: string(item.Key()[len(prefix):]),
				Type: factstore.StoreType(value),
			})
		}
		return nil
	})
	return infos, err
}

// Delete removes snapshot name. Deleting an unknown snapshot is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	keys, err := s.keysWithPrefix(snapshotPrefix(name))
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range append(keys, metaKey(name)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	s.logger.Info("Deleted snapshot", "name", name, "facts", len(keys))
	return nil
}

// badgerLogger routes badger's internal logging to slog at reduced levels.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
