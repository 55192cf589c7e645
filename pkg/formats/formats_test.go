package formats

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore() *factstore.BooleanStore {
	db := factstore.NewBooleanStore()
	db.Add("friend", factstore.Tuple{"a", "b"}, true)
	db.Add("friend", factstore.Tuple{"b", "c"}, false)
	db.Add("parent", factstore.Tuple{"alice", "bob"}, true)
	db.Add("parent", factstore.Tuple{"bob", "carl"}, true)
	db.Add("smokes", factstore.Tuple{"carl"}, false)
	return db
}

func assertSameFacts(t *testing.T, want, got *factstore.BooleanStore) {
	t.Helper()
	assert.Equal(t, want.PositiveNames(), got.PositiveNames())
	assert.Equal(t, want.NegativeNames(), got.NegativeNames())
	for _, name := range want.PositiveNames() {
		w, _ := want.Positive(name)
		g, err := got.Positive(name)
		require.NoError(t, err)
		assert.Equal(t, w.Tuples(), g.Tuples(), "positive %s", name)
	}
	for _, name := range want.NegativeNames() {
		w, _ := want.Negative(name)
		g, err := got.Negative(name)
		require.NoError(t, err)
		assert.Equal(t, w.Tuples(), g.Tuples(), "negative %s", name)
	}
}

func newCodec(t *testing.T, delimiter string) *Codec {
	t.Helper()
	c, err := New(&Config{Delimiter: delimiter}, nil)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ",", c.Delimiter())

	c, err = New(&Config{Delimiter: "\t"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "\t", c.Delimiter())

	_, err = New(&Config{Delimiter: "::"}, nil)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("prolog")
	assert.Error(t, err)
}

func TestAlchemy(t *testing.T) {
	t.Run("encode", func(t *testing.T) {
		db := factstore.NewBooleanStore()
		db.Add("friend", factstore.Tuple{"a", "b"}, true)
		db.Add("friend", factstore.Tuple{"b", "c"}, false)

		var buf bytes.Buffer
		require.NoError(t, EncodeAlchemy(&buf, db))
		assert.Equal(t, "friend,a,b\n!friend,b,c\n", buf.String())
	})

	t.Run("encode rejects names that do not read back", func(t *testing.T) {
		for _, name := range []string{"!p", "p,q", "f(x", "p q"} {
			db := factstore.NewBooleanStore()
			db.Add(name, factstore.Tuple{"a"}, true)

			var buf bytes.Buffer
			err := EncodeAlchemy(&buf, db)
			assert.ErrorIs(t, err, ErrUnrepresentableFact, name)
			assert.Empty(t, buf.String(), name)
		}
	})

	t.Run("decode strips whitespace and reads signs", func(t *testing.T) {
		input := " friend , a , b\n\n!friend,b,\tc\r\nsmokes(carl)\n"
		db := factstore.NewBooleanStore()
		require.NoError(t, DecodeAlchemy(strings.NewReader(input), "test.db", db))

		pos, err := db.Positive("friend")
		require.NoError(t, err)
		assert.Equal(t, []factstore.Tuple{{"a", "b"}}, pos.Tuples())
		neg, err := db.Negative("friend")
		require.NoError(t, err)
		assert.Equal(t, []factstore.Tuple{{"b", "c"}}, neg.Tuples())
		assert.True(t, db.Contains("smokes", factstore.Tuple{"carl"}))
		assert.Equal(t, 3, db.Size())
	})

	t.Run("decode parenthesised constants", func(t *testing.T) {
		db := factstore.NewBooleanStore()
		require.NoError(t, DecodeAlchemy(strings.NewReader("p,f(x)\n!q,g(a,b)\n"), "test.db", db))
		assert.Equal(t, []string{"p", "q"}, db.PredicateNames())
		assert.True(t, db.Contains("p", factstore.Tuple{"f(x)"}))
		neg, err := db.Negative("q")
		require.NoError(t, err)
		assert.Equal(t, []factstore.Tuple{{"g(a", "b)"}}, neg.Tuples())
	})

	t.Run("malformed records", func(t *testing.T) {
		for _, input := range []string{"!\n", ",a,b\n", "p(a,b\n", "p)a\n", "!(a)\n"} {
			db := factstore.NewBooleanStore()
			err := DecodeAlchemy(strings.NewReader(input), "bad.db", db)
			require.Error(t, err, input)
			assert.True(t, errors.Is(err, factstore.ErrMalformedInput), input)

			var malformed *factstore.MalformedInputError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "bad.db", malformed.Source)
			assert.Equal(t, 1, malformed.Line)
		}
	})

	t.Run("file round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "facts.db")
		c := newCodec(t, ",")
		want := sampleStore()
		require.NoError(t, c.WriteBoolean(FormatAlchemy, want, path))

		got := factstore.NewBooleanStore()
		require.NoError(t, c.ReadBoolean(FormatAlchemy, path, got))
		assertSameFacts(t, want, got)
	})

	t.Run("missing file", func(t *testing.T) {
		c := newCodec(t, ",")
		err := c.ReadAlchemy(filepath.Join(t.TempDir(), "none.db"), factstore.NewBooleanStore())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestAleph(t *testing.T) {
	t.Run("encode clauses", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, EncodeAleph(&buf, sampleStore(), true))
		assert.Equal(t, "friend(a, b).\nparent(alice, bob).\nparent(bob, carl).\n", buf.String())

		buf.Reset()
		require.NoError(t, EncodeAleph(&buf, sampleStore(), false))
		assert.Equal(t, "friend(b, c).\nsmokes(carl).\n", buf.String())
	})

	t.Run("encode rejects facts that do not read back", func(t *testing.T) {
		db := factstore.NewBooleanStore()
		db.Add("p", factstore.Tuple{""}, true)
		err := EncodeAleph(&bytes.Buffer{}, db, true)
		assert.ErrorIs(t, err, ErrUnrepresentableFact)

		db = factstore.NewBooleanStore()
		db.Add("p(x", factstore.Tuple{"a"}, false)
		err = EncodeAleph(&bytes.Buffer{}, db, false)
		assert.ErrorIs(t, err, ErrUnrepresentableFact)

		db = factstore.NewBooleanStore()
		db.Add("!p", factstore.Tuple{"a"}, true)
		db.Add("p", factstore.Tuple{"", "b"}, true)
		var buf bytes.Buffer
		require.NoError(t, EncodeAleph(&buf, db, true))
		assert.Equal(t, "!p(a).\np(, b).\n", buf.String())
	})

	t.Run("decode record shape", func(t *testing.T) {
		db := factstore.NewBooleanStore()
		require.NoError(t, DecodeAleph(strings.NewReader("friend, a, b\n"), "x.n", false, db))
		neg, err := db.Negative("friend")
		require.NoError(t, err)
		assert.Equal(t, []factstore.Tuple{{"a", "b"}}, neg.Tuples())
	})

	t.Run("file round trip", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "train")
		c := newCodec(t, ",")
		want := sampleStore()
		require.NoError(t, c.WriteBoolean(FormatAleph, want, base))
		assert.FileExists(t, base+".f")
		assert.FileExists(t, base+".n")

		got := factstore.NewBooleanStore()
		require.NoError(t, c.ReadBoolean(FormatAleph, base, got))
		assertSameFacts(t, want, got)
	})

	t.Run("missing negative file", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "train")
		require.NoError(t, os.WriteFile(base+".f", []byte("p(a).\n"), 0644))

		c := newCodec(t, ",")
		err := c.ReadAleph(base, factstore.NewBooleanStore())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestTables(t *testing.T) {
	t.Run("round trip keeps positives only", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "tables")
		c := newCodec(t, ",")
		require.NoError(t, c.WriteBoolean(FormatTables, sampleStore(), dir))

		data, err := os.ReadFile(filepath.Join(dir, "parent.csv"))
		require.NoError(t, err)
		assert.Equal(t, "alice,bob\nbob,carl\n", string(data))
		assert.NoFileExists(t, filepath.Join(dir, "smokes.csv"))

		got := factstore.NewBooleanStore()
		require.NoError(t, c.ReadBoolean(FormatTables, dir, got))
		assert.Equal(t, []string{"friend", "parent"}, got.PositiveNames())
		assert.Empty(t, got.NegativeNames())
		assert.Equal(t, 3, got.Size())
	})

	t.Run("custom delimiter keeps tab", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "edge.csv"), []byte(" a\tb \n\nc\td\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored\n"), 0644))

		got := factstore.NewBooleanStore()
		require.NoError(t, newCodec(t, "\t").ReadTables(dir, got))
		pos, err := got.Positive("edge")
		require.NoError(t, err)
		assert.Equal(t, []factstore.Tuple{{"a", "b"}, {"c", "d"}}, pos.Tuples())
		assert.Equal(t, []string{"edge"}, got.PredicateNames())
	})

	t.Run("rejects unsafe names", func(t *testing.T) {
		db := factstore.NewBooleanStore()
		db.Add("../escape", factstore.Tuple{"a"}, true)
		err := newCodec(t, ",").WriteTables(db, t.TempDir())
		assert.ErrorIs(t, err, ErrInvalidPredicateName)
	})

	t.Run("missing directory", func(t *testing.T) {
		err := newCodec(t, ",").ReadTables(filepath.Join(t.TempDir(), "none"), factstore.NewBooleanStore())
		assert.Error(t, err)
	})
}

func TestParquet(t *testing.T) {
	t.Run("boolean round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "facts.parquet")
		c := newCodec(t, ",")
		want := sampleStore()
		require.NoError(t, c.WriteBoolean(FormatParquet, want, path))

		got := factstore.NewBooleanStore()
		require.NoError(t, c.ReadBoolean(FormatParquet, path, got))
		assertSameFacts(t, want, got)
	})

	t.Run("fuzzy round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fuzzy.parquet")
		c := newCodec(t, ",")
		want := factstore.NewFuzzyStore()
		want.Add("p", factstore.Tuple{"1", "2"}, 0.9)
		want.Add("q", factstore.Tuple{"a"}, 0.25)
		require.NoError(t, c.WriteFuzzy(FormatParquet, want, path))

		got := factstore.NewFuzzyStore()
		require.NoError(t, c.ReadFuzzy(FormatParquet, path, got))
		assert.Equal(t, want.PredicateNames(), got.PredicateNames())
		truth, ok := got.Truth("p", factstore.Tuple{"1", "2"})
		require.True(t, ok)
		assert.Equal(t, 0.9, truth)
		assert.Equal(t, 2, got.Size())
	})

	t.Run("fuzzy needs parquet", func(t *testing.T) {
		c := newCodec(t, ",")
		assert.Error(t, c.WriteFuzzy(FormatAlchemy, factstore.NewFuzzyStore(), "x"))
		assert.Error(t, c.ReadFuzzy(FormatTables, "x", factstore.NewFuzzyStore()))
	})
}

func TestSignature(t *testing.T) {
	sig, err := ParseSignature([]byte("parent: [person, person]\nage:\n  - person\n  - int\n"))
	require.NoError(t, err)
	assert.Equal(t, factstore.Signature{
		"parent": {"person", "person"},
		"age":    {"person", "int"},
	}, sig)

	path := filepath.Join(t.TempDir(), "sig.yaml")
	require.NoError(t, SaveSignature(sig, path))
	loaded, err := LoadSignature(path)
	require.NoError(t, err)
	assert.Equal(t, sig, loaded)

	_, err = ParseSignature([]byte("parent: [person, '']\n"))
	assert.Error(t, err)
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		line   string
		name   string
		args   factstore.Tuple
		reason string
	}{
		{line: "p,a,b", name: "p", args: factstore.Tuple{"a", "b"}},
		{line: "p", name: "p", args: factstore.Tuple{}},
		{line: "p(a,b).", name: "p", args: factstore.Tuple{"a", "b"}},
		{line: "p(a)", name: "p", args: factstore.Tuple{"a"}},
		{line: "p().", name: "p", args: factstore.Tuple{}},
		{line: "(a)", reason: "empty predicate name"},
		{line: "p((a))", reason: "unbalanced parentheses"},
		{line: "p(a).x", reason: "unbalanced parentheses"},
		{line: "p,f(x)", name: "p", args: factstore.Tuple{"f(x)"}},
		{line: "p,g(a,b)", name: "p", args: factstore.Tuple{"g(a", "b)"}},
		{line: "p(a,b),c", reason: "unbalanced parentheses"},
		{line: "p)a,b", reason: "unbalanced parentheses"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec, reason := parseRecord(tt.line)
			assert.Equal(t, tt.reason, reason)
			if tt.reason == "" {
				assert.Equal(t, tt.name, rec.name)
				assert.Equal(t, tt.args, rec.args)
			}
		})
	}
}
