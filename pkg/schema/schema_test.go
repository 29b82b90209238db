package schema_test

import (
	"testing"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/aretw0/fsnt/pkg/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *fst.Transducer {
	t.Helper()
	tr := fst.New(2)
	table := tr.Symbols()
	c, a := table.Intern("c"), table.Intern("a")
	v := table.Intern("<V>")
	require.NoError(t, table.Define(v, symbols.NewUnion(a, table.Intern("e")), true))
	flag, err := table.ParseToken("@U.CASE.NOM@")
	require.NoError(t, err)
	cat := table.Intern("<tag>")
	require.NoError(t, table.Define(cat, symbols.Category{Class: symbols.ClassTag}, true))

	require.NoError(t, tr.SetTapeInfo("surface", fst.TapeInfo{Index: 0}))
	require.NoError(t, tr.SetTapeInfo("analysis", fst.TapeInfo{Index: 1, Flags: 1}))
	require.NoError(t, tr.SetTapeInfo("lemma", fst.TapeInfo{Index: 1}))

	s1, err := tr.InsertTransitionNew(fst.Initial, fst.Transition{Symbols: []symbols.Symbol{c, c}, Weight: 0.5}, false)
	require.NoError(t, err)
	s2, err := tr.InsertTransitionNew(s1, fst.NewTransition(v, flag), false)
	require.NoError(t, err)
	require.NoError(t, tr.InsertTransition(s2, s2, fst.NewTransition(symbols.Epsilon, cat)))
	tr.SetFinal(s2, 1.25)
	return tr
}

func TestDocument_RoundTrip(t *testing.T) {
	for _, f := range []schema.Format{schema.FormatJSON, schema.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			src := sample(t)
			data, err := schema.Encode(schema.FromTransducer(src), f)
			require.NoError(t, err)

			doc, err := schema.Decode(data, f)
			require.NoError(t, err)
			got, err := doc.Transducer()
			require.NoError(t, err)

			assert.Equal(t, src.TapeCount(), got.TapeCount())
			assert.Equal(t, src.Size(), got.Size())
			assert.Equal(t, src.TapeNames(), got.TapeNames())
			assert.Equal(t, src.TapeInfos(), got.TapeInfos())
			assert.Equal(t, src.Symbols().Names(), got.Symbols().Names(), "handles are stable")
			assert.Equal(t, src.Finals(), got.Finals())
			for s := range src.Size() {
				assert.Equal(t, src.Edges(fst.StateID(s)), got.Edges(fst.StateID(s)))
			}
			for _, sym := range src.Symbols().Defined() {
				require.True(t, got.Symbols().IsDefined(sym))
				assert.True(t, symbols.Equal(src.Symbols().Lookup(sym), got.Symbols().Lookup(sym)))
			}
			w, _ := got.FinalWeight(2)
			assert.InDelta(t, 1.25, w, 1e-9)
		})
	}
}

func TestDocument_HandWritten(t *testing.T) {
	data := []byte(`
tape_count: 2
tapes:
  - {name: surface, index: 0}
  - {name: analysis, index: 1}
states: 2
transitions:
  - {from: 0, to: 1, symbols: [c, ""]}
finals:
  - {state: 1}
`)
	doc, err := schema.Decode(data, schema.FormatYAML)
	require.NoError(t, err)
	tr, err := doc.Transducer()
	require.NoError(t, err)

	edges := tr.Edges(fst.Initial)
	require.Len(t, edges, 1)
	assert.Equal(t, symbols.Epsilon, edges[0].Transition.Symbols[1])
	assert.True(t, tr.IsFinal(1))
}

func TestDocument_Validate(t *testing.T) {
	doc := &schema.Document{
		TapeCount: 1,
		States:    2,
		Tapes:     []schema.Tape{{Name: "", Index: 3}},
		Expansions: []schema.Expansion{
			{Symbol: "<x>", Kind: "bogus"},
			{Symbol: "<y>", Kind: "category", Class: "nope"},
		},
		Transitions: []schema.Transition{
			{From: 0, To: 5, Symbols: []string{"a"}},
			{From: 0, To: 1, Symbols: []string{"a", "b"}},
		},
		Finals: []schema.Final{{State: -1}},
	}

	_, err := doc.Transducer()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	errs := schema.ValidationErrors(err)
	keys := make([]string, 0, len(errs))
	for _, e := range errs {
		var ve *schema.ValidationError
		require.ErrorAs(t, e, &ve)
		keys = append(keys, ve.Key)
	}
	assert.Equal(t, []string{
		"tapes[0].name",
		"tapes[0].index",
		"expansions[0]",
		"expansions[1]",
		"transitions[0].to",
		"transitions[1].symbols",
		"finals[0].state",
	}, keys)
	assert.Contains(t, err.Error(), "7 validation errors")
}

func TestDocument_ValidateSingleError(t *testing.T) {
	doc := &schema.Document{TapeCount: -1}
	err := doc.Validate()
	require.Error(t, err)
	assert.Equal(t, `field "tape_count": must not be negative (got -1)`, err.Error())
	assert.Nil(t, schema.ValidationErrors(nil))
}

func TestDocument_MaxStates(t *testing.T) {
	doc := &schema.Document{TapeCount: 1, States: 2000000000}
	_, err := doc.Transducer(schema.WithMaxStates(100))
	assert.ErrorIs(t, err, domain.ErrResourceExhausted)

	tr, err := schema.FromTransducer(sample(t)).Transducer(schema.WithMaxStates(3))
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Size())
}

func TestDecode_Malformed(t *testing.T) {
	_, err := schema.Decode([]byte("{"), schema.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
	_, err = schema.Decode([]byte("states: [1"), schema.FormatYAML)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
	_, err = schema.Decode([]byte("{}"), schema.Format("toml"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want schema.Format
		ok   bool
	}{
		{"noun.json", schema.FormatJSON, true},
		{"dir/noun.YAML", schema.FormatYAML, true},
		{"noun.yml", schema.FormatYAML, true},
		{"noun.att", "", false},
		{"noun", "", false},
	}
	for _, tt := range tests {
		got, ok := schema.FormatFromPath(tt.path)
		assert.Equal(t, tt.want, got, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
	}
}
