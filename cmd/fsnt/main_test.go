package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lexiconATT = "# tapes:\tlemma\tsurface\n0\t1\tgo\twent\n0\t1\tgo\tgoes\n1\n"
	taggerATT  = "# tapes:\tsurface\ttag\n0\t1\twent\tPAST\n1\n"
)

// run executes the command line on a fresh command tree.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "fsnt version "))
}

func TestCompose(t *testing.T) {
	dir := t.TempDir()
	lex := writeFile(t, dir, "lexicon.att", lexiconATT)
	tag := writeFile(t, dir, "tagger.att", taggerATT)
	result := filepath.Join(dir, "analyzer.json")

	_, err := run(t, "", "compose", "-g", "surface:surface", "--strip", lex, tag, result)
	require.NoError(t, err)

	out, err := run(t, "", "expand", result)
	require.NoError(t, err)
	assert.Equal(t, "go:went:PAST\n", out)
}

func TestCompose_ToStdout(t *testing.T) {
	dir := t.TempDir()
	tag := writeFile(t, dir, "tagger.att", taggerATT)

	out, err := run(t, lexiconATT, "compose", "-g", "surface:surface", "-", tag)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# tapes:\tlemma\tsurface\ttag\n"), out)
}

func TestCompose_Errors(t *testing.T) {
	dir := t.TempDir()
	lex := writeFile(t, dir, "lexicon.att", lexiconATT)
	tag := writeFile(t, dir, "tagger.att", taggerATT)

	tests := []struct {
		name string
		args []string
	}{
		{"BadGlue", []string{"compose", "-g", "surface", lex, tag}},
		{"UnknownTape", []string{"compose", "-g", "missing:surface", lex, tag}},
		{"TwoStdin", []string{"compose", "-", "-"}},
		{"MissingFile", []string{"compose", filepath.Join(dir, "nope.att"), tag}},
		{"Ceiling", []string{"compose", "-g", "surface:surface", "--max-states", "1", lex, tag}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, "", tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestExpand_Weights(t *testing.T) {
	out, err := run(t, "# tapes:\tx\ty\n0\t1\ta\tb\t0.5\n1\t0.25\n", "expand", "--weights")
	require.NoError(t, err)
	assert.Equal(t, "a:b\t0.75\n", out)
}

func TestConvert_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.att", "# tapes:\tx\ty\n0\t1\ta\tb\n1\n")
	doc := filepath.Join(dir, "doc.yaml")

	_, err := run(t, "", "txt2fst", in, doc)
	require.NoError(t, err)
	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tape_count: 2")

	out, err := run(t, "", "fst2txt", "--no-weights", "--no-headers", doc)
	require.NoError(t, err)
	assert.Equal(t, "0\t1\ta\tb\n1\n", out)
}

func TestTxt2Fst_UnknownFormat(t *testing.T) {
	_, err := run(t, "0\t1\ta\tb\n1\n", "txt2fst", "--format", "toml")
	assert.Error(t, err)
}

func TestStripAndInfo(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.att", "# tapes:\tx\ty\n0\t1\ta\tb\n0\t2\tc\td\n1\n")
	stripped := filepath.Join(dir, "stripped.att")

	_, err := run(t, "", "strip", in, stripped)
	require.NoError(t, err)

	out, err := run(t, "", "info", "--json", stripped)
	require.NoError(t, err)
	var summary ops.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, []string{"x", "y"}, summary.Tapes)
	assert.Equal(t, 2, summary.States)
	assert.Equal(t, 1, summary.Transitions)

	out, err = run(t, "", "info", stripped)
	require.NoError(t, err)
	assert.Contains(t, out, "# stripped.att")
}

func TestReverse(t *testing.T) {
	out, err := run(t, "# tapes:\tx\ty\n0\t1\ta\tb\n1\t2\tc\td\n2\n", "reverse")
	require.NoError(t, err)

	paths, err := run(t, out, "expand")
	require.NoError(t, err)
	assert.Equal(t, "ca:db\n", paths)
}

func TestGraph(t *testing.T) {
	input := "0\t1\ta\tb\n1\n"
	out, err := run(t, input, "graph", "--highlight", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.Contains(t, out, "s0 -- ")

	_, err = run(t, input, "graph", "--highlight", "9")
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "store")
	lex := writeFile(t, dir, "lexicon.att", lexiconATT)
	tag := writeFile(t, dir, "tagger.att", taggerATT)
	flags := []string{"--store", "file", "--store-dir", storeDir}
	store := func(args ...string) (string, error) {
		return run(t, "", append(append([]string{"store"}, args...), flags...)...)
	}

	_, err := store("put", "lexicon", lex)
	require.NoError(t, err)
	_, err = store("put", "tagger", tag)
	require.NoError(t, err)

	out, err := store("list")
	require.NoError(t, err)
	assert.Equal(t, "lexicon\ntagger\n", out)

	_, err = store("compose", "lexicon", "tagger", "-g", "surface:surface", "-o", "analyzer", "--strip")
	require.NoError(t, err)

	text, err := store("get", "analyzer")
	require.NoError(t, err)
	out, err = run(t, text, "expand")
	require.NoError(t, err)
	assert.Equal(t, "go:went:PAST\n", out)

	_, err = store("delete", "analyzer")
	require.NoError(t, err)
	_, err = store("get", "analyzer")
	assert.Error(t, err)

	out, err = store("list")
	require.NoError(t, err)
	assert.Equal(t, "lexicon\ntagger\n", out)
}

func TestStore_UnknownKind(t *testing.T) {
	_, err := run(t, "", "store", "list", "--store", "tape")
	assert.Error(t, err)
}

func TestMCP_UnknownTransport(t *testing.T) {
	_, err := run(t, "", "mcp", "--store", "memory", "--transport", "carrier-pigeon")
	assert.Error(t, err)
}
