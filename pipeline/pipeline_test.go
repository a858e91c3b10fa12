package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Franka-Beyer/HSprakt/features"
	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/matches"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func testInput() Input {
	return Input{
		Pairs: []string{"a:b", "c:d", "e:f"},
		Labels: map[string]types.Relation{
			"a:b": types.RelationAntonym,
			"c:d": types.RelationSynonym,
			"e:f": types.RelationNonym,
		},
		Lines: map[string][][]string{
			"a:b": {{"a", "und", "b"}},
			"c:d": {{"c", "oder", "d"}, {"c", "und", "d"}},
		},
	}
}

func TestExtractRaw(t *testing.T) {
	params := Params{K: 1, Normalize: false, Balance: false}

	result, err := Extract(params, lemmatizer.New(nil), testInput())
	require.NoError(t, err)

	assert.Equal(t, features.Vocabulary{"X * Y", "X und Y"}, result.Vocabulary)
	assert.Equal(t, []string{"a:b", "c:d"}, result.Pairs)

	expected := map[string]features.Vector{
		"a:b": {math.Ln2, math.Ln2},
		"c:d": {math.Log(3), math.Ln2},
	}
	if diff := cmp.Diff(expected, result.Vectors, approx); diff != "" {
		t.Errorf("unexpected vectors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(expected, result.Raw, approx); diff != "" {
		t.Errorf("unexpected raw vectors (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{features.HeaderPair, features.HeaderLabel, "X * Y", "X und Y"}, result.Table.Header)
	require.Len(t, result.Table.Rows, 2)
	assert.Equal(t, types.RelationSynonym, result.Table.Rows[1].Label)
}

func TestExtractNormalizedAndBalanced(t *testing.T) {
	result, err := Extract(GetDefaultParams(), lemmatizer.New(nil), testInput())
	require.NoError(t, err)

	// k*N = 40 exceeds the three distinct patterns.
	assert.Equal(t, features.Vocabulary{"X * Y", "X und Y", "X oder Y"}, result.Vocabulary)

	norm := math.Sqrt(math.Pow(math.Log(3), 2) + 2*math.Pow(math.Ln2, 2))
	expected := map[string]features.Vector{
		"a:b": {1 / math.Sqrt2, 1 / math.Sqrt2, 0},
		"c:d": {math.Log(3) / norm, math.Ln2 / norm, math.Ln2 / norm},
	}
	if diff := cmp.Diff(expected, result.Vectors, approx); diff != "" {
		t.Errorf("unexpected vectors (-want +got):\n%s", diff)
	}

	// One row per label, the cap 20*1*2+2 keeps every column.
	require.Len(t, result.Table.Rows, 2)
	assert.Len(t, result.Table.Header, 5)
	for _, row := range result.Table.Rows {
		if diff := cmp.Diff(expected[row.Pair], row.Values, approx); diff != "" {
			t.Errorf("unexpected values of %s (-want +got):\n%s", row.Pair, diff)
		}
	}
}

func TestExtractLemmatizes(t *testing.T) {
	input := Input{
		Pairs:  []string{"Haus:Hütte"},
		Labels: map[string]types.Relation{"Haus:Hütte": types.RelationSynonym},
		Lines:  map[string][][]string{"Haus:Hütte": {{"Häuser", "und", "Hütten"}}},
	}
	lem := lemmatizer.New(lemmatizer.FormLemma{"Häuser": "Haus", "Hütten": "Hütte"})

	result, err := Extract(Params{K: 20}, lem, input)
	require.NoError(t, err)
	assert.Equal(t, features.Vocabulary{"X * Y", "X und Y"}, result.Vocabulary)
}

func TestExtractMalformedPair(t *testing.T) {
	input := Input{
		Pairs: []string{"nocolon"},
		Lines: map[string][][]string{"nocolon": {{"a"}}},
	}
	_, err := Extract(Params{K: 20}, lemmatizer.New(nil), input)
	assert.Error(t, err)
}

func TestExtractNothingToBalance(t *testing.T) {
	_, err := Extract(GetDefaultParams(), lemmatizer.New(nil), Input{})
	assert.ErrorIs(t, err, features.ErrEmptyTable)
}

func TestVectorizer(t *testing.T) {
	vectorizer := NewVectorizer(features.Vocabulary{"X * Y", "X und Y", "X oder Y"}, lemmatizer.New(nil))
	pair := types.NewWordPair("a", "b", types.RelationAntonym)

	vector := vectorizer.Vectorize(pair, [][]string{{"a", "und", "b"}})
	if diff := cmp.Diff(features.Vector{1 / math.Sqrt2, 1 / math.Sqrt2, 0}, vector, approx); diff != "" {
		t.Errorf("unexpected vector (-want +got):\n%s", diff)
	}

	assert.Equal(t, features.Vector{0, 0, 0}, vectorizer.Vectorize(pair, nil))
}

func writeManifest(t *testing.T, dir, name string, label types.Relation, pairs ...string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, types.WriteManifest(path, types.ResultManifest{Label: label, Pairs: pairs}))
	return path
}

func TestLabelPairs(t *testing.T) {
	dir := t.TempDir()
	antonyms := writeManifest(t, dir, "antonyms.json", types.RelationAntonym, "a:b", "c:d")
	synonyms := writeManifest(t, dir, "synonyms.json", types.RelationSynonym, "e:f", "a:b")

	pairs, labels, err := LabelPairs([]types.Source{
		{Manifest: antonyms, Label: types.RelationAntonym},
		{Manifest: synonyms},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a:b", "c:d", "e:f"}, pairs)
	assert.Equal(t, map[string]types.Relation{
		"a:b": types.RelationSynonym,
		"c:d": types.RelationAntonym,
		"e:f": types.RelationSynonym,
	}, labels)

	_, _, err = LabelPairs([]types.Source{{Manifest: filepath.Join(dir, "missing.json")}})
	assert.Error(t, err)
}

func TestLoadInputSkipsPairsWithoutMatches(t *testing.T) {
	store := matches.NewFileStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a:b", [][]string{{"a", "und", "b"}}))

	labels := map[string]types.Relation{"a:b": types.RelationAntonym, "c:d": types.RelationSynonym}
	input, err := LoadInput(ctx, store, []string{"a:b", "c:d"}, labels)
	require.NoError(t, err)
	assert.Equal(t, []string{"a:b"}, input.Pairs)
	assert.Equal(t, [][]string{{"a", "und", "b"}}, input.Lines["a:b"])
}

func TestRunAndSave(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store := matches.NewFileStore(dir)
	require.NoError(t, store.Save(ctx, "heiß:kalt", [][]string{{"heiße", "oder", "kalte"}, {"heiß", "und", "kalt"}}))
	require.NoError(t, store.Save(ctx, "hell:dunkel", [][]string{{"hell", "und", "dunkel"}}))
	require.NoError(t, store.Save(ctx, "Haus:Hütte", [][]string{{"Häuser", "und", "Hütten"}}))

	formLemma := filepath.Join(dir, "FormLemma.json")
	require.NoError(t, lemmatizer.WriteJSON(formLemma, lemmatizer.FormLemma{
		"heiße": "heiß", "kalte": "kalt", "Häuser": "Haus", "Hütten": "Hütte",
	}))

	cfg := types.RunConfiguration{
		Name:      "test",
		FormLemma: formLemma,
		Sources: []types.Source{
			{Manifest: writeManifest(t, dir, "a.json", types.RelationAntonym, "heiß:kalt", "hell:dunkel"), Label: types.RelationAntonym},
			{Manifest: writeManifest(t, dir, "s.json", types.RelationSynonym, "Haus:Hütte"), Label: types.RelationSynonym},
		},
		Outputs: types.Outputs{
			Vocabulary: filepath.Join(dir, "chosenPatterns.json"),
			Vectors:    filepath.Join(dir, "VektorDict.json"),
			Data:       filepath.Join(dir, "Data.csv"),
		},
	}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	result, err := Run(ctx, cfg, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"heiß:kalt", "hell:dunkel", "Haus:Hütte"}, result.Pairs)
	// Balanced: one row per label.
	assert.Equal(t, map[types.Relation]int{types.RelationAntonym: 1, types.RelationSynonym: 1}, result.Table.LabelCounts())

	files, err := Save(result, cfg.Outputs)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, file := range files {
		assert.FileExists(t, file)
	}
	data, err := os.ReadFile(cfg.Outputs.Data)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "WordPair\tLabel\tX * Y"))
	assert.True(t, strings.HasPrefix(lines[1], "heiß:kalt\tantonyms\t"))
	assert.True(t, strings.HasPrefix(lines[2], "Haus:Hütte\tsynonyms\t"))
}
