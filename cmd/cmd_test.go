package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Franka-Beyer/HSprakt/cqp"
	"github.com/Franka-Beyer/HSprakt/export"
	"github.com/Franka-Beyer/HSprakt/features"
	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/matches"
	"github.com/Franka-Beyer/HSprakt/relations"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&strings.Builder{})
	rootCmd.SetErr(&strings.Builder{})
	return rootCmd.ExecuteContext(context.Background())
}

func writeLines(t *testing.T, path string, lines ...string) {
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestLabelFromFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected types.Relation
	}{
		{name: "long antonyms", path: "data/antonyms_long.csv", expected: types.RelationAntonym},
		{name: "synonyms", path: "synonyms.csv", expected: types.RelationSynonym},
		{name: "nonyms", path: "/tmp/nonyms_2.csv", expected: types.RelationNonym},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := labelFromFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
		})
	}

	_, err := labelFromFile("pairs.csv")
	assert.ErrorIs(t, err, types.ErrUnknownRelation)
}

func TestChunkOutputs(t *testing.T) {
	manifest, blacklist := chunkOutputs(filepath.Join("data", "antonyms_long.csv"), 0, 200)
	assert.Equal(t, filepath.Join("data", "results_0-200_antonyms_long.json"), manifest)
	assert.Equal(t, filepath.Join("data", "blacklisted_0-200_antonyms_long.csv"), blacklist)
}

func TestQueryChunks(t *testing.T) {
	dir := t.TempDir()
	antonyms := filepath.Join(dir, "antonyms_long.csv")
	require.NoError(t, relations.WritePairs(antonyms, [][2]string{
		{"heiß", "kalt"}, {"hell", "dunkel"}, {"alt", "jung"}, {"groß", "klein"},
	}))

	var queried []types.WordPair
	query := func(_ context.Context, pairs []types.WordPair) (cqp.Outcome, error) {
		queried = pairs
		return cqp.Outcome{Found: []string{pairs[0].Key()}, Blacklisted: pairs[1:]}, nil
	}
	opts := chunkOptions{files: []string{antonyms}, begin: 1, end: 3}
	require.NoError(t, queryChunks(context.Background(), opts, query))

	assert.Equal(t, []types.WordPair{
		types.NewWordPair("hell", "dunkel", types.RelationAntonym),
		types.NewWordPair("alt", "jung", types.RelationAntonym),
	}, queried)

	manifestPath, blacklistPath := chunkOutputs(antonyms, 1, 3)
	manifest, err := types.ReadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, types.ResultManifest{Label: types.RelationAntonym, Pairs: []string{"hell:dunkel"}}, *manifest)

	blacklisted, err := relations.ReadRows(blacklistPath)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"alt", "jung"}}, blacklisted)
}

func TestQueryChunksFailures(t *testing.T) {
	dir := t.TempDir()
	synonyms := filepath.Join(dir, "synonyms.csv")
	require.NoError(t, relations.WritePairs(synonyms, [][2]string{{"Abbild", "Ebenbild"}}))
	failing := func(context.Context, []types.WordPair) (cqp.Outcome, error) {
		return cqp.Outcome{}, errors.New("broker gone")
	}

	err := queryChunks(context.Background(), chunkOptions{files: []string{synonyms}, end: 10}, failing)
	assert.EqualError(t, err, "broker gone")

	err = queryChunks(context.Background(), chunkOptions{files: []string{synonyms}, begin: 5, end: 1}, failing)
	assert.Error(t, err)

	unlabeled := filepath.Join(dir, "pairs.csv")
	require.NoError(t, relations.WritePairs(unlabeled, [][2]string{{"a", "b"}}))
	err = queryChunks(context.Background(), chunkOptions{files: []string{unlabeled}, end: 10}, failing)
	assert.ErrorIs(t, err, types.ErrUnknownRelation)
}

func TestCelexCommand(t *testing.T) {
	dir := t.TempDir()
	celex := filepath.Join(dir, "celex.txt")
	writeLines(t, celex, `H"auser\Haus`, `Haus\Haus`, `gro$e\gro$`, `Haus2\Haus`)
	lemmaForm := filepath.Join(dir, "LemmaForm.json")
	formLemma := filepath.Join(dir, "FormLemma.json")
	clean := filepath.Join(dir, "CELEXclean.json")

	require.NoError(t, execute(t, "celex",
		"--fullpath", celex,
		"--celexcleanfile", clean,
		"--lemmaformfile", lemmaForm,
		"--formlemmafile", formLemma,
	))

	forms, err := lemmatizer.LoadLemmaForms(lemmaForm)
	require.NoError(t, err)
	assert.Equal(t, lemmatizer.LemmaForms{"Haus": {"Häuser", "Haus"}, "groß": {"große"}}, forms)
	lemmas, err := lemmatizer.LoadFormLemma(formLemma)
	require.NoError(t, err)
	assert.Equal(t, lemmatizer.FormLemma{"Häuser": "Haus", "Haus": "Haus", "große": "groß"}, lemmas)

	// Rebuilding from the cleaned entries gives the same dictionaries.
	require.NoError(t, os.Remove(lemmaForm))
	require.NoError(t, execute(t, "celex",
		"--use-cleaned-celex",
		"--cleanedcelexfile", clean,
		"--lemmaformfile", lemmaForm,
		"--formlemmafile", formLemma,
	))
	rebuilt, err := lemmatizer.LoadLemmaForms(lemmaForm)
	require.NoError(t, err)
	assert.Equal(t, forms, rebuilt)
}

func TestSynonymsCommand(t *testing.T) {
	dir := t.TempDir()
	thesaurus := filepath.Join(dir, "openthesaurus.txt")
	lines := make([]string, 0, 20)
	for i := 0; i < 18; i++ {
		lines = append(lines, "# license")
	}
	lines = append(lines, "Abbild;Ebenbild;Spiegelbild", "(ugs.) Birne;Kopf", "etwas ...;nichts")
	writeLines(t, thesaurus, lines...)
	result := filepath.Join(dir, "synonyms.csv")

	require.NoError(t, execute(t, "synonyms", "--fullpath", thesaurus, "--filename", result))

	rows, err := relations.ReadRows(result)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Abbild", "Ebenbild"}, {"Birne", "Kopf"}}, rows)
}

func TestAntonymsCommand(t *testing.T) {
	dir := t.TempDir()
	relationsFile := filepath.Join(dir, "gn_relations.xml")
	writeLines(t, relationsFile, `<lex_rel name="has_antonym" dir="both" from="l1" to="l2"/>`)
	writeLines(t, filepath.Join(dir, "adj.Allgemein.xml"),
		`<lexUnit id="l1" sense="1">`, `<orthForm>heiß</orthForm>`,
		`<lexUnit id="l2" sense="1">`, `<orthForm>kalt</orthForm>`,
	)
	long := filepath.Join(dir, "antonyms_long.csv")
	short := filepath.Join(dir, "antonyms_short.csv")

	require.NoError(t, execute(t, "antonyms",
		"--fullpath", relationsFile,
		"--path", dir,
		"--filenamelong", long,
		"--filenameshort", short,
	))

	rows, err := relations.ReadRows(long)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"heiß", "kalt"}, {"kalt", "heiß"}}, rows)
	rows, err = relations.ReadRows(short)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"heiß", "kalt"}}, rows)
}

func TestNonymsCommand(t *testing.T) {
	dir := t.TempDir()
	antonyms := filepath.Join(dir, "antonyms_long.csv")
	synonyms := filepath.Join(dir, "synonyms.csv")
	require.NoError(t, relations.WritePairs(antonyms, [][2]string{{"heiß", "kalt"}, {"hell", "dunkel"}}))
	require.NoError(t, relations.WritePairs(synonyms, [][2]string{{"Abbild", "Ebenbild"}, {"Birne", "Kopf"}}))
	result := filepath.Join(dir, "nonyms.csv")

	err := execute(t, "nonyms", "--file1", antonyms, "--file2", synonyms, "--n", "100", "--resultname", result)
	assert.ErrorIs(t, err, relations.ErrSampleTooLarge)

	require.NoError(t, execute(t, "nonyms", "--file1", antonyms, "--file2", synonyms, "--n", "1", "--resultname", result))
	rows, err := relations.ReadRows(result)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotEqual(t, rows[0][0], "")
}

func TestVectorsCommand(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store := matches.NewFileStore(dir)
	require.NoError(t, store.Save(ctx, "heiß:kalt", [][]string{{"heiße", "oder", "kalte"}}))
	require.NoError(t, store.Save(ctx, "hell:dunkel", [][]string{{"hell", "und", "dunkel"}}))
	require.NoError(t, store.Save(ctx, "Abbild:Ebenbild", [][]string{{"Abbild", "und", "Ebenbild"}}))

	antonyms := filepath.Join(dir, "results_antonyms.json")
	synonyms := filepath.Join(dir, "results_synonyms.json")
	require.NoError(t, types.WriteManifest(antonyms, types.ResultManifest{
		Label: types.RelationAntonym, Pairs: []string{"heiß:kalt", "hell:dunkel", "alt:jung"},
	}))
	require.NoError(t, types.WriteManifest(synonyms, types.ResultManifest{
		Label: types.RelationSynonym, Pairs: []string{"Abbild:Ebenbild"},
	}))
	formLemma := filepath.Join(dir, "FormLemma.json")
	require.NoError(t, lemmatizer.WriteJSON(formLemma, lemmatizer.FormLemma{"heiße": "heiß", "kalte": "kalt"}))

	patterns := filepath.Join(dir, "chosenPatterns.json")
	vectors := filepath.Join(dir, "VektorDict.json")
	data := filepath.Join(dir, "Data.csv")
	require.NoError(t, execute(t, "vectors",
		"--formlemmaname", formLemma,
		"-f", antonyms+","+synonyms,
		"-l", "antonyms,synonyms",
		"--matches-dir", dir,
		"--patternfile", patterns,
		"--vectorfile", vectors,
		"--datafile", data,
		"--balance=false",
	))

	vocab, err := export.ReadVocabulary(patterns)
	require.NoError(t, err)
	assert.Equal(t, features.Vocabulary{"X * Y", "X und Y", "X oder Y"}, vocab)

	content, err := os.ReadFile(data)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[3], "Abbild:Ebenbild\tsynonyms\t"))
	assert.FileExists(t, vectors)
}

func TestVectorsCommandRejectsUnpairedLabels(t *testing.T) {
	err := execute(t, "vectors", "-f", "a.json,b.json", "-l", "antonyms")
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestVectorsCommandRunConfiguration(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, matches.NewFileStore(dir).Save(ctx, "heiß:kalt", [][]string{{"heiß", "und", "kalt"}}))
	manifest := filepath.Join(dir, "results.json")
	require.NoError(t, types.WriteManifest(manifest, types.ResultManifest{
		Label: types.RelationAntonym, Pairs: []string{"heiß:kalt"},
	}))
	formLemma := filepath.Join(dir, "FormLemma.json")
	require.NoError(t, lemmatizer.WriteJSON(formLemma, lemmatizer.FormLemma{}))

	config := filepath.Join(dir, "run.yaml")
	writeLines(t, config,
		"k: 1",
		"balance: false",
		"form_lemma: "+formLemma,
		"matches_dir: "+dir,
		"sources:",
		"  - manifest: "+manifest,
		"    label: antonyms",
		"outputs:",
		"  vocabulary: "+filepath.Join(dir, "vocab.json"),
		"  vectors: "+filepath.Join(dir, "vectors.json"),
		"  data: "+filepath.Join(dir, "data.csv"),
	)

	require.NoError(t, execute(t, "vectors", "--config", config))
	vocab, err := export.ReadVocabulary(filepath.Join(dir, "vocab.json"))
	require.NoError(t, err)
	assert.Equal(t, features.Vocabulary{"X * Y"}, vocab)
}
