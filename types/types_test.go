package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordPairKey(t *testing.T) {
	pair := NewWordPair("heiß", "kalt", RelationAntonym)
	require.Equal(t, "heiß:kalt", pair.Key())

	first, second, err := ParsePairKey(pair.Key())
	require.NoError(t, err)
	require.Equal(t, "heiß", first)
	require.Equal(t, "kalt", second)

	for _, key := range []string{"", "heiß", ":kalt", "heiß:"} {
		_, _, err := ParsePairKey(key)
		require.Error(t, err, key)
	}
}

func TestParseRelation(t *testing.T) {
	rel, err := ParseRelation("synonyms")
	require.NoError(t, err)
	require.Equal(t, RelationSynonym, rel)

	_, err = ParseRelation("hypernyms")
	require.ErrorIs(t, err, ErrUnknownRelation)
}

func TestUnique(t *testing.T) {
	pairs := []WordPair{
		NewWordPair("a", "b", RelationAntonym),
		NewWordPair("b", "a", RelationAntonym),
		NewWordPair("a", "b", RelationAntonym),
	}
	require.Equal(t, pairs[:2], Unique(pairs))
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteManifest(path, ResultManifest{Label: RelationNonym}))

	manifest, err := ReadManifest(path)
	require.NoError(t, err)
	require.Equal(t, RelationNonym, manifest.Label)
	require.Empty(t, manifest.Pairs)
}

func TestLoadRunConfigurations(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write("b_unbalanced.yaml", `
k: 10
balance: false
sources:
  - manifest: results_antonyms.json
    label: antonyms
  - manifest: results_synonyms.json
    label: synonyms
`)
	write("a_default.yaml", `
sources:
  - manifest: results_nonyms.json
    label: nonyms
`)
	write("broken.yaml", `
sources:
  - manifest: results.json
    label: hypernyms
`)
	write("notes.txt", "ignored")

	configs, err := LoadRunConfigurations(dir)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	def := configs[0]
	require.Equal(t, "a_default", def.Name)
	require.Equal(t, DefaultK, def.K)
	require.True(t, def.ShouldNormalize())
	require.True(t, def.ShouldBalance())
	require.Equal(t, DefaultDataFile, def.Outputs.Data)

	unbalanced := configs[1]
	require.Equal(t, 10, unbalanced.K)
	require.False(t, unbalanced.ShouldBalance())
	require.Len(t, unbalanced.Sources, 2)
	require.Equal(t, RelationSynonym, unbalanced.Sources[1].Label)
}

func TestLoadRunConfigurationInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: -1\nsources: []\n"), 0o600))

	_, err := LoadRunConfiguration(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
