package cmd

import (
	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/relations"
	"github.com/Franka-Beyer/HSprakt/utils"
	"github.com/spf13/cobra"
)

type celexOptions struct {
	fullPath      string
	cleanFile     string
	useCleaned    bool
	cleanedFile   string
	lemmaFormFile string
	formLemmaFile string
}

func newCelexCmd() *cobra.Command {
	var opts celexOptions
	celexCmd := &cobra.Command{
		Use:   "celex",
		Short: "Build the LemmaForm and FormLemma dictionaries from CELEX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCelex(opts)
		},
	}
	flags := celexCmd.Flags()
	flags.StringVar(&opts.fullPath, "fullpath", "CWLbk/CELEX.Wordformen+Lemmata.bk.txt", "CELEX word forms and lemmata")
	flags.StringVar(&opts.cleanFile, "celexcleanfile", "CELEXclean.json", "where to save the cleaned CELEX entries")
	flags.BoolVar(&opts.useCleaned, "use-cleaned-celex", false, "load cleaned entries instead of the CELEX file")
	flags.StringVar(&opts.cleanedFile, "cleanedcelexfile", "CELEXclean.json", "cleaned CELEX entries to load")
	flags.StringVar(&opts.lemmaFormFile, "lemmaformfile", "LemmaForm.json", "lemma to word forms dictionary")
	flags.StringVar(&opts.formLemmaFile, "formlemmafile", "FormLemma.json", "word form to lemma dictionary")
	return celexCmd
}

func runCelex(opts celexOptions) error {
	var entries []string
	if opts.useCleaned {
		cleaned, err := lemmatizer.LoadCleanCELEX(opts.cleanedFile)
		if err != nil {
			cmdLogger.Err(err).Str("file", opts.cleanedFile).Msg("Failed to load cleaned CELEX entries")
			return err
		}
		entries = cleaned
	} else {
		lines, err := utils.ReadLines(opts.fullPath)
		if err != nil {
			cmdLogger.Err(err).Str("file", opts.fullPath).Msg("Failed to read CELEX")
			return err
		}
		entries = lemmatizer.CleanCELEX(lines)
		if err := lemmatizer.WriteJSON(opts.cleanFile, entries); err != nil {
			return err
		}
		cmdLogger.Info().Int("lines", len(lines)).Int("entries", len(entries)).Msg("Cleaned CELEX")
	}

	lemmaForms, order := lemmatizer.BuildLemmaForms(entries)
	formLemma := lemmaForms.FormLemma(order)
	if err := lemmatizer.WriteJSON(opts.lemmaFormFile, lemmaForms); err != nil {
		return err
	}
	if err := lemmatizer.WriteJSON(opts.formLemmaFile, formLemma); err != nil {
		return err
	}
	cmdLogger.Info().
		Int("lemmas", len(lemmaForms)).
		Int("forms", len(formLemma)).
		Msg("Saved dictionaries")
	return nil
}

type antonymsOptions struct {
	fullPath  string
	dir       string
	relation  string
	longFile  string
	shortFile string
}

func newAntonymsCmd() *cobra.Command {
	var opts antonymsOptions
	antonymsCmd := &cobra.Command{
		Use:   "antonyms",
		Short: "Extract the long and short antonym lists from GermaNet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAntonyms(opts)
		},
	}
	flags := antonymsCmd.Flags()
	flags.StringVar(&opts.fullPath, "fullpath", "GN_V140/GN_V140_XML/gn_relations.xml", "GermaNet relations file")
	flags.StringVar(&opts.dir, "path", "GN_V140/GN_V140_XML/", "directory of the GermaNet word lists")
	flags.StringVar(&opts.relation, "relation", "antonym", "relation to extract as named by GermaNet")
	flags.StringVar(&opts.longFile, "filenamelong", "antonyms_long.csv", "pairs in both directions")
	flags.StringVar(&opts.shortFile, "filenameshort", "antonyms_short.csv", "pairs in one direction")
	return antonymsCmd
}

func runAntonyms(opts antonymsOptions) error {
	lines, err := utils.ReadLines(opts.fullPath)
	if err != nil {
		cmdLogger.Err(err).Str("file", opts.fullPath).Msg("Failed to read GermaNet relations")
		return err
	}
	keys, relation := relations.FindRelations(lines, opts.relation)

	wordLines, err := relations.ReadWordLists(opts.dir)
	if err != nil {
		cmdLogger.Err(err).Str("dir", opts.dir).Msg("Failed to read GermaNet word lists")
		return err
	}
	pairs, unresolved := relations.ToWords(keys, relation, relations.FindWordIDs(wordLines))
	if unresolved > 0 {
		cmdLogger.Warn().Int("unresolved", unresolved).Msg("Some lexical units have no word form")
	}

	if err := relations.WritePairs(opts.longFile, pairs); err != nil {
		return err
	}
	short := relations.Shorten(pairs)
	if err := relations.WritePairs(opts.shortFile, short); err != nil {
		return err
	}
	cmdLogger.Info().Int("long", len(pairs)).Int("short", len(short)).Msg("Saved antonym lists")
	return nil
}

type synonymsOptions struct {
	fullPath string
	file     string
	n        int
}

func newSynonymsCmd() *cobra.Command {
	var opts synonymsOptions
	synonymsCmd := &cobra.Command{
		Use:   "synonyms",
		Short: "Extract the synonym list from OpenThesaurus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := utils.ReadLines(opts.fullPath)
			if err != nil {
				cmdLogger.Err(err).Str("file", opts.fullPath).Msg("Failed to read OpenThesaurus")
				return err
			}
			rows := relations.ReadThesaurus(lines, opts.n)
			if err := relations.WriteRows(opts.file, rows); err != nil {
				return err
			}
			cmdLogger.Info().Int("rows", len(rows)).Msg("Saved synonym list")
			return nil
		},
	}
	flags := synonymsCmd.Flags()
	flags.StringVar(&opts.fullPath, "fullpath", "OpenThesaurus-Textversion/openthesaurus.txt", "OpenThesaurus text export")
	flags.StringVar(&opts.file, "filename", "synonyms.csv", "resulting list")
	flags.IntVar(&opts.n, "n", 2, "synonyms kept per set")
	return synonymsCmd
}

type nonymsOptions struct {
	first  string
	second string
	seed   int64
	n      int
	result string
}

func newNonymsCmd() *cobra.Command {
	var opts nonymsOptions
	nonymsCmd := &cobra.Command{
		Use:   "nonyms",
		Short: "Draw pairs that occur in neither of two pair lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			known, err := relations.ReadKnownPairs(opts.first, opts.second)
			if err != nil {
				cmdLogger.Err(err).Msg("Failed to read pair lists")
				return err
			}
			nonyms, err := relations.GenerateNonyms(known, opts.seed, opts.n)
			if err != nil {
				cmdLogger.Err(err).Int("known", len(known)).Int("n", opts.n).Msg("Failed to draw nonyms")
				return err
			}
			if err := relations.WritePairs(opts.result, nonyms); err != nil {
				return err
			}
			cmdLogger.Info().Int("pairs", len(nonyms)).Msg("Saved nonym list")
			return nil
		},
	}
	flags := nonymsCmd.Flags()
	flags.StringVar(&opts.first, "file1", "antonyms_long.csv", "first pair list")
	flags.StringVar(&opts.second, "file2", "synonyms.csv", "second pair list")
	flags.Int64Var(&opts.seed, "seed", relations.DefaultNonymSeed, "random seed")
	flags.IntVar(&opts.n, "n", 40000, "number of pairs to draw")
	flags.StringVar(&opts.result, "resultname", "nonyms.csv", "resulting list")
	return nonymsCmd
}
