package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Franka-Beyer/HSprakt/api"
	"github.com/Franka-Beyer/HSprakt/export"
	"github.com/Franka-Beyer/HSprakt/features"
	"github.com/Franka-Beyer/HSprakt/lemmatizer"
	"github.com/Franka-Beyer/HSprakt/pipeline"
	"github.com/Franka-Beyer/HSprakt/s3client"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	vocabulary    string
	vocabularyKey string
	formLemma     string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Vectorize posted match lines over a saved vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			vectorizer, err := opts.newVectorizer(cmd.Context())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), ":"+config.RestAPIPort, vectorizer)
		},
	}
	flags := serveCmd.Flags()
	flags.StringVar(&opts.vocabulary, "patternfile", types.DefaultVocabularyFile, "chosen feature patterns")
	flags.StringVar(&opts.vocabularyKey, "pattern-key", "", "S3 key of the chosen feature patterns, overrides --patternfile")
	flags.StringVar(&opts.formLemma, "formlemmaname", types.DefaultFormLemmaFile, "word form to lemma dictionary")
	return serveCmd
}

func (opts serveOptions) newVectorizer(ctx context.Context) (*pipeline.Vectorizer, error) {
	forms, err := lemmatizer.LoadFormLemma(opts.formLemma)
	if err != nil {
		cmdLogger.Err(err).Str("file", opts.formLemma).Msg("Failed to load form to lemma dictionary")
		return nil, err
	}
	vocab, err := opts.loadVocabulary(ctx)
	if err != nil {
		cmdLogger.Err(err).Msg("Failed to load vocabulary")
		return nil, err
	}
	cmdLogger.Info().Int("patterns", len(vocab)).Int("forms", len(forms)).Msg("Loaded vectorizer")
	return pipeline.NewVectorizer(vocab, lemmatizer.New(forms)), nil
}

func (opts serveOptions) loadVocabulary(ctx context.Context) (features.Vocabulary, error) {
	if opts.vocabularyKey == "" {
		return export.ReadVocabulary(opts.vocabulary)
	}
	client, err := s3client.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()
	data, err := client.Download(ctx, opts.vocabularyKey)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", opts.vocabularyKey, err)
	}
	return export.ParseVocabulary(data)
}

func serve(ctx context.Context, addr string, vectorizer *pipeline.Vectorizer) error {
	server := &http.Server{
		Addr:    addr,
		Handler: (&api.Request{Vectorizer: vectorizer}).Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	cmdLogger.Info().Msgf("REST API on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cmdLogger.Err(err).Caller().Msg("REST API stopped with error")
		return err
	}
	return nil
}
