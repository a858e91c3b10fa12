// Package matches keeps the corpus match lines of word pairs.
package matches

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Franka-Beyer/HSprakt/cqp"
	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/rs/zerolog"
)

// ErrNoMatches means the store holds nothing for the pair.
var ErrNoMatches = errors.New("no matches")

type Store interface {
	Lines(ctx context.Context, pairKey string) ([][]string, error)
	Save(ctx context.Context, pairKey string, lines [][]string) error
}

// FileStore reads CQP result files from Dir.
type FileStore struct {
	Dir string

	logger zerolog.Logger
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir, logger: logger.NewLogger("Match Files")}
}

func (store *FileStore) Path(pairKey string) string {
	return filepath.Join(store.Dir, cqp.ResultName(pairKey))
}

func (store *FileStore) Lines(_ context.Context, pairKey string) ([][]string, error) {
	lines, err := cqp.ReadResultFile(store.Path(pairKey), store.logger)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pairKey)
	}
	return lines, err
}

// Save writes lines in the layout CQP uses for its results, so they read back
// through Lines.
func (store *FileStore) Save(_ context.Context, pairKey string, lines [][]string) error {
	var sb strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&sb, "%d: %s\n", i, strings.Join(line, " "))
	}
	return os.WriteFile(store.Path(pairKey), []byte(sb.String()), 0644)
}
