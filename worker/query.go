package worker

import (
	"context"

	"github.com/Franka-Beyer/HSprakt/cqp"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/rs/zerolog"
)

type queryTransactions interface {
	preparePair(ctx context.Context, pair types.WordPair) (bool, error)
	readResults(pair types.WordPair) ([][]string, error)
	removeResults(pair types.WordPair)
}

type cqpQueryWrapper struct {
	query        *cqp.Query
	relvecLogger *zerolog.Logger
}

func (wrapper *cqpQueryWrapper) preparePair(ctx context.Context, pair types.WordPair) (bool, error) {
	return wrapper.query.PreparePair(ctx, pair)
}

func (wrapper *cqpQueryWrapper) readResults(pair types.WordPair) ([][]string, error) {
	return cqp.ReadResultFile(wrapper.query.ResultPath(pair.Key()), *wrapper.relvecLogger)
}

func (wrapper *cqpQueryWrapper) removeResults(pair types.WordPair) {
	if err := wrapper.query.RemoveResults(pair.Key()); err != nil {
		wrapper.relvecLogger.Warn().Err(err).Str("pair", pair.Key()).Msg("Unable to remove result file")
	}
}
