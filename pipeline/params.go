// Package pipeline runs the feature extraction over the match lines of
// labeled word pairs: lemmatize and anonymize, generate and count patterns,
// select the vocabulary, encode, normalize and balance.
package pipeline

import (
	"github.com/Franka-Beyer/HSprakt/types"
)

type Params struct {
	K         int  `json:"k"`
	Normalize bool `json:"normalize"`
	Balance   bool `json:"balance"`
}

func GetDefaultParams() Params {
	return Params{K: types.DefaultK, Normalize: true, Balance: true}
}

func ParamsFromConfiguration(cfg types.RunConfiguration) Params {
	return Params{
		K:         cfg.K,
		Normalize: cfg.ShouldNormalize(),
		Balance:   cfg.ShouldBalance(),
	}
}
