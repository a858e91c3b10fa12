// Package api serves the vectorizer over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Franka-Beyer/HSprakt/features"
	"github.com/Franka-Beyer/HSprakt/pipeline"
	"github.com/Franka-Beyer/HSprakt/types"
)

const VectorizePath = "/vectorize"

// maxBodySize caps the request body at 32 MiB.
const maxBodySize = 32 << 20

type VectorizeRequest struct {
	Pair  string     `json:"pair"`
	Lines [][]string `json:"lines"`
}

type VectorizeResponse struct {
	Pair       string          `json:"pair"`
	Vector     features.Vector `json:"vector"`
	Dimensions int             `json:"dimensions"`
}

type Request struct {
	Vectorizer *pipeline.Vectorizer
}

// Handler routes VectorizePath to ProcessData.
func (req *Request) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(VectorizePath, req.ProcessData)
	return mux
}

func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	msg, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	body, err := parseRequest(msg)
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Malformed request body")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pair, err := types.PairFromKey(body.Pair, "")
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Malformed word pair")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info().Str("pair", body.Pair).Int("lines", len(body.Lines)).Msg("Vectorizing pair from API")
	vector := req.Vectorizer.Vectorize(pair, body.Lines)
	resp, err := json.Marshal(VectorizeResponse{Pair: body.Pair, Vector: vector, Dimensions: len(vector)})
	if err != nil {
		logger.Err(err).Int("status", http.StatusInternalServerError).Msg("Could not encode response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(resp)
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

func parseRequest(msg []byte) (VectorizeRequest, error) {
	var body VectorizeRequest
	if err := json.Unmarshal(msg, &body); err != nil {
		return body, err
	}
	if body.Pair == "" {
		return body, errors.New("missing pair")
	}
	return body, nil
}
