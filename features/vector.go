package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/Franka-Beyer/HSprakt/patterns"
	"gonum.org/v1/gonum/floats"
)

var ErrDimensionMismatch = errors.New("vector length does not match vocabulary")

// Vector holds one coordinate per vocabulary entry.
type Vector []float64

// BuildVector sets every coordinate to ln(c+1), c being the pair's local
// count of that pattern.
func BuildVector(counts patterns.Counts, vocab Vocabulary) Vector {
	vector := make(Vector, len(vocab))
	for i, pattern := range vocab {
		vector[i] = math.Log1p(float64(counts[pattern]))
	}
	return vector
}

// BuildVectors encodes every pair registered in the aggregator.
func BuildVectors(agg *patterns.Aggregator, vocab Vocabulary) map[string]Vector {
	vectors := make(map[string]Vector, len(agg.Pairs()))
	for _, pairKey := range agg.Pairs() {
		vectors[pairKey] = BuildVector(agg.Local(pairKey), vocab)
	}
	return vectors
}

// Normalize returns v scaled to unit Euclidean length. A zero vector (or one
// whose norm is not finite) normalizes to the zero vector of the same length.
// The norm is computed with scaling, so long vectors do not overflow.
func Normalize(v Vector) Vector {
	result := make(Vector, len(v))
	if len(v) == 0 {
		return result
	}
	norm := floats.Norm(v, 2)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return result
	}
	for i, value := range v {
		result[i] = value / norm
	}
	return result
}

// NormalizeAll normalizes every vector of the map into a new map.
func NormalizeAll(vectors map[string]Vector) map[string]Vector {
	result := make(map[string]Vector, len(vectors))
	for key, vector := range vectors {
		result[key] = Normalize(vector)
	}
	return result
}

// CheckDimensions fails with ErrDimensionMismatch if any vector is not as long
// as the vocabulary.
func CheckDimensions(vectors map[string]Vector, vocab Vocabulary) error {
	for key, vector := range vectors {
		if len(vector) != len(vocab) {
			return fmt.Errorf("%w: %s has %d coordinates, vocabulary has %d",
				ErrDimensionMismatch, key, len(vector), len(vocab))
		}
	}
	return nil
}
