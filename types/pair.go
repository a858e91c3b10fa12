package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Franka-Beyer/HSprakt/utils"
)

// Relation is the lexical relation label of a word pair.
type Relation string

const (
	RelationAntonym Relation = "antonyms"
	RelationSynonym Relation = "synonyms"
	RelationNonym   Relation = "nonyms"
)

var ErrUnknownRelation = errors.New("unknown relation")

// Relations lists the closed set of relation labels.
var Relations = []Relation{RelationAntonym, RelationSynonym, RelationNonym}

func ParseRelation(s string) (Relation, error) {
	for _, rel := range Relations {
		if string(rel) == s {
			return rel, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRelation, s)
}

const pairKeySeparator = ":"

// WordPair is an ordered pair of lemmas. It is a value type and never mutated.
type WordPair struct {
	First    string
	Second   string
	Relation Relation
}

func NewWordPair(first, second string, relation Relation) WordPair {
	return WordPair{First: first, Second: second, Relation: relation}
}

// Key is the identity of the pair, "first:second".
func (pair WordPair) Key() string {
	return pair.First + pairKeySeparator + pair.Second
}

func (pair WordPair) GetHashCode() uint64 {
	return utils.HashString(pair.Key())
}

func (pair WordPair) String() string {
	return pair.Key()
}

// ParsePairKey splits a "first:second" key. Only the first separator counts,
// the second lemma may contain further colons.
func ParsePairKey(key string) (string, string, error) {
	first, second, ok := strings.Cut(key, pairKeySeparator)
	if !ok || first == "" || second == "" {
		return "", "", fmt.Errorf("malformed word pair key %q", key)
	}
	return first, second, nil
}

// PairFromKey rebuilds a WordPair from its key and a label.
func PairFromKey(key string, relation Relation) (WordPair, error) {
	first, second, err := ParsePairKey(key)
	if err != nil {
		return WordPair{}, err
	}
	return NewWordPair(first, second, relation), nil
}
