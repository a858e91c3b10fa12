// Package cqp queries a CQP corpus for word pairs and reads back the matches.
package cqp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultCorpus      = "EXAMPLE;"
	DefaultConcurrency = 8

	ResultSuffix = ":.txt.data"
	ScriptSuffix = ".script"
)

// ResultName is the file a pair's script appends its matches to, relative to
// the directory CQP runs in.
func ResultName(pairKey string) string {
	return pairKey + ResultSuffix
}

func ScriptName(pairKey string) string {
	return pairKey + ScriptSuffix
}

// Script renders the query script for one pair: every form combination is
// searched with up to three tokens in between and a mandatory token after the
// second form, and all hits are appended to the pair's result file.
func Script(corpus, pairKey string, combinations [][2]string) string {
	var sb strings.Builder
	sb.WriteString(corpus)
	sb.WriteString("\nset Context 0;\n")
	for _, forms := range combinations {
		fmt.Fprintf(&sb, "rs  = []? %q []{0,3} %q [];\n", forms[0], forms[1])
		fmt.Fprintf(&sb, "cat rs >> %q;\n", ResultName(pairKey))
	}
	return sb.String()
}

// WriteScript saves the pair's script into dir and returns its path.
func WriteScript(dir, corpus, pairKey string, combinations [][2]string) (string, error) {
	path := filepath.Join(dir, ScriptName(pairKey))
	if err := os.WriteFile(path, []byte(Script(corpus, pairKey, combinations)), 0644); err != nil {
		return "", err
	}
	return path, nil
}
