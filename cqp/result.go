package cqp

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var markup = strings.NewReplacer("<", "", ">", "", "\n", "")

// ParseLine extracts the match tokens from one line of CQP output, the text
// between the corpus position and the next colon. Lines without a colon are
// not matches.
func ParseLine(line string) ([]string, bool) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 2 {
		return nil, false
	}
	return strings.Fields(markup.Replace(parts[1])), true
}

// ParseResults reads every match line from r. Lines that are not matches are
// logged and skipped.
func ParseResults(r io.Reader, cqpLogger zerolog.Logger) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines [][]string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		tokens, ok := ParseLine(scanner.Text())
		if !ok {
			cqpLogger.Warn().Int("line", lineNo).Msg("Skipping result line without match")
			continue
		}
		lines = append(lines, tokens)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func ReadResultFile(path string, cqpLogger zerolog.Logger) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseResults(f, cqpLogger.With().Str("file", path).Logger())
}
