package logger

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Relay forwards the lines a subprocess writes to r into relvecLogger until r is
// exhausted. JSON lines are embedded as they are, everything else is logged as a
// warning with the raw text.
func Relay(r io.Reader, relvecLogger zerolog.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		handleLogLine(scanner.Bytes(), relvecLogger)
	}
	return scanner.Err()
}

func handleLogLine(lineBytes []byte, relvecLogger zerolog.Logger) {
	line := strings.TrimSpace(string(lineBytes))
	switch {
	case len(line) == 0:
		return
	case isJSON(lineBytes):
		relvecLogger.Info().RawJSON("subprocess", lineBytes).Msg("Subprocess log line")
	default:
		relvecLogger.Warn().Str("line", line).Msg("Subprocess wrote to stderr")
	}
}

func isJSON(b []byte) bool {
	var js json.RawMessage
	err := json.Unmarshal(b, &js)
	return err == nil && js != nil
}
