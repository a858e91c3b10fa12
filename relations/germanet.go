package relations

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Franka-Beyer/HSprakt/utils"
)

var (
	xmlAttribute = regexp.MustCompile(`(\w+)="([^"]*)"`)
	orthForm     = regexp.MustCompile(`<orthForm>(.*)</orthForm>`)
)

// wordListPrefixes select the GermaNet files holding lexical units.
var wordListPrefixes = []string{"adj", "nomen", "verben"}

// relationMap is a map that remembers the order in which keys were first set.
type relationMap struct {
	keys   []string
	values map[string]string
}

func (m *relationMap) set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// FindRelations returns the symmetric relation between lexical unit ids found
// on every line naming relation.
func FindRelations(lines []string, relation string) ([]string, map[string]string) {
	m := relationMap{values: make(map[string]string)}
	for _, line := range lines {
		if !strings.Contains(line, relation) {
			continue
		}
		attrs := make(map[string]string)
		for _, match := range xmlAttribute.FindAllStringSubmatch(line, -1) {
			attrs[match[1]] = match[2]
		}
		from, to := attrs["from"], attrs["to"]
		if from == "" || to == "" {
			continue
		}
		m.set(from, to)
		m.set(to, from)
	}
	return m.keys, m.values
}

// ReadWordLists returns the lines of every GermaNet word list file in dir.
func ReadWordLists(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, entry := range entries {
		if entry.IsDir() || !utils.StartsWithAny(entry.Name(), wordListPrefixes...) {
			continue
		}
		fileLines, err := utils.ReadLines(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		lines = append(lines, fileLines...)
	}
	return lines, nil
}

// FindWordIDs maps lexical unit ids to the orthographic form that follows the
// <lexUnit> element. The first form seen for an id wins.
func FindWordIDs(lines []string) map[string]string {
	ids := make(map[string]string)
	pendingID := ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "<lexUnit"):
			pendingID = ""
			for _, match := range xmlAttribute.FindAllStringSubmatch(line, -1) {
				if match[1] == "id" {
					pendingID = match[2]
				}
			}
		case strings.HasPrefix(line, "<orthForm"):
			match := orthForm.FindStringSubmatch(line)
			if pendingID != "" && match != nil {
				if _, ok := ids[pendingID]; !ok {
					ids[pendingID] = match[1]
				}
			}
			pendingID = ""
		}
	}
	return ids
}

// ToWords resolves the relation into word pairs, both directions included.
// Relations with unresolved ids are left out; their number is returned.
func ToWords(keys []string, relation map[string]string, ids map[string]string) ([][2]string, int) {
	var pairs [][2]string
	unresolved := 0
	for _, key := range keys {
		first, okFirst := ids[key]
		second, okSecond := ids[relation[key]]
		if !okFirst || !okSecond {
			unresolved++
			continue
		}
		pairs = append(pairs, [2]string{first, second})
	}
	return pairs, unresolved
}

// Shorten keeps every second pair. Applied to ToWords output it keeps a single
// direction of each relation.
func Shorten(pairs [][2]string) [][2]string {
	short := make([][2]string, 0, (len(pairs)+1)/2)
	for i, pair := range pairs {
		if i%2 == 0 {
			short = append(short, pair)
		}
	}
	return short
}
