package detect

import (
	"regexp"
	"strings"
)

const (
	FormatJSON    = "json"
	FormatNDJSON  = "ndjson"
	FormatLogfmt  = "logfmt"
	FormatCSV     = "csv"
	FormatUnknown = "unknown"
)

var reLogfmtKV = regexp.MustCompile(`(^|\s)[a-zA-Z_][a-zA-Z0-9_.]*=`)

type Guess struct {
	Format     string
	Confidence float64
}

// Format guesses the text format of a data file from its first lines.
func Format(sample []string) Guess {
	lines := 0
	jsonCount := 0
	logfmtCount := 0
	var commas []int
	for i, l := range sample {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		if lines == 0 && strings.HasPrefix(s, "[") {
			return Guess{Format: FormatJSON, Confidence: 1}
		}
		lines++
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			jsonCount++
			continue
		}
		if reLogfmtKV.MatchString(s) {
			logfmtCount++
		}
		if i < 20 {
			commas = append(commas, strings.Count(s, ","))
		}
	}
	if lines == 0 {
		return Guess{Format: FormatUnknown}
	}
	if jsonCount > logfmtCount && jsonCount*2 >= lines {
		return Guess{Format: FormatNDJSON, Confidence: conf(lines, jsonCount)}
	}
	if csvHits := consistentColumns(commas); csvHits >= 2 && csvHits > logfmtCount {
		return Guess{Format: FormatCSV, Confidence: conf(lines, csvHits)}
	}
	if logfmtCount > 0 && logfmtCount*2 >= lines {
		return Guess{Format: FormatLogfmt, Confidence: conf(lines, logfmtCount)}
	}
	return Guess{Format: FormatUnknown}
}

// consistentColumns counts lines sharing the header's comma count.
func consistentColumns(commas []int) int {
	if len(commas) == 0 || commas[0] == 0 {
		return 0
	}
	hits := 0
	for _, c := range commas {
		if c == commas[0] {
			hits++
		}
	}
	return hits
}

func conf(lines, hits int) float64 {
	if lines == 0 {
		return 0
	}
	return float64(hits) / float64(lines)
}
