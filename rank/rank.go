// Package rank scores stored commands against a search query.
package rank

import (
	"sort"
	"strings"

	"cmdpad/model"

	"github.com/xrash/smetrics"
)

const (
	// Threshold is the minimum score, on a 0 to 100 scale, a command needs
	// to be returned.
	Threshold = 60
	// MaxResults caps the number of ranked commands.
	MaxResults = 2
)

type Result struct {
	Command model.Command
	Score   float64
}

// Rank scores every command against query and returns at most MaxResults
// of those scoring at least Threshold, best first. Equal scores keep the
// order of commands.
func Rank(query string, commands []model.Command) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var results []Result
	for _, c := range commands {
		if s := Score(query, c); s >= Threshold {
			results = append(results, Result{Command: c, Score: s})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// Score is the best case-insensitive partial ratio of query against the
// command's tags, description and command text.
func Score(query string, c model.Command) float64 {
	q := strings.ToLower(query)
	return max(
		PartialRatio(q, strings.ToLower(c.Tags)),
		PartialRatio(q, strings.ToLower(c.Description)),
		PartialRatio(q, strings.ToLower(c.Cmd)),
	)
}

// PartialRatio aligns the shorter string against every window of the longer
// one and returns the best indel similarity, 0 to 100. Strings of equal
// length are aligned both ways. An empty string on either side scores 0.
func PartialRatio(a, b string) float64 {
	x, y := compact(a, b)
	switch {
	case len(x) < len(y):
		return partialRatio(x, y)
	case len(x) > len(y):
		return partialRatio(y, x)
	default:
		return max(partialRatio(x, y), partialRatio(y, x))
	}
}

func partialRatio(short, long string) float64 {
	if len(short) == 0 {
		return 0
	}

	m, n := len(short), len(long)
	best := 0.0
	consider := func(window string) bool {
		if s := ratio(short, window); s > best {
			best = s
		}
		return best == 100
	}

	for i := 1; i < m; i++ {
		if consider(long[:i]) {
			return best
		}
	}
	for i := 0; i+m <= n; i++ {
		if consider(long[i : i+m]) {
			return best
		}
	}
	for i := n - m + 1; i < n; i++ {
		if consider(long[i:]) {
			return best
		}
	}
	return best
}

// ratio is the normalized indel similarity: substitutions cost a deletion
// plus an insertion.
func ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 100 * (1 - float64(dist)/float64(total))
}

// compact rewrites a and b over a one-byte-per-rune alphabet so the byte
// oriented distance and window slicing operate on runes. Inputs with more
// than 256 distinct runes are returned unchanged.
func compact(a, b string) (string, string) {
	alphabet := make(map[rune]byte)
	for _, s := range []string{a, b} {
		for _, r := range s {
			if _, ok := alphabet[r]; ok {
				continue
			}
			if len(alphabet) == 256 {
				return a, b
			}
			alphabet[r] = byte(len(alphabet))
		}
	}

	encode := func(s string) string {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			out = append(out, alphabet[r])
		}
		return string(out)
	}
	return encode(a), encode(b)
}
