// Package search provides the lexical index over intent metadata used
// for quick suggestions and as the classifier's low-confidence fallback.
package search

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
	"github.com/Jaaziel-Polanco/bot-claro/internal/nlp"
)

// MinQueryLength is the minimum matched-fragment length; shorter tokens
// are ignored to avoid spurious single-character matches.
const MinQueryLength = 3

// minMatchScore excludes weak scattered-subsequence matches.
const minMatchScore = 0

// Index is a fuzzy full-text index over intent title, description,
// examples and response. Immutable once built; rebuilt wholesale when
// the catalog snapshot changes and swapped behind the service reference.
type Index struct {
	intents []domain.Intent
	entries []entry
}

// entry is one searchable field of one intent.
type entry struct {
	text   string
	intent int
}

// corpus adapts entries to fuzzy.Source.
type corpus []entry

func (c corpus) String(i int) string { return c[i].text }
func (c corpus) Len() int            { return len(c) }

// NewIndex builds an index from a catalog snapshot, preserving catalog
// order for the empty-query case.
func NewIndex(intents []domain.Intent) *Index {
	idx := &Index{intents: intents}
	for i, intent := range intents {
		fields := make([]string, 0, 3+len(intent.Examples))
		fields = append(fields, intent.Title, intent.Description, intent.Response)
		fields = append(fields, intent.Examples...)
		for _, f := range fields {
			f = nlp.Normalize(f)
			if f == "" {
				continue
			}
			idx.entries = append(idx.entries, entry{text: f, intent: i})
		}
	}
	return idx
}

// Search returns intents ranked by approximate textual similarity to the
// query. An empty query returns the full catalog in catalog order (the
// "show suggestions by default" behavior). Matching is case-insensitive
// and tolerant of minor misspellings; each query token of at least
// MinQueryLength runes is matched independently and per-intent scores
// aggregate the best field match per token.
func (idx *Index) Search(query string) []domain.Intent {
	q := nlp.Normalize(query)
	if q == "" {
		out := make([]domain.Intent, len(idx.intents))
		copy(out, idx.intents)
		return out
	}

	tokens := queryTokens(q)
	if len(tokens) == 0 {
		return nil
	}

	scores := make(map[int]int)
	var order []int
	for _, tok := range tokens {
		best := make(map[int]int)
		for _, m := range fuzzy.FindFrom(tok, corpus(idx.entries)) {
			if m.Score < minMatchScore {
				continue
			}
			ei := idx.entries[m.Index].intent
			if cur, ok := best[ei]; !ok || m.Score > cur {
				best[ei] = m.Score
			}
		}
		for ei, sc := range best {
			if _, ok := scores[ei]; !ok {
				order = append(order, ei)
			}
			scores[ei] += sc
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})

	out := make([]domain.Intent, 0, len(order))
	for _, i := range order {
		out = append(out, idx.intents[i])
	}
	return out
}

// queryTokens keeps tokens long enough to match meaningfully.
func queryTokens(q string) []string {
	fields := nlp.Tokenize(q)
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= MinQueryLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
