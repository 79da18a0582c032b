// Package keywords implements RAKE (Rapid Automatic Keyword Extraction).
// Candidate phrases are runs of content words delimited by stopwords and
// punctuation; each word scores degree/frequency over the co-occurrence
// graph and a phrase scores the sum of its word scores.
package keywords

import (
	"sort"
	"strings"
	"unicode"

	"adcontext/internal/domain"
)

// Extractor extracts ranked keyword phrases from text. Stateless and safe
// for concurrent use.
type Extractor struct {
	stopwords map[string]struct{}
}

// NewExtractor creates an Extractor with the default English stopword list.
func NewExtractor() *Extractor {
	return &Extractor{stopwords: defaultStopwords}
}

// NewExtractorWithStopwords creates an Extractor with a custom stopword list.
func NewExtractorWithStopwords(words []string) *Extractor {
	sw := make(map[string]struct{}, len(words))
	for _, w := range words {
		sw[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{stopwords: sw}
}

var _ domain.KeywordExtractor = (*Extractor)(nil)

// Extract returns up to maxKeywords phrases ordered by descending score,
// ties broken by first occurrence in the text. Returns an empty slice when
// no candidate phrase clears a zero score; never an error.
func (e *Extractor) Extract(text string, maxKeywords int) []domain.Keyword {
	if maxKeywords <= 0 {
		return []domain.Keyword{}
	}

	phrases := e.candidatePhrases(text)
	if len(phrases) == 0 {
		return []domain.Keyword{}
	}

	// Word co-occurrence scores: degree(w)/freq(w).
	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, p := range phrases {
		for _, w := range p.words {
			freq[w]++
			degree[w] += len(p.words)
		}
	}

	type scored struct {
		phrase string
		score  float64
		first  int
	}
	seen := make(map[string]int)
	var ranked []scored
	for i, p := range phrases {
		key := strings.Join(p.words, " ")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = i
		var score float64
		for _, w := range p.words {
			score += float64(degree[w]) / float64(freq[w])
		}
		if score <= 0 {
			continue
		}
		ranked = append(ranked, scored{phrase: key, score: score, first: i})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].first < ranked[b].first
	})

	if len(ranked) > maxKeywords {
		ranked = ranked[:maxKeywords]
	}
	out := make([]domain.Keyword, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, domain.Keyword{Phrase: r.phrase, Score: r.score})
	}
	return out
}

type phrase struct {
	words []string
}

// candidatePhrases splits text into stopword-delimited word runs.
// Punctuation acts as a phrase boundary like a stopword does.
func (e *Extractor) candidatePhrases(text string) []phrase {
	var phrases []phrase
	var current []string

	flush := func() {
		if len(current) > 0 {
			phrases = append(phrases, phrase{words: current})
			current = nil
		}
	}

	var word strings.Builder
	endWord := func() {
		if word.Len() == 0 {
			return
		}
		w := strings.ToLower(word.String())
		word.Reset()
		if _, stop := e.stopwords[w]; stop || !hasLetter(w) {
			flush()
			return
		}
		current = append(current, w)
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' || r == '’':
			word.WriteRune(r)
		case r == '-' && word.Len() > 0:
			word.WriteRune(r)
		default:
			endWord()
			if !unicode.IsSpace(r) {
				flush()
			}
		}
	}
	endWord()
	flush()
	return phrases
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
