package domain

// Keyword is a candidate phrase extracted from text with its significance
// score. Used to build rationales and as a query-enrichment signal; it never
// drives the vector ranking order.
type Keyword struct {
	Phrase string
	Score  float64
}

// KeywordExtractor extracts ranked candidate phrases from text.
// Deterministic for the same text and configuration. An empty slice is a
// valid result, not an error.
type KeywordExtractor interface {
	Extract(text string, maxKeywords int) []Keyword
}
