package usecase

import (
	"fmt"
	"strings"

	"adcontext/internal/domain"
)

// RationaleBuilder produces the human-readable explanation attached to a
// ranked match. Rationales are derived deterministically from keyword overlap
// and item metadata; they describe the connection and never influence the
// similarity ordering.
type RationaleBuilder struct{}

// NewRationaleBuilder creates a RationaleBuilder.
func NewRationaleBuilder() *RationaleBuilder {
	return &RationaleBuilder{}
}

// Build composes the rationale for one candidate given the client document's
// keywords, the candidate's keywords, and the candidate's metadata.
func (b *RationaleBuilder) Build(docKeywords, itemKeywords []domain.Keyword, metadata map[string]string) string {
	shared := sharedPhrases(docKeywords, itemKeywords)

	var sb strings.Builder
	switch {
	case len(shared) > 0:
		sb.WriteString(fmt.Sprintf("Shares themes with the landing page: %s.", strings.Join(shared, ", ")))
	case len(itemKeywords) > 0:
		sb.WriteString(fmt.Sprintf("Covers related themes: %s.", strings.Join(phrases(itemKeywords), ", ")))
	default:
		sb.WriteString("Semantically similar to the landing page content.")
	}

	if source := metadata["source"]; source != "" {
		sb.WriteString(" Source: " + source + ".")
	}
	return sb.String()
}

func sharedPhrases(docKeywords, itemKeywords []domain.Keyword) []string {
	docSet := make(map[string]struct{}, len(docKeywords))
	for _, kw := range docKeywords {
		docSet[kw.Phrase] = struct{}{}
	}
	var shared []string
	for _, kw := range itemKeywords {
		if _, ok := docSet[kw.Phrase]; ok {
			shared = append(shared, kw.Phrase)
		}
	}
	return shared
}

func phrases(keywords []domain.Keyword) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, kw.Phrase)
	}
	return out
}
