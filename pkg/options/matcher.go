package options

import (
	"strings"

	"github.com/Dicklesworthstone/chipselect/pkg/model"

	"github.com/sahilm/fuzzy"
)

// Matcher selects the options that match a search term.
// lowered holds the lower-cased labels, index-aligned with opts.
type Matcher interface {
	Match(term string, opts []model.Option, lowered []string) []model.Option
}

// NewMatcher returns the matcher named by model.Config.Matcher
func NewMatcher(name string) Matcher {
	if strings.EqualFold(name, model.MatchFuzzy) {
		return FuzzyMatcher{}
	}
	return SubstringMatcher{}
}

// SubstringMatcher keeps options whose label contains the term, ignoring case.
// Source order is preserved.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(term string, opts []model.Option, lowered []string) []model.Option {
	if term == "" {
		return opts
	}
	needle := strings.ToLower(term)
	out := make([]model.Option, 0, len(opts))
	for i, opt := range opts {
		if strings.Contains(lowered[i], needle) {
			out = append(out, opt)
		}
	}
	return out
}

// FuzzyMatcher ranks options by fuzzy score, best first
type FuzzyMatcher struct{}

func (FuzzyMatcher) Match(term string, opts []model.Option, lowered []string) []model.Option {
	if strings.TrimSpace(term) == "" {
		return opts
	}
	matches := fuzzy.FindFrom(strings.ToLower(term), labelSource(lowered))
	out := make([]model.Option, 0, len(matches))
	for _, match := range matches {
		out = append(out, opts[match.Index])
	}
	return out
}

// labelSource adapts the lower-cased labels to fuzzy.Source
type labelSource []string

func (s labelSource) String(i int) string { return s[i] }
func (s labelSource) Len() int            { return len(s) }
