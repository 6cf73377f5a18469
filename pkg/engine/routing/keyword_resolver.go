package routing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lintang-b-s/storenav/pkg"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
)

var (
	nonKeywordChars = regexp.MustCompile(`[^a-z0-9\s/+-]`)
	multiSpace      = regexp.MustCompile(`\s+`)
)

// NormalizeItem lowercases, strips punctuation other than / + - and collapses whitespace.
func NormalizeItem(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonKeywordChars.ReplaceAllString(s, "")
	return multiSpace.ReplaceAllString(s, " ")
}

// KeywordResolver exact-match resolver over normalised keywords. it stands in for the fuzzy matcher
// that normally sits in front of the route service.
type KeywordResolver struct {
	index map[string]da.StopLabel
}

// NewKeywordResolver. keywords maps a stop label to its keywords; when a keyword appears under several
// labels the lexicographically smallest label wins.
func NewKeywordResolver(keywords map[string][]string) *KeywordResolver {
	labels := make([]string, 0, len(keywords))
	for l := range keywords {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	index := make(map[string]da.StopLabel)
	for _, l := range labels {
		for _, kw := range keywords[l] {
			norm := NormalizeItem(kw)
			if _, ok := index[norm]; ok || norm == "" {
				continue
			}
			index[norm] = da.StopLabel(l)
		}
	}
	return &KeywordResolver{index: index}
}

func (kr *KeywordResolver) Resolve(items []string) []da.StopLabel {
	out := make([]da.StopLabel, len(items))
	for i, it := range items {
		label, ok := kr.index[NormalizeItem(it)]
		if !ok {
			out[i] = pkg.UNKNOWN_LABEL
			continue
		}
		out[i] = label
	}
	return out
}

var _ LabelResolver = (*KeywordResolver)(nil)
