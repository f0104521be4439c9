package report

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/quotescrape/internal/model"
)

// TagCount is a tag with the number of quotes carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// Label returns the tag in title case with dashes as spaces,
// e.g. "deep-thoughts" becomes "Deep Thoughts".
func (t TagCount) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(t.Tag, "-", " "))
}

// TopTags returns the n most used tags, most used first. Ties are broken
// alphabetically. n <= 0 returns all tags.
func TopTags(quotes []model.Quote, n int) []TagCount {
	counts := model.TagCounts(quotes)

	result := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		result = append(result, TagCount{Tag: tag, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag < result[j].Tag
	})

	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}
