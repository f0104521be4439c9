package model

// Quote is a single quote scraped from a listing page.
//
// Field order is the JSON key order of quotes.json and must not change.
type Quote struct {
	// Tags are the tag labels attached to the quote, in page order.
	// Never nil: an untagged quote serializes as an empty array.
	Tags []string `json:"tags"`

	// Author is the display name shown under the quote.
	// It is a name, not an identifier; see AuthorLink for that.
	Author string `json:"author"`

	// Text is the quote text exactly as it appears on the page.
	Text string `json:"quote"`
}

// NewQuote creates a Quote, copying tags so the record does not alias
// the caller's slice.
func NewQuote(text, author string, tags []string) Quote {
	copied := make([]string, len(tags))
	copy(copied, tags)
	return Quote{
		Tags:   copied,
		Author: author,
		Text:   text,
	}
}

// TagCounts returns how many quotes carry each tag.
func TagCounts(quotes []Quote) map[string]int {
	counts := make(map[string]int)
	for _, q := range quotes {
		for _, tag := range q.Tags {
			counts[tag]++
		}
	}
	return counts
}

// Key identifies a quote for comparison between runs. The NUL separator
// cannot occur in scraped text, so distinct author and text pairs never
// share a key.
func (q Quote) Key() string {
	return q.Author + "\x00" + q.Text
}
