package crawler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/quotescrape/internal/model"
)

// Selectors for the quotes site markup.
const (
	selectorQuoteText = "span.text"
	selectorAuthor    = "small.author"
	selectorTags      = "div.tags"
	selectorTag       = "a.tag"
	selectorAnchor    = "a[href]"
	selectorNext      = "li.next"

	selectorAuthorTitle    = "h3.author-title"
	selectorAuthorBornDate = "span.author-born-date"
	selectorAuthorBornLoc  = "span.author-born-location"
	selectorAuthorDesc     = "div.author-description"

	// aboutLinkText is the exact anchor text of a link to an author page.
	aboutLinkText = "(about)"
)

// ListingPage is everything extracted from one listing page.
type ListingPage struct {
	// Quotes are the quotes on the page in document order.
	Quotes []model.Quote

	// AuthorLinks are the hrefs of the "(about)" anchors in document order.
	// May contain duplicates.
	AuthorLinks []model.AuthorLink

	// HasNext reports whether the page links to a following page.
	HasNext bool
}

// parseDocument builds a goquery document from raw HTML.
func parseDocument(pageURL string, body []byte) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: fmt.Errorf("invalid HTML: %w", err)}
	}
	return goquery.NewDocumentFromNode(root), nil
}

// ParseListing extracts quotes, author links and the next-page signal from
// a listing page.
//
// The i-th quote is built from the i-th quote text, the i-th author name and
// the i-th tag container. If the three sequences differ in length the page is
// rejected with a ParseError wrapping ErrMisaligned.
func ParseListing(pageURL string, body []byte) (*ListingPage, error) {
	doc, err := parseDocument(pageURL, body)
	if err != nil {
		return nil, err
	}

	texts := doc.Find(selectorQuoteText)
	authors := doc.Find(selectorAuthor)
	tagBlocks := doc.Find(selectorTags)

	if texts.Length() != authors.Length() || texts.Length() != tagBlocks.Length() {
		return nil, &ParseError{
			URL: pageURL,
			Selector: fmt.Sprintf("%s=%d %s=%d %s=%d",
				selectorQuoteText, texts.Length(),
				selectorAuthor, authors.Length(),
				selectorTags, tagBlocks.Length()),
			Err: ErrMisaligned,
		}
	}

	page := &ListingPage{
		Quotes:      make([]model.Quote, 0, texts.Length()),
		AuthorLinks: make([]model.AuthorLink, 0),
	}

	for i := range texts.Length() {
		tags := make([]string, 0)
		tagBlocks.Eq(i).Find(selectorTag).Each(func(_ int, s *goquery.Selection) {
			tags = append(tags, s.Text())
		})
		page.Quotes = append(page.Quotes, model.NewQuote(
			texts.Eq(i).Text(),
			authors.Eq(i).Text(),
			tags,
		))
	}

	doc.Find(selectorAnchor).
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Text() == aboutLinkText
		}).
		Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				page.AuthorLinks = append(page.AuthorLinks, href)
			}
		})

	page.HasNext = doc.Find(selectorNext).Length() > 0

	return page, nil
}

// ParseAuthor extracts an author record from an author detail page.
//
// Name, birth date and birth location are kept verbatim, surrounding
// whitespace included. Only the description is trimmed.
func ParseAuthor(pageURL string, body []byte) (model.Author, error) {
	doc, err := parseDocument(pageURL, body)
	if err != nil {
		return model.Author{}, err
	}

	fields := make([]string, 0, 4)
	for _, sel := range []string{
		selectorAuthorTitle,
		selectorAuthorBornDate,
		selectorAuthorBornLoc,
		selectorAuthorDesc,
	} {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			return model.Author{}, &ParseError{URL: pageURL, Selector: sel, Err: ErrElementNotFound}
		}
		fields = append(fields, s.Text())
	}

	return model.Author{
		FullName:     fields[0],
		BornDate:     fields[1],
		BornLocation: fields[2],
		Description:  strings.TrimSpace(fields[3]),
	}, nil
}
