package model

// AuthorLink is the relative URL path of an author detail page,
// for example "/author/Albert-Einstein". It is the deduplication key
// for author fetches.
type AuthorLink = string

// AuthorLinkSet collects author links, ignoring duplicates.
//
// It is owned by the crawl phase, which is single-threaded, so it carries
// no lock. The fetch phase receives a Snapshot and never sees the set.
type AuthorLinkSet struct {
	seen  map[AuthorLink]struct{}
	order []AuthorLink
}

// NewAuthorLinkSet creates an empty set.
func NewAuthorLinkSet() *AuthorLinkSet {
	return &AuthorLinkSet{
		seen:  make(map[AuthorLink]struct{}),
		order: make([]AuthorLink, 0),
	}
}

// Add inserts link and reports whether it was new.
func (s *AuthorLinkSet) Add(link AuthorLink) bool {
	if _, ok := s.seen[link]; ok {
		return false
	}
	s.seen[link] = struct{}{}
	s.order = append(s.order, link)
	return true
}

// Contains reports whether link is in the set.
func (s *AuthorLinkSet) Contains(link AuthorLink) bool {
	_, ok := s.seen[link]
	return ok
}

// Len returns the number of distinct links.
func (s *AuthorLinkSet) Len() int {
	return len(s.order)
}

// Snapshot returns a copy of the links in first-seen order.
// Later calls to Add do not affect a returned snapshot.
func (s *AuthorLinkSet) Snapshot() []AuthorLink {
	out := make([]AuthorLink, len(s.order))
	copy(out, s.order)
	return out
}
