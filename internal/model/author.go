package model

// Author is the biography scraped from one author detail page.
//
// Field order is the JSON key order of authors.json and must not change.
// Only Description is whitespace-trimmed; the other fields keep whatever
// whitespace the source markup contains.
type Author struct {
	// FullName is the text of the author title heading.
	FullName string `json:"fullname"`

	// BornDate is the birth date as written on the page (e.g. "March 14, 1879").
	BornDate string `json:"born_date"`

	// BornLocation is the birth place as written on the page (e.g. "in Ulm, Germany").
	BornLocation string `json:"born_location"`

	// Description is the trimmed biography text.
	Description string `json:"description"`
}
