// Package crawler walks the quote listing pages and fetches author pages.
//
// Two components live here:
//
//   - Spider follows listing pages /page/1, /page/2, ... one at a time until
//     a page has no "next" link. It collects quotes in page order and the set
//     of unique author links.
//   - AuthorFetcher fetches every author link concurrently and extracts one
//     author record per link. Either every fetch succeeds or the whole
//     operation fails.
//
// Both components reach the network through the Fetcher interface, which
// *fetch.Client satisfies, and parse HTML with goquery.
//
// # Usage
//
//	client, _ := fetch.NewClient()
//	spider := crawler.NewSpider(client, crawler.WithProgress(os.Stdout))
//	quotes, err := spider.Crawl(ctx, 1)
//	...
//	authors, err := crawler.NewAuthorFetcher(client).FetchAll(ctx, spider.Links())
package crawler
