// Package tor manages egress through the Tor network.
//
// Daemon launches an embedded Tor process with tornago and exposes its
// SOCKS5 address, which is then handed to fetch.WithSOCKS5Proxy. CheckProxy
// verifies that an externally supplied SOCKS5 proxy accepts connections
// before a crawl starts.
package tor
