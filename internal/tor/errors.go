package tor

import "errors"

var (
	// ErrProxyCannotConnect is returned when the proxy refuses the TCP
	// connection or the address cannot be resolved.
	ErrProxyCannotConnect = errors.New("cannot connect to SOCKS5 proxy")

	// ErrProxyTimeout is returned when connecting to the proxy times out.
	ErrProxyTimeout = errors.New("timeout connecting to SOCKS5 proxy")

	// ErrDaemonNotRunning is returned when the embedded Tor daemon is used
	// before Start succeeded.
	ErrDaemonNotRunning = errors.New("embedded Tor daemon is not running")
)
