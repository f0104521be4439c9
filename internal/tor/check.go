package tor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// checkProxyTimeout bounds the proxy connectivity check.
const checkProxyTimeout = 2 * time.Second

// CheckProxy opens and closes a TCP connection to the SOCKS5 proxy at
// address. It does not perform a SOCKS handshake.
func CheckProxy(ctx context.Context, address string) error {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return fmt.Errorf("%w: %s", ErrProxyTimeout, address)
		}
		return fmt.Errorf("%w: %s: %w", ErrProxyCannotConnect, address, err)
	}
	return conn.Close()
}
