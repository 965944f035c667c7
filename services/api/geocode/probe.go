package geocode

import (
	"context"
	"net"
	"time"
)

// DefaultProbeHosts are the well-known hosts dialed to decide whether a
// geocoding lookup is worth attempting at all.
var DefaultProbeHosts = []string{"google.com:80", "cloudflare.com:80", "1.1.1.1:80"}

// DefaultProbeTimeout bounds each connectivity dial.
const DefaultProbeTimeout = 2 * time.Second

// Probe reports whether any of the hosts accepts a TCP connection within
// timeout. Purely advisory: a false result makes the importer skip geocoding
// with a clear error instead of hanging on a dead network.
func Probe(ctx context.Context, hosts []string, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	for _, host := range hosts {
		conn, err := d.DialContext(ctx, "tcp", host)
		if err == nil {
			conn.Close()
			return true
		}
	}
	return false
}
