// Package handshake performs a TLS handshake against a resolved server and
// captures the certificates and handshake parameters the server presented.
package handshake

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/zmap/zcrypto/tls"
	"github.com/zmap/zgrab2"

	"github.com/sslscout/sslscout/internal/connectivity"
)

// Result captures what the server presented during the handshake.
type Result struct {
	State        tls.ConnectionState
	Log          *zgrab2.TLSLog
	HandshakeLog *tls.ServerHandshake
}

// Inspect dials the descriptor's resolved address and runs a TLS handshake,
// sending the descriptor's SNI. StartTLS upgrades are the scanning engine's
// business; Inspect only handles direct TLS.
func Inspect(ctx context.Context, d *connectivity.Descriptor, timeout time.Duration) (Result, error) {
	addr := net.JoinHostPort(d.IPAddress, strconv.Itoa(d.Port))

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return Result{}, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	tlsFlags := zgrab2.TLSFlags{
		ServerName: d.SNI,
	}
	wrapper := zgrab2.GetDefaultTLSWrapper(&tlsFlags)
	scanTarget := &zgrab2.ScanTarget{
		IP:   net.ParseIP(d.IPAddress),
		Port: uint(d.Port),
	}

	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tlsConn, err := wrapper(connCtx, scanTarget, conn)
	if err != nil {
		return Result{}, fmt.Errorf("wrapping %s in TLS: %w", addr, err)
	}

	if err := tlsConn.HandshakeContext(connCtx); err != nil {
		return Result{}, fmt.Errorf("TLS handshake with %s: %w", addr, err)
	}

	state := tlsConn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return Result{}, fmt.Errorf("%s presented no certificates", addr)
	}

	return Result{
		State:        state,
		Log:          tlsConn.GetLog(),
		HandshakeLog: tlsConn.GetHandshakeLog(),
	}, nil
}
