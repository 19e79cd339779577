package connectivity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

var (
	ErrCouldNotResolve = errors.New("could not resolve hostname")
	ErrNotReachable    = errors.New("could not connect to the server")
	ErrBadForcedIP     = errors.New("invalid IP address")
)

// ProbeError marks a failure coming from the connectivity prober. These are
// recoverable per target; the batch resolver collects them instead of
// aborting.
type ProbeError struct {
	Err error
}

func (e *ProbeError) Error() string { return e.Err.Error() }
func (e *ProbeError) Unwrap() error { return e.Err }

// Prober checks whether one target is worth scanning and returns the IP
// address to connect to. Implementations are synchronous and bounded by
// their own timeout and retry policy.
type Prober interface {
	Probe(ctx context.Context, hostname, forcedIP string, port int) (string, error)
}

// DialProber is the default prober: DNS resolution (unless an IP is forced)
// followed by a TCP dial with retries.
type DialProber struct {
	Timeout time.Duration
	Retries int
}

func (p DialProber) Probe(ctx context.Context, hostname, forcedIP string, port int) (string, error) {
	ip := forcedIP
	if ip != "" {
		if net.ParseIP(ip) == nil {
			return "", &ProbeError{Err: fmt.Errorf("%w: %q", ErrBadForcedIP, forcedIP)}
		}
	} else {
		addrs, err := net.DefaultResolver.LookupHost(ctx, hostname)
		if err != nil || len(addrs) == 0 {
			return "", &ProbeError{Err: fmt.Errorf("%w: %q", ErrCouldNotResolve, hostname)}
		}
		ip = addrs[0]
	}

	retries := p.Retries
	if retries < 1 {
		retries = 1
	}

	dialer := net.Dialer{Timeout: p.Timeout}
	addr := net.JoinHostPort(ip, strconv.Itoa(port))

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			_ = conn.Close()
			return ip, nil
		}
		lastErr = err
	}
	return "", &ProbeError{Err: fmt.Errorf("%w: %s: %w", ErrNotReachable, addr, lastErr)}
}
