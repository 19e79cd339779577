// Package target parses server strings taken from the command line into
// (hostname, forced IP, port) tuples. Supports IPv6 addresses in bracket
// notation and the host:port{ip} override suffix.
package target

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrBadPort = errors.New("not a valid host:port")
	ErrNoIPv6  = errors.New("IPv6 is not supported on this platform")
)

// Parsed is one server string broken into its components. Zero values mean
// the component was absent from the input.
type Parsed struct {
	Host     string
	ForcedIP string
	Port     int
}

// hasIPv6 reports whether the platform can open IPv6 sockets at all.
// Probed once, the result never changes within a process.
var hasIPv6 = sync.OnceValue(func() bool {
	ln, err := net.Listen("tcp6", "[::1]:0")
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
})

// Parse splits a server string into host, forced IP and port.
//
// Accepted forms are host[:port] and [ipv6][:port], each optionally suffixed
// with {ip} to force the IP address to connect to. When both the host and the
// forced IP carry bracketed IPv6 syntax, precedence is: IPv6 in the host wins
// over IPv6 in the forced IP, which wins over the plain host:port fallback.
// No hostname validation happens here; that is the connectivity prober's job.
func Parse(serverString string) (Parsed, error) {
	working := serverString

	var forcedIP string
	if strings.Contains(working, "{") && strings.Contains(working, "}") {
		before, after, _ := strings.Cut(working, "{")
		forcedIP = strings.ReplaceAll(after, "}", "")
		working = before
	}

	// IPv6 hint in the host takes over completely.
	if strings.Contains(working, "[") {
		host, port, err := parseBracketed(working)
		if err != nil {
			return Parsed{}, err
		}
		return Parsed{Host: host, ForcedIP: forcedIP, Port: port}, nil
	}

	parsed := Parsed{ForcedIP: forcedIP}

	// IPv6 hint in the forced IP.
	if forcedIP != "" && strings.Contains(forcedIP, "[") {
		ip, port, err := parseBracketed(forcedIP)
		if err != nil {
			return Parsed{}, err
		}
		parsed.ForcedIP = ip
		parsed.Port = port
	}

	// Plain host:port fallback; always sets the host, sets the port only
	// when no earlier step produced one.
	host, port, err := parsePlain(working)
	if err != nil {
		return Parsed{}, err
	}
	parsed.Host = host
	if parsed.Port == 0 {
		parsed.Port = port
	}
	return parsed, nil
}

func parsePlain(s string) (string, int, error) {
	if !strings.Contains(s, ":") {
		return s, 0, nil
	}
	fields := strings.Split(s, ":")
	port, err := parsePort(fields[1])
	if err != nil {
		return "", 0, err
	}
	return fields[0], port, nil
}

func parseBracketed(s string) (string, int, error) {
	if !hasIPv6() {
		return "", 0, ErrNoIPv6
	}

	open := strings.Index(s, "[")
	closing := strings.Index(s, "]")
	if open == -1 || closing == -1 || closing < open {
		return "", 0, fmt.Errorf("%w: %q", ErrBadPort, s)
	}
	addr := s[open+1 : closing]

	rest := s[closing+1:]
	if !strings.Contains(rest, ":") {
		return addr, 0, nil
	}
	port, err := parsePort(strings.Split(rest, ":")[1])
	if err != nil {
		return "", 0, err
	}
	return addr, port, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPort, s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %d is out of range", ErrBadPort, port)
	}
	return port, nil
}
