// Package config validates and normalizes the raw command line options into
// one immutable scan configuration, shared by reference across every server
// of a scan.
package config

import (
	"bufio"
	"bytes"
	"maps"
	"os"
	"slices"
	"strings"
)

// Network defaults applied when the flags are left alone.
const (
	DefaultTimeoutSeconds = 5
	DefaultRetries        = 3
)

// RegularCommands is what --regular expands to: the canonical set of
// capability flags for a regular HTTPS scan.
var RegularCommands = []string{
	"sslv2", "sslv3", "tlsv1", "tlsv1_1", "tlsv1_2",
	"reneg", "resum", "certinfo_basic", "http_get",
	"hide_rejected_ciphers", "compression", "heartbleed",
	"openssl_ccs", "fallback",
}

// Options are the raw flag values collected by the CLI layer, before any
// validation. Decoupled from the flag parsing library so Resolve stays
// testable without a command line.
type Options struct {
	// Client certificate options.
	Cert    string
	Key     string
	KeyForm string
	KeyPass string

	// Input and output options.
	XMLFile   string
	JSONFile  string
	TargetsIn string
	Quiet     bool

	// Connectivity options.
	TimeoutSeconds int
	Retries        int
	HTTPSTunnel    string
	StartTLS       string
	XMPPTo         string
	SNI            string

	// Shortcut and plugin capability flags, keyed by flag name.
	Regular      bool
	Capabilities map[string]bool
}

// ScanConfiguration is the validated, immutable result of Resolve. It must
// not be mutated once returned; descriptors share it by reference.
type ScanConfiguration struct {
	Protocol       Protocol
	StartTLSAuto   bool
	SNI            string
	XMPPTo         string
	ClientAuth     *ClientAuthCredentials
	Tunnel         *TunnelSettings
	TimeoutSeconds int
	Retries        int
	Quiet          bool
	XMLSink        string
	JSONSink       string
	HTTPGet        bool
	Capabilities   map[string]bool
}

// Enabled reports whether a capability flag was set, directly or via --regular.
func (c *ScanConfiguration) Enabled(capability string) bool {
	return c.Capabilities[capability]
}

// Resolve runs the ordered validation checks over the raw options and the
// positional targets. It returns the scan configuration together with the
// final list of server strings to resolve. The first failing check returns a
// *ParsingError immediately; nothing is resolved after a failure.
func Resolve(opts Options, positionalTargets []string) (*ScanConfiguration, []string, error) {
	// Target sourcing: --targets_in and positional targets are exclusive.
	targets := slices.Clone(positionalTargets)
	if opts.TargetsIn != "" {
		if len(targets) > 0 {
			return nil, nil, &ParsingError{Err: ErrMutuallyExclusiveInputs}
		}
		var err error
		targets, err = readTargetsFile(opts.TargetsIn)
		if err != nil {
			return nil, nil, parsingErrorf("%w %q: %w", ErrUnreadableTargetsFile, opts.TargetsIn, err)
		}
	}
	if len(targets) == 0 {
		return nil, nil, &ParsingError{Err: ErrNoTargets}
	}

	// --regular expands into the canonical capability set and clears itself.
	capabilities := maps.Clone(opts.Capabilities)
	if capabilities == nil {
		capabilities = make(map[string]bool)
	}
	if opts.Regular {
		opts.Regular = false
		for _, name := range RegularCommands {
			capabilities[name] = true
		}
	}

	// Output sinks: "-" means stdout, which clashes with --quiet and with
	// the other sink also targeting stdout.
	if opts.XMLFile == "-" && opts.Quiet {
		return nil, nil, parsingErrorf("%w: cannot use --quiet with --xml_out -", ErrOutputSinkConflict)
	}
	if opts.JSONFile == "-" && opts.Quiet {
		return nil, nil, parsingErrorf("%w: cannot use --quiet with --json_out -", ErrOutputSinkConflict)
	}
	if opts.XMLFile == "-" && opts.JSONFile == "-" {
		return nil, nil, parsingErrorf("%w: cannot use --xml_out - with --json_out -", ErrOutputSinkConflict)
	}

	// Client authentication: cert and key come as a pair.
	var clientAuth *ClientAuthCredentials
	if (opts.Cert == "") != (opts.Key == "") {
		return nil, nil, &ParsingError{Err: ErrClientAuthMismatch}
	}
	if opts.Cert != "" {
		var keyType KeyType
		switch opts.KeyForm {
		case "PEM", "":
			keyType = KeyTypePEM
		case "DER":
			keyType = KeyTypeDER
		default:
			return nil, nil, &ParsingError{Err: ErrInvalidKeyFormat}
		}
		var err error
		clientAuth, err = NewClientAuthCredentials(opts.Cert, opts.Key, keyType, opts.KeyPass)
		if err != nil {
			return nil, nil, parsingErrorf("%w: %w", ErrInvalidCredential, err)
		}
	}

	// HTTP CONNECT proxy.
	var tunnel *TunnelSettings
	if opts.HTTPSTunnel != "" {
		var err error
		tunnel, err = TunnelSettingsFromURL(opts.HTTPSTunnel)
		if err != nil {
			return nil, nil, parsingErrorf("%w: %w", ErrInvalidProxyURL, err)
		}
	}

	// StartTLS: literal protocols map eagerly, "auto" is deferred to the
	// per-target port table.
	protocol := ProtocolPlainTLS
	startTLSAuto := false
	if opts.StartTLS != "" {
		if !slices.Contains(StartTLSNames, opts.StartTLS) {
			return nil, nil, parsingErrorf("%w: should be one of: %s; 'auto' deduces the protocol from each target's port number",
				ErrInvalidStartTLS, strings.Join(StartTLSNames, ", "))
		}
		if opts.StartTLS == "auto" {
			startTLSAuto = true
		} else {
			protocol = startTLSByName[opts.StartTLS]
		}
	}

	if opts.Retries < 1 {
		return nil, nil, &ParsingError{Err: ErrInvalidRetryCount}
	}

	timeout := opts.TimeoutSeconds
	if timeout == 0 {
		timeout = DefaultTimeoutSeconds
	}

	return &ScanConfiguration{
		Protocol:       protocol,
		StartTLSAuto:   startTLSAuto,
		SNI:            opts.SNI,
		XMPPTo:         opts.XMPPTo,
		ClientAuth:     clientAuth,
		Tunnel:         tunnel,
		TimeoutSeconds: timeout,
		Retries:        opts.Retries,
		Quiet:          opts.Quiet,
		XMLSink:        opts.XMLFile,
		JSONSink:       opts.JSONFile,
		HTTPGet:        capabilities["http_get"],
		Capabilities:   capabilities,
	}, targets, nil
}

// readTargetsFile reads one server string per line, skipping blank lines and
// # comments.
func readTargetsFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var targets []string
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	return targets, scanner.Err()
}
