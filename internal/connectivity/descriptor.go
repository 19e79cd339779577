// Package connectivity turns parsed server strings into fully resolved
// connectivity descriptors, ready to be handed to the scanning engine.
package connectivity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sslscout/sslscout/internal/config"
	"github.com/sslscout/sslscout/internal/target"
)

// ErrXMPPToNotXMPP flags --xmpp_to used with a non-XMPP protocol. This is a
// global misconfiguration, not a per-target failure.
var ErrXMPPToNotXMPP = errors.New("--xmpp_to can only be used with --starttls xmpp or --starttls xmpp_server")

// Descriptor is the resolved, validated description of one server to scan.
// Protocol is finalized by ResolveAll's post-resolution pass; nothing mutates
// a descriptor after ResolveAll returns.
type Descriptor struct {
	ServerString string // original command line string, kept for diagnostics
	Hostname     string
	IPAddress    string // resolved or forced IP; empty when tunneling through a proxy
	Port         int
	Protocol     config.Protocol
	SNI          string
	XMPPTo       string
	ClientAuth   *config.ClientAuthCredentials
	Tunnel       *config.TunnelSettings
}

// FailedTarget is one server string that could not be resolved, with the
// reason it failed.
type FailedTarget struct {
	ServerString string
	Err          error
}

// ResolveAll resolves every server string into exactly one descriptor or one
// failed target, both lists in input order. Syntax and prober failures are
// collected per target and never abort the batch; a global misconfiguration
// detected during descriptor construction aborts everything.
//
// Once all targets are classified, two adjustments run over the resolved
// descriptors, in this order: --starttls auto deduces each protocol from the
// port table, then --http_get forces plain HTTPS on port 443.
func ResolveAll(ctx context.Context, serverStrings []string, cfg *config.ScanConfiguration, prober Prober) ([]*Descriptor, []FailedTarget, error) {
	descriptors := make([]*Descriptor, 0, len(serverStrings))
	var failed []FailedTarget

	for _, serverString := range serverStrings {
		parsed, err := target.Parse(serverString)
		if err != nil {
			slog.DebugContext(ctx, "server string did not parse", "target", serverString, "err", err)
			failed = append(failed, FailedTarget{ServerString: serverString, Err: err})
			continue
		}

		descriptor, err := newDescriptor(ctx, serverString, parsed, cfg, prober)
		if err != nil {
			var probeErr *ProbeError
			if errors.As(err, &probeErr) {
				slog.DebugContext(ctx, "target not reachable", "target", serverString, "err", err)
				failed = append(failed, FailedTarget{ServerString: serverString, Err: err})
				continue
			}
			// Anything else is a bad combination of global settings.
			return nil, nil, err
		}
		descriptors = append(descriptors, descriptor)
	}

	if cfg.StartTLSAuto {
		for _, d := range descriptors {
			if protocol, ok := config.StartTLSByPort[d.Port]; ok {
				d.Protocol = protocol
			}
		}
	}
	if cfg.HTTPGet {
		for _, d := range descriptors {
			if d.Port == 443 {
				d.Protocol = config.ProtocolHTTPS
			}
		}
	}

	return descriptors, failed, nil
}

func newDescriptor(ctx context.Context, serverString string, parsed target.Parsed, cfg *config.ScanConfiguration, prober Prober) (*Descriptor, error) {
	if cfg.XMPPTo != "" &&
		cfg.Protocol != config.ProtocolStartTLSXMPP &&
		cfg.Protocol != config.ProtocolStartTLSXMPPServer {
		return nil, fmt.Errorf("%w (got %s)", ErrXMPPToNotXMPP, cfg.Protocol)
	}

	port := parsed.Port
	if port == 0 {
		port = cfg.Protocol.DefaultPort()
	}

	sni := cfg.SNI
	if sni == "" {
		sni = parsed.Host
	}

	xmppTo := cfg.XMPPTo
	if xmppTo == "" {
		xmppTo = parsed.Host
	}

	// When tunneling, the proxy resolves the hostname; no probing here.
	ip := ""
	if cfg.Tunnel == nil {
		var err error
		ip, err = prober.Probe(ctx, parsed.Host, parsed.ForcedIP, port)
		if err != nil {
			return nil, err
		}
	}

	return &Descriptor{
		ServerString: serverString,
		Hostname:     parsed.Host,
		IPAddress:    ip,
		Port:         port,
		Protocol:     cfg.Protocol,
		SNI:          sni,
		XMPPTo:       xmppTo,
		ClientAuth:   cfg.ClientAuth,
		Tunnel:       cfg.Tunnel,
	}, nil
}
