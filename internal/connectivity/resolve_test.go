package connectivity_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sslscout/sslscout/internal/config"
	"github.com/sslscout/sslscout/internal/connectivity"
	"github.com/sslscout/sslscout/internal/target"
)

// fakeProber resolves every hostname to a fixed IP, except hostnames listed
// in down, which fail like the real prober would.
type fakeProber struct {
	down map[string]bool
}

func (p fakeProber) Probe(_ context.Context, hostname, forcedIP string, _ int) (string, error) {
	if p.down[hostname] {
		return "", &connectivity.ProbeError{
			Err: fmt.Errorf("%w: %q", connectivity.ErrCouldNotResolve, hostname),
		}
	}
	if forcedIP != "" {
		return forcedIP, nil
	}
	return "198.51.100.1", nil
}

func plainConfig() *config.ScanConfiguration {
	cfg, _, err := config.Resolve(config.Options{KeyForm: "PEM", Retries: 3}, []string{"placeholder"})
	if err != nil {
		panic(err)
	}
	return cfg
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	targets := []string{
		"example.com",
		"example.org:8443",
		"example.net:443{203.0.113.7}",
	}

	descriptors, failed, err := connectivity.ResolveAll(t.Context(), targets, plainConfig(), fakeProber{})
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Len(t, descriptors, len(targets))

	require.Equal(t, "example.com", descriptors[0].Hostname)
	require.Equal(t, 443, descriptors[0].Port) // default port
	require.Equal(t, "example.com", descriptors[0].SNI)
	require.Equal(t, config.ProtocolPlainTLS, descriptors[0].Protocol)

	require.Equal(t, 8443, descriptors[1].Port)

	require.Equal(t, "203.0.113.7", descriptors[2].IPAddress)
	require.Equal(t, "example.net:443{203.0.113.7}", descriptors[2].ServerString)
}

func TestResolveAll_Partition(t *testing.T) {
	t.Parallel()

	targets := []string{
		"good-1.example.com",
		"badhost:notaport",
		"down.example.com",
		"good-2.example.com",
	}
	prober := fakeProber{down: map[string]bool{"down.example.com": true}}

	descriptors, failed, err := connectivity.ResolveAll(t.Context(), targets, plainConfig(), prober)
	require.NoError(t, err)

	// every input ends up in exactly one of the two lists, in input order
	require.Len(t, descriptors, 2)
	require.Len(t, failed, 2)
	require.Equal(t, "good-1.example.com", descriptors[0].ServerString)
	require.Equal(t, "good-2.example.com", descriptors[1].ServerString)
	require.Equal(t, "badhost:notaport", failed[0].ServerString)
	require.ErrorIs(t, failed[0].Err, target.ErrBadPort)
	require.Equal(t, "down.example.com", failed[1].ServerString)
	require.ErrorIs(t, failed[1].Err, connectivity.ErrCouldNotResolve)
}

func TestResolveAll_Deterministic(t *testing.T) {
	t.Parallel()

	targets := []string{"a.example.com", "badhost:notaport", "b.example.com:993"}
	cfg := plainConfig()

	first, firstFailed, err := connectivity.ResolveAll(t.Context(), targets, cfg, fakeProber{})
	require.NoError(t, err)
	second, secondFailed, err := connectivity.ResolveAll(t.Context(), targets, cfg, fakeProber{})
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, firstFailed, secondFailed)
}

func TestResolveAll_StartTLSAuto(t *testing.T) {
	t.Parallel()

	opts := config.Options{KeyForm: "PEM", Retries: 3, StartTLS: "auto"}
	cfg, targets, err := config.Resolve(opts, []string{
		"mail.example.com:587",
		"jabber.example.com:5222",
		"www.example.com:443",
	})
	require.NoError(t, err)

	descriptors, failed, err := connectivity.ResolveAll(t.Context(), targets, cfg, fakeProber{})
	require.NoError(t, err)
	require.Empty(t, failed)

	require.Equal(t, config.ProtocolStartTLSSMTP, descriptors[0].Protocol)
	require.Equal(t, config.ProtocolStartTLSXMPP, descriptors[1].Protocol)
	// port 443 is not in the table, the default protocol stays
	require.Equal(t, config.ProtocolPlainTLS, descriptors[2].Protocol)
}

func TestResolveAll_HTTPGetShortcut(t *testing.T) {
	t.Parallel()

	opts := config.Options{
		KeyForm:      "PEM",
		Retries:      3,
		Capabilities: map[string]bool{"http_get": true},
	}
	cfg, targets, err := config.Resolve(opts, []string{
		"www.example.com:443",
		"mail.example.com:993",
	})
	require.NoError(t, err)

	descriptors, _, err := connectivity.ResolveAll(t.Context(), targets, cfg, fakeProber{})
	require.NoError(t, err)

	require.Equal(t, config.ProtocolHTTPS, descriptors[0].Protocol)
	require.Equal(t, config.ProtocolPlainTLS, descriptors[1].Protocol)
}

// --starttls auto runs before --http_get, so a port 443 target ends up HTTPS
// even when both adjustments apply.
func TestResolveAll_PostPassOrder(t *testing.T) {
	t.Parallel()

	opts := config.Options{
		KeyForm:      "PEM",
		Retries:      3,
		StartTLS:     "auto",
		Capabilities: map[string]bool{"http_get": true},
	}
	cfg, targets, err := config.Resolve(opts, []string{"smtp.example.com:587", "www.example.com:443"})
	require.NoError(t, err)

	descriptors, _, err := connectivity.ResolveAll(t.Context(), targets, cfg, fakeProber{})
	require.NoError(t, err)
	require.Equal(t, config.ProtocolStartTLSSMTP, descriptors[0].Protocol)
	require.Equal(t, config.ProtocolHTTPS, descriptors[1].Protocol)
}

func TestResolveAll_XMPPToMisconfiguration(t *testing.T) {
	t.Parallel()

	opts := config.Options{KeyForm: "PEM", Retries: 3, XMPPTo: "chat.example.com"}
	cfg, targets, err := config.Resolve(opts, []string{"good.example.com", "other.example.com"})
	require.NoError(t, err)

	// fatal: aborts the whole batch, nothing is partitioned
	descriptors, failed, err := connectivity.ResolveAll(t.Context(), targets, cfg, fakeProber{})
	require.ErrorIs(t, err, connectivity.ErrXMPPToNotXMPP)
	require.Nil(t, descriptors)
	require.Nil(t, failed)
}

func TestResolveAll_XMPPToWithXMPP(t *testing.T) {
	t.Parallel()

	opts := config.Options{KeyForm: "PEM", Retries: 3, StartTLS: "xmpp", XMPPTo: "chat.example.com"}
	cfg, targets, err := config.Resolve(opts, []string{"jabber.example.com"})
	require.NoError(t, err)

	descriptors, _, err := connectivity.ResolveAll(t.Context(), targets, cfg, fakeProber{})
	require.NoError(t, err)
	require.Equal(t, "chat.example.com", descriptors[0].XMPPTo)
	require.Equal(t, 5222, descriptors[0].Port) // XMPP default port
}

func TestResolveAll_TunnelSkipsProbing(t *testing.T) {
	t.Parallel()

	opts := config.Options{KeyForm: "PEM", Retries: 3, HTTPSTunnel: "http://proxy.internal:3128"}
	cfg, targets, err := config.Resolve(opts, []string{"unreachable.example.com"})
	require.NoError(t, err)

	// prober says every host is down; the tunnel bypasses it entirely
	prober := fakeProber{down: map[string]bool{"unreachable.example.com": true}}
	descriptors, failed, err := connectivity.ResolveAll(t.Context(), targets, cfg, prober)
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Len(t, descriptors, 1)
	require.Empty(t, descriptors[0].IPAddress)
	require.NotNil(t, descriptors[0].Tunnel)
}
