package cli

// builtinPlugin is the concrete PluginOptions of the plugins shipped with the
// tool. The scan logic itself lives with the scanning engine; only the flag
// contributions are declared here.
type builtinPlugin struct {
	title       string
	description string
	options     []Option
}

func (p builtinPlugin) Title() string       { return p.title }
func (p builtinPlugin) Description() string { return p.description }
func (p builtinPlugin) Options() []Option   { return p.options }

// BuiltinPlugins returns the plugin option groups in registration order.
func BuiltinPlugins() []PluginOptions {
	return []PluginOptions{
		builtinPlugin{
			title:       "PluginOpenSSLCipherSuites",
			description: "Scans the server(s) for supported OpenSSL cipher suites.",
			options: []Option{
				{Name: "sslv2", Kind: KindBool, Help: "List the SSL 2.0 OpenSSL cipher suites supported by the server(s)."},
				{Name: "sslv3", Kind: KindBool, Help: "List the SSL 3.0 OpenSSL cipher suites supported by the server(s)."},
				{Name: "tlsv1", Kind: KindBool, Help: "List the TLS 1.0 OpenSSL cipher suites supported by the server(s)."},
				{Name: "tlsv1_1", Kind: KindBool, Help: "List the TLS 1.1 OpenSSL cipher suites supported by the server(s)."},
				{Name: "tlsv1_2", Kind: KindBool, Help: "List the TLS 1.2 OpenSSL cipher suites supported by the server(s)."},
				{Name: "http_get", Kind: KindBool, Help: "Option to be used with SSL/TLS version scans: send an HTTP GET request after the handshake and return the HTTP status code."},
				{Name: "hide_rejected_ciphers", Kind: KindBool, Help: "Hide the (usually long) list of cipher suites that were rejected by the server(s)."},
			},
		},
		builtinPlugin{
			title:       "PluginCertInfo",
			description: "Verifies the validity of the server(s) certificate(s) against various trust stores and checks for OCSP stapling support.",
			options: []Option{
				{Name: "certinfo_basic", Kind: KindBool, Help: "Retrieve the server(s) certificate(s) and print basic information."},
				{Name: "certinfo_full", Kind: KindBool, Help: "Retrieve the server(s) certificate(s) and print the full certificate content."},
			},
		},
		builtinPlugin{
			title:       "PluginSessionRenegotiation",
			description: "Tests the server(s) for client-initiated renegotiation and secure renegotiation support.",
			options: []Option{
				{Name: "reneg", Kind: KindBool, Help: "Test the server(s) for client-initiated renegotiation and secure renegotiation support."},
			},
		},
		builtinPlugin{
			title:       "PluginSessionResumption",
			description: "Analyzes the server(s) SSL session resumption capabilities.",
			options: []Option{
				{Name: "resum", Kind: KindBool, Help: "Test the server(s) for session resumption support using session IDs and TLS session tickets."},
				{Name: "resum_rate", Kind: KindBool, Help: "Estimate the rate of successful session resumptions by performing 100 session ID resumptions."},
			},
		},
		builtinPlugin{
			title:       "PluginCompression",
			description: "Tests the server(s) for Zlib compression support.",
			options: []Option{
				{Name: "compression", Kind: KindBool, Help: "Test the server(s) for Zlib compression support."},
			},
		},
		builtinPlugin{
			title:       "PluginHeartbleed",
			description: "Tests the server(s) for the OpenSSL Heartbleed vulnerability.",
			options: []Option{
				{Name: "heartbleed", Kind: KindBool, Help: "Test the server(s) for the OpenSSL Heartbleed vulnerability (CVE-2014-0160)."},
			},
		},
		builtinPlugin{
			title:       "PluginOpenSSLCCS",
			description: "Tests the server(s) for the OpenSSL CCS injection vulnerability.",
			options: []Option{
				{Name: "openssl_ccs", Kind: KindBool, Help: "Test the server(s) for the OpenSSL CCS injection vulnerability (CVE-2014-0224)."},
			},
		},
		builtinPlugin{
			title:       "PluginFallbackSCSV",
			description: "Tests the server(s) for support of the TLS_FALLBACK_SCSV cipher suite, preventing downgrade attacks.",
			options: []Option{
				{Name: "fallback", Kind: KindBool, Help: "Test the server(s) for support of the TLS_FALLBACK_SCSV cipher suite."},
			},
		},
		builtinPlugin{
			title:       "PluginHTTPHeaders",
			description: "Checks the HTTP security headers returned by the server(s).",
			options: []Option{
				{Name: "http_headers", Kind: KindBool, Help: "Check for the HTTP Strict Transport Security and HTTP Public Key Pinning headers."},
			},
		},
	}
}
