// Package cli assembles the full flag set of the tool: three fixed core
// groups plus one group per scan plugin, merged in order into a single
// pflag.FlagSet ready to be mounted on the root command.
package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sslscout/sslscout/internal/config"
)

// OptionKind tells the schema how to register a flag.
type OptionKind int

const (
	KindBool OptionKind = iota
	KindString
	KindInt
)

// Option is one flag definition contributed by a core group or a plugin.
type Option struct {
	Name    string
	Help    string
	Kind    OptionKind
	Default string // string/int kinds only
}

// PluginOptions is implemented by every scan plugin that contributes command
// line flags. Groups are registered in the order the plugins are given.
type PluginOptions interface {
	Title() string
	Description() string
	Options() []Option
}

// Group is a named set of registered flags, kept for help rendering.
type Group struct {
	Title       string
	Description string
	Names       []string
}

// Schema is the fully assembled flag set.
type Schema struct {
	Flags  *pflag.FlagSet
	Groups []Group

	seen         map[string]string // flag name -> owning group title
	capabilities []string          // plugin bool flags, in registration order
}

// BuildSchema merges the core option groups with the plugin-contributed ones.
// A flag name already registered by an earlier group is skipped and logged at
// debug level; groups never overwrite each other's flags.
func BuildSchema(plugins []PluginOptions) *Schema {
	fs := pflag.NewFlagSet("sslscout", pflag.ContinueOnError)
	fs.SortFlags = false

	s := &Schema{
		Flags: fs,
		seen:  make(map[string]string),
	}

	s.addGroup("Client certificate options", "", clientCertOptions, false)
	s.addGroup("Input and output options", "", inputOutputOptions, false)
	s.addGroup("Connectivity options", "", connectivityOptions, false)

	for _, plugin := range plugins {
		s.addGroup(plugin.Title(), plugin.Description(), plugin.Options(), true)
	}

	regularHelp := "Regular HTTPS scan; shortcut for --" + strings.Join(config.RegularCommands, " --")
	s.addGroup("Shortcuts", "", []Option{
		{Name: "regular", Help: regularHelp, Kind: KindBool},
	}, false)

	return s
}

func (s *Schema) addGroup(title, description string, options []Option, capability bool) {
	group := Group{Title: title, Description: description}
	for _, opt := range options {
		if owner, dup := s.seen[opt.Name]; dup {
			slog.Debug("skipping duplicate flag definition",
				"flag", opt.Name, "group", title, "registered_by", owner)
			continue
		}
		s.seen[opt.Name] = title

		switch opt.Kind {
		case KindBool:
			s.Flags.Bool(opt.Name, false, opt.Help)
			if capability {
				s.capabilities = append(s.capabilities, opt.Name)
			}
		case KindString:
			s.Flags.String(opt.Name, opt.Default, opt.Help)
		case KindInt:
			def, _ := strconv.Atoi(opt.Default)
			s.Flags.Int(opt.Name, def, opt.Help)
		}
		group.Names = append(group.Names, opt.Name)
	}
	s.Groups = append(s.Groups, group)
}

// Options collects the parsed flag values into the raw options consumed by
// config.Resolve.
func (s *Schema) Options() (config.Options, error) {
	var opts config.Options
	var err error

	read := func(get func() error) {
		if err == nil {
			err = get()
		}
	}

	read(func() (e error) { opts.Cert, e = s.Flags.GetString("cert"); return })
	read(func() (e error) { opts.Key, e = s.Flags.GetString("key"); return })
	read(func() (e error) { opts.KeyForm, e = s.Flags.GetString("keyform"); return })
	read(func() (e error) { opts.KeyPass, e = s.Flags.GetString("pass"); return })
	read(func() (e error) { opts.XMLFile, e = s.Flags.GetString("xml_out"); return })
	read(func() (e error) { opts.JSONFile, e = s.Flags.GetString("json_out"); return })
	read(func() (e error) { opts.TargetsIn, e = s.Flags.GetString("targets_in"); return })
	read(func() (e error) { opts.Quiet, e = s.Flags.GetBool("quiet"); return })
	read(func() (e error) { opts.TimeoutSeconds, e = s.Flags.GetInt("timeout"); return })
	read(func() (e error) { opts.Retries, e = s.Flags.GetInt("nb_retries"); return })
	read(func() (e error) { opts.HTTPSTunnel, e = s.Flags.GetString("https_tunnel"); return })
	read(func() (e error) { opts.StartTLS, e = s.Flags.GetString("starttls"); return })
	read(func() (e error) { opts.XMPPTo, e = s.Flags.GetString("xmpp_to"); return })
	read(func() (e error) { opts.SNI, e = s.Flags.GetString("sni"); return })
	read(func() (e error) { opts.Regular, e = s.Flags.GetBool("regular"); return })
	if err != nil {
		return config.Options{}, err
	}

	opts.Capabilities = make(map[string]bool, len(s.capabilities))
	for _, name := range s.capabilities {
		v, e := s.Flags.GetBool(name)
		if e != nil {
			return config.Options{}, e
		}
		opts.Capabilities[name] = v
	}
	return opts, nil
}

var clientCertOptions = []Option{
	{Name: "cert", Kind: KindString, Help: "Client certificate chain filename. The certificates must be in PEM format and must be sorted starting with the subject's client certificate, followed by intermediate CA certificates if applicable."},
	{Name: "key", Kind: KindString, Help: "Client private key filename."},
	{Name: "keyform", Kind: KindString, Default: "PEM", Help: "Client private key format. DER or PEM (default)."},
	{Name: "pass", Kind: KindString, Help: "Client private key passphrase."},
}

var inputOutputOptions = []Option{
	{Name: "xml_out", Kind: KindString, Help: "Write the scan results as an XML document to the given file. If set to \"-\", the XML output is printed to stdout instead."},
	{Name: "json_out", Kind: KindString, Help: "Write the scan results as a JSON document to the given file. If set to \"-\", the JSON output is printed to stdout instead."},
	{Name: "targets_in", Kind: KindString, Help: "Read the list of targets to scan from the given file. It should contain one host:port per line; lines starting with # are skipped."},
	{Name: "quiet", Kind: KindBool, Help: "Do not output anything to stdout; useful when using --xml_out or --json_out."},
}

var connectivityOptions = []Option{
	{Name: "timeout", Kind: KindInt, Default: strconv.Itoa(config.DefaultTimeoutSeconds), Help: fmt.Sprintf("Set the timeout value in seconds used for every socket connection made to the target server(s). Default is %ds.", config.DefaultTimeoutSeconds)},
	{Name: "nb_retries", Kind: KindInt, Default: strconv.Itoa(config.DefaultRetries), Help: fmt.Sprintf("Set the number of retry attempts for all network connections initiated throughout the scan. Default is %d connection attempts.", config.DefaultRetries)},
	{Name: "https_tunnel", Kind: KindString, Help: "Tunnel all traffic to the target server(s) through an HTTP CONNECT proxy. The value should be the proxy's URL: 'http://USER:PW@HOST:PORT/'. For proxies requiring authentication, only Basic Authentication is supported."},
	{Name: "starttls", Kind: KindString, Help: "Perform a StartTLS handshake when connecting to the target server(s). Should be one of: " + strings.Join(config.StartTLSNames, ", ") + ". The 'auto' option deduces the protocol from the supplied port number, for each target server."},
	{Name: "xmpp_to", Kind: KindString, Help: "Optional setting for STARTTLS XMPP: the hostname to be put in the 'to' attribute of the XMPP stream. Default is the server's hostname."},
	{Name: "sni", Kind: KindString, Help: "Use Server Name Indication to specify the hostname to connect to. Will only affect TLS 1.0+ connections."},
}
