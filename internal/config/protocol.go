package config

// Protocol identifies what the TLS session is wrapped in: direct TLS, HTTPS,
// or one of the StartTLS upgrade schemes.
type Protocol int

const (
	ProtocolPlainTLS Protocol = iota
	ProtocolHTTPS
	ProtocolStartTLSSMTP
	ProtocolStartTLSXMPP
	ProtocolStartTLSXMPPServer
	ProtocolStartTLSPOP3
	ProtocolStartTLSIMAP
	ProtocolStartTLSFTP
	ProtocolStartTLSLDAP
	ProtocolStartTLSRDP
	ProtocolStartTLSPostgres
)

func (p Protocol) String() string {
	switch p {
	case ProtocolPlainTLS:
		return "tls"
	case ProtocolHTTPS:
		return "https"
	case ProtocolStartTLSSMTP:
		return "starttls-smtp"
	case ProtocolStartTLSXMPP:
		return "starttls-xmpp"
	case ProtocolStartTLSXMPPServer:
		return "starttls-xmpp_server"
	case ProtocolStartTLSPOP3:
		return "starttls-pop3"
	case ProtocolStartTLSIMAP:
		return "starttls-imap"
	case ProtocolStartTLSFTP:
		return "starttls-ftp"
	case ProtocolStartTLSLDAP:
		return "starttls-ldap"
	case ProtocolStartTLSRDP:
		return "starttls-rdp"
	case ProtocolStartTLSPostgres:
		return "starttls-postgres"
	default:
		return "unknown"
	}
}

// DefaultPort is the port to scan when the server string did not carry one.
func (p Protocol) DefaultPort() int {
	switch p {
	case ProtocolStartTLSSMTP:
		return 25
	case ProtocolStartTLSXMPP:
		return 5222
	case ProtocolStartTLSXMPPServer:
		return 5269
	case ProtocolStartTLSPOP3:
		return 110
	case ProtocolStartTLSIMAP:
		return 143
	case ProtocolStartTLSFTP:
		return 21
	case ProtocolStartTLSLDAP:
		return 389
	case ProtocolStartTLSRDP:
		return 3389
	case ProtocolStartTLSPostgres:
		return 5432
	default:
		return 443
	}
}

// StartTLSNames is the allow-list for --starttls, in help-text order.
var StartTLSNames = []string{
	"smtp", "xmpp", "xmpp_server", "pop3", "ftp", "imap", "ldap", "rdp", "postgres", "auto",
}

// startTLSByName maps a --starttls literal to its protocol. The "auto"
// literal is absent on purpose; it defers the choice to per-target ports.
var startTLSByName = map[string]Protocol{
	"smtp":        ProtocolStartTLSSMTP,
	"xmpp":        ProtocolStartTLSXMPP,
	"xmpp_server": ProtocolStartTLSXMPPServer,
	"pop3":        ProtocolStartTLSPOP3,
	"imap":        ProtocolStartTLSIMAP,
	"ftp":         ProtocolStartTLSFTP,
	"ldap":        ProtocolStartTLSLDAP,
	"rdp":         ProtocolStartTLSRDP,
	"postgres":    ProtocolStartTLSPostgres,
}

// StartTLSByPort deduces the StartTLS protocol from a well-known port,
// used by --starttls auto.
var StartTLSByPort = map[int]Protocol{
	25:   ProtocolStartTLSSMTP,
	587:  ProtocolStartTLSSMTP,
	5222: ProtocolStartTLSXMPP,
	5269: ProtocolStartTLSXMPPServer,
	109:  ProtocolStartTLSPOP3,
	110:  ProtocolStartTLSPOP3,
	143:  ProtocolStartTLSIMAP,
	220:  ProtocolStartTLSIMAP,
	21:   ProtocolStartTLSFTP,
	389:  ProtocolStartTLSLDAP,
	3268: ProtocolStartTLSLDAP,
	3389: ProtocolStartTLSRDP,
	5432: ProtocolStartTLSPostgres,
}
