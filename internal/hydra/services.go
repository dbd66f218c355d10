package hydra

import (
	"fmt"
	"slices"
	"strings"
)

// supportedServices are hydra modules that work with a target URL and
// wordlists alone.
var supportedServices = []string{
	"adam6500", "asterisk", "cisco", "cobaltstrike", "cvs", "firebird",
	"ftp", "ftps", "http-get", "http-head", "http-post", "https-get",
	"https-head", "https-post", "http-proxy", "icq", "imap", "imaps", "irc",
	"ldap2", "ldap2s", "ldap3", "ldap3s", "ldap3-crammd5", "ldap3-crammd5s",
	"ldap3-digestmd5", "ldap3-digestmd5s", "memcached", "mongodb", "mssql",
	"mysql", "nntp", "oracle-listener", "oracle-sid", "pcanywhere", "pcnfs",
	"pop3", "pop3s", "postgres", "radmin2", "rdp", "redis", "rexec", "rlogin",
	"rpcap", "rsh", "rtsp", "s7-300", "sip", "smb", "smb2", "smtp", "smtps",
	"snmp", "socks5", "ssh", "svn", "teamspeak", "telnet", "telnets",
	"vmauthd", "vnc", "xmpp",
}

// specialServices need module options (form paths, key files, enable
// passwords) that are not modelled here.
var specialServices = []string{
	"cisco-enable", "http-get-form", "http-post-form", "https-get-form",
	"https-post-form", "http-proxy-urlenum", "smtp-enum", "sshkey",
}

// loginlessServices authenticate with a password only.
var loginlessServices = []string{
	"redis", "adam6500", "cisco", "oracle-listener", "s7-300", "snmp", "vnc",
}

// SupportedServices returns a copy of the service names accepted by Bruteforce.
func SupportedServices() []string { return slices.Clone(supportedServices) }

// SpecialServices returns a copy of the hydra modules rejected as unsupported.
func SpecialServices() []string { return slices.Clone(specialServices) }

// LoginlessServices returns a copy of the services that take no username.
func LoginlessServices() []string { return slices.Clone(loginlessServices) }

// IsSupported reports whether service is accepted by Bruteforce. Names are
// compared after lowercasing and trimming.
func IsSupported(service string) bool {
	return slices.Contains(supportedServices, strings.ToLower(strings.TrimSpace(service)))
}

// NeedsLogin reports whether service expects a username source.
func NeedsLogin(service string) bool {
	return !slices.Contains(loginlessServices, strings.ToLower(service))
}

func checkService(service string) error {
	if slices.Contains(supportedServices, service) {
		return nil
	}
	if slices.Contains(specialServices, service) {
		return fmt.Errorf("%w: %s", ErrUnsupportedService, service)
	}
	return fmt.Errorf("%w: %s", ErrUnknownService, service)
}
