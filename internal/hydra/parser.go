package hydra

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Credential is one valid login/password pair reported by hydra.
type Credential struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Service  string `json:"service"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Credentials is an ordered set of discovered pairs.
type Credentials []Credential

// Map returns the credential mapping login -> password. Login-less services
// are keyed by the empty string.
func (cs Credentials) Map() map[string]string {
	m := make(map[string]string, len(cs))
	for _, c := range cs {
		m[c.Login] = c.Password
	}
	return m
}

func (cs Credentials) Len() int { return len(cs) }

// merge appends the credentials of other not already present in cs.
func (cs Credentials) merge(other Credentials) Credentials {
	seen := make(map[Credential]struct{}, len(cs)+len(other))
	out := make(Credentials, 0, len(cs)+len(other))
	for _, list := range []Credentials{cs, other} {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// [22][ssh] host: 10.0.0.5   login: root   password: toor
// [6379][redis] host: 10.0.0.5   password: foobared
var successLine = regexp.MustCompile(
	`^\[(\d+)\]\[([^\]]+)\]\s+host:\s+(\S+)(?:\s+misc:\s+\S+)?(?:\s+login:\s(.*?))?\s+password:\s(.*)$`)

// ParseOutput scrapes hydra success lines from r. Lines that do not match
// the success grammar are skipped; no matches yields an empty, non-nil slice.
func ParseOutput(r io.Reader) (Credentials, error) {
	var found Credentials
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if c, ok := parseLine(sc.Text()); ok {
			found = append(found, c)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read hydra output: %w", err)
	}
	return Credentials{}.merge(found), nil
}

// ParseOutputString is ParseOutput over an in-memory string.
func ParseOutputString(s string) Credentials {
	cs, _ := ParseOutput(strings.NewReader(s))
	return cs
}

func parseLine(line string) (Credential, bool) {
	m := successLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return Credential{}, false
	}
	port, err := strconv.Atoi(m[1])
	if err != nil {
		return Credential{}, false
	}
	return Credential{
		Port:     port,
		Service:  m[2],
		Host:     m[3],
		Login:    m[4],
		Password: m[5],
	}, true
}

// exportDocument is hydra's -b json / jsonv1 output.
type exportDocument struct {
	Generator struct {
		Software string `json:"software"`
		Version  string `json:"version"`
		Server   string `json:"server"`
		Service  string `json:"service"`
	} `json:"generator"`
	Results []struct {
		Port     json.Number `json:"port"`
		Service  string      `json:"service"`
		Host     string      `json:"host"`
		Login    string      `json:"login"`
		Password string      `json:"password"`
	} `json:"results"`
	Success       bool     `json:"success"`
	ErrorMessages []string `json:"errormessages"`
	QuantityFound int      `json:"quantityfound"`
}

// ParseExport decodes the file hydra wrote with -o/-b. An empty export is
// not an error: hydra leaves the file empty when it finds nothing.
func ParseExport(data []byte, exportType string) (Credentials, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Credentials{}, nil
	}

	switch exportType {
	case ExportText:
		return ParseOutput(bytes.NewReader(data))
	case ExportJSON, ExportJSONv1:
		return parseJSONExport(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidExportType, exportType)
	}
}

func parseJSONExport(data []byte) (Credentials, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc exportDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	found := make(Credentials, 0, len(doc.Results))
	for _, r := range doc.Results {
		var port int
		if r.Port != "" {
			p, err := strconv.Atoi(r.Port.String())
			if err != nil {
				return nil, fmt.Errorf("%w: port %q", ErrDecode, r.Port)
			}
			port = p
		}
		found = append(found, Credential{
			Host:     r.Host,
			Port:     port,
			Service:  r.Service,
			Login:    r.Login,
			Password: r.Password,
		})
	}
	return Credentials{}.merge(found), nil
}
