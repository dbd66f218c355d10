package hydra

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStdout = `Hydra v9.5 (c) 2023 by van Hauser/THC & David Maciejak - Please do not use in military or secret service organizations, or for illegal purposes (this is non-binding, these *** ignore laws and ethics anyway).

Hydra (https://github.com/vanhauser-thc/thc-hydra) starting at 2024-05-02 10:11:12
[DATA] max 4 tasks per 1 server, overall 4 tasks, 9 login tries (l:3/p:3), ~3 tries per task
[DATA] attacking ssh://192.168.41.3:22/
[22][ssh] host: 192.168.41.3   login: root   password: toor
[22][ssh] host: 192.168.41.3   login: ubuntu   password: my secret pass
[22][ssh] host: 192.168.41.3   login: root   password: toor
1 of 1 target successfully completed, 2 valid passwords found
Hydra (https://github.com/vanhauser-thc/thc-hydra) finished at 2024-05-02 10:11:20
`

func TestParseOutput(t *testing.T) {
	t.Run("extracts every success line once", func(t *testing.T) {
		got, err := ParseOutput(strings.NewReader(sampleStdout))
		require.NoError(t, err)

		assert.Equal(t, Credentials{
			{Host: "192.168.41.3", Port: 22, Service: "ssh", Login: "root", Password: "toor"},
			{Host: "192.168.41.3", Port: 22, Service: "ssh", Login: "ubuntu", Password: "my secret pass"},
		}, got)
		assert.Equal(t, map[string]string{"root": "toor", "ubuntu": "my secret pass"}, got.Map())
	})

	t.Run("no matching lines", func(t *testing.T) {
		got, err := ParseOutput(strings.NewReader("[DATA] attacking ssh://10.0.0.1:22/\n0 of 1 target completed, 0 valid password found\n"))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, got.Map())
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ParseOutputString(""))
	})

	t.Run("login-less service", func(t *testing.T) {
		got := ParseOutputString("[6379][redis] host: 10.0.0.7   password: foobared\r\n")
		require.Len(t, got, 1)
		assert.Equal(t, Credential{Host: "10.0.0.7", Port: 6379, Service: "redis", Password: "foobared"}, got[0])
		assert.Equal(t, map[string]string{"": "foobared"}, got.Map())
	})

	t.Run("misc field is skipped", func(t *testing.T) {
		got := ParseOutputString("[161][snmp] host: 10.0.0.9   misc: [read-only]   password: public\n")
		require.Len(t, got, 1)
		assert.Equal(t, "public", got[0].Password)
		assert.Equal(t, "snmp", got[0].Service)
	})
}

func TestParseExport(t *testing.T) {
	const jsonExport = `{ "generator": {
	"software": "Hydra", "version": "v9.5", "built": "2024-05-02 10:11:12",
	"server": "192.168.41.3", "service": "ssh", "jsonoutputversion": "1.00",
	"commandline": "hydra -t 4 -o out.json -b json ssh://192.168.41.3:22"
	},
"results": [
	{"port": 22, "service": "ssh", "host": "192.168.41.3", "login": "root", "password": "toor"},
	{"port": "22", "service": "ssh", "host": "192.168.41.3", "login": "admin", "password": "admin"}
	],
"success": true,
"errormessages": [ ],
"quantityfound": 2 }
`

	t.Run("json", func(t *testing.T) {
		got, err := ParseExport([]byte(jsonExport), ExportJSON)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"root": "toor", "admin": "admin"}, got.Map())
		assert.Equal(t, 22, got[1].Port)
	})

	t.Run("jsonv1 uses the same decoder", func(t *testing.T) {
		got, err := ParseExport([]byte(jsonExport), ExportJSONv1)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("text", func(t *testing.T) {
		text := "# Hydra v9.5 run at 2024-05-02 10:11:12 on 192.168.41.3 ssh (hydra -o out.txt -b text ssh://192.168.41.3:22)\n" +
			"[22][ssh] host: 192.168.41.3   login: root   password: toor\n"
		got, err := ParseExport([]byte(text), ExportText)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"root": "toor"}, got.Map())
	})

	t.Run("empty file", func(t *testing.T) {
		got, err := ParseExport([]byte("  \n"), ExportJSON)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("results without credentials", func(t *testing.T) {
		got, err := ParseExport([]byte(`{"results": [], "success": false, "quantityfound": 0}`), ExportJSON)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseExport([]byte(`{"results": [`), ExportJSON)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("non-numeric port", func(t *testing.T) {
		_, err := ParseExport([]byte(`{"results": [{"port": 22.5, "login": "a", "password": "b"}]}`), ExportJSON)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := ParseExport([]byte("x"), "xml")
		assert.ErrorIs(t, err, ErrInvalidExportType)
	})
}

func TestCredentialsMerge(t *testing.T) {
	a := Credentials{{Login: "root", Password: "toor"}}
	b := Credentials{{Login: "root", Password: "toor"}, {Login: "admin", Password: "admin"}}

	got := a.merge(b)
	assert.Equal(t, Credentials{{Login: "root", Password: "toor"}, {Login: "admin", Password: "admin"}}, got)
	assert.Len(t, a, 1)
}
