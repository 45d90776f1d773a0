package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	assert.Equal(t, []string{"target", "port", "domain"},
		Extract("openssl s_client -connect {target}:{port} -servername {domain}"))
	assert.Equal(t, []string{"port", "file"}, Extract("nc -lvnp {port} > {file} && cat {file}"))
	assert.Empty(t, Extract("ipconfig /all"))
	assert.Empty(t, Extract("echo {not-a-token} { } {}"))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]string
		extra    string
		want     string
	}{
		{
			name:     "all filled",
			template: "nmap -sV {target}",
			values:   map[string]string{"target": "10.0.0.1"},
			want:     "nmap -sV 10.0.0.1",
		},
		{
			name:     "repeated token",
			template: "{file} {file}",
			values:   map[string]string{"file": "a.txt"},
			want:     "a.txt a.txt",
		},
		{
			name:     "missing value left in place",
			template: "nc -v {target} {port}",
			values:   map[string]string{"target": "example.com", "port": "  "},
			want:     "nc -v example.com {port}",
		},
		{
			name:     "extra args appended",
			template: "curl -s {target}",
			values:   map[string]string{"target": "https://example.com"},
			extra:    "  -H 'Accept: */*' ",
			want:     "curl -s https://example.com -H 'Accept: */*'",
		},
		{
			name:     "nil values",
			template: "dig A {domain} +short",
			want:     "dig A {domain} +short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.template, tt.values, tt.extra))
		})
	}
}

func TestMissing(t *testing.T) {
	missing := Missing("nc {target} {port} < {file}", map[string]string{"target": "h"})
	assert.Equal(t, []string{"port", "file"}, missing)
	assert.Empty(t, Missing("ping -c 4 {target}", map[string]string{"target": "h"}))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "LPORT", Label("lport"))
	assert.Equal(t, "File path", Label("file"))
	assert.Equal(t, "custom_key", Label("custom_key"))
}
