package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{
			name: "all flags set",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
				"-i", "issuer", "-u", "audience", "-t", "15", "-r", "7", "-b", "10",
			},
			expected: &Config{
				EndpointAddrHTTP:             "127.0.0.1:9090",
				DatabaseDSN:                  "db",
				SigningSecret:                "secret",
				Issuer:                       "issuer",
				Audience:                     "audience",
				AccessTokenValidityDuration:  15 * time.Minute,
				RefreshTokenValidityDuration: 7 * 24 * time.Hour,
				BcryptCost:                   10,
			},
		},
		{
			name: "unrelated flags are ignored",
			args: []string{"cmd", "-a", ":9000", "-x", "noise", "-unknown=1"},
			expected: &Config{
				EndpointAddrHTTP: ":9000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
			os.Args = tt.args

			config := &Config{}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Equal(t, tt.expected, config)
		})
	}
}
