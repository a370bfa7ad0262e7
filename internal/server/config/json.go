package config

import (
	"encoding/json"
	"os"

	"github.com/martinsb/pantrylist/internal/flagx"
	"github.com/martinsb/pantrylist/internal/timex"
)

// JSONConfig mirrors Config for JSON unmarshalling. Interval fields use
// timex.Duration so the file can say "15m" or "168h" as well as integer
// nanoseconds. After unmarshalling the values are copied into the runtime
// Config.
type JSONConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SigningSecret                string         `json:"signing_secret"`
	Issuer                       string         `json:"issuer"`
	Audience                     string         `json:"audience"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost"`
}

// parseJSON loads configuration from the JSON file named by the -c/-config
// flags. When neither flag is set, nothing is loaded. An unreadable or
// malformed file panics: a config file that exists but cannot be applied is a
// startup error, not something to run past.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SigningSecret = c.SigningSecret
	config.Issuer = c.Issuer
	config.Audience = c.Audience
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.BcryptCost = c.BcryptCost
}
