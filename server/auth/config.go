package auth

import (
	"fmt"
	"strings"

	"github.com/mani-shailesh/focus/internal/xtime"
)

type Config struct {
	SessionMaxAge xtime.Duration `toml:"session_max_age"`
	Facebook      ProviderConfig `toml:"facebook"`
	Twitter       ProviderConfig `toml:"twitter"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n SessionMaxAge: %s\n Facebook: %s\n Twitter: %s",
		c.SessionMaxAge,
		c.Facebook,
		c.Twitter,
	)
}

// ProviderConfig is a "social application": the OAuth client credentials for
// one third party login provider.
type ProviderConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

func (c ProviderConfig) String() string {
	return fmt.Sprintf("\n  ClientID: %s\n  ClientSecret: %s",
		c.ClientID,
		strings.Repeat("*", len(c.ClientSecret)),
	)
}

func (c ProviderConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
