package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"UNO_SERVER" envDefault:"http://localhost:8080"`
	Player    string `env:"UNO_PLAYER"`
	Output    string `env:"UNO_OUTPUT" envDefault:"text"`
	Verbose   bool   `env:"UNO_VERBOSE"`
}

// DefaultConfig returns a Config populated from the environment. Flags
// override these values.
func DefaultConfig() *Config {
	c := &Config{ServerURL: "http://localhost:8080", Output: "text"}
	_ = env.Parse(c)
	return c
}

// RequirePlayer returns the configured player name or an error explaining
// how to set it
func (c *Config) RequirePlayer() (string, error) {
	if c.Player == "" {
		return "", fmt.Errorf("player name required: pass --player or set UNO_PLAYER")
	}
	return c.Player, nil
}
