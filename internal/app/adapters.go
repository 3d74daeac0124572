package app

import (
	"strings"

	"github.com/charlesng35/geocurator/internal/database"
	"github.com/charlesng35/geocurator/internal/eutils"
)

// DatabaseSettings converts the database section into connection options for the
// selected driver.
func (c DatabaseConfig) DatabaseSettings() database.Config {
	cfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:   c.Path,
		DSN:    c.DSN,
	}

	var auth DBAuthConfig
	switch cfg.Driver {
	case "postgres", "postgresql":
		auth = c.Postgres
	case "mysql":
		auth = c.MySQL
	default:
		return cfg
	}
	cfg.Host = auth.Host
	cfg.Port = auth.Port
	cfg.Name = auth.Database
	cfg.User = auth.Username
	cfg.Password = auth.Password
	return cfg
}

// ClientConfig converts the eutils section into client settings.
func (c EutilsConfig) ClientConfig() eutils.Config {
	return eutils.Config{
		BaseURL: c.BaseURL,
		Tool:    c.Tool,
		Email:   c.Email,
		APIKey:  c.APIKey,
		Timeout: c.Timeout,
	}
}
