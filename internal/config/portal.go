package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"taximport/internal/domain"
)

// PortalFile mirrors the portal credentials file layout
// (the hubspot.config.yml shape used by the CRM's own tooling).
type PortalFile struct {
	DefaultPortal string   `mapstructure:"defaultPortal"`
	Portals       []Portal `mapstructure:"portals"`
}

// Portal is one named portal entry with its auth block.
type Portal struct {
	Name string     `mapstructure:"name"`
	Auth PortalAuth `mapstructure:"auth"`
}

// PortalAuth holds the token info for a portal.
type PortalAuth struct {
	TokenInfo TokenInfo `mapstructure:"tokenInfo"`
}

// TokenInfo carries the private app access token.
type TokenInfo struct {
	AccessToken string `mapstructure:"accessToken"`
}

// LoadPortalToken reads the portal credentials file and returns the access
// token for the named portal. An empty portalName falls back to the file's
// defaultPortal.
func LoadPortalToken(path, portalName string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("reading portal config %s: %w", path, err)
	}

	var file PortalFile
	if err := v.Unmarshal(&file); err != nil {
		return "", fmt.Errorf("parsing portal config %s: %w", path, err)
	}

	target := portalName
	if target == "" {
		target = file.DefaultPortal
	}
	if target == "" {
		return "", domain.ErrNoPortalSpecified
	}

	for i := range file.Portals {
		p := &file.Portals[i]
		if p.Name != target {
			continue
		}
		// Strip whitespace left over from YAML block scalars.
		token := strings.TrimSpace(p.Auth.TokenInfo.AccessToken)
		if token == "" {
			return "", fmt.Errorf("%w: %q", domain.ErrNoAccessToken, target)
		}
		return token, nil
	}

	return "", fmt.Errorf("%w: %q", domain.ErrPortalNotFound, target)
}
