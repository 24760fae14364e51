package cms

import (
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// AppConfig is the concrete Config used by the server binary. Values
// come from built-in defaults overlaid with CMS_* environment
// variables (CMS_SIGNING_KEY, CMS_LISTEN_ADDR, and so on).
type AppConfig struct {
	SigningKey        string `koanf:"signing_key"`
	TokenExpiration   int    `koanf:"token_expiration"`
	Issuer            string `koanf:"issuer"`
	Audience          string `koanf:"audience"`
	ListenAddr        string `koanf:"listen_addr"`
	DSN               string `koanf:"dsn"`
	UploadsDir        string `koanf:"uploads_dir"`
	SeedAdminName     string `koanf:"seed_admin_name"`
	SeedAdminEmail    string `koanf:"seed_admin_email"`
	SeedAdminPassword string `koanf:"seed_admin_password"`
}

// LoadConfig builds an AppConfig from defaults and the environment.
func LoadConfig() (*AppConfig, error) {
	k := koanf.New(".")

	defaults := confmap.Provider(map[string]interface{}{
		"signing_key":         "change-me-in-production",
		"token_expiration":    72,
		"issuer":              "go-cms",
		"audience":            "go-cms",
		"listen_addr":         ":2323",
		"dsn":                 "file:cms.db?cache=shared",
		"uploads_dir":         "./data/uploads",
		"seed_admin_name":  "Super Admin",
		"seed_admin_email": "admin@example.com",
		// No default on purpose: the server refuses to start until
		// CMS_SEED_ADMIN_PASSWORD is provided.
		"seed_admin_password": "",
	}, ".")

	if err := k.Load(defaults, nil); err != nil {
		return nil, err
	}

	envProvider := env.Provider("CMS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CMS_"))
	})

	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) GetSigningKey() string        { return c.SigningKey }
func (c *AppConfig) GetTokenExpiration() int      { return c.TokenExpiration }
func (c *AppConfig) GetIssuer() string            { return c.Issuer }
func (c *AppConfig) GetAudience() []string        { return []string{c.Audience} }
func (c *AppConfig) GetListenAddr() string        { return c.ListenAddr }
func (c *AppConfig) GetDSN() string               { return c.DSN }
func (c *AppConfig) GetUploadsDir() string        { return c.UploadsDir }
func (c *AppConfig) GetSeedAdminName() string     { return c.SeedAdminName }
func (c *AppConfig) GetSeedAdminEmail() string    { return c.SeedAdminEmail }
func (c *AppConfig) GetSeedAdminPassword() string { return c.SeedAdminPassword }
