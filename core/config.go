package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		Port                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		InvitationExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		URI     string
		Name    string
		Timeout time.Duration
	}

	Config struct {
		AppName  string
		Env      string // DEV (default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		Build    string

		// SecretKey signs login tokens; InvitationSecretKey signs invitation
		// tokens. They must differ: a token minted by one issuer must never
		// verify against the other.
		SecretKey           []byte
		InvitationSecretKey []byte

		DefaultFromEmail     mail.Address
		SuperAdminEmail      string
		DefaultAdminPassword string
		FrontendBaseURL      string
		SendgridApiKey       string
		RollbarToken         string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

// NewConfig loads the application configuration: defaults, then an optional
// config/.env.<env> file, then environment variables prefixed with the
// current ENV (eg. DEV_SECRETKEY).
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("appName", "Msaada")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w3@k-d3v-0nly-k3y_ch4ng3-m3!")
	v.SetDefault("invitationSecretKey", "w3@k-d3v-0nly-1nv1t3-k3y!")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("superAdminEmail", "superadmin@localhost")
	v.SetDefault("defaultAdminPassword", "Admin@123")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("invitationExpirationDelta", 24*time.Hour)
	v.SetDefault("databaseURI", "mongodb://localhost:27017")
	v.SetDefault("databaseName", "msaada")
	v.SetDefault("databaseTimeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:              v.GetString("appName"),
		Env:                  env,
		Debug:                v.GetBool("debug"),
		TestMode:             env == "TEST",
		Build:                v.GetString("build"),
		SecretKey:            []byte(v.GetString("secretKey")),
		InvitationSecretKey:  []byte(v.GetString("invitationSecretKey")),
		DefaultFromEmail:     mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SuperAdminEmail:      v.GetString("superAdminEmail"),
		DefaultAdminPassword: v.GetString("defaultAdminPassword"),
		FrontendBaseURL:      v.GetString("frontendBaseURL"),
		SendgridApiKey:       v.GetString("sendgridApiKey"),
		RollbarToken:         v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Port:                      v.GetString("serverPort"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
			InvitationExpirationDelta: v.GetDuration("invitationExpirationDelta"),
		},
		Database: DatabaseConfig{
			URI:     v.GetString("databaseURI"),
			Name:    v.GetString("databaseName"),
			Timeout: v.GetDuration("databaseTimeout"),
		},
	}
	return conf, nil
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
