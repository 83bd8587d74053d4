package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug            bool
		TestMode         bool
		Env              string // DEV (default) | TEST | QA | PROD
		Build            string
		AppName          string
		SecretKey        string
		WorkDir          string
		DefaultFromEmail mail.Address
		AdminEmail       mail.Address

		Server   serverConfig
		Database databaseConfig

		SendgridAPIKey string
		RollbarToken   string
	}

	serverConfig struct {
		Host               string
		Port               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	databaseConfig struct {
		URI  string
		Name string
	}
)

func (c serverConfig) Address() string { return c.Host + ":" + c.Port }

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables; in that order.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Shule")
	conf.SetDefault("secretKey", "w#05e=1t&0^;fajk2)9wm*ys-+1(b4hv54%_we-l:42grkajqm")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("adminEmail", "direction@localhost")
	conf.SetDefault("serverHost", "0.0.0.0")
	conf.SetDefault("serverPort", "8080")
	conf.SetDefault("serverDebugHost", "0.0.0.0:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("databaseUri", "mongodb://localhost:27017")
	conf.SetDefault("databaseName", "shule")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	appName := conf.GetString("appName")
	return &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         testMode,
		Env:              env,
		Build:            conf.GetString("build"),
		AppName:          appName,
		SecretKey:        conf.GetString("secretKey"),
		WorkDir:          wd,
		DefaultFromEmail: mail.Address{Name: appName, Address: conf.GetString("defaultFromEmail")},
		AdminEmail:       mail.Address{Name: "Direction", Address: conf.GetString("adminEmail")},
		Server: serverConfig{
			Host:               conf.GetString("serverHost"),
			Port:               conf.GetString("serverPort"),
			DebugHost:          conf.GetString("serverDebugHost"),
			ShutdownTimeout:    conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Database: databaseConfig{
			URI:  conf.GetString("databaseUri"),
			Name: conf.GetString("databaseName"),
		},
		SendgridAPIKey: conf.GetString("sendgridApiKey"),
		RollbarToken:   conf.GetString("rollbarToken"),
	}
}
