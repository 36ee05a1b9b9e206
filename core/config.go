package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		Build        string
		AppName      string
		SecretKey    string
		RollbarToken string

		Server    ServerConfig
		Gradebook GradebookConfig
		Ranking   RankingConfig
		Database  DatabaseConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		DebugHost          string
		JWTExpirationDelta time.Duration
		SessionIdleDelta   time.Duration
		ShutdownTimeout    time.Duration
	}

	GradebookConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	RankingConfig struct {
		TTL time.Duration
	}

	DatabaseConfig struct {
		Disabled   bool
		Engine     string
		Name       string
		User       string
		Password   string
		Host       string
		Port       string
		DisableTLS bool
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Gremiuv")
	v.SetDefault("secretKey", "t$z#2qj)d9&yx^m-gremiuv-3(h!x)#*c2(#yg4h^$ce")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("jwtExpirationDelta", 12*time.Hour)
	v.SetDefault("sessionIdleDelta", 30*time.Minute)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("gradebookBaseURL", "http://localhost:5000/api")
	v.SetDefault("gradebookTimeout", 15*time.Second)
	v.SetDefault("rankingTTL", 10*time.Minute)
	v.SetDefault("dbDisabled", true)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "gremiuv")
	v.SetDefault("dbUser", "")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	testMode := false
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     testMode,
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			DebugHost:          v.GetString("serverDebugHost"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			SessionIdleDelta:   v.GetDuration("sessionIdleDelta"),
			ShutdownTimeout:    v.GetDuration("shutdownTimeout"),
		},
		Gradebook: GradebookConfig{
			BaseURL: v.GetString("gradebookBaseURL"),
			Timeout: v.GetDuration("gradebookTimeout"),
		},
		Ranking: RankingConfig{
			TTL: v.GetDuration("rankingTTL"),
		},
		Database: DatabaseConfig{
			Disabled:   v.GetBool("dbDisabled"),
			Engine:     v.GetString("dbEngine"),
			Name:       v.GetString("dbName"),
			User:       v.GetString("dbUser"),
			Password:   v.GetString("dbPassword"),
			Host:       v.GetString("dbHost"),
			Port:       v.GetString("dbPort"),
			DisableTLS: v.GetBool("dbDisableTLS"),
		},
	}
}
