package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config captures the runtime settings for the cafe manager.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	// Path is the location of the SQLite database file. The file is
	// created, migrated, and seeded on first run.
	Path string
}

// Load reads configuration from an optional .env file and the process
// environment, applying defaults for everything that is absent.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("CAFE_HTTP_PORT", "8080")
	viper.SetDefault("CAFE_ENV", "development")
	viper.SetDefault("CAFE_DB_PATH", "cafe.db")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("CAFE_HTTP_PORT"),
			Env:  viper.GetString("CAFE_ENV"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("CAFE_DB_PATH"),
		},
	}
}
