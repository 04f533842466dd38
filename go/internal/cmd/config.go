package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML config file. Environment variables override
// whatever the file sets.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Mongo struct {
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		Collection string `yaml:"collection"`
	} `yaml:"mongo"`
	Redis struct {
		Addr       string `yaml:"addr"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`
	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads the YAML config file and applies env overrides. A missing
// file is fine; everything has a default.
func loadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.Server.Port = getEnv("PORT", defaultStr(config.Server.Port, "8080"))

	config.Mongo.URI = getEnv("MONGO_URI", defaultStr(config.Mongo.URI, "mongodb://localhost:27017"))
	config.Mongo.Database = getEnv("MONGO_DB", defaultStr(config.Mongo.Database, "basketball"))
	config.Mongo.Collection = getEnv("MONGO_COLLECTION", defaultStr(config.Mongo.Collection, "live_games"))

	config.Redis.Addr = getEnv("REDIS_ADDR", defaultStr(config.Redis.Addr, "localhost:6379"))
	config.Redis.TTLSeconds = getEnvAsInt("REDIS_TTL_SECONDS", defaultInt(config.Redis.TTLSeconds, 300))

	config.NATS.URL = getEnv("NATS_URL", defaultStr(config.NATS.URL, "nats://localhost:4222"))

	return &config, nil
}

func (c *Config) presenceTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

func defaultStr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func defaultInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
