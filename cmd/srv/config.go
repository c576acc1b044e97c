package main

import (
	"context"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/canonlab/backend/config"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		panic(err)
	}

	return d
}

// loadConfig reads the configuration from environment variables and applies
// the tunable engine overrides from the TOML file given by --engine-config,
// if any.
func (s *srv) loadConfig(cctx *cli.Context) {
	cfg := config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "canonlab"),
			User:     getEnv("MYSQL_USER", "canonlab"),
			Password: getEnv("MYSQL_PASSWORD", "canonlab"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", "localhost"),
			Port: getEnv("API_PORT", "8080"),
			Cert: getEnv("API_SERVER_CERT", ""),
			Key:  getEnv("API_SERVER_KEY", ""),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getEnvDuration("ACCESS_TOKEN_DURATION", "24h"),
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session_secret"),
			Name:   "canonlab_session",
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDR", "localhost:9092"),
		},
		Canon: config.CanonConfigs{
			VoteWindow:           getEnvDuration("CANON_VOTE_WINDOW", "10m"),
			SurgeScoreThreshold:  10,
			SurgeUpvoteThreshold: 8,
			SurgeTopic:           getEnv("CANON_SURGE_TOPIC", "canon.surged"),
			TrustHalfLife:        getEnvDuration("TRUST_HALF_LIFE", "2160h"),
			TrustGraphCacheTTL:   getEnvDuration("TRUST_GRAPH_CACHE_TTL", "10m"),
		},
		Stamp: config.StampConfigs{
			MaxEquippedStamps: 3,
			SeasonTierPoints:  10,
		},
	}

	if path := cctx.String("engine-config"); path != "" {
		overrideEngineConfig(&cfg, path)
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

type engineConfigFile struct {
	Canon config.CanonConfigs `toml:"canon"`
	Stamp config.StampConfigs `toml:"stamp"`
}

func overrideEngineConfig(cfg *config.Configs, path string) {
	file := engineConfigFile{Canon: cfg.Canon, Stamp: cfg.Stamp}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		panic(err)
	}

	cfg.Canon = file.Canon
	cfg.Stamp = file.Stamp
}
