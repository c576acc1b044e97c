package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Session   SessionConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Canon     CanonConfigs
	Stamp     StampConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

// CanonConfigs holds the tunables of the vote aggregation, surge detection,
// and trust graph pipelines. These can be overridden by a TOML file passed to
// the server with --engine-config.
type CanonConfigs struct {
	VoteWindow           time.Duration `toml:"vote_window"`
	SurgeScoreThreshold  int           `toml:"surge_score_threshold"`
	SurgeUpvoteThreshold int           `toml:"surge_upvote_threshold"`
	SurgeTopic           string        `toml:"surge_topic"`
	TrustHalfLife        time.Duration `toml:"trust_half_life"`
	TrustGraphCacheTTL   time.Duration `toml:"trust_graph_cache_ttl"`
}

type StampConfigs struct {
	MaxEquippedStamps int `toml:"max_equipped_stamps"`
	SeasonTierPoints  int `toml:"season_tier_points"`
}
