package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	NATS        NATSConfig
	AWS         AWSConfig
	DynamoDB    DynamoDBConfig
	Leaderboard LeaderboardConfig
}

type ServerConfig struct {
	HTTPPort    int
	Environment string
	LogLevel    string
}

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type NATSConfig struct {
	URL                  string
	MaxReconnect         int
	ReconnectWaitSeconds int
	TimeoutSeconds       int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type DynamoDBConfig struct {
	TableName        string
	MaxRetries       int
	UseLocalEndpoint bool
}

// LeaderboardConfig is tunable policy, not structure: window bounds, record
// lifetimes and the prize split are deploy-time knobs.
type LeaderboardConfig struct {
	DefaultWindow    int
	MaxWindow        int
	DetailTTL        time.Duration
	ActivityTTL      time.Duration
	PrizeTTL         time.Duration
	PrizePercentages []float64
}

func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	if configPath != "" {
		viper.AddConfigPath(configPath)
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FITCLASH")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env cover local runs.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.httpport", 8080)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.loglevel", "info")

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.maxretries", 3)
	viper.SetDefault("redis.dialtimeout", 5*time.Second)
	viper.SetDefault("redis.readtimeout", 3*time.Second)
	viper.SetDefault("redis.writetimeout", 3*time.Second)
	viper.SetDefault("redis.poolsize", 10)
	viper.SetDefault("redis.minidleconns", 2)

	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.maxreconnect", 10)
	viper.SetDefault("nats.reconnectwaitseconds", 2)
	viper.SetDefault("nats.timeoutseconds", 5)

	viper.SetDefault("aws.region", "us-east-1")
	viper.SetDefault("dynamodb.tablename", "fitclash")
	viper.SetDefault("dynamodb.maxretries", 3)
	viper.SetDefault("dynamodb.uselocalendpoint", false)

	viper.SetDefault("leaderboard.defaultwindow", 100)
	viper.SetDefault("leaderboard.maxwindow", 1000)
	viper.SetDefault("leaderboard.detailttl", 24*time.Hour)
	viper.SetDefault("leaderboard.activityttl", 30*24*time.Hour)
	viper.SetDefault("leaderboard.prizettl", 7*24*time.Hour)
	viper.SetDefault("leaderboard.prizepercentages", []float64{0.60, 0.30, 0.10})
}
