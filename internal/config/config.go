package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/dappmarket/marketplace-ledger/internal/log"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Env     string
	Network string
	Index   string
	Debug   bool
	Reindex bool

	MarketAddress string
	FeeAccount    string
	FeePercent    uint64

	ApiPort    string
	HealthPort string

	LogPath   string
	SentryDsn string

	AmqpUri string

	Registry      RegistryConfig
	Storefront    StorefrontConfig
	ElasticSearch ElasticSearchConfig
	Aws           AwsConfig
}

type StorefrontConfig struct {
	CdnUrl    string
	AccessKey string
}

type RegistryConfig struct {
	Url     string
	Debug   bool
	Timeout int
}

type ElasticSearchConfig struct {
	Hosts            []string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Username         string
	Password         string
	MappingDir       string
	BulkPersistCount int
	Refresh          string
	Aws              bool
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Region    string
}

func Init(app string) {
	if err := godotenv.Load(".env"); err != nil {
		zap.L().With(zap.Error(err)).Warn("Unable to load .env")
	}

	initLogger(app)
}

func initLogger(app string) {
	cfg := Get()
	log.NewLogger(fmt.Sprintf("%s/%s.log", cfg.LogPath, app), cfg.Debug, cfg.SentryDsn)
}

func Get() *Config {
	return &Config{
		Env:           getString("ENV", ""),
		Network:       getString("NETWORK", "mainnet"),
		Index:         getString("INDEX_NAME", "marketplace"),
		Debug:         getBool("DEBUG", false),
		Reindex:       getBool("REINDEX", false),
		MarketAddress: getString("MARKET_ADDRESS", "0x00000000000000000000000000000000004d4b54"),
		FeeAccount:    getString("FEE_ACCOUNT", ""),
		FeePercent:    getUint64("FEE_PERCENT", 1),
		ApiPort:       getString("API_PORT", "8080"),
		HealthPort:    getString("HEALTH_PORT", "8081"),
		LogPath:       getString("LOG_PATH", "./var/log"),
		SentryDsn:     getString("SENTRY_DSN", ""),
		AmqpUri:       getString("AMQP_URI", ""),
		Registry: RegistryConfig{
			Url:     getString("REGISTRY_URL", ""),
			Timeout: getInt("REGISTRY_TIMEOUT", 30),
			Debug:   getBool("REGISTRY_DEBUG", false),
		},
		Storefront: StorefrontConfig{
			CdnUrl:    getString("STOREFRONT_CDN_URL", ""),
			AccessKey: getString("STOREFRONT_CDN_ACCESS_KEY", ""),
		},
		ElasticSearch: ElasticSearchConfig{
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", make([]string, 0), ","),
			Sniff:            getBool("ELASTIC_SEARCH_SNIFF", true),
			HealthCheck:      getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:            getBool("ELASTIC_SEARCH_DEBUG", false),
			Username:         getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:         getString("ELASTIC_SEARCH_PASSWORD", ""),
			MappingDir:       getString("ELASTIC_SEARCH_MAPPING_DIR", "./data/mappings"),
			BulkPersistCount: getInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300),
			Refresh:          getString("ELASTIC_SEARCH_REFRESH", "wait_for"),
			Aws:              getBool("ELASTIC_SEARCH_AWS", false),
		},
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Region:    getString("AWS_REGION", ""),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getUint64(key string, defaultValue uint64) uint64 {
	valStr := getString(key, "")
	val, err := strconv.ParseUint(valStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return val
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	return strings.Split(valStr, sep)
}
