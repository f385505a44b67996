package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Content store
	DBDriver   string `long:"db-driver" env:"DB_DRIVER" default:"postgres" choice:"postgres" choice:"sqlite" description:"Content store driver"`
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"sitemap_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"sitemap_password" description:"Database password"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"sitemap_comb" description:"Database name"`
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./data/content.db" description:"SQLite database file (sqlite driver only)"`

	// Application configuration
	SettingsFile      string `long:"settings" env:"SETTINGS_FILE" default:"./sitemap.yml" description:"Sitemap settings file"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL of the site (overrides home_url from settings)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for cache invalidation"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Content change detection interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Cache
	CacheBackend string `long:"cache" env:"CACHE_BACKEND" default:"memory" choice:"memory" choice:"redis" description:"Sitemap cache backend"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address"`
	RedisPass    string `long:"redis-pass" env:"REDIS_PASS" description:"Redis password"`
	RedisDB      int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database"`

	// Invalidation events
	KafkaBrokers []string `long:"kafka-broker" env:"KAFKA_BROKERS" env-delim:"," description:"Kafka brokers for content change events (optional)"`
	KafkaTopic   string   `long:"kafka-topic" env:"KAFKA_TOPIC" default:"content-changes" description:"Kafka topic with content change events"`
	KafkaGroupID string   `long:"kafka-group" env:"KAFKA_GROUP_ID" default:"sitemap-comb" description:"Kafka consumer group"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses the given arguments instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	// Missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBDriver:          raw.DBDriver,
		DBHost:            raw.DBHost,
		DBPort:            raw.DBPort,
		DBUser:            raw.DBUser,
		DBPassword:        raw.DBPassword,
		DBName:            raw.DBName,
		DBPath:            raw.DBPath,
		SettingsFile:      raw.SettingsFile,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		CacheBackend:      raw.CacheBackend,
		RedisAddr:         raw.RedisAddr,
		RedisPass:         raw.RedisPass,
		RedisDB:           raw.RedisDB,
		KafkaBrokers:      raw.KafkaBrokers,
		KafkaTopic:        raw.KafkaTopic,
		KafkaGroupID:      raw.KafkaGroupID,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	if cfg.SchedulerInterval < 1 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %d", cfg.SchedulerInterval)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
