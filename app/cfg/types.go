package cfg

type Cfg struct {
	// Content store
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	// Application configuration
	SettingsFile      string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Cache
	CacheBackend string
	RedisAddr    string
	RedisPass    string
	RedisDB      int

	// Invalidation events
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

func (c *Cfg) KafkaEnabled() bool {
	if c.KafkaTopic == "" {
		return false
	}
	for _, broker := range c.KafkaBrokers {
		if broker != "" {
			return true
		}
	}
	return false
}
