// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig                `mapstructure:"app"`
	Server    ServerConfig             `mapstructure:"server"`
	Redis     RedisConfig              `mapstructure:"redis"`
	Datasets  map[string]DatasetConfig `mapstructure:"datasets"`
	Analytics AnalyticsConfig          `mapstructure:"analytics"`
	Logging   LoggingConfig            `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	DataDir     string `mapstructure:"data_dir"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// DatasetConfig describes one data.gov.in resource plus its bundled sample.
type DatasetConfig struct {
	ResourceID  string `mapstructure:"resource_id"`
	SourceURL   string `mapstructure:"source_url"`
	BaseURL     string `mapstructure:"base_url"`
	LocalSample string `mapstructure:"local_sample"`
	PageSize    int    `mapstructure:"page_size"`
	FetchAPIKey string `mapstructure:"fetch_api_key"`
}

// AnalyticsConfig holds tunables for entity resolution and aggregation windows.
type AnalyticsConfig struct {
	FuzzyThreshold       float64 `mapstructure:"fuzzy_threshold"`
	DefaultRainfallYears int     `mapstructure:"default_rainfall_years"`
	DefaultTrendYears    int     `mapstructure:"default_trend_years"`
	DefaultPolicyYears   int     `mapstructure:"default_policy_years"`
	DefaultTopCrops      int     `mapstructure:"default_top_crops"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
