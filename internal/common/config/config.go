// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Transport TransportConfig `mapstructure:"transport"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds settings for the inbound webhook HTTP server.
type ServerConfig struct {
	ListenAddress   string `mapstructure:"listen_address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// TransportConfig holds settings for the outbound chat-gateway client.
type TransportConfig struct {
	GatewayBaseURL string `mapstructure:"gateway_base_url"`
	AuthToken      string `mapstructure:"auth_token"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds
	MaxRetries     int    `mapstructure:"max_retries"`
}

// AnalyzerConfig holds settings for the external analysis tool and the
// artifact directory it writes to.
type AnalyzerConfig struct {
	Command      string   `mapstructure:"command"`
	Args         []string `mapstructure:"args"`
	ArtifactsDir string   `mapstructure:"artifacts_dir"`
	Timeout      int      `mapstructure:"timeout"` // milliseconds
}

// CacheConfig holds settings for the analysis result cache.
type CacheConfig struct {
	TTL int `mapstructure:"ttl"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DispatchConfig holds settings for per-user message queues.
type DispatchConfig struct {
	QueueSize int `mapstructure:"queue_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
