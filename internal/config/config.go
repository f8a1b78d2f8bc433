package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

var ErrConfigPathIsEmpty = errors.New("config path is empty")

type Config struct {
	App        `yaml:"app"`
	Logger     `yaml:"log"`
	Database   `yaml:"database"`
	HTTPServer `yaml:"http_server"`
	Poller     `yaml:"poller"`
	Channel    `yaml:"channel"`
	Stream     `yaml:"stream"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
}

type App struct {
	ServiceName string `yaml:"service_name" env:"APP_SERVICE_NAME" env-default:"customer-relay"`
	Version     string `yaml:"version"      env:"APP_VERSION"      env-default:"0.1.0"`
}

type Logger struct {
	Level      string   `yaml:"level"       env:"LOG_LEVEL"       env-default:"info"`
	FormatJSON bool     `yaml:"format_json" env:"LOG_FORMAT_JSON"`
	Rotation   Rotation `yaml:"rotation"`
}

type Rotation struct {
	File       string `yaml:"file"        env:"LOG_FILE"`
	MaxSize    int    `yaml:"max_size"    env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env-default:"3"`
	MaxAge     int    `yaml:"max_age"     env-default:"7"`
}

type Database struct {
	Host      string    `yaml:"host"      env:"DATABASE_HOST"     env-default:"localhost"`
	Port      uint16    `yaml:"port"      env:"DATABASE_PORT"     env-default:"5432"`
	User      string    `yaml:"user"      env:"DATABASE_USER"`
	Password  string    `yaml:"password"  env:"DATABASE_PASSWORD"`
	Name      string    `yaml:"name"      env:"DATABASE_NAME"`
	SSLMode   string    `yaml:"ssl_mode"  env:"DATABASE_SSL_MODE" env-default:"disable"`
	MaxConns  int32     `yaml:"max_conns" env-default:"10"`
	MinConns  int32     `yaml:"min_conns" env-default:"1"`
	Migration Migration `yaml:"migration"`
	Seed      Seed      `yaml:"seed"`
}

type Migration struct {
	Path      string `yaml:"path"       env:"DATABASE_MIGRATION_PATH" env-default:"./migrations"`
	AutoApply bool   `yaml:"auto_apply" env:"DATABASE_MIGRATION_AUTO_APPLY"`
}

type Seed struct {
	Count int    `yaml:"count" env:"DATABASE_SEED_COUNT"`
	Seed  uint64 `yaml:"seed"`
}

type HTTPServer struct {
	Host     string  `yaml:"host"      env:"HTTP_SERVER_HOST" env-default:"0.0.0.0"`
	Port     uint16  `yaml:"port"      env:"HTTP_SERVER_PORT" env-default:"8080"`
	BasePath string  `yaml:"base_path" env:"HTTP_SERVER_BASE_PATH"`
	Timeout  Timeout `yaml:"timeout"`
	CORS     CORS    `yaml:"cors"`
}

type Timeout struct {
	Request  time.Duration `yaml:"request"  env-default:"5s"`
	Read     time.Duration `yaml:"read"     env-default:"10s"`
	Write    time.Duration `yaml:"write"    env-default:"10s"`
	Idle     time.Duration `yaml:"idle"     env-default:"60s"`
	Shutdown time.Duration `yaml:"shutdown" env-default:"10s"`
}

type CORS struct {
	Enabled          bool          `yaml:"enabled"`
	AllowAllOrigins  bool          `yaml:"allow_all_origins"`
	AllowOrigins     []string      `yaml:"allow_origins"`
	AllowMethods     []string      `yaml:"allow_methods"`
	AllowHeaders     []string      `yaml:"allow_headers"`
	ExposeHeaders    []string      `yaml:"expose_headers"`
	AllowCredentials bool          `yaml:"allow_credentials"`
	MaxAge           time.Duration `yaml:"max_age"`
	AllowWebSockets  bool          `yaml:"allow_websockets"`
	AllowFiles       bool          `yaml:"allow_files"`
}

type Poller struct {
	Name     string        `yaml:"name"     env-default:"customer-poller"`
	Interval time.Duration `yaml:"interval" env:"POLLER_INTERVAL" env-default:"1s"`
	Timeout  time.Duration `yaml:"timeout"  env:"POLLER_TIMEOUT"  env-default:"5s"`
}

type Channel struct {
	Name     string `yaml:"name"     env-default:"customers"`
	Capacity int    `yaml:"capacity" env:"CHANNEL_CAPACITY" env-default:"1024"`
	Overflow string `yaml:"overflow" env:"CHANNEL_OVERFLOW" env-default:"block"`
}

type Stream struct {
	Enabled      bool          `yaml:"enabled"       env:"STREAM_ENABLED"`
	ViewerBuffer int           `yaml:"viewer_buffer" env-default:"64"`
	PingInterval time.Duration `yaml:"ping_interval" env-default:"30s"`
}

type Redis struct {
	Enable    bool   `yaml:"enable"     env:"REDIS_ENABLE"`
	Host      string `yaml:"host"       env:"REDIS_HOST" env-default:"localhost"`
	Port      uint16 `yaml:"port"       env:"REDIS_PORT" env-default:"6379"`
	Password  string `yaml:"password"   env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix" env-default:"customers"`
}

type Kafka struct {
	Enable   bool     `yaml:"enable"    env:"KAFKA_ENABLE"`
	Brokers  []string `yaml:"brokers"   env:"KAFKA_BROKERS" env-separator:","`
	Topic    string   `yaml:"topic"     env:"KAFKA_TOPIC"   env-default:"customers"`
	ClientID string   `yaml:"client_id" env-default:"customer-relay"`
}

func MustLoadConfig() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}

	return cfg
}

func LoadConfig() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return nil, ErrConfigPathIsEmpty
	}

	return LoadConfigFromFile(path)
}

func LoadConfigFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var config Config

	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &config, nil
}

func MustPrintConfig(cfg *Config) {
	if err := PrintConfig(cfg); err != nil {
		panic(err)
	}
}

// PrintConfig dumps the config without secrets.
func PrintConfig(cfg *Config) error {
	masked := *cfg
	masked.Database.Password = mask(masked.Database.Password)
	masked.Redis.Password = mask(masked.Redis.Password)

	data, err := yaml.Marshal(masked)
	if err != nil {
		return err
	}

	println(string(data))

	return nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}

	return "***"
}

func fetchConfigPath() string {
	var result string

	flag.StringVar(&result, "config", "", "Path to config file")
	flag.Parse()

	if result == "" {
		result = os.Getenv("CONFIG_PATH")
	}

	return result
}
