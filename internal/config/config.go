package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App           AppConfig           `yaml:"app"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Storage       StorageConfig       `yaml:"storage"`
	Collaborators CollaboratorsConfig `yaml:"collaborators"`
	Workers       WorkersConfig       `yaml:"workers"`
	Grading       GradingConfig       `yaml:"grading"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RedisConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	Password      string        `yaml:"password"`
	DB            int           `yaml:"db"`
	PoolSize      int           `yaml:"pool_size"`
	RecalcQueue   string        `yaml:"recalc_queue"`
	DLQSuffix     string        `yaml:"dlq_suffix"`
	ReportCardTTL time.Duration `yaml:"report_card_ttl"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type CollaboratorsConfig struct {
	SchoolCore SchoolCoreConfig `yaml:"school_core"`
}

// SchoolCoreConfig points at the school-core service that answers
// authorization, attendance and enrollment lookups.
type SchoolCoreConfig struct {
	BaseURL            string        `yaml:"base_url"`
	AuthEndpoint       string        `yaml:"auth_endpoint"`
	OwnershipEndpoint  string        `yaml:"ownership_endpoint"`
	AttendanceEndpoint string        `yaml:"attendance_endpoint"`
	EnrollmentEndpoint string        `yaml:"enrollment_endpoint"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Timeout            time.Duration `yaml:"timeout"`
}

type WorkersConfig struct {
	Ingestion IngestionWorkerConfig `yaml:"ingestion"`
	Recalc    RecalcWorkerConfig    `yaml:"recalc"`
}

// IngestionWorkerConfig bounds in-batch parallelism of bulk grade writes.
type IngestionWorkerConfig struct {
	Parallelism int `yaml:"parallelism"`
}

type RecalcWorkerConfig struct {
	Count int `yaml:"count"`
}

// GradingConfig overrides the default grading policy. Empty values fall back
// to the policy defaults, so a deployment only states what differs.
type GradingConfig struct {
	ComponentWeights map[string]float64   `yaml:"component_weights"`
	LetterBounds     *LetterBoundsConfig  `yaml:"letter_bounds"`
	ConductBounds    *ConductBoundsConfig `yaml:"conduct_bounds"`
}

type LetterBoundsConfig struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
	D float64 `yaml:"d"`
}

type ConductBoundsConfig struct {
	Good    float64 `yaml:"good"`
	Fair    float64 `yaml:"fair"`
	Average float64 `yaml:"average"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// ArchiveEnabled reports whether report-card snapshots should be written to
// object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.Storage.S3.Bucket != ""
}
