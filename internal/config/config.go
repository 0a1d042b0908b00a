package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Valkey    ValkeyConfig
	MinIO     MinIOConfig
	S3        S3Config
	Neo4j     Neo4jConfig
	Auth      AuthConfig
	Maven     MavenConfig
	Scheduler SchedulerConfig
	Worker    WorkerConfig
	MCP       MCPConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type S3Config struct {
	Region   string // S3_REGION
	Bucket   string // S3_BUCKET
	Prefix   string // S3_PREFIX (optional default prefix)
	Endpoint string // S3_ENDPOINT (for MinIO/LocalStack compatibility)
}

type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

type AuthConfig struct {
	Enabled      bool
	IssuerURL    string
	PublicIssuer string
	Audience     string
}

// MavenConfig holds defaults for artifact resolution. Per-project settings
// stored in the projects table override these.
type MavenConfig struct {
	LocalRepository string
	RemoteRepos     []string
	Offline         bool
	ProbeTimeout    time.Duration
	CacheTTL        time.Duration
}

type SchedulerConfig struct {
	Interval time.Duration
}

type WorkerConfig struct {
	ConsumerID string
}

type MCPConfig struct {
	Addr    string
	BaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "pomgrid"),
			Password: getEnv("DB_PASSWORD", "pomgrid"),
			Name:     getEnv("DB_NAME", "pomgrid"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
		},
		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "pomgrid"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "pomgrid123"),
			Bucket:    getEnv("MINIO_BUCKET", "pomgrid"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		S3: S3Config{
			Region:   getEnv("S3_REGION", ""),
			Bucket:   getEnv("S3_BUCKET", ""),
			Prefix:   getEnv("S3_PREFIX", ""),
			Endpoint: getEnv("S3_ENDPOINT", ""),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", "pomgrid"),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			IssuerURL:    getEnv("AUTH_ISSUER_URL", ""),
			PublicIssuer: getEnv("AUTH_PUBLIC_ISSUER", ""),
			Audience:     getEnv("AUTH_AUDIENCE", "pomgrid-api"),
		},
		Maven: MavenConfig{
			LocalRepository: getEnv("MAVEN_LOCAL_REPO", defaultLocalRepo()),
			RemoteRepos:     getEnvList("MAVEN_REMOTE_REPOS", "https://repo.maven.apache.org/maven2"),
			Offline:         getEnvBool("MAVEN_OFFLINE", false),
			ProbeTimeout:    time.Duration(getEnvInt("MAVEN_PROBE_TIMEOUT_SECS", 10)) * time.Second,
			CacheTTL:        time.Duration(getEnvInt("MAVEN_CACHE_TTL_SECS", 3600)) * time.Second,
		},
		Scheduler: SchedulerConfig{
			Interval: time.Duration(getEnvInt("SCHEDULER_INTERVAL_SECS", 300)) * time.Second,
		},
		Worker: WorkerConfig{
			ConsumerID: getEnv("WORKER_CONSUMER_ID", "worker-1"),
		},
		MCP: MCPConfig{
			Addr:    getEnv("MCP_ADDR", ":8090"),
			BaseURL: getEnv("MCP_BASE_URL", ""),
		},
	}
	return cfg, nil
}

func defaultLocalRepo() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/var/lib/pomgrid/repository"
	}
	return home + "/.m2/repository"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
