package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Dashboard run modes.
const (
	ModeServe    = "serve"
	ModeReport   = "report"
	ModeExport   = "export"
	ModeSnapshot = "snapshot"
)

// Malformed row policies.
const (
	MalformedSkip   = "skip"
	MalformedReject = "reject"
)

// Dataset drivers.
const (
	DriverCSV      = "csv"
	DriverS3       = "s3"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Mode     string
	HTTPAddr string

	DataDriver    string
	CSVInputPath  string
	DataTable     string
	MalformedRows string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath string

	S3Bucket    string
	S3Key       string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	ExportDir         string
	ExportConcurrency int

	SnapshotPath string
	SnapshotURL  string
	ChromeBin    string
	MaxRetries   int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		Mode:     strings.ToLower(getEnv("DASHBOARD_MODE", ModeServe)),
		HTTPAddr: getEnv("HTTP_ADDR", ":8501"),

		DataDriver:    strings.ToLower(getEnv("DATA_DRIVER", DriverCSV)),
		CSVInputPath:  getEnv("CSV_INPUT_PATH", "./price_of_healthy_diet_clean.csv"),
		DataTable:     getEnv("DATA_TABLE", "healthy_diet_costs"),
		MalformedRows: strings.ToLower(getEnv("MALFORMED_ROWS", MalformedSkip)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard"),
		PostgresDB:       getEnv("POSTGRES_DB", "diet_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getEnv("SQLITE_PATH", "./healthy_diet.db"),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Key:       getEnv("S3_KEY", "price_of_healthy_diet_clean.csv"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3PathStyle: getEnvBool("S3_PATH_STYLE", false),

		ExportDir:         getEnv("EXPORT_DIR", "./output"),
		ExportConcurrency: getEnvInt("EXPORT_CONCURRENCY", 3),

		SnapshotPath: getEnv("SNAPSHOT_PATH", "./output/dashboard.png"),
		SnapshotURL:  getEnv("SNAPSHOT_URL", ""),
		ChromeBin:    getEnv("CHROME_BIN", ""),
		MaxRetries:   getEnvInt("MAX_RETRIES", 3),
	}

	if cfg.MalformedRows != MalformedSkip && cfg.MalformedRows != MalformedReject {
		log.Printf("[config] Unknown MALFORMED_ROWS %q, using %q", cfg.MalformedRows, MalformedSkip)
		cfg.MalformedRows = MalformedSkip
	}
	return cfg
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// RejectMalformedRows reports whether a single bad row should abort the load.
func (c *Config) RejectMalformedRows() bool {
	return c.MalformedRows == MalformedReject
}

// DashboardURL is the address the snapshot browser navigates to.
func (c *Config) DashboardURL() string {
	if c.SnapshotURL != "" {
		return c.SnapshotURL
	}
	addr := c.HTTPAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
