package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/facegate/internal/constants"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Web      WebConfig
	Log      LogConfig
	Database DatabaseConfig
	Cache    CacheConfig
	DeepFace DeepFaceConfig
	JWT      JWTConfig
	CouchDB  CouchDBConfig
	Uploads  UploadsConfig
}

type WebConfig struct {
	Host string // overrides --host when set
	Port int    // overrides --port when set, zero means unset

	AllowedOrigins []string // CORS origins besides localhost
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

type DatabaseConfig struct {
	Driver       string // postgres (default) or mysql
	URL          string // driver specific DSN
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type CacheConfig struct {
	RedisAddr     string // empty means the in-process store is used
	RedisPassword string
	RedisDB       int
	RecordTTL     int // seconds, neighborhood reads
	ResultTTL     int // seconds, face results keyed by digest; zero disables
}

type DeepFaceConfig struct {
	URL   string
	Model string
}

type JWTConfig struct {
	Secret    string
	Algorithm string
}

type CouchDBConfig struct {
	URL      string
	Database string
	Username string
	Password string
}

type UploadsConfig struct {
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// defaultsFile mirrors defaults.yaml.
type defaultsFile struct {
	Uploads UploadsConfig `yaml:"uploads"`
	Cache   struct {
		RecordTTL int `yaml:"record_ttl_seconds"`
		ResultTTL int `yaml:"result_ttl_seconds"`
	} `yaml:"cache"`
	DeepFace struct {
		URL   string `yaml:"url"`
		Model string `yaml:"model"`
	} `yaml:"deepface"`
	JWT struct {
		Algorithm string `yaml:"algorithm"`
	} `yaml:"jwt"`
	CouchDB struct {
		Database string `yaml:"database"`
	} `yaml:"couchdb"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envNonNegInt is like envInt but accepts zero.
func envNonNegInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// envString returns the env var value or defaultVal when unset or empty.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated env var, dropping blank items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func loadDefaults() defaultsFile {
	var d defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return d
}

func Load() *Config {
	d := loadDefaults()
	if d.Cache.RecordTTL <= 0 {
		d.Cache.RecordTTL = constants.DefaultRecordTTLSeconds
	}

	return &Config{
		Web: WebConfig{
			Host: os.Getenv("WEB_HOST"),
			Port: envInt("WEB_PORT", 0),

			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(envString("LOG_LEVEL", "info")),
			Format: strings.ToLower(envString("LOG_FORMAT", "text")),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(envString("DATABASE_DRIVER", "postgres")),
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Cache: CacheConfig{
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       envNonNegInt("REDIS_DB", 0),
			RecordTTL:     envInt("CACHE_TTL_SECONDS", d.Cache.RecordTTL),
			ResultTTL:     envNonNegInt("CACHE_RESULT_TTL_SECONDS", d.Cache.ResultTTL),
		},
		DeepFace: DeepFaceConfig{
			URL:   envString("DEEPFACE_URL", d.DeepFace.URL),
			Model: envString("DEEPFACE_MODEL", d.DeepFace.Model),
		},
		JWT: JWTConfig{
			Secret:    os.Getenv("JWT_SECRET"),
			Algorithm: envString("JWT_ALGORITHM", d.JWT.Algorithm),
		},
		CouchDB: CouchDBConfig{
			URL:      os.Getenv("COUCHDB_URL"),
			Database: envString("COUCHDB_DATABASE", d.CouchDB.Database),
			Username: os.Getenv("COUCHDB_USERNAME"),
			Password: os.Getenv("COUCHDB_PASSWORD"),
		},
		Uploads: d.Uploads,
	}
}

// IsAllowedUpload reports whether filename carries one of the allowed image extensions.
func (c *UploadsConfig) IsAllowedUpload(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return false
	}
	ext := strings.ToLower(filename[i+1:])
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
