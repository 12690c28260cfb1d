package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileEnv     = "CONFIG_FILE"
	defaultConfigFile = "/config/catalog.yaml"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`

	ServerHost string `koanf:"server_host" default:"0.0.0.0"`
	ServerPort int    `koanf:"server_port" default:"5000"`

	TMDBAPIKey       string `koanf:"tmdb_api_key"`
	TMDBBaseURL      string `koanf:"tmdb_base_url" default:"https://api.themoviedb.org/3"`
	TMDBImageBaseURL string `koanf:"tmdb_image_base_url" default:"https://image.tmdb.org/t/p/w500"`
	RAWGAPIKey       string `koanf:"rawg_api_key"`
	RAWGBaseURL      string `koanf:"rawg_base_url" default:"https://api.rawg.io/api"`

	ProviderTimeout           time.Duration `koanf:"provider_timeout" default:"10s"`
	ProviderRequestsPerSecond float64       `koanf:"provider_requests_per_second" default:"4"`
	ProviderMaxPages          int           `koanf:"provider_max_pages" default:"5"`
	ProviderCacheTTL          time.Duration `koanf:"provider_cache_ttl" default:"15m"`

	// When RedisAddr is empty, provider responses are cached in memory.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	CollectionProbeLimit int `koanf:"collection_probe_limit" default:"5"`
	ProbeConcurrency     int `koanf:"probe_concurrency" default:"3"`
}

// New loads the config from the YAML file named by CONFIG_FILE (if it exists)
// and then from environment variables, which take precedence over the file.
func New() (*Config, error) {
	k := koanf.New(".")

	path := os.Getenv(configFileEnv)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := checkRequired(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config pointing at an in-memory database with every
// external provider left unconfigured.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.ServerHost = "127.0.0.1"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	return cfg
}

func checkRequired(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	var missing []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("required") != "true" {
			continue
		}
		if !v.Field(i).IsZero() {
			continue
		}
		key := field.Tag.Get("koanf")
		if key == "" {
			key = toSnakeCase(field.Name)
		}
		missing = append(missing, strings.ToUpper(key)+" (env) / "+key+" (config file)")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
