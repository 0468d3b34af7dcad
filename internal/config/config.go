package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const DevelopmentEnvironment = "Development"

type Config struct {
	Environment string     `yaml:"environment" env:"TECHNOTES_ENVIRONMENT" env-default:"Production"`
	HTTP        HTTPConfig `yaml:"http" env-prefix:"TECHNOTES_HTTP_"`
	Log         LogConfig  `yaml:"log" env-prefix:"TECHNOTES_LOG_"`
}

type HTTPConfig struct {
	ListenAddr      string        `yaml:"listen_addr" env:"LISTEN_ADDR" env-default:":8080"`
	RootURL         string        `yaml:"root_url" env:"ROOT_URL"`
	HTTPSPort       int           `yaml:"https_port" env:"HTTPS_PORT" env-default:"0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	StaticDir       string        `yaml:"static_dir" env:"STATIC_DIR"`
	HSTSMaxAge      time.Duration `yaml:"hsts_max_age" env:"HSTS_MAX_AGE" env-default:"720h"`
	TrustedOrigins  []string      `yaml:"trusted_origins" env:"TRUSTED_ORIGINS" env-separator:","`
	// TLSCertFile and TLSKeyFile make the server terminate TLS itself. Leave
	// both empty behind a TLS-terminating proxy.
	TLSCertFile string `yaml:"tls_cert_file" env:"TLS_CERT_FILE"`
	TLSKeyFile  string `yaml:"tls_key_file" env:"TLS_KEY_FILE"`
}

// TLSEnabled reports whether both halves of the key pair are configured.
func (c HTTPConfig) TLSEnabled() bool {
	return strings.TrimSpace(c.TLSCertFile) != "" && strings.TrimSpace(c.TLSKeyFile) != ""
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" env-default:"info"`
	Pretty bool   `yaml:"pretty" env:"PRETTY" env-default:"false"`
}

// Load reads an optional .env file, then the YAML file at path when one is
// given. Environment variables override file values.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env config: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), DevelopmentEnvironment)
}
