// backend/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type CacheConfig struct {
	Dir string `yaml:"dir"`
}

type ExportConfig struct {
	SeedFilePath string `yaml:"seed_file_path"`
}

type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CronSpec string `yaml:"cron_spec"`
}

type HTTPConfig struct {
	TimeoutStr string `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"` // parsed from TimeoutStr
}

// SourceConfig carries per-source URLs and CSS selectors. Selectors are
// operational knobs: external sites change their markup and we want to
// follow without a rebuild.
type SourceConfig struct {
	APIURL      string `yaml:"api_url"`
	APIKey      string `yaml:"api_key"`
	ListPageURL string `yaml:"list_page_url"`
	RowSelector string `yaml:"row_selector"`
}

type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Database  DatabaseConfig          `yaml:"database"`
	Cache     CacheConfig             `yaml:"cache"`
	Export    ExportConfig            `yaml:"export"`
	Scheduler SchedulerConfig         `yaml:"scheduler"`
	HTTP      HTTPConfig              `yaml:"http"`
	Sources   map[string]SourceConfig `yaml:"sources"`
}

var AppConfig Config

// LoadConfig reads the YAML config file and applies environment overrides.
// A .env file in the working directory is loaded first if present, since
// credentials are usually kept there rather than in config.yaml.
func LoadConfig(configPath string) error {
	// Missing .env is fine; overrides may come from the real environment.
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment overrides from .env")
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(file, &AppConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&AppConfig)

	if AppConfig.HTTP.TimeoutStr != "" {
		AppConfig.HTTP.Timeout, err = time.ParseDuration(AppConfig.HTTP.TimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse http.timeout: %w", err)
		}
	} else {
		AppConfig.HTTP.Timeout = 20 * time.Second
	}

	if AppConfig.Scheduler.CronSpec == "" {
		AppConfig.Scheduler.CronSpec = "0 3 * * *" // daily 03:00 local
	}
	if AppConfig.Cache.Dir == "" {
		AppConfig.Cache.Dir = "./cache"
	}
	if err := os.MkdirAll(AppConfig.Cache.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", AppConfig.Cache.Dir, err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("SEED_FILE_PATH"); v != "" {
		cfg.Export.SeedFilePath = v
	}
	if v := os.Getenv("CRAWL_CRON_SPEC"); v != "" {
		cfg.Scheduler.CronSpec = v
	}
}
