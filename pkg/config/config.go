package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/transport"
	"github.com/matst80/slask-storefront/pkg/types"
)

type Config struct {
	Server     ServerConfig           `mapstructure:"server"`
	Log        LogConfig              `mapstructure:"log"`
	Backend    BackendConfig          `mapstructure:"backend"`
	Redis      RedisConfig            `mapstructure:"redis"`
	Rabbit     messaging.RabbitConfig `mapstructure:"rabbit"`
	Cache      CacheConfig            `mapstructure:"cache"`
	Translator TranslatorConfig       `mapstructure:"translator"`
	Sessions   SessionsConfig         `mapstructure:"sessions"`
	Content    ContentConfig          `mapstructure:"content"`
	Storage    StorageConfig          `mapstructure:"storage"`
	Admin      AdminConfig            `mapstructure:"admin"`
	Categories []types.CategoryNode   `mapstructure:"categories"`
}

type ServerConfig struct {
	Addr     string               `mapstructure:"addr"`
	Country  string               `mapstructure:"country"`
	Timeouts common.TimeoutConfig `mapstructure:"timeouts"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type BackendConfig struct {
	transport.Config `mapstructure:",squash"`
	SearchPath       string `mapstructure:"search_path"`
	ContentPath      string `mapstructure:"content_path"`
}

// RedisConfig enables the second cache tier and pattern persistence when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	Ttl      time.Duration `mapstructure:"ttl"`
}

type CacheConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type TranslatorConfig struct {
	FallbackUrl string               `mapstructure:"fallback_url"`
	Delimiters  types.Delimiters     `mapstructure:"delimiters"`
	Defaults    types.OptionDefaults `mapstructure:"defaults"`
	Seo         types.SeoLimits      `mapstructure:"seo"`
	SeoContext  bool                 `mapstructure:"seo_context"`
	Crawlers    []string             `mapstructure:"crawlers"`
	Facets      []types.FacetConfig  `mapstructure:"facets"`
}

type SessionsConfig struct {
	Tracked []string      `mapstructure:"tracked"`
	Ttl     time.Duration `mapstructure:"ttl"`
}

type ContentConfig struct {
	Patterns []types.PatternRecord `mapstructure:"patterns"`
}

// StorageConfig persists the pattern table on disk when redis is not configured.
type StorageConfig struct {
	Root string `mapstructure:"root"`
}

// AdminConfig protects the pattern and cache admin routes. With both the api
// key and the secret empty those routes refuse every request.
type AdminConfig struct {
	ApiKey   string        `mapstructure:"api_key"`
	Secret   string        `mapstructure:"secret"`
	TokenTtl time.Duration `mapstructure:"token_ttl"`
}

// Load reads path, or config.yaml from the working directory when path is
// empty, with environment overrides such as BACKEND_BASE_URL. A missing
// default config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.country", "se")
	v.SetDefault("server.timeouts.read_header", 5*time.Second)
	v.SetDefault("server.timeouts.read", 15*time.Second)
	v.SetDefault("server.timeouts.write", 30*time.Second)
	v.SetDefault("server.timeouts.idle", 60*time.Second)
	v.SetDefault("server.timeouts.shutdown", 15*time.Second)
	v.SetDefault("server.timeouts.hook", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("backend.base_url", "http://localhost:8081")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.retries", 2)
	v.SetDefault("backend.retry_wait", 200*time.Millisecond)
	v.SetDefault("backend.requests_per_second", 0)
	v.SetDefault("backend.search_path", "/api/search")
	v.SetDefault("backend.content_path", "/api/content")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "storefront")
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("storage.root", "data")

	v.SetDefault("admin.api_key", "")
	v.SetDefault("admin.secret", "")
	v.SetDefault("admin.token_ttl", 12*time.Hour)

	v.SetDefault("rabbit.url", "")
	v.SetDefault("rabbit.vhost", "")
	v.SetDefault("rabbit.prefix", "storefront")

	v.SetDefault("cache.capacity", 100)

	d := types.DefaultDelimiters()
	v.SetDefault("translator.fallback_url", "search")
	v.SetDefault("translator.delimiters.between_facet_name_and_value", d.BetweenFacetNameAndValue)
	v.SetDefault("translator.delimiters.between_different_facets", d.BetweenDifferentFacets)
	v.SetDefault("translator.delimiters.between_different_facets_values", d.BetweenDifferentFacetsValues)
	v.SetDefault("translator.delimiters.between_range_facets_values", d.BetweenRangeFacetsValues)
	v.SetDefault("translator.delimiters.between_facets_and_options", d.BetweenFacetsAndOptions)
	v.SetDefault("translator.delimiters.between_option_name_and_value", d.BetweenOptionNameAndValue)
	v.SetDefault("translator.delimiters.between_different_options", d.BetweenDifferentOptions)

	o := types.DefaultOptionDefaults()
	v.SetDefault("translator.defaults.show", o.Show)
	v.SetDefault("translator.defaults.order", o.Order)
	v.SetDefault("translator.defaults.display", o.Display)
	v.SetDefault("translator.seo_context", false)
	v.SetDefault("translator.crawlers", []string{"googlebot", "bingbot", "duckduckbot", "yandexbot", "baiduspider", "slurp", "applebot"})

	v.SetDefault("sessions.tracked", []string{"utm_source", "utm_medium", "utm_campaign", "gclid"})
	v.SetDefault("sessions.ttl", 30*time.Minute)
}
