package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 TASKLIST_SERVER_ADDR
const EnvPrefix = "TASKLIST"

type Config struct {
	Server   ServerConfig  `mapstructure:"server"`
	Display  DisplayConfig `mapstructure:"display"`
	Journal  JournalConfig `mapstructure:"journal"`
	SeedFile string        `mapstructure:"seed_file"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DisplayConfig struct {
	DateLayout string `mapstructure:"date_layout"`
	Timezone   string `mapstructure:"timezone"`
}

type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":7789",
			ShutdownTimeout: 10 * time.Second,
		},
		Display: DisplayConfig{
			DateLayout: "02/01/2006",
			Timezone:   "Local",
		},
		Journal: JournalConfig{
			Enabled: true,
			DSN:     ":memory:",
		},
	}
}

// Load 读取配置：默认值 < 配置文件 < 环境变量。path 为空时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("display.date_layout", d.Display.DateLayout)
	v.SetDefault("display.timezone", d.Display.Timezone)
	v.SetDefault("journal.enabled", d.Journal.Enabled)
	v.SetDefault("journal.dsn", d.Journal.DSN)
	v.SetDefault("seed_file", d.SeedFile)
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if c.Display.DateLayout == "" {
		return errors.New("display.date_layout must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location 解析 display.timezone，"today" 的判断以该时区的日历日期为准
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display.timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}
