package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name    string
	Env     string
	BaseURL string
	HTTP    HTTP
}

type Log struct {
	Level string
	JSON  bool
}

type JWT struct {
	Secret              string
	Issuer              string
	AccessTokenTTLMin   int
	RefreshTokenTTLDays int
}

type OTP struct {
	TTLMin int
}

type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Enabled  bool
}

type Media struct {
	Dir            string
	MaxUploadBytes int64
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	OTP   OTP
	Mail  Mail
	Media Media
	DB    DB
	Redis Redis `mapstructure:"redis"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.JWT.AccessTokenTTLMin <= 0 {
		c.JWT.AccessTokenTTLMin = 30
	}
	if c.JWT.RefreshTokenTTLDays <= 0 {
		c.JWT.RefreshTokenTTLDays = 7
	}
	if c.OTP.TTLMin <= 0 {
		c.OTP.TTLMin = 10
	}
	if c.Media.Dir == "" {
		c.Media.Dir = "./media/profile_images"
	}
	if c.Media.MaxUploadBytes <= 0 {
		c.Media.MaxUploadBytes = 1 << 20 // 1MiB
	}
}
