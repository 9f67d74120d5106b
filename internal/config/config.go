package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Timezone string `yaml:"timezone" env:"TIMEZONE" env-default:"Asia/Kolkata"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"BOT_TOKEN" env-default:""`
		AdminId int64  `yaml:"admin_id" env:"TELEGRAM_ADMIN_ID" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"StorePingBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASS" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DB" env-default:"storeping"`
	} `yaml:"mongo"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env:"API_HOST" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env:"API_PORT" env-default:"8000"`
	} `yaml:"listen"`
	Cors struct {
		// Origins allowed to call the widget-facing API from a browser.
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ORIGINS" env-separator:","`
	} `yaml:"cors"`
	Summary struct {
		Hour   int `yaml:"hour" env:"SUMMARY_HOUR" env-default:"21"`
		Minute int `yaml:"minute" env:"SUMMARY_MINUTE" env-default:"0"`
	} `yaml:"summary"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
