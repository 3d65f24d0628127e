package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	App struct {
		Name string `mapstructure:"NAME"`
		Port string `mapstructure:"PORT"`
	}

	DATABASE struct {
		Postgres struct {
			DSN string `mapstructure:"URL"`
		}
		Redis struct {
			Addr     string `mapstructure:"ADDR"`
			Password string `mapstructure:"PASSWORD"`
		}
		Mongo struct {
			Url      string `mapstructure:"URL"`
			Database string `mapstructure:"DATABASE"`
		}
	}

	CHAT struct {
		TypingWindow    time.Duration `mapstructure:"TYPING_WINDOW"`
		MessagePageSize int           `mapstructure:"MESSAGE_PAGE_SIZE"`
	}

	WORKER struct {
		Count int `mapstructure:"COUNT"`
	}
}

var Conf *AppConfig

func LoadConfig() error {
	viper.SetConfigName("application")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("COLLABSTUDY")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("CHAT.TYPING_WINDOW", 5*time.Second)
	viper.SetDefault("CHAT.MESSAGE_PAGE_SIZE", 50)
	viper.SetDefault("WORKER.COUNT", 5)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	Conf = &config
	log.Info().Msg("configuration loaded...")
	return nil
}
