package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	StoreDataDir       string        `mapstructure:"STORE_DATA_DIR"`
	DisplayCurrency    string        `mapstructure:"DISPLAY_CURRENCY"`
	ConversionRate     string        `mapstructure:"CONVERSION_RATE"`
	PaymentDelay       time.Duration `mapstructure:"PAYMENT_DELAY"`
	PaymentDeclineRate int           `mapstructure:"PAYMENT_DECLINE_RATE"`
	LoginDelay         time.Duration `mapstructure:"LOGIN_DELAY"`
	NewsletterDelay    time.Duration `mapstructure:"NEWSLETTER_DELAY"`
	ContactDelay       time.Duration `mapstructure:"CONTACT_DELAY"`
}

// Load reads configuration from an optional .env file and the environment.
// Every setting has a usable default so the service comes up with no
// configuration at all.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DATA_DIR", "")
	v.SetDefault("DISPLAY_CURRENCY", "INR")
	v.SetDefault("CONVERSION_RATE", "83")
	v.SetDefault("PAYMENT_DELAY", 2*time.Second)
	v.SetDefault("PAYMENT_DECLINE_RATE", 0)
	v.SetDefault("LOGIN_DELAY", 500*time.Millisecond)
	v.SetDefault("NEWSLETTER_DELAY", 500*time.Millisecond)
	v.SetDefault("CONTACT_DELAY", time.Second)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error reading config file: %s", err)
		}
	}

	cfg := Config{}
	err = v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error unmarshalling config: %s", err)
	}

	return cfg, nil
}
