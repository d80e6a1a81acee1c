// Package config resolves settings from flags, GROCERY_* environment
// variables and an optional .grocery.yaml, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/idilsaglam/grocery/internal/remote"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/ui"
)

// Keys, shared with flag binding in the cli package.
const (
	KeyEndpoint    = "endpoint"
	KeyLoadDelay   = "load_delay"
	KeyIDPolicy    = "id_policy"
	KeyLogLevel    = "log_level"
	KeyLogFile     = "log_file"
	KeyNoColor     = "no_color"
	KeyTheme       = "theme"
	KeyTimeout     = "timeout"
	KeyServeAddr   = "serve.addr"
	KeyServeDriver = "serve.driver"
	KeyServeDB     = "serve.db"
)

type Config struct {
	Endpoint  string
	LoadDelay time.Duration
	IDPolicy  store.IDPolicy
	LogLevel  string
	LogFile   string
	NoColor   bool
	Theme     string
	Timeout   time.Duration // per request, zero means none
	Serve     Serve
}

// Serve configures the development backend.
type Serve struct {
	Addr   string
	Driver string
	DB     string
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEndpoint, remote.DefaultEndpoint)
	v.SetDefault(KeyLoadDelay, "0s")
	v.SetDefault(KeyIDPolicy, "max")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyTheme, ui.ThemeClassic)
	v.SetDefault(KeyTimeout, "0s")
	v.SetDefault(KeyServeAddr, "localhost:3500")
	v.SetDefault(KeyServeDriver, "memory")
	v.SetDefault(KeyServeDB, "")
}

// Load reads .grocery.yaml from dir (when set), $HOME or the working
// directory. A missing file is fine; a broken one is not.
func Load(v *viper.Viper, dir string) (Config, error) {
	SetDefaults(v)
	v.SetConfigName(".grocery") // .yaml is implicit
	v.SetEnvPrefix("GROCERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir == "" {
		dir = os.Getenv("GROCERY_CONFIG_PATH")
	}
	if dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return Config{}, fmt.Errorf("config path: %w", err)
		}
		v.AddConfigPath(expanded)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper converts resolved settings into a validated Config.
func FromViper(v *viper.Viper) (Config, error) {
	policy, err := store.ParseIDPolicy(v.GetString(KeyIDPolicy))
	if err != nil {
		return Config{}, err
	}
	delay, err := time.ParseDuration(v.GetString(KeyLoadDelay))
	if err != nil {
		return Config{}, fmt.Errorf("load_delay: %w", err)
	}
	if delay < 0 {
		return Config{}, fmt.Errorf("load_delay: must not be negative")
	}
	timeout, err := time.ParseDuration(v.GetString(KeyTimeout))
	if err != nil {
		return Config{}, fmt.Errorf("timeout: %w", err)
	}
	if timeout < 0 {
		return Config{}, fmt.Errorf("timeout: must not be negative")
	}
	theme := strings.ToLower(strings.TrimSpace(v.GetString(KeyTheme)))
	if theme != ui.ThemeClassic && theme != ui.ThemeMono {
		return Config{}, fmt.Errorf("theme %q: want %s or %s", theme, ui.ThemeClassic, ui.ThemeMono)
	}
	c := Config{
		Endpoint:  strings.TrimSpace(v.GetString(KeyEndpoint)),
		LoadDelay: delay,
		IDPolicy:  policy,
		LogLevel:  v.GetString(KeyLogLevel),
		LogFile:   v.GetString(KeyLogFile),
		NoColor:   v.GetBool(KeyNoColor),
		Theme:     theme,
		Timeout:   timeout,
		Serve: Serve{
			Addr:   v.GetString(KeyServeAddr),
			Driver: v.GetString(KeyServeDriver),
			DB:     v.GetString(KeyServeDB),
		},
	}
	if c.Endpoint == "" {
		return Config{}, fmt.Errorf("endpoint: must not be empty")
	}
	return c, nil
}
