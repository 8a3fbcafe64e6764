package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Setting keys, shared by flags, environment and settings.yaml.
const (
	KeyTimeout           = "timeout"
	KeyBind              = "bind"
	KeyTarget            = "target"
	KeyMulticastGroup    = "multicast-group"
	KeyInterface         = "interface"
	KeyStrictCorrelation = "strict-correlation"
	KeyLogLevel          = "log-level"

	// EnvPrefix namespaces environment overrides, e.g. SADP_TIMEOUT=10s.
	EnvPrefix = "SADP"
)

// Settings are the runtime options for a sadp-cfg invocation.
type Settings struct {
	Timeout           time.Duration
	Bind              string
	Target            string
	MulticastGroup    string
	Interface         string
	StrictCorrelation bool
	LogLevel          string
}

// SetDefaults registers the default for every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTimeout, "5s")
	v.SetDefault(KeyBind, "0.0.0.0:0")
	v.SetDefault(KeyTarget, "255.255.255.255:37020")
	v.SetDefault(KeyMulticastGroup, "")
	v.SetDefault(KeyInterface, "")
	v.SetDefault(KeyStrictCorrelation, false)
	v.SetDefault(KeyLogLevel, "")
}

// NewViper returns a viper instance with defaults and SADP_* environment
// binding. Flags are bound by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadSettingsFile merges a settings file into v. An empty path means the
// default location, where a missing file is not an error.
func ReadSettingsFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = GetSettingsPath()
		if err != nil {
			return err
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	return nil
}

// LoadSettings reads and validates the settings held by v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	timeout, err := ParseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Timeout:           timeout,
		Bind:              v.GetString(KeyBind),
		Target:            v.GetString(KeyTarget),
		MulticastGroup:    v.GetString(KeyMulticastGroup),
		Interface:         v.GetString(KeyInterface),
		StrictCorrelation: v.GetBool(KeyStrictCorrelation),
		LogLevel:          v.GetString(KeyLogLevel),
	}

	if s.Timeout <= 0 {
		return s, fmt.Errorf("%s must be positive, got %s", KeyTimeout, s.Timeout)
	}
	if s.Target == "" {
		return s, fmt.Errorf("%s must not be empty", KeyTarget)
	}

	return s, nil
}

// ParseTimeout accepts a Go duration ("1500ms", "10s") or a bare number of
// seconds ("5").
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: want seconds or a duration like 1500ms", KeyTimeout, s)
	}
	return d, nil
}
