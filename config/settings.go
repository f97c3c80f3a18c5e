package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/flowci/flow-impex/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "IMPEX"

	KeyEnv           = "env"
	KeyTenant        = "tenant"
	KeyToken         = "token"
	KeyServices      = "services"
	KeySource        = "source"
	KeyTarget        = "target"
	KeyFile          = "file"
	KeyWorkDir       = "work_dir"
	KeyHostTemplate  = "host_template"
	KeySourceSystem  = "source_system"
	KeyMaxRetries    = "max_retries"
	KeyRetryInterval = "retry_interval"
	KeyTimeout       = "timeout"
	KeyHttpTimeout   = "http_timeout"
	KeyStrictPolling = "strict_polling"
	KeyDebug         = "debug"
)

// Settings of impex, loaded from defaults, config file, env vars (IMPEX_*) and overrides in order
type Settings struct {
	Env      string `mapstructure:"env"`
	Tenant   string `mapstructure:"tenant"`
	Token    string `mapstructure:"token"`
	File     string `mapstructure:"file"`
	WorkDir  string `mapstructure:"work_dir"`

	// Services, Source and Target could be a path, a json array string or a yaml list.
	// Services could also be a map with source and target for import
	Services interface{} `mapstructure:"services"`
	Source   interface{} `mapstructure:"source"`
	Target   interface{} `mapstructure:"target"`

	HostTemplate  string        `mapstructure:"host_template"`
	SourceSystem  string        `mapstructure:"source_system"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	HttpTimeout   time.Duration `mapstructure:"http_timeout"`
	StrictPolling bool          `mapstructure:"strict_polling"`
	Debug         bool          `mapstructure:"debug"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		KeyEnv:           "",
		KeyTenant:        "",
		KeyToken:         "",
		KeyServices:      "",
		KeySource:        "",
		KeyTarget:        "",
		KeyFile:          "",
		KeyWorkDir:       ".",
		KeyHostTemplate:  "excel.{env}.coherent.global",
		KeySourceSystem:  "GitHub Actions",
		KeyMaxRetries:    10,
		KeyRetryInterval: time.Second,
		KeyTimeout:       15 * time.Minute,
		KeyHttpTimeout:   90 * time.Second,
		KeyStrictPolling: false,
		KeyDebug:         false,
	}
}

func DefaultSettings() *Settings {
	s, _ := Load("", nil)
	return s
}

// Load settings from yaml file at path if given, the overrides have the highest priority
func Load(path string, overrides map[string]interface{}) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s not found: %w", path, err)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var s Settings
	if err := v.Unmarshal(&s, viper.DecodeHook(durationHook())); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	s.resolveServices()
	return &s, nil
}

// resolveServices fill import source and target from services,
// ex: services: {source: folder/a, target: folder/b} or services: [folder/a]
func (s *Settings) resolveServices() {
	if m, ok := s.Services.(map[string]interface{}); ok {
		if isEmptyServices(s.Source) {
			s.Source = m[KeySource]
		}

		if isEmptyServices(s.Target) {
			s.Target = m[KeyTarget]
		}

		s.Services = m[KeySource]
		return
	}

	if isEmptyServices(s.Source) {
		s.Source = s.Services
	}
}

func isEmptyServices(v interface{}) bool {
	return len(domain.SanitizeServices(v)) == 0
}

// durationHook decode bare number as seconds, ex: retry_interval: 3, then the duration string like 3s
func durationHook() mapstructure.DecodeHookFunc {
	durationType := reflect.TypeOf(time.Duration(0))

	seconds := func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != durationType || f == durationType {
			return data, nil
		}

		switch f.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(reflect.ValueOf(data).Uint()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		case reflect.String:
			if n, err := strconv.ParseFloat(strings.TrimSpace(reflect.ValueOf(data).String()), 64); err == nil {
				return time.Duration(n * float64(time.Second)), nil
			}
		}

		return data, nil
	}

	return mapstructure.ComposeDecodeHookFunc(
		seconds,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
