package conf

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "FFS"

type Config struct {
	Decoder DecoderConfig `toml:"decoder" mapstructure:"decoder"`
	Log     LogConfig     `toml:"log" mapstructure:"log"`
}

type DecoderConfig struct {
	BeamSize        int `toml:"beam_size" mapstructure:"beam_size"`
	MaxPhraseLength int `toml:"max_phrase_length" mapstructure:"max_phrase_length"`
	// 0 uses one worker per cpu
	Workers            int    `toml:"workers" mapstructure:"workers"`
	NBest              int    `toml:"n_best" mapstructure:"n_best"`
	LegacyInputScoring bool   `toml:"legacy_input_scoring" mapstructure:"legacy_input_scoring"`
	BaseDir            string `toml:"base_dir" mapstructure:"base_dir"`
}

type LogConfig struct {
	Level        string `toml:"level" mapstructure:"level"`
	ReportCaller bool   `toml:"report_caller" mapstructure:"report_caller"`
}

func DefaultConfig() Config {
	return Config{
		Decoder: DecoderConfig{
			BeamSize:        100,
			MaxPhraseLength: 7,
			NBest:           1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

type LoadOptions struct {
	// TOML or YAML file, by extension; optional
	ConfigPath string
	// dot-notated keys, highest precedence
	FlagOverrides map[string]any
}

// Load returns the effective configuration:
// defaults < config file < FFS_* environment < flags
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if len(opts.ConfigPath) > 0 {
		info, err := os.Stat(opts.ConfigPath)
		if err != nil {
			return Config{}, errors.Wrap(err, "config")
		}
		if info.IsDir() {
			return Config{}, errors.Errorf("config path %s is a directory", opts.ConfigPath)
		}
		v.SetConfigFile(opts.ConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "merge config %s", opts.ConfigPath)
		}
	}

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range opts.FlagOverrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("decoder.beam_size", def.Decoder.BeamSize)
	v.SetDefault("decoder.max_phrase_length", def.Decoder.MaxPhraseLength)
	v.SetDefault("decoder.workers", def.Decoder.Workers)
	v.SetDefault("decoder.n_best", def.Decoder.NBest)
	v.SetDefault("decoder.legacy_input_scoring", def.Decoder.LegacyInputScoring)
	v.SetDefault("decoder.base_dir", def.Decoder.BaseDir)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.report_caller", def.Log.ReportCaller)
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true, "fatal": true}

func Validate(cfg Config) error {
	switch {
	case cfg.Decoder.BeamSize < 1:
		return errors.Errorf("decoder.beam_size must be positive, got %d", cfg.Decoder.BeamSize)
	case cfg.Decoder.MaxPhraseLength < 1:
		return errors.Errorf("decoder.max_phrase_length must be positive, got %d", cfg.Decoder.MaxPhraseLength)
	case cfg.Decoder.Workers < 0:
		return errors.Errorf("decoder.workers can't be negative, got %d", cfg.Decoder.Workers)
	case cfg.Decoder.NBest < 1:
		return errors.Errorf("decoder.n_best must be positive, got %d", cfg.Decoder.NBest)
	case !logLevels[strings.ToLower(cfg.Log.Level)]:
		return errors.Errorf("unknown log.level %q", cfg.Log.Level)
	}
	return nil
}

// WriteDefault writes the default configuration as TOML; an existing file is
// never overwritten
func WriteDefault(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "create config")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(DefaultConfig()); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}
