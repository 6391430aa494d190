package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Web session
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// Loading
	MaxRows            int      `mapstructure:"max_rows" yaml:"max_rows"`
	CSVDelimiter       string   `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	DecimalSeparator   string   `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string   `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	NAValues           []string `mapstructure:"na_values" yaml:"na_values"`
	XLSXSheet          string   `mapstructure:"xlsx_sheet" yaml:"xlsx_sheet"`

	// Analysis
	SampleRows    int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	Bins          int     `mapstructure:"bins" yaml:"bins"`
	IQRMultiplier float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		ListenAddr:       ":8080",
		MaxUploadMB:      32,
		CSVDelimiter:     ",",
		DecimalSeparator: ".",
		NAValues:         []string{},
		SampleRows:       5,
		Bins:             30,
		IQRMultiplier:    1.5,
		LogLevel:         "warn",
		LogFormat:        "console",
	}
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"listen_addr", "max_upload_mb",
	"max_rows", "csv_delimiter", "decimal_separator", "thousands_separator", "na_values", "xlsx_sheet",
	"sample_rows", "bins", "iqr_multiplier",
	"log_level", "log_format", "output_dir",
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edascope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edascope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads ./.env into the environment when present. Variables
// already set are not overridden.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (EDASCOPE_*) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDASCOPE")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("csv_delimiter", d.CSVDelimiter)
	v.SetDefault("decimal_separator", d.DecimalSeparator)
	v.SetDefault("thousands_separator", d.ThousandsSeparator)
	v.SetDefault("na_values", d.NAValues)
	v.SetDefault("xlsx_sheet", d.XLSXSheet)
	v.SetDefault("sample_rows", d.SampleRows)
	v.SetDefault("bins", d.Bins)
	v.SetDefault("iqr_multiplier", d.IQRMultiplier)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("output_dir", d.OutputDir)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Global) Validate() error {
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max_rows must be >= 0, got %d", c.MaxRows)
	}
	if c.SampleRows < 0 {
		return fmt.Errorf("sample_rows must be >= 0, got %d", c.SampleRows)
	}
	if c.Bins <= 0 {
		return fmt.Errorf("bins must be positive, got %d", c.Bins)
	}
	if c.IQRMultiplier <= 0 {
		return fmt.Errorf("iqr_multiplier must be positive, got %g", c.IQRMultiplier)
	}
	if _, err := ParseDelimiter(c.CSVDelimiter); err != nil {
		return err
	}
	if _, err := ParseSeparator(c.DecimalSeparator); err != nil {
		return fmt.Errorf("decimal_separator: %w", err)
	}
	if _, err := ParseSeparator(c.ThousandsSeparator); err != nil {
		return fmt.Errorf("thousands_separator: %w", err)
	}
	return nil
}

// Set assigns a single key from its string form, validating the value.
func (c *Global) Set(key, val string) error {
	atoi := func(min int) (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < min {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	switch key {
	case "listen_addr":
		c.ListenAddr = val
	case "max_upload_mb":
		i, err := atoi(1)
		if err != nil {
			return err
		}
		c.MaxUploadMB = i
	case "max_rows":
		i, err := atoi(0)
		if err != nil {
			return err
		}
		c.MaxRows = i
	case "sample_rows":
		i, err := atoi(0)
		if err != nil {
			return err
		}
		c.SampleRows = i
	case "bins":
		i, err := atoi(1)
		if err != nil {
			return err
		}
		c.Bins = i
	case "iqr_multiplier":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for iqr_multiplier: %v", val)
		}
		c.IQRMultiplier = f
	case "csv_delimiter":
		if _, err := ParseDelimiter(val); err != nil {
			return err
		}
		c.CSVDelimiter = val
	case "decimal_separator", "thousands_separator":
		if _, err := ParseSeparator(val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "decimal_separator" {
			c.DecimalSeparator = val
		} else {
			c.ThousandsSeparator = val
		}
	case "na_values":
		c.NAValues = nil
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.NAValues = append(c.NAValues, s)
			}
		}
	case "xlsx_sheet":
		c.XLSXSheet = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "console", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	case "output_dir":
		c.OutputDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the string form of a key, for display.
func (c *Global) Get(key string) (string, bool) {
	switch key {
	case "listen_addr":
		return c.ListenAddr, true
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), true
	case "max_rows":
		return strconv.Itoa(c.MaxRows), true
	case "csv_delimiter":
		return c.CSVDelimiter, true
	case "decimal_separator":
		return c.DecimalSeparator, true
	case "thousands_separator":
		return c.ThousandsSeparator, true
	case "na_values":
		return strings.Join(c.NAValues, ","), true
	case "xlsx_sheet":
		return c.XLSXSheet, true
	case "sample_rows":
		return strconv.Itoa(c.SampleRows), true
	case "bins":
		return strconv.Itoa(c.Bins), true
	case "iqr_multiplier":
		return strconv.FormatFloat(c.IQRMultiplier, 'g', -1, 64), true
	case "log_level":
		return c.LogLevel, true
	case "log_format":
		return c.LogFormat, true
	case "output_dir":
		return c.OutputDir, true
	}
	return "", false
}

// ParseDelimiter accepts a single character or the names "comma",
// "semicolon", "tab" and "pipe". Empty means comma.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "\\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		return 0, fmt.Errorf("invalid csv delimiter %q", s)
	}
	return r[0], nil
}

// ParseSeparator maps a number separator setting to a rune. "" and "auto"
// return 0 (auto-detect); "space", "comma" and "dot" name their characters.
func ParseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "space":
		return ' ', nil
	case "comma":
		return ',', nil
	case "dot":
		return '.', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid separator %q (use a single character, auto, space, comma or dot)", s)
	}
	return r[0], nil
}
