package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Receiver configuration file.
 *
 * Description:	Optional.  Everything has a default and every field can
 *		also be given on the command line, which wins.
 *
 *		The format follows the file extension:
 *
 *			.yaml .yml	YAML
 *			.toml		TOML
 *
 *		Example (YAML):
 *
 *			listen: ":9000"
 *			websocket: ":9001"
 *			serial: ""
 *			serial_speed: 9600
 *			dns_sd: true
 *			dns_sd_name: "lab receiver"
 *			default_n: 7
 *			log_level: info
 *			timestamp_format: "[%H:%M:%S] "
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lestrrat-go/strftime"
	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_LISTEN       = ":9000"
	DEFAULT_SERIAL_SPEED = 9600
)

var ErrNoTransport = errors.New("no transport configured")

type ReceiverConfig struct {
	Listen          string `toml:"listen"           yaml:"listen"`
	WebSocket       string `toml:"websocket"        yaml:"websocket"`
	Serial          string `toml:"serial"           yaml:"serial"`
	SerialSpeed     int    `toml:"serial_speed"     yaml:"serial_speed"`
	DNSSD           bool   `toml:"dns_sd"           yaml:"dns_sd"`
	DNSSDName       string `toml:"dns_sd_name"      yaml:"dns_sd_name"`
	DefaultN        int    `toml:"default_n"        yaml:"default_n"`
	LogLevel        string `toml:"log_level"        yaml:"log_level"`
	TimestampFormat string `toml:"timestamp_format" yaml:"timestamp_format"`
}

func DefaultReceiverConfig() *ReceiverConfig {
	return &ReceiverConfig{
		Listen:          DEFAULT_LISTEN,
		WebSocket:       "",
		Serial:          "",
		SerialSpeed:     DEFAULT_SERIAL_SPEED,
		DNSSD:           false,
		DNSSDName:       "",
		DefaultN:        DEFAULT_HAMMING_N,
		LogLevel:        DEFAULT_LOG_LEVEL,
		TimestampFormat: "",
	}
}

/*------------------------------------------------------------------
 *
 * Name:	LoadReceiverConfig
 *
 * Purpose:	Read a config file on top of the defaults.
 *
 * Returns:	Validated configuration, or an error naming the file.
 *
 *------------------------------------------------------------------*/

func LoadReceiverConfig(path string) (*ReceiverConfig, error) {
	var cfg = DefaultReceiverConfig()

	var data, readErr = os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("config %s: %w", path, readErr)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unknown format, use .yaml or .toml", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (cfg *ReceiverConfig) Validate() error {
	if _, _, err := HammingLayout(cfg.DefaultN); err != nil {
		return fmt.Errorf("default_n: %w", err)
	}

	if cfg.Serial != "" && cfg.SerialSpeed <= 0 {
		return fmt.Errorf("serial_speed %d must be positive", cfg.SerialSpeed)
	}

	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	if cfg.TimestampFormat != "" {
		if _, err := strftime.New(cfg.TimestampFormat); err != nil {
			return fmt.Errorf("timestamp_format %q: %w", cfg.TimestampFormat, err)
		}
	}

	if cfg.Listen == "" && cfg.WebSocket == "" && cfg.Serial == "" {
		return ErrNoTransport
	}

	return nil
}
