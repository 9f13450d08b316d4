package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	dserrors "github.com/systmms/wifikeys/internal/errors"
	"github.com/systmms/wifikeys/internal/logging"
	"github.com/systmms/wifikeys/internal/wifi"
)

// Default values applied when wifikeys.yaml omits a setting
const (
	DefaultTimeoutMs      = 30000
	DefaultConnectionsDir = "/etc/NetworkManager/system-connections"
	DefaultInterface      = "en0"
	DefaultAirportPath    = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"
	DefaultProfileLabel   = "All User Profile"
	DefaultKeyLabel       = "Key Content"
)

// Config holds the runtime configuration
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Required       bool          // missing file is an error instead of defaults
	Timeout        time.Duration // overrides Definition.TimeoutMs when positive
	MetricsFile    string
	Definition     *Definition
}

// Definition represents the wifikeys.yaml structure
type Definition struct {
	Version   int           `yaml:"version"`
	TimeoutMs int           `yaml:"timeout_ms,omitempty"`
	Windows   WindowsConfig `yaml:"windows,omitempty"`
	Linux     LinuxConfig   `yaml:"linux,omitempty"`
	MacOS     MacOSConfig   `yaml:"macos,omitempty"`
}

// WindowsConfig holds the netsh output labels to match
type WindowsConfig struct {
	ProfileLabels []string `yaml:"profile_labels,omitempty"`
	KeyLabels     []string `yaml:"key_labels,omitempty"`
}

// LinuxConfig holds NetworkManager settings
type LinuxConfig struct {
	ConnectionsDir string `yaml:"connections_dir,omitempty"`
	Elevate        string `yaml:"elevate,omitempty"`
}

// MacOSConfig holds airport/networksetup settings
type MacOSConfig struct {
	Interface   string `yaml:"interface,omitempty"`
	AirportPath string `yaml:"airport_path,omitempty"`
}

// DefaultDefinition returns the settings used when no file is present
func DefaultDefinition() *Definition {
	def := &Definition{}
	def.applyDefaults()
	return def
}

func (d *Definition) applyDefaults() {
	if d.TimeoutMs == 0 {
		d.TimeoutMs = DefaultTimeoutMs
	}
	if len(d.Windows.ProfileLabels) == 0 {
		d.Windows.ProfileLabels = []string{DefaultProfileLabel}
	}
	if len(d.Windows.KeyLabels) == 0 {
		d.Windows.KeyLabels = []string{DefaultKeyLabel}
	}
	if d.Linux.ConnectionsDir == "" {
		d.Linux.ConnectionsDir = DefaultConnectionsDir
	}
	if d.Linux.Elevate == "" {
		d.Linux.Elevate = wifi.ElevateAuto
	}
	if d.MacOS.Interface == "" {
		d.MacOS.Interface = DefaultInterface
	}
	if d.MacOS.AirportPath == "" {
		d.MacOS.AirportPath = DefaultAirportPath
	}
}

// Load reads and parses the wifikeys.yaml file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if !c.Required {
				c.debug("No configuration file at %s, using defaults", c.Path)
				c.Definition = DefaultDefinition()
				return nil
			}
			return dserrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Check the --config path or omit the flag to use built-in defaults",
			}
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	if err := validateSchema(raw); err != nil {
		return err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return dserrors.ConfigError{
			Message:    "invalid configuration structure",
			Suggestion: "Compare your file with the example in the README",
		}
	}

	// Validate version
	if def.Version != 0 {
		return dserrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your wifikeys.yaml file",
		}
	}

	def.applyDefaults()
	c.Definition = &def
	c.debug("Loaded configuration from %s", c.Path)
	return nil
}

// CommandTimeout returns the bound applied to each native command
func (c *Config) CommandTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	if c.Definition == nil || c.Definition.TimeoutMs <= 0 {
		return time.Duration(DefaultTimeoutMs) * time.Millisecond
	}
	return time.Duration(c.Definition.TimeoutMs) * time.Millisecond
}

// Settings returns the loaded definition, or defaults when Load was not called
func (c *Config) Settings() *Definition {
	if c.Definition == nil {
		return DefaultDefinition()
	}
	return c.Definition
}

func (c *Config) debug(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debug(format, args...)
	}
}

func validateSchema(raw map[string]interface{}) error {
	if raw == nil {
		raw = map[string]interface{}{}
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(definitionSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return dserrors.ConfigError{
			Message:    "configuration does not match schema:\n  - " + strings.Join(messages, "\n  - "),
			Suggestion: "Remove unknown keys and check value types",
		}
	}
	return nil
}

const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer"},
    "timeout_ms": {"type": "integer", "minimum": 0},
    "windows": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "profile_labels": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "key_labels": {"type": "array", "items": {"type": "string", "minLength": 1}}
      }
    },
    "linux": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "connections_dir": {"type": "string", "minLength": 1},
        "elevate": {"type": "string", "enum": ["auto", "sudo", "none"]}
      }
    },
    "macos": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "interface": {"type": "string", "minLength": 1},
        "airport_path": {"type": "string", "minLength": 1}
      }
    }
  }
}`
