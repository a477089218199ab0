package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/kardolus/deskpilot/types"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix    = "DESKPILOT"
	apiKeyEnvVar = "API_KEY"
	redacted     = "********"
)

type Manager struct {
	configStore ConfigStore
	Config      types.Config
}

// NewManager layers the user's config file over the defaults. A missing or
// unreadable file leaves the defaults in place.
func NewManager(cs ConfigStore) *Manager {
	configuration := cs.ReadDefaults()

	userConfig, err := cs.Read()
	if err == nil {
		replaceByConfigFile(reflect.ValueOf(&configuration).Elem(), reflect.ValueOf(userConfig))
	}

	return &Manager{configStore: cs, Config: configuration}
}

// WithEnvironment applies DESKPILOT_<TAG> variables. Nested sections use
// DESKPILOT_<SECTION>_<TAG>, for example DESKPILOT_AGENT_MAX_STEPS.
func (c *Manager) WithEnvironment() *Manager {
	replaceByEnvironment(reflect.ValueOf(&c.Config).Elem(), EnvPrefix)
	return c
}

func (c *Manager) APIKeyEnvVarName() string {
	return EnvPrefix + "_" + apiKeyEnvVar
}

// ShowConfig serializes the current configuration to YAML with the API key
// redacted.
func (c *Manager) ShowConfig() (string, error) {
	cfg := c.Config
	if cfg.APIKey != "" {
		cfg.APIKey = redacted
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (c *Manager) Save() error {
	return c.configStore.Write(c.Config)
}

func replaceByConfigFile(dst, user reflect.Value) {
	for i := 0; i < dst.NumField(); i++ {
		defaultField := dst.Field(i)
		userField := user.Field(i)

		switch defaultField.Kind() {
		case reflect.String:
			if userStr := userField.String(); userStr != "" {
				defaultField.SetString(userStr)
			}
		case reflect.Int:
			if userInt := userField.Int(); userInt != 0 {
				defaultField.SetInt(userInt)
			}
		case reflect.Bool:
			defaultField.SetBool(userField.Bool())
		case reflect.Float64:
			if userFloat := userField.Float(); userFloat != 0.0 {
				defaultField.SetFloat(userFloat)
			}
		case reflect.Map:
			if userField.Len() > 0 {
				defaultField.Set(userField)
			}
		case reflect.Struct:
			replaceByConfigFile(defaultField, userField)
		}
	}
}

func replaceByEnvironment(v reflect.Value, prefix string) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}

		name := prefix + "_" + strings.ToUpper(tag)
		field := v.Field(i)

		if field.Kind() == reflect.Struct {
			replaceByEnvironment(field, name)
			continue
		}

		value := os.Getenv(name)
		if value == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(value)
		case reflect.Int:
			intValue, _ := strconv.Atoi(value)
			field.SetInt(int64(intValue))
		case reflect.Bool:
			boolValue, _ := strconv.ParseBool(value)
			field.SetBool(boolValue)
		case reflect.Float64:
			floatValue, _ := strconv.ParseFloat(value, 64)
			field.SetFloat(floatValue)
		}
	}
}
