package chatapproval

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. CHATAPPROVAL_SERVER_ADDR
const EnvPrefix = "CHATAPPROVAL"

// LoadConfig returns defaults merged with the optional YAML file at location
// and CHATAPPROVAL_* environment overrides. ${env.KEY} expressions in string
// values are expanded.
func LoadConfig(ctx context.Context, location string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, "", reflect.ValueOf(cfg).Elem())

	if location != "" {
		data, err := readConfig(ctx, location)
		if err != nil {
			return nil, err
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(strings.NewReader(string(data))); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", location, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	expandStrings(reflect.ValueOf(cfg).Elem())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// YAML returns the configuration encoded as YAML
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func readConfig(ctx context.Context, location string) ([]byte, error) {
	fs := afs.New()
	location = url.Normalize(location, file.Scheme)
	exists, err := fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check config %s: %w", location, err)
	}
	if !exists {
		return nil, fmt.Errorf("config not found: %s", location)
	}
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", location, err)
	}
	return data, nil
}

// setDefaults registers every leaf of value under its mapstructure key so
// that environment overrides apply to nested fields.
func setDefaults(v *viper.Viper, prefix string, value reflect.Value) {
	valueType := value.Type()
	for i := 0; i < valueType.NumField(); i++ {
		field := valueType.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		fieldValue := value.Field(i)
		if fieldValue.Kind() == reflect.Struct {
			setDefaults(v, key, fieldValue)
			continue
		}
		v.SetDefault(key, fieldValue.Interface())
	}
}
