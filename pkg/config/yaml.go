package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ConfigBaseName is the base name of the configuration file without extension.
const ConfigBaseName = "headerstore"

// ConfigExtension is the file extension for the configuration file without the leading dot.
const ConfigExtension = "yaml"

// ConfigFileName is the filename of the configuration file.
const ConfigFileName = ConfigBaseName + "." + ConfigExtension

// ErrReadYaml is the error returned when reading the configuration file fails.
var ErrReadYaml = fmt.Errorf("reading %s", ConfigFileName)

// ReadYaml reads the YAML configuration file and returns the parsed Config.
// If dir is empty the file is searched for upwards from the current directory.
func ReadYaml(dir string) (config Config, err error) {
	v := viper.New()
	v.SetConfigName(ConfigBaseName)
	v.SetConfigType(ConfigExtension)

	if dir != "" {
		v.AddConfigPath(dir)
	} else {
		startDir, err := os.Getwd()
		if err != nil {
			return config, fmt.Errorf("%w: getting current dir: %w", ErrReadYaml, err)
		}

		configPath, err := findConfigFile(startDir)
		if err != nil {
			return config, fmt.Errorf("%w: %w", ErrReadYaml, err)
		}

		v.SetConfigFile(configPath)
	}

	config = DefaultConfig

	if err = v.ReadInConfig(); err != nil {
		err = fmt.Errorf("%w decoding file: %w", ErrReadYaml, err)
		return
	}

	if err = v.Unmarshal(&config, func(c *mapstructure.DecoderConfig) {
		c.TagName = "mapstructure"
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		err = fmt.Errorf("%w unmarshaling config: %w", ErrReadYaml, err)
		return
	}

	if dir != "" {
		config.RootDir = dir
	} else {
		config.RootDir = filepath.Dir(v.ConfigFileUsed())
	}

	return
}

// findConfigFile searches for the configuration file starting from the given
// directory and moving up the directory tree.
func findConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}
	return "", fmt.Errorf("no %s found", ConfigFileName)
}

// WriteYaml writes the configuration to the YAML file under config.RootDir,
// annotated with the comments carried by the struct tags.
func WriteYaml(config Config) error {
	if config.RootDir == "" {
		return errors.New("root directory is not set")
	}
	configPath := filepath.Join(config.RootDir, ConfigFileName)

	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPerm); err != nil {
		return err
	}

	yamlCommentMap := yaml.CommentMap{}

	addComment := func(path string, comment string) {
		yamlCommentMap[path] = []*yaml.Comment{
			yaml.HeadComment(comment),
		}
	}

	var processFields func(t reflect.Type, prefix string)
	processFields = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)

			if !field.IsExported() {
				continue
			}

			yamlTag := field.Tag.Get("yaml")
			comment := field.Tag.Get("comment")

			if yamlTag == "" || yamlTag == "-" {
				continue
			}

			if field.Type.Kind() == reflect.Struct && field.Anonymous {
				processFields(field.Type, prefix)
				continue
			}

			fieldPath := yamlTag
			if prefix != "" {
				fieldPath = prefix + "." + fieldPath
			}
			fieldPath = "$." + fieldPath

			if comment != "" {
				addComment(fieldPath, comment)
			}

			if field.Type.Kind() == reflect.Struct && !field.Anonymous {
				processFields(field.Type, yamlTag)
			}
		}
	}

	processFields(reflect.TypeOf(Config{}), "")

	data, err := yaml.MarshalWithOptions(config, yaml.WithComment(yamlCommentMap))
	if err != nil {
		return fmt.Errorf("error marshaling YAML data: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("error writing %s file: %w", ConfigFileName, err)
	}

	return nil
}
