// Package settings reads process-wide settings from BIBIGRID_* environment variables.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every setting when read from the environment.
const EnvPrefix = "BIBIGRID"

const (
	keyLogFile           = "log_file"
	keyConfigDir         = "config_dir"
	keyClusterMemoryPath = "cluster_memory_path"
)

const (
	// DefaultLogFile is the persistent log written next to the working directory.
	DefaultLogFile = "bibigrid.log"
	// DefaultConfigDir holds configuration files and the cluster memory.
	DefaultConfigDir = "~/.config/bibigrid"
)

// Settings are the paths bibigrid works with.
type Settings struct {
	LogFile           string `mapstructure:"log_file"`
	ConfigDir         string `mapstructure:"config_dir"`
	ClusterMemoryPath string `mapstructure:"cluster_memory_path"`
}

// ClusterMemoryPathIn returns the default cluster memory location inside configDir.
func ClusterMemoryPathIn(configDir string) string {
	return filepath.Join(configDir, "cluster_memory", ".bibigrid.mem")
}

// NewViper returns a viper instance bound to the BIBIGRID_ environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyLogFile, DefaultLogFile)
	v.SetDefault(keyConfigDir, DefaultConfigDir)
	v.SetDefault(keyClusterMemoryPath, "")

	return v
}

// Load reads Settings from the environment.
func Load() (Settings, error) {
	return LoadFrom(NewViper())
}

// LoadFrom decodes Settings from v and fills derived paths.
func LoadFrom(v *viper.Viper) (Settings, error) {
	var s Settings

	err := v.Unmarshal(&s, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		expandHomeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}

	if s.ClusterMemoryPath == "" {
		s.ClusterMemoryPath = ClusterMemoryPathIn(s.ConfigDir)
	}

	return s, nil
}

// expandHomeHook replaces a leading "~/" with the user's home directory.
func expandHomeHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}

		return ExpandHome(data.(string))
	}
}

// ExpandHome expands a leading "~" or "~/" in path.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
