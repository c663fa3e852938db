package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Database *struct {
		Path string `json:"path"`
	} `json:"database"`
}

// LoadedConfig holds the resolved runtime settings.
type LoadedConfig struct {
	ServerAddress string
	DatabasePath  string
}

const (
	defaultAddress      = ":8080"
	defaultDatabasePath = "./data/loreshifter.db"
)

// LoadConfig reads the JSON configuration file at path and applies defaults
// for absent keys. When explicit is false a missing file is not an error;
// the defaults are used as-is.
func LoadConfig(path string, explicit bool) (*LoadedConfig, error) {
	cfg := &LoadedConfig{
		ServerAddress: defaultAddress,
		DatabasePath:  defaultDatabasePath,
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.Database != nil && rc.Database.Path != "" {
		cfg.DatabasePath = rc.Database.Path
	}
	return cfg, nil
}
