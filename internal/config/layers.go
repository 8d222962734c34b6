package config

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	configFileEnvVar = "CONFIG_FILE"
	dotEnvFile       = ".env"
)

var (
	layersOnce sync.Once
	fileMu     sync.RWMutex
	fileValues = map[string]string{}
	// fileLoaded is set once LoadFile succeeds; an explicit file beats CONFIG_FILE.
	fileLoaded bool
)

func loadLayers() {
	layersOnce.Do(func() {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Msg("failed to load .env")
		}
		fileMu.RLock()
		explicit := fileLoaded
		fileMu.RUnlock()
		if path := os.Getenv(configFileEnvVar); path != "" && !explicit {
			if err := LoadFile(path); err != nil {
				log.Warn().Err(err).Str("file", path).Msg("failed to load config file")
			}
		}
	})
}

// LoadFile reads a flat YAML map of variable names to values, e.g.
//
//	API_BASE_URL: https://api.example.com
//	PHASE_DELAY: 1s
//
// Values from the file sit below the process environment.
func LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "[config LoadFile] read")
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return errors.Wrapf(err, "[config LoadFile] parse")
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		values[strings.ToUpper(strings.TrimSpace(k))] = fmt.Sprint(v)
	}

	fileMu.Lock()
	fileValues = values
	fileLoaded = true
	fileMu.Unlock()
	return nil
}

func lookupEnv(envVar string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	fileMu.RLock()
	defer fileMu.RUnlock()
	return fileValues[envVar]
}
