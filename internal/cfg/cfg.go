package cfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"hiring-assistant/internal/common"
	"hiring-assistant/internal/ml"
)

type Settings struct {
	ListenPort      int
	ModelsDir       string
	ModelStorePath  string
	Models          []ModelConfig
	DefaultModel    string
	EnforceRanges   bool
	LogLevel        string
	LogFormat       string
	LoadConcurrency int
	RemoteTimeout   time.Duration
}

// ModelConfig overrides where one named model is loaded from.
// Source is one of "file", "store" or "remote".
type ModelConfig struct {
	Name     string
	Source   string
	Path     string
	Key      string
	Endpoint string
	Timeout  time.Duration
}

type ConfigFile struct {
	Server struct {
		ListenPort int    `yaml:"listenPort"`
		LogLevel   string `yaml:"logLevel"`
		LogFormat  string `yaml:"logFormat"`
	} `yaml:"server"`

	Models struct {
		Dir             string        `yaml:"dir"`
		StorePath       string        `yaml:"storePath"`
		Default         string        `yaml:"default"`
		LoadConcurrency int           `yaml:"loadConcurrency"`
		RemoteTimeout   string        `yaml:"remoteTimeout"`
		Sources         []ModelSource `yaml:"sources"`
	} `yaml:"models"`

	Validation struct {
		EnforceRanges bool `yaml:"enforceRanges"`
	} `yaml:"validation"`
}

type ModelSource struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Path     string `yaml:"path"`
	Key      string `yaml:"key"`
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
}

// Load reads an optional dotenv file, then the YAML file named by CONFIG_FILE
// (environment variables win over its values), or the environment alone.
func Load() (Settings, error) {
	if err := loadDotEnv(); err != nil {
		return Settings{}, err
	}

	// Try to load from YAML file first
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

// loadDotEnv never overrides variables that are already set.
// An explicit ENV_FILE must exist; the default .env is optional.
func loadDotEnv() error {
	if path := os.Getenv(common.EnvEnvFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	remoteTimeout := 5 * time.Second
	if config.Models.RemoteTimeout != "" {
		remoteTimeout, err = time.ParseDuration(config.Models.RemoteTimeout)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid models.remoteTimeout %q: %w", config.Models.RemoteTimeout, err)
		}
	}

	models := make([]ModelConfig, 0, len(config.Models.Sources))
	for _, src := range config.Models.Sources {
		mc := ModelConfig{
			Name:     src.Name,
			Source:   src.Source,
			Path:     src.Path,
			Key:      src.Key,
			Endpoint: src.Endpoint,
		}
		if src.Timeout != "" {
			mc.Timeout, err = time.ParseDuration(src.Timeout)
			if err != nil {
				return Settings{}, fmt.Errorf("model %q: invalid timeout %q: %w", src.Name, src.Timeout, err)
			}
		}
		models = append(models, mc)
	}

	// Override with environment variables if they exist
	settings := Settings{
		ListenPort:      getIntFromEnvOrConfig(common.EnvListenPort, config.Server.ListenPort, common.DefaultListenPort),
		ModelsDir:       getEnvOrDefault(common.EnvModelsDir, orDefault(config.Models.Dir, common.DefaultModelsDir)),
		ModelStorePath:  getEnvOrDefault(common.EnvModelStorePath, config.Models.StorePath),
		Models:          models,
		DefaultModel:    getEnvOrDefault(common.EnvDefaultModel, orDefault(config.Models.Default, common.DefaultClassifier)),
		EnforceRanges:   getBoolFromEnvOrConfig(common.EnvEnforceRanges, config.Validation.EnforceRanges),
		LogLevel:        getEnvOrDefault(common.EnvLogLevel, orDefault(config.Server.LogLevel, common.DefaultLogLevel)),
		LogFormat:       getEnvOrDefault(common.EnvLogFormat, orDefault(config.Server.LogFormat, common.DefaultLogFormat)),
		LoadConcurrency: getIntFromEnvOrConfig(common.EnvLoadConcurrency, config.Models.LoadConcurrency, common.DefaultLoadConcurrency),
		RemoteTimeout:   getDurationOrDefault(common.EnvRemoteTimeout, remoteTimeout),
	}

	// Validate configuration
	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ListenPort:      getIntOrDefault(common.EnvListenPort, common.DefaultListenPort),
		ModelsDir:       getEnvOrDefault(common.EnvModelsDir, common.DefaultModelsDir),
		ModelStorePath:  os.Getenv(common.EnvModelStorePath), // optional
		DefaultModel:    getEnvOrDefault(common.EnvDefaultModel, common.DefaultClassifier),
		EnforceRanges:   getBoolOrDefault(common.EnvEnforceRanges, false),
		LogLevel:        getEnvOrDefault(common.EnvLogLevel, common.DefaultLogLevel),
		LogFormat:       getEnvOrDefault(common.EnvLogFormat, common.DefaultLogFormat),
		LoadConcurrency: getIntOrDefault(common.EnvLoadConcurrency, common.DefaultLoadConcurrency),
		RemoteTimeout:   getDurationOrDefault(common.EnvRemoteTimeout, 5*time.Second),
	}

	// Validate configuration
	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

// Sources resolves every known model name to a loader source. Names without an
// explicit entry load from their default artifact file in ModelsDir; explicit
// entries may also add names beyond the built-in set.
func (s *Settings) Sources() []ml.ModelSource {
	overrides := make(map[string]ModelConfig, len(s.Models))
	for _, m := range s.Models {
		overrides[m.Name] = m
	}

	names := append([]string{common.ModelRegression}, common.ClassifierNames...)
	for _, m := range s.Models {
		if _, known := common.DefaultModelFiles[m.Name]; !known {
			names = append(names, m.Name)
		}
	}

	sources := make([]ml.ModelSource, 0, len(names))
	for _, name := range names {
		m, ok := overrides[name]
		if !ok {
			sources = append(sources, ml.ModelSource{
				Name:     name,
				Kind:     ml.SourceFile,
				Location: filepath.Join(s.ModelsDir, common.DefaultModelFiles[name]),
			})
			continue
		}
		sources = append(sources, s.sourceFor(m))
	}
	return sources
}

func (s *Settings) sourceFor(m ModelConfig) ml.ModelSource {
	src := ml.ModelSource{Name: m.Name, Kind: ml.SourceKind(orDefault(m.Source, string(ml.SourceFile)))}
	switch src.Kind {
	case ml.SourceStore:
		src.Location = orDefault(m.Key, m.Name)
	case ml.SourceRemote:
		src.Location = m.Endpoint
		src.Timeout = m.Timeout
		if src.Timeout == 0 {
			src.Timeout = s.RemoteTimeout
		}
	default:
		path := m.Path
		if path == "" {
			path = common.DefaultModelFiles[m.Name]
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.ModelsDir, path)
		}
		src.Location = path
	}
	return src
}

// NeedsStore reports whether any model is configured to load from the artifact store.
func (s *Settings) NeedsStore() bool {
	for _, m := range s.Models {
		if m.Source == string(ml.SourceStore) {
			return true
		}
	}
	return false
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getBoolFromEnvOrConfig(key string, configValue bool) bool {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseBool(env); err == nil {
			return val
		}
	}
	return configValue
}

// validateSettings performs comprehensive validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.ListenPort < common.MinListenPort || settings.ListenPort > common.MaxListenPort {
		return fmt.Errorf("listen port must be between %d and %d, got %d",
			common.MinListenPort, common.MaxListenPort, settings.ListenPort)
	}

	if settings.ModelsDir == "" {
		return fmt.Errorf("models directory cannot be empty")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(settings.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", settings.LogLevel)
	}
	if settings.LogFormat != "json" && settings.LogFormat != "console" {
		return fmt.Errorf("log format must be json or console, got %q", settings.LogFormat)
	}

	if settings.LoadConcurrency < 1 || settings.LoadConcurrency > common.MaxLoadConcurrency {
		return fmt.Errorf("load concurrency must be between 1 and %d, got %d",
			common.MaxLoadConcurrency, settings.LoadConcurrency)
	}
	if settings.RemoteTimeout < 100*time.Millisecond || settings.RemoteTimeout > time.Minute {
		return fmt.Errorf("remote timeout must be between 100ms and 1m, got %v", settings.RemoteTimeout)
	}

	seen := make(map[string]bool, len(settings.Models))
	for _, m := range settings.Models {
		if m.Name == "" {
			return fmt.Errorf("model source without a name")
		}
		if seen[m.Name] {
			return fmt.Errorf("model %q configured more than once", m.Name)
		}
		seen[m.Name] = true

		switch ml.SourceKind(m.Source) {
		case "", ml.SourceFile:
			if m.Path == "" {
				if _, ok := common.DefaultModelFiles[m.Name]; !ok {
					return fmt.Errorf("model %q: file source needs a path", m.Name)
				}
			}
		case ml.SourceStore:
			if settings.ModelStorePath == "" {
				return fmt.Errorf("model %q: store source requires a model store path", m.Name)
			}
		case ml.SourceRemote:
			if !strings.HasPrefix(m.Endpoint, "http://") && !strings.HasPrefix(m.Endpoint, "https://") {
				return fmt.Errorf("model %q: remote endpoint must be an http(s) URL, got %q", m.Name, m.Endpoint)
			}
			if m.Timeout < 0 || m.Timeout > time.Minute {
				return fmt.Errorf("model %q: timeout must be at most 1m, got %v", m.Name, m.Timeout)
			}
		default:
			return fmt.Errorf("model %q: unknown source %q", m.Name, m.Source)
		}
	}

	if settings.DefaultModel == common.ModelRegression {
		return fmt.Errorf("default model must be a classifier, not the regressor")
	}
	if !common.IsClassifier(settings.DefaultModel) && !seen[settings.DefaultModel] {
		return fmt.Errorf("unknown default model %q", settings.DefaultModel)
	}

	return nil
}
