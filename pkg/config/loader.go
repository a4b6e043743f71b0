package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/spf13/afero"
)

// EnvPrefix prefixes environment overrides, e.g. PROPDOC_DOCUMENT_EXTENSION.
const EnvPrefix = "PROPDOC"

// Load reads <rootDir>/.propdoc/config.yaml. Priority, highest first:
// environment variables, the config file, defaults. A missing file is not
// an error.
func Load(rootDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(rootDir, Dir))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("project.root_marker", d.Project.RootMarker)
	v.SetDefault("project.modules_dir", d.Project.ModulesDir)
	v.SetDefault("project.source_dir", d.Project.SourceDir)

	v.SetDefault("document.extension", d.Document.Extension)
	v.SetDefault("document.type", d.Document.Type)
	v.SetDefault("document.open", d.Document.Open)
	v.SetDefault("document.lock_dir", d.Document.LockDir)

	v.SetDefault("vcs.enabled", d.VCS.Enabled)
	v.SetDefault("vcs.timeout", d.VCS.Timeout)

	v.SetDefault("paths.include", d.Paths.Include)
	v.SetDefault("paths.exclude", d.Paths.Exclude)

	v.SetDefault("watch.debounce_ms", d.Watch.DebounceMs)
	v.SetDefault("resolver.cache_size", d.Resolver.CacheSize)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("mcp.call_log", d.MCP.CallLog)
}

// Path returns the config file location for rootDir.
func Path(rootDir string) string {
	return filepath.Join(rootDir, Dir, FileName)
}

// WriteDefault writes the default configuration to rootDir. An existing file
// is left alone unless force is set; the returned bool reports whether the
// file was written.
func WriteDefault(fs afero.Fs, rootDir string, force bool) (string, bool, error) {
	path := Path(rootDir)
	if exists, err := afero.Exists(fs, path); err != nil {
		return path, false, err
	} else if exists && !force {
		return path, false, nil
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return path, false, fmt.Errorf("marshal default config: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, false, fmt.Errorf("create %s: %w", Dir, err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return path, false, fmt.Errorf("write config: %w", err)
	}
	return path, true, nil
}
