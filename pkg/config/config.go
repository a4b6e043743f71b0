// Package config loads propdoc settings from .propdoc/config.yaml and the
// environment.
package config

import (
	"time"

	"github.com/gnana997/propdoc/pkg/generator"
	"github.com/gnana997/propdoc/pkg/markdown"
	"github.com/gnana997/propdoc/pkg/resolver"
	"github.com/gnana997/propdoc/pkg/watcher"
)

// Dir is the project-local configuration directory.
const Dir = ".propdoc"

// FileName is the configuration file inside Dir.
const FileName = "config.yaml"

// Config is the complete propdoc configuration.
type Config struct {
	Project  ProjectConfig  `yaml:"project" mapstructure:"project"`
	Document DocumentConfig `yaml:"document" mapstructure:"document"`
	VCS      VCSConfig      `yaml:"vcs" mapstructure:"vcs"`
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	MCP      MCPConfig      `yaml:"mcp" mapstructure:"mcp"`
}

// ProjectConfig names the project layout used for type resolution.
type ProjectConfig struct {
	RootMarker string `yaml:"root_marker" mapstructure:"root_marker"`
	ModulesDir string `yaml:"modules_dir" mapstructure:"modules_dir"`
	SourceDir  string `yaml:"source_dir" mapstructure:"source_dir"`
}

// DocumentConfig controls the generated document.
type DocumentConfig struct {
	Extension string `yaml:"extension" mapstructure:"extension"`
	Type      string `yaml:"type" mapstructure:"type"`
	Open      bool   `yaml:"open" mapstructure:"open"`
	LockDir   string `yaml:"lock_dir" mapstructure:"lock_dir"`
}

// VCSConfig controls the git lookups for owner and version.
type VCSConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PathsConfig selects component files when a directory is given.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"`
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

type ResolverConfig struct {
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MCPConfig configures the MCP server. An empty CallLog disables the call log.
type MCPConfig struct {
	CallLog string `yaml:"call_log" mapstructure:"call_log"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	genDefaults := generator.DefaultOptions()
	resDefaults := resolver.DefaultConfig()

	return &Config{
		Project: ProjectConfig{
			RootMarker: resDefaults.RootMarker,
			ModulesDir: resDefaults.ModulesDir,
			SourceDir:  resDefaults.SourceDir,
		},
		Document: DocumentConfig{
			Extension: genDefaults.DocExtension,
			Type:      markdown.DefaultDocType,
		},
		VCS: VCSConfig{
			Enabled: true,
			Timeout: genDefaults.VCSTimeout,
		},
		Paths: PathsConfig{
			Include: append([]string(nil), generator.DefaultInclude...),
			Exclude: append([]string(nil), generator.DefaultExclude...),
		},
		Watch: WatchConfig{
			DebounceMs: watcher.DefaultOptions().DebounceMs,
		},
		Resolver: ResolverConfig{
			CacheSize: resDefaults.CacheSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// GeneratorOptions maps the configuration onto generator.Options.
func (c *Config) GeneratorOptions() generator.Options {
	opts := generator.DefaultOptions()
	opts.DocExtension = c.Document.Extension
	opts.DocType = c.Document.Type
	opts.Open = c.Document.Open
	opts.LockDir = c.Document.LockDir
	opts.VCSTimeout = c.VCS.Timeout
	opts.Resolver = c.ResolverConfig()
	return opts
}

// ResolverConfig maps the configuration onto resolver.Config.
func (c *Config) ResolverConfig() resolver.Config {
	return resolver.Config{
		RootMarker: c.Project.RootMarker,
		ModulesDir: c.Project.ModulesDir,
		SourceDir:  c.Project.SourceDir,
		CacheSize:  c.Resolver.CacheSize,
	}
}

// WatcherOptions maps the configuration onto watcher.Options.
func (c *Config) WatcherOptions() watcher.Options {
	return watcher.Options{
		DebounceMs: c.Watch.DebounceMs,
		Include:    c.Paths.Include,
		Exclude:    c.Paths.Exclude,
	}
}
