package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/propdoc/pkg/generator"
	"github.com/gnana997/propdoc/pkg/parser"
)

var (
	ErrEmptyExtension   = errors.New("empty document extension")
	ErrInvalidExtension = errors.New("invalid document extension")
	ErrEmptyProjectPath = errors.New("empty project path setting")
	ErrInvalidTimeout   = errors.New("invalid vcs timeout")
	ErrInvalidDebounce  = errors.New("invalid watch debounce")
	ErrInvalidPattern   = errors.New("invalid path pattern")
	ErrInvalidLogging   = errors.New("invalid logging setting")
)

// Validate reports every invalid field at once.
func Validate(cfg *Config) error {
	var errs []error

	switch {
	case cfg.Document.Extension == "":
		errs = append(errs, ErrEmptyExtension)
	case !strings.HasPrefix(cfg.Document.Extension, ".") || strings.ContainsAny(cfg.Document.Extension, `/\`):
		errs = append(errs, fmt.Errorf("%w: %q must start with a dot", ErrInvalidExtension, cfg.Document.Extension))
	case parser.IsSourceFile("doc" + cfg.Document.Extension):
		errs = append(errs, fmt.Errorf("%w: %q would overwrite the component source", ErrInvalidExtension, cfg.Document.Extension))
	}

	for key, value := range map[string]string{
		"project.root_marker": cfg.Project.RootMarker,
		"project.modules_dir": cfg.Project.ModulesDir,
		"project.source_dir":  cfg.Project.SourceDir,
	} {
		if value == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrEmptyProjectPath, key))
		}
	}

	if cfg.VCS.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidTimeout, cfg.VCS.Timeout))
	}
	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}
	if err := generator.ValidatePatterns(cfg.Paths.Include, cfg.Paths.Exclude); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidPattern, err))
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: level %q", ErrInvalidLogging, cfg.Logging.Level))
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: format %q", ErrInvalidLogging, cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
