package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/gnana997/propdoc/pkg/config"
	"github.com/gnana997/propdoc/pkg/generator"
	"github.com/gnana997/propdoc/pkg/mock"
	"github.com/gnana997/propdoc/pkg/resolver"
	"github.com/gnana997/propdoc/pkg/util"
	"github.com/gnana997/propdoc/pkg/vcs"
)

// app bundles what a command needs after configuration is loaded.
type app struct {
	root   string
	cfg    *config.Config
	fs     afero.Fs
	logger *slog.Logger
}

// newApp loads configuration and builds the logger. Flags win over the
// config file.
func newApp(opts *rootOptions, stderr io.Writer) (*app, error) {
	root := opts.configDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}

	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.ParseLogLevel(cfg.Logging.Level),
		Format: util.ParseLogFormat(cfg.Logging.Format),
		Output: stderr,
	})

	return &app{root: root, cfg: cfg, fs: afero.NewOsFs(), logger: logger}, nil
}

// buildGenerator wires the generator's collaborators from configuration.
func (a *app) buildGenerator() (*generator.Generator, error) {
	res, err := resolver.New(a.fs, a.cfg.ResolverConfig(), a.logger)
	if err != nil {
		return nil, err
	}

	deps := generator.Deps{
		Fs:       a.fs,
		Resolver: res,
		Mock:     mock.New(0),
		Opener:   generator.SystemOpener{},
		Logger:   a.logger,
	}
	if a.cfg.VCS.Enabled {
		deps.VCS = vcs.NewGitProvider(a.logger)
	}

	return generator.New(a.cfg.GeneratorOptions(), deps)
}
