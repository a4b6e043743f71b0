// Package generator turns component source files into property documents.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/gnana997/propdoc/pkg/extractor"
	"github.com/gnana997/propdoc/pkg/markdown"
	"github.com/gnana997/propdoc/pkg/parser"
	"github.com/gnana997/propdoc/pkg/parser/queries"
	"github.com/gnana997/propdoc/pkg/resolver"
	"github.com/gnana997/propdoc/pkg/vcs"
)

// Options configures document generation.
type Options struct {
	DocExtension string
	DocType      string
	// VCSTimeout bounds each metadata lookup.
	VCSTimeout time.Duration
	// Open asks the Opener to show each generated document.
	Open bool
	// LockDir holds the advisory lock files; os.TempDir when empty.
	LockDir   string
	LockRetry time.Duration
	Resolver  resolver.Config
}

// DefaultOptions returns the settings used when no config file exists.
func DefaultOptions() Options {
	return Options{
		DocExtension: ".md",
		DocType:      markdown.DefaultDocType,
		VCSTimeout:   3 * time.Second,
		LockRetry:    50 * time.Millisecond,
		Resolver:     resolver.DefaultConfig(),
	}
}

// Deps are the collaborators of a Generator. Zero fields get defaults: the
// OS filesystem, a resolver over it, no mock values, no VCS metadata, and no
// opener.
type Deps struct {
	Fs       afero.Fs
	Resolver *resolver.Resolver
	Mock     extractor.MockProvider
	VCS      vcs.Provider
	Opener   Opener
	Logger   *slog.Logger
}

// Generator owns the parsers and queries it uses and must be closed.
type Generator struct {
	fs        afero.Fs
	parsers   *parser.ParserManager
	queries   *queries.QueryManager
	extractor *extractor.Extractor
	resolver  *resolver.Resolver
	mock      extractor.MockProvider
	vcs       vcs.Provider
	opener    Opener
	locks     *docLocks
	opts      Options
	logger    *slog.Logger
}

// New builds a Generator.
func New(opts Options, deps Deps) (*Generator, error) {
	defaults := DefaultOptions()
	if opts.DocExtension == "" {
		opts.DocExtension = defaults.DocExtension
	}
	if opts.DocType == "" {
		opts.DocType = defaults.DocType
	}
	if opts.VCSTimeout <= 0 {
		opts.VCSTimeout = defaults.VCSTimeout
	}
	if opts.LockRetry <= 0 {
		opts.LockRetry = defaults.LockRetry
	}
	if opts.LockDir == "" {
		opts.LockDir = os.TempDir()
	}
	if opts.Resolver.RootMarker == "" {
		opts.Resolver = defaults.Resolver
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	res := deps.Resolver
	if res == nil {
		var err error
		if res, err = resolver.New(fs, opts.Resolver, logger); err != nil {
			return nil, err
		}
	}

	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(logger)

	return &Generator{
		fs:        fs,
		parsers:   pm,
		queries:   qm,
		extractor: extractor.NewExtractor(qm, logger),
		resolver:  res,
		mock:      deps.Mock,
		vcs:       deps.VCS,
		opener:    deps.Opener,
		locks:     newDocLocks(opts.LockDir, opts.LockRetry),
		opts:      opts,
		logger:    logger,
	}, nil
}

// Close releases parsers and compiled queries.
func (g *Generator) Close() error {
	return errors.Join(g.queries.Close(), g.parsers.Close())
}

// analysis is the document-independent outcome of reading a component.
type analysis struct {
	sourcePath string
	name       string
	subtitle   string
	ref        *extractor.PropsTypeReference
	declaredIn string
	members    extractor.MemberSet
}

// Generate creates the sibling document of sourcePath, or refreshes the
// property table of an existing one. Only a missing project root, an
// unreadable source, and I/O failures on the document are errors; every
// other problem degrades to an empty property table.
func (g *Generator) Generate(ctx context.Context, sourcePath string) (*Result, error) {
	a, err := g.analyze(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	res := g.newResult(a)

	unlock, err := g.locks.lock(ctx, res.DocPath)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if res.Document, res.Action, err = g.compose(ctx, a, res); err != nil {
		return nil, err
	}
	if res.Written() {
		if err := writeFileAtomic(g.fs, res.DocPath, []byte(res.Document), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", res.DocPath, err)
		}
	}

	g.logger.Info("document generated",
		"file", res.SourcePath,
		"doc", res.DocPath,
		"action", string(res.Action),
		"props", len(res.Rows))

	if g.opts.Open && g.opener != nil {
		if err := g.opener.Open(ctx, res.DocPath); err != nil {
			g.logger.Warn("could not open document", "doc", res.DocPath, "error", err)
		}
	}
	return res, nil
}

// Preview computes what Generate would write without touching the document.
func (g *Generator) Preview(ctx context.Context, sourcePath string) (*Result, error) {
	a, err := g.analyze(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	res := g.newResult(a)
	if res.Document, res.Action, err = g.compose(ctx, a, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) newResult(a *analysis) *Result {
	res := &Result{
		SourcePath:     a.sourcePath,
		DocPath:        DocPath(a.sourcePath, g.opts.DocExtension),
		ComponentName:  a.name,
		DeclaredIn:     a.declaredIn,
		Rows:           a.members.Rows,
		MockAttributes: a.members.MockAttributes,
		Table:          markdown.RenderPropertyTable(a.members.Rows),
	}
	if res.Rows == nil {
		res.Rows = []extractor.PropertyRow{}
	}
	if a.ref != nil {
		res.PropsType = a.ref.TypeName
		res.PropsModule = a.ref.SourceModule
	}
	return res
}

func (g *Generator) analyze(ctx context.Context, sourcePath string) (*analysis, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", sourcePath, err)
	}
	source, err := afero.ReadFile(g.fs, abs)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	file, err := g.parsers.ParseSource(ctx, abs, source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a := &analysis{
		sourcePath: abs,
		name:       ComponentName(abs),
		subtitle:   extractor.FileComment(file),
	}

	imports, err := g.extractor.BuildImportTable(file)
	if err != nil {
		return nil, err
	}
	ref, ok := g.extractor.AnalyzeExport(file, imports)
	if !ok {
		return a, nil
	}
	a.ref = &ref

	if !ref.IsImported() {
		if decl, ok := g.extractor.FindTypeDeclaration(file, ref.TypeName, false); ok {
			a.members = g.extractor.ExtractMembers(file, decl, g.mock)
			a.declaredIn = abs
		} else {
			g.logger.Info("props type not declared in file", "file", abs, "type", ref.TypeName)
		}
		return a, nil
	}

	resolved, err := g.resolver.Resolve(ctx, filepath.Dir(abs), ref.SourceModule)
	switch {
	case errors.Is(err, resolver.ErrModuleNotFound):
		g.logger.Info("props module not resolved", "file", abs, "module", ref.SourceModule, "error", err)
		return a, nil
	case err != nil:
		return nil, err
	}

	members, ok, err := g.membersFrom(ctx, resolved.AbsolutePath, ref)
	if err != nil {
		return nil, err
	}
	if ok {
		a.members = members
		a.declaredIn = resolved.AbsolutePath
	}
	return a, nil
}

// membersFrom extracts the props declaration from the module a type was
// imported from.
func (g *Generator) membersFrom(ctx context.Context, path string, ref extractor.PropsTypeReference) (extractor.MemberSet, bool, error) {
	source, err := afero.ReadFile(g.fs, path)
	if err != nil {
		g.logger.Warn("cannot read props module", "module", ref.SourceModule, "file", path, "error", err)
		return extractor.MemberSet{}, false, nil
	}
	file, err := g.parsers.ParseSource(ctx, path, source)
	if err != nil {
		if ctx.Err() != nil {
			return extractor.MemberSet{}, false, err
		}
		g.logger.Warn("cannot parse props module", "file", path, "error", err)
		return extractor.MemberSet{}, false, nil
	}
	defer file.Close()

	name, matchDefault := ref.ImportedName, false
	if ref.ImportedName == "default" {
		name, matchDefault = ref.TypeName, true
	}
	decl, ok := g.extractor.FindTypeDeclaration(file, name, matchDefault)
	if !ok {
		g.logger.Info("props type not found in module", "file", path, "type", name)
		return extractor.MemberSet{}, false, nil
	}
	return g.extractor.ExtractMembers(file, decl, g.mock), true, nil
}

// compose returns the document text to store at res.DocPath.
func (g *Generator) compose(ctx context.Context, a *analysis, res *Result) (string, Action, error) {
	existing, err := afero.ReadFile(g.fs, res.DocPath)
	switch {
	case err == nil:
		doc := string(existing)
		merged, changed := markdown.MergeProperties(doc, res.Table)
		if changed {
			return merged, ActionUpdated, nil
		}
		if !markdown.HasPropertyTable(doc) {
			g.logger.Warn("document has no property table header, leaving it unchanged", "doc", res.DocPath)
			return doc, ActionSkipped, nil
		}
		return doc, ActionUnchanged, nil

	case errors.Is(err, os.ErrNotExist):
		doc, err := markdown.RenderDocument(markdown.DocumentInput{
			Header:         g.frontmatter(ctx, a),
			ComponentName:  a.name,
			MockAttributes: a.members.MockAttributes,
			Rows:           a.members.Rows,
		})
		if err != nil {
			return "", "", err
		}
		return doc, ActionCreated, nil

	default:
		return "", "", fmt.Errorf("read %s: %w", res.DocPath, err)
	}
}

// frontmatter fills the header of a new document. VCS failures leave the
// owner and version empty.
func (g *Generator) frontmatter(ctx context.Context, a *analysis) markdown.Frontmatter {
	fm := markdown.Frontmatter{
		Type:     g.opts.DocType,
		Title:    a.name,
		Subtitle: a.subtitle,
	}
	if g.vcs == nil {
		return fm
	}

	authorCtx, cancel := context.WithTimeout(ctx, g.opts.VCSTimeout)
	author, err := g.vcs.FirstCommitAuthor(authorCtx, a.sourcePath)
	cancel()
	if err != nil {
		g.logger.Info("owner unavailable", "file", a.sourcePath, "error", err)
		return fm
	}
	fm.Owner = author

	branchCtx, cancel := context.WithTimeout(ctx, g.opts.VCSTimeout)
	branch, err := g.vcs.FirstCommitBranch(branchCtx, filepath.Dir(a.sourcePath), author)
	cancel()
	if err != nil {
		g.logger.Info("version unavailable", "file", a.sourcePath, "error", err)
		return fm
	}
	fm.Version = branch
	return fm
}
