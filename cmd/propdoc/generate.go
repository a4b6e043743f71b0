package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/propdoc/pkg/generator"
)

type generateOptions struct {
	dryRun bool
	open   bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <file|dir>...",
		Short: "Create or refresh component documents",
		Long: `Generate writes <Component>.md next to each component. Directories are
searched with the configured include and exclude globs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print documents instead of writing them")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open each written document")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions, args []string) error {
	a, err := newApp(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if opts.open {
		a.cfg.Document.Open = true
	}

	paths, err := a.expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no component files found in %v", args)
	}

	gen, err := a.buildGenerator()
	if err != nil {
		return err
	}
	defer gen.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.dryRun {
		return previewAll(ctx, gen, paths, out)
	}

	results, failed := gen.GenerateAll(ctx, paths)
	for _, res := range results {
		fmt.Fprintf(out, "%-9s %s (%d props)\n", res.Action, res.DocPath, len(res.Rows))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d components failed", failed, len(paths))
	}
	return nil
}

func previewAll(ctx context.Context, gen *generator.Generator, paths []string, out io.Writer) error {
	failed := 0
	for _, path := range paths {
		res, err := gen.Preview(ctx, path)
		if err != nil {
			fmt.Fprintf(out, "# %s: %v\n", path, err)
			failed++
			continue
		}
		if len(paths) > 1 {
			fmt.Fprintf(out, "==> %s (%s) <==\n", res.DocPath, res.Action)
		}
		fmt.Fprint(out, res.Document)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d components failed", failed, len(paths))
	}
	return nil
}

// expandPaths turns each argument into absolute source paths. Files are taken
// as given; directories are searched.
func (a *app) expandPaths(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		info, err := a.fs.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		found, err := generator.DiscoverFiles(a.fs, abs, a.cfg.Paths.Include, a.cfg.Paths.Exclude)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return paths, nil
}
