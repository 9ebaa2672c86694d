package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spriteflow/pkg/asset"
	"github.com/matzehuels/spriteflow/pkg/config"
	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/errors"
	"github.com/matzehuels/spriteflow/pkg/flow"
	"github.com/matzehuels/spriteflow/pkg/format"
	"github.com/matzehuels/spriteflow/pkg/observability"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	out         string // output directory
	configPath  string // project file (.toml, .yaml, .yml)
	keepSources bool   // forward source images to the output

	name        string
	engine      string
	rel         string
	imageName   string
	imageFormat string
	algorithm   string
	padding     int
	quality     int
	styleName   string
	styleFormat string
	prefix      string
}

// overrides is the flag layer, applied on top of the project file.
func (o buildOpts) overrides() engine.Options {
	opts := engine.Options{
		Name:           o.name,
		Engine:         o.engine,
		RelativePrefix: o.rel,
		Image: engine.ImageOptions{
			Name:      o.imageName,
			Format:    o.imageFormat,
			Algorithm: o.algorithm,
			Padding:   o.padding,
			Quality:   o.quality,
		},
		Style: engine.StyleOptions{
			Name:   o.styleName,
			Format: o.styleFormat,
			Prefix: o.prefix,
		},
	}
	if o.keepSources {
		opts.Hook = engine.PassThrough
	}
	return opts
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{out: defaultOutDir}

	cmd := &cobra.Command{
		Use:   "build [files or directories...]",
		Short: "Pack images into spritesheets and stylesheets",
		Long: `Pack source images into spritesheets.

Files are grouped into flows by engine, relative prefix and name. Each flow
produces one image and one stylesheet, written in the order the flows were
first seen. Directories are walked for files with a known image extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.padding < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--padding must be >= 0")
			}
			if opts.name != "" {
				if err := errors.ValidateName(opts.name); err != nil {
					return err
				}
			}
			return c.runBuild(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output directory")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "project file (.toml, .yaml)")
	cmd.Flags().BoolVar(&opts.keepSources, "keep-sources", false, "also write the source images to the output")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "flow name (default: sprites)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "engine for every file (default: by extension)")
	cmd.Flags().StringVar(&opts.rel, "rel", "", "relative prefix for the image reference")
	cmd.Flags().StringVar(&opts.imageName, "image-name", "", "spritesheet filename (default: <name>.png)")
	cmd.Flags().StringVar(&opts.imageFormat, "image-format", "", "spritesheet format: png, jpeg")
	cmd.Flags().StringVar(&opts.algorithm, "algorithm", "", "layout: binary-tree (default), top-down, left-right, diagonal, alt-diagonal")
	cmd.Flags().IntVar(&opts.padding, "padding", 0, "pixels between sprites")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100")
	cmd.Flags().StringVar(&opts.styleName, "style-name", "", "stylesheet filename (default: <name>.<format>)")
	cmd.Flags().StringVar(&opts.styleFormat, "style-format", "", "stylesheet format: css (default), scss, sass, less, stylus, json")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "CSS class prefix (default: icon-)")

	return cmd
}

// runBuild reads the inputs, streams them through the orchestrator and
// writes whatever was emitted, even when a later flow failed.
func (c *CLI) runBuild(ctx context.Context, args []string, opts buildOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	tables := format.DefaultTables()
	inputs, err := collectInputs(args, tables)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no input images found")
	}

	var cfg *config.Config
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
		logger.Debug("loaded config", "path", opts.configPath, "rules", len(cfg.Rules))
	}

	paths := make([]string, len(inputs))
	for i, in := range inputs {
		paths[i] = in.path
	}
	files, err := asset.ReadFiles(ctx, paths)
	if err != nil {
		return err
	}
	outNames := make(map[*asset.File]string, len(files))
	for i, f := range files {
		outNames[f] = inputs[i].rel
	}
	logger.Debug("read sources", "files", len(files))

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Packing %s", plural(len(files), "file")))
	o := flow.New(flow.Config{
		Registry: c.newRegistry(),
		Tables:   tables,
		Provider: cfg.Provider(opts.overrides()),
		Logger:   logger,
		Hooks:    observability.Multi(observability.NewLogHooks(logger), spinnerHooks{s: spin}),
	})

	spin.Start()
	emitted, runErr := stream(ctx, o, files)
	spin.Stop()

	written, writeErr := asset.WriteFiles(opts.out, outputPaths(emitted, outNames))
	for _, p := range written {
		printFile(p)
	}
	if writeErr != nil {
		return writeErr
	}
	if runErr != nil {
		if len(written) > 0 {
			printWarning("build stopped early, %s written", plural(len(written), "file"))
		}
		return runErr
	}

	printSuccess("Packed %s", plural(len(o.Flows()), "flow"))
	printStats(len(files), len(o.Flows()), len(emitted))
	prog.done("Build finished")
	return nil
}

// stream feeds files through o.Run and collects the output in order.
func stream(ctx context.Context, o *flow.Orchestrator, files []*asset.File) ([]*asset.File, error) {
	in := make(chan *asset.File)
	out := make(chan *asset.File)
	var emitted []*asset.File

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(in)
		for _, f := range files {
			select {
			case in <- f:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})
	g.Go(func() error {
		return o.Run(gctx, in, out)
	})
	g.Go(func() error {
		for f := range out {
			emitted = append(emitted, f)
		}
		return nil
	})

	err := g.Wait()
	return emitted, err
}

// input is a source file on disk and the path it is written under when
// forwarded to the output directory.
type input struct {
	path string
	rel  string // relative to the argument that named it
}

// collectInputs expands directories into the files below them whose
// extension maps to an engine. Plain file arguments are kept as given.
func collectInputs(args []string, tables *format.Tables) ([]input, error) {
	var inputs []input
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, input{path: arg, rel: filepath.Base(arg)})
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := tables.Engines.Lookup(p); ok {
				rel, err := filepath.Rel(arg, p)
				if err != nil {
					return err
				}
				inputs = append(inputs, input{path: p, rel: filepath.ToSlash(rel)})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

// outputPaths renames forwarded sources to their argument-relative paths.
// Artifacts keep the names their engine gave them.
func outputPaths(emitted []*asset.File, names map[*asset.File]string) []*asset.File {
	out := make([]*asset.File, len(emitted))
	for i, f := range emitted {
		if rel, ok := names[f]; ok {
			f = asset.NewFile(rel, f.Contents)
		}
		out[i] = f
	}
	return out
}

// spinnerHooks shows the flow being packed on the spinner.
type spinnerHooks struct {
	observability.NoopFlowHooks
	s *spinner
}

func (h spinnerHooks) OnFlowStart(_ context.Context, key string, items int) {
	h.s.SetMessage(fmt.Sprintf("Packing %s (%s)", key, plural(items, "item")))
}
