package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/layers"
	"github.com/gogpu/layers/raster"
	"github.com/gogpu/layers/recipe"
)

var errInvalidSize = errors.New("invalid size")

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file; derived from the recipe name when empty
	format  string // output format; inferred from the output extension when empty
	quality int    // JPEG quality, 0 for the default
	size    string // optional WxH to resize the stack to before export
	split   bool   // also write every layer to its own file
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <recipe.toml>",
		Short: "Render a recipe to an image",
		Long: `Build the layer stack described by a recipe and write the flattened image.

Hidden layers are skipped. With --split every layer is also written to its
own file named <output>-<layer>.<ext>.`,
		Example: `  layerdemo render poster.toml
  layerdemo render poster.toml -o poster.jpg --quality 85
  layerdemo render poster.toml --size 64x64 --split`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <recipe>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, jpeg, bmp, tiff (default: from output extension, else png)")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100")
	cmd.Flags().StringVar(&opts.size, "size", "", "resize the stack to WxH before export")
	cmd.Flags().BoolVar(&opts.split, "split", false, "also write each layer to its own file")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	st, err := buildRecipe(ctx, path)
	if err != nil {
		return err
	}

	if opts.size != "" {
		w, h, err := parseSize(opts.size)
		if err != nil {
			return err
		}
		st.Resize(w, h)
		logger.Debug("Resized stack", "width", w, "height", h)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	format, output := resolveOutput(path, opts.output, opts.format)
	args := []string{format}
	if opts.quality > 0 {
		args = append(args, strconv.Itoa(opts.quality))
	}

	data, err := st.Encode(args...)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	files := []string{output}
	if opts.split {
		split, err := writeLayers(ctx, st, output, args)
		if err != nil {
			return err
		}
		files = append(files, split...)
	}

	prog.done(fmt.Sprintf("Rendered %d layers", st.Len()))
	printSuccess("Rendered %s", path)
	for _, f := range files {
		printFile(f)
	}
	return nil
}

// writeLayers encodes each layer's own surface next to output.
func writeLayers(ctx context.Context, st *layers.Store[*raster.Canvas], output string, args []string) ([]string, error) {
	var backend raster.Backend
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(output, ext)

	files := make([]string, 0, st.Len())
	for _, l := range st.All() {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		data, err := backend.Encode(l.Surface, args...)
		if err != nil {
			return files, fmt.Errorf("layer %s: %w", l.Name(), err)
		}
		name := fmt.Sprintf("%s-%s%s", base, fileSafe(l.Name()), ext)
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return files, err
		}
		files = append(files, name)
	}
	return files, nil
}

// buildRecipe loads the recipe at path and applies it to a new store,
// logging each layer added or removed at debug level.
func buildRecipe(ctx context.Context, path string) (*layers.Store[*raster.Canvas], error) {
	doc, err := recipe.Load(path)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	st, err := raster.NewStore(layers.WithSize(doc.Width, doc.Height))
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	st.On(layers.EventAdd, func(ev layers.Event[*raster.Canvas]) {
		logger.Debug("Added layer", "name", ev.Name, "mode", ev.Layer.BlendMode)
	})
	st.On(layers.EventRemove, func(ev layers.Event[*raster.Canvas]) {
		logger.Debug("Removed layer", "name", ev.Name)
	})

	if err := doc.Apply(st); err != nil {
		return nil, err
	}
	return st, nil
}

// resolveOutput picks the output format and file. An explicit format wins;
// otherwise the output extension decides, and PNG is the fallback.
func resolveOutput(recipePath, output, format string) (string, string) {
	if format == "" && output != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "" {
		format = "png"
	}
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(recipePath), filepath.Ext(recipePath))
		output = base + "." + format
	}
	return format, output
}

// parseSize parses "WxH" with positive dimensions.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q (want WxH)", errInvalidSize, s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("%w: %q (want WxH)", errInvalidSize, s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %q (want WxH)", errInvalidSize, s)
	}
	return w, h, nil
}

// fileSafe replaces characters that are awkward in file names.
func fileSafe(name string) string {
	if name == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '[', ']', ' ', ':':
			return '_'
		}
		return r
	}, name)
}
