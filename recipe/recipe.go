// Package recipe builds layer stacks from TOML documents.
//
// A recipe describes the store size, an optional background, the layers to
// add (solid fills and rectangles), and optionally a final order and a merge:
//
//	width = 64
//	height = 64
//	background = "#ffffff"
//	order = ["background", "shadow", "box"]
//
//	[[layer]]
//	name = "shadow"
//	blend_mode = "multiply"
//	rect = [{ x = 8, y = 8, w = 32, h = 32, color = "#00000080" }]
//
//	[[layer]]
//	name = "box"
//	after = "background"
//	rect = [{ x = 4, y = 4, w = 32, h = 32, color = "#ff0000" }]
//
// Top-level keys must come before the first [[layer]] table.
package recipe

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/layers"
	"github.com/gogpu/layers/raster"
)

// BackgroundName is the name of the layer created for Document.Background.
const BackgroundName = "background"

// Errors returned while parsing and building recipes.
var (
	ErrUnknownKey    = errors.New("recipe: unknown key")
	ErrInvalidSize   = errors.New("recipe: invalid size")
	ErrInvalidRect   = errors.New("recipe: invalid rectangle")
	ErrMergeNotFound = errors.New("recipe: no merge layer found")
)

// Document is a parsed recipe.
type Document struct {
	Width      int      `toml:"width"`
	Height     int      `toml:"height"`
	Background string   `toml:"background"`
	Layers     []Layer  `toml:"layer"`
	Order      []string `toml:"order"`
	Merge      []string `toml:"merge"`
	MergeMode  string   `toml:"merge_mode"`
}

// Layer describes one layer of a recipe. An empty Name becomes
// layers.DefaultLayerName.
type Layer struct {
	Name      string `toml:"name"`
	BlendMode string `toml:"blend_mode"`
	Hidden    bool   `toml:"hidden"`
	Fill      string `toml:"fill"`
	Rects     []Rect `toml:"rect"`
	After     string `toml:"after"`
}

// Rect is a filled rectangle painted onto a layer with source-over.
type Rect struct {
	X     int    `toml:"x"`
	Y     int    `toml:"y"`
	W     int    `toml:"w"`
	H     int    `toml:"h"`
	Color string `toml:"color"`
}

// Parse decodes and validates a recipe. Keys the Document does not know
// are rejected.
func Parse(data []byte) (*Document, error) {
	var doc Document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("recipe: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKey, undecoded)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the recipe at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recipe: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Validate checks sizes and colors. A zero size selects the store default.
func (d *Document) Validate() error {
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, d.Width, d.Height)
	}
	if d.Background != "" {
		if _, err := ParseColor(d.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	for i, l := range d.Layers {
		if l.Fill != "" {
			if _, err := ParseColor(l.Fill); err != nil {
				return fmt.Errorf("layer %d (%s): fill: %w", i, l.Name, err)
			}
		}
		for j, r := range l.Rects {
			if r.W < 0 || r.H < 0 {
				return fmt.Errorf("layer %d (%s): rect %d: %w: %dx%d", i, l.Name, j, ErrInvalidRect, r.W, r.H)
			}
			if _, err := ParseColor(r.Color); err != nil {
				return fmt.Errorf("layer %d (%s): rect %d: %w", i, l.Name, j, err)
			}
		}
	}
	return nil
}

// Build creates a raster store and applies the recipe to it: background,
// layers in document order, then Order, then Merge. opts are applied after
// the document's own size.
func (d *Document) Build(opts ...layers.Option) (*layers.Store[*raster.Canvas], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	all := append([]layers.Option{layers.WithSize(d.Width, d.Height)}, opts...)
	st, err := raster.NewStore(all...)
	if err != nil {
		return nil, fmt.Errorf("recipe: %w", err)
	}
	if err := d.apply(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Apply adds the recipe's layers to an existing store, then applies Order
// and Merge. The store keeps its own size; listeners registered on it see
// every change the recipe makes.
func (d *Document) Apply(st *layers.Store[*raster.Canvas]) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return d.apply(st)
}

func (d *Document) apply(st *layers.Store[*raster.Canvas]) error {
	if d.Background != "" {
		col, _ := ParseColor(d.Background)
		st.Add(BackgroundName, layers.End).Surface.Fill(col)
	}

	for _, ld := range d.Layers {
		addLayer(st, ld)
	}

	if d.Order != nil {
		st.Move(d.Order)
	}

	if len(d.Merge) > 0 {
		if _, ok := st.Merge(d.Merge, d.MergeMode); !ok {
			return fmt.Errorf("%w: %v", ErrMergeNotFound, d.Merge)
		}
	}

	layers.Logger().Debug("recipe: stack built", "layers", st.Names())
	return nil
}

// addLayer adds and paints one recipe layer. Colors were validated.
func addLayer(st *layers.Store[*raster.Canvas], ld Layer) {
	name := ld.Name
	if name == "" {
		name = layers.DefaultLayerName
	}
	at := layers.End
	if ld.After != "" {
		at = layers.After(ld.After)
	}

	l := st.Add(name, at)
	if ld.Fill != "" {
		col, _ := ParseColor(ld.Fill)
		l.Surface.Fill(col)
	}
	for _, r := range ld.Rects {
		col, _ := ParseColor(r.Color)
		l.Surface.FillRect(r.bounds(), col)
	}

	if ld.BlendMode != "" {
		if !raster.KnownBlendMode(ld.BlendMode) {
			layers.Logger().Warn("recipe: unknown blend mode", "layer", l.Name(), "mode", ld.BlendMode)
		}
		l.BlendMode = ld.BlendMode
	}
	l.Hidden = ld.Hidden
}
