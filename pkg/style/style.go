// Package style turns spritesheet geometry into stylesheet text.
//
// A [Sheet] is the style-description record: overall sheet size, the image
// reference, the flow name and one [Sprite] per source image. [NewSheet]
// orders sprites by source path so rendered output is reproducible no matter
// how the packer returned them. A [Renderer] formats a sheet as css, scss,
// sass, less, stylus or json.
package style

import (
	"path"
	"sort"
	"strings"
)

// DefaultPrefix is the CSS class prefix used when Options.Prefix is empty.
const DefaultPrefix = "icon-"

// Spritesheet describes the composited image.
type Spritesheet struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Image  string `json:"image"`
}

// Info carries metadata about the flow that produced the sheet.
type Info struct {
	Name string `json:"name"`
}

// Sprite is the geometry of one source image inside the sheet.
type Sprite struct {
	Name        string `json:"name"`
	SourcePath  string `json:"source_image"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	OffsetX     int    `json:"offset_x"`
	OffsetY     int    `json:"offset_y"`
	TotalWidth  int    `json:"total_width"`
	TotalHeight int    `json:"total_height"`
	Image       string `json:"image"`
}

// Sheet is the record handed to a Renderer.
type Sheet struct {
	Spritesheet Spritesheet `json:"spritesheet"`
	Info        Info        `json:"spritesheet_info"`
	Sprites     []Sprite    `json:"sprites"`
}

// NewSheet builds a Sheet. Each sprite gets its name from the source path
// (file name without extension) and the sheet-level totals and image; the
// sprites are sorted by SourcePath.
func NewSheet(sheet Spritesheet, info Info, sprites []Sprite) Sheet {
	out := make([]Sprite, len(sprites))
	for i, s := range sprites {
		if s.Name == "" {
			base := path.Base(s.SourcePath)
			s.Name = strings.TrimSuffix(base, path.Ext(base))
		}
		s.OffsetX = -s.X
		s.OffsetY = -s.Y
		s.TotalWidth = sheet.Width
		s.TotalHeight = sheet.Height
		s.Image = sheet.Image
		out[i] = s
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SourcePath < out[j].SourcePath
	})
	return Sheet{Spritesheet: sheet, Info: info, Sprites: out}
}

// Options selects the output language and naming.
type Options struct {
	Format string // css, scss, sass, less, stylus or json
	Prefix string // CSS class prefix, DefaultPrefix when empty
}

// Renderer renders a Sheet to stylesheet text.
type Renderer interface {
	Render(sheet Sheet, opts Options) ([]byte, error)
}

// ident turns a name into something usable as a class or variable name.
func ident(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
