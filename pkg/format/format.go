// Package format maps file extensions to symbolic format names.
//
// A [Resolver] is a small lookup table keyed by lowercase extension. Three
// independent resolvers drive option defaulting in spriteflow:
//
//   - Engines picks the packing engine from an input file's extension
//   - Images picks the output image format from the spritesheet filename
//   - Styles picks the stylesheet language from the stylesheet filename
//
// [DefaultTables] returns the built-in mappings. Tables are written during
// setup and treated as read-only while a stream runs.
package format

import (
	"path"
	"sort"
	"strings"
)

// DefaultKey is the pseudo-extension consulted when a path is empty or its
// extension has no entry.
const DefaultKey = "default"

// Engine names produced by the Engines table.
const (
	EngineImage  = "img"
	EngineVector = "svg"
)

// Image format names produced by the Images table.
const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
	ImageSVG  = "svg"
)

// Stylesheet format names produced by the Styles table.
const (
	StyleCSS    = "css"
	StyleSCSS   = "scss"
	StyleSass   = "sass"
	StyleLess   = "less"
	StyleStylus = "stylus"
	StyleJSON   = "json"
)

// Resolver maps lowercase file extensions to format names.
type Resolver struct {
	formats map[string]string
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{formats: make(map[string]string)}
}

// Register maps ext to name, replacing any previous mapping. The extension
// may be given with or without the leading dot; [DefaultKey] registers the
// fallback entry.
func (r *Resolver) Register(ext, name string) {
	r.formats[normalize(ext)] = name
}

// Resolve returns the format registered for the extension of p. Matching is
// case-insensitive. An empty path or an unmapped extension falls back to the
// [DefaultKey] entry; "" is returned when neither exists.
func (r *Resolver) Resolve(p string) string {
	name, _ := r.Lookup(p)
	return name
}

// Lookup is like Resolve but reports whether a mapping was found.
func (r *Resolver) Lookup(p string) (string, bool) {
	if p != "" {
		if name, ok := r.formats[normalize(path.Ext(p))]; ok {
			return name, true
		}
	}
	name, ok := r.formats[DefaultKey]
	return name, ok
}

// Len returns the number of registered entries, fallback included.
func (r *Resolver) Len() int {
	return len(r.formats)
}

// ExtensionsFor returns the extensions mapped to name, sorted, without the
// fallback entry.
func (r *Resolver) ExtensionsFor(name string) []string {
	var exts []string
	for ext, n := range r.formats {
		if n == name && ext != DefaultKey {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

func normalize(ext string) string {
	ext = strings.ToLower(ext)
	if ext == DefaultKey {
		return ext
	}
	return strings.TrimPrefix(ext, ".")
}

// Tables bundles the three resolvers used during option resolution.
type Tables struct {
	Engines *Resolver
	Images  *Resolver
	Styles  *Resolver
}

// DefaultTables returns freshly allocated tables with the built-in mappings.
// Callers may register additional extensions on the result before use.
func DefaultTables() *Tables {
	engines := NewResolver()
	engines.Register(".png", EngineImage)
	engines.Register(".jpg", EngineImage)
	engines.Register(".jpeg", EngineImage)
	engines.Register(".svg", EngineVector)

	images := NewResolver()
	images.Register(".png", ImagePNG)
	images.Register(".jpg", ImageJPEG)
	images.Register(".jpeg", ImageJPEG)
	images.Register(".svg", ImageSVG)

	styles := NewResolver()
	styles.Register(".styl", StyleStylus)
	styles.Register(".stylus", StyleStylus)
	styles.Register(".sass", StyleSass)
	styles.Register(".scss", StyleSCSS)
	styles.Register(".less", StyleLess)
	styles.Register(".json", StyleJSON)
	styles.Register(".css", StyleCSS)
	styles.Register(DefaultKey, StyleCSS)

	return &Tables{Engines: engines, Images: images, Styles: styles}
}

// ImageExt returns the file extension (without dot) conventionally used for
// an image format name.
func ImageExt(format string) string {
	if format == ImageJPEG {
		return "jpg"
	}
	return format
}
