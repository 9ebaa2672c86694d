package style

import (
	"bytes"
	"encoding/json"
	"strconv"
	"text/template"

	"github.com/matzehuels/spriteflow/pkg/errors"
)

// Templates is the built-in Renderer.
type Templates struct {
	text map[string]*template.Template
}

// NewTemplates parses the built-in stylesheet templates.
func NewTemplates() *Templates {
	funcs := template.FuncMap{
		"ident": ident,
		"px":    func(v int) string { return strconv.Itoa(v) + "px" },
	}
	t := &Templates{text: make(map[string]*template.Template)}
	for name, src := range map[string]string{
		"css":    cssTemplate,
		"scss":   scssTemplate,
		"sass":   sassTemplate,
		"less":   lessTemplate,
		"stylus": stylusTemplate,
	} {
		t.text[name] = template.Must(template.New(name).Funcs(funcs).Parse(src))
	}
	return t
}

// Formats returns the formats Render accepts.
func (t *Templates) Formats() []string {
	return []string{"css", "scss", "sass", "less", "stylus", "json"}
}

// templateData is what the text templates execute against.
type templateData struct {
	Sheet  Sheet
	Prefix string
	Name   string
}

// Render formats sheet in opts.Format.
func (t *Templates) Render(sheet Sheet, opts Options) ([]byte, error) {
	if opts.Format == "json" {
		data, err := json.MarshalIndent(sheet, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeTemplate, err, "render json")
		}
		return append(data, '\n'), nil
	}

	tpl, ok := t.text[opts.Format]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported stylesheet format %q", opts.Format)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	name := ident(sheet.Info.Name)
	if name == "" {
		name = "spritesheet"
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, templateData{Sheet: sheet, Prefix: prefix, Name: name}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTemplate, err, "render %s", opts.Format)
	}
	return buf.Bytes(), nil
}

// Ensure Templates implements Renderer.
var _ Renderer = (*Templates)(nil)

const cssTemplate = `{{ range .Sheet.Sprites -}}
.{{ $.Prefix }}{{ ident .Name }} {
  background-image: url({{ printf "%q" .Image }});
  background-position: {{ px .OffsetX }} {{ px .OffsetY }};
  width: {{ px .Width }};
  height: {{ px .Height }};
}
{{ end -}}
`

const scssTemplate = `{{ range .Sheet.Sprites -}}
${{ ident .Name }}-name: '{{ .Name }}';
${{ ident .Name }}-x: {{ px .X }};
${{ ident .Name }}-y: {{ px .Y }};
${{ ident .Name }}-offset-x: {{ px .OffsetX }};
${{ ident .Name }}-offset-y: {{ px .OffsetY }};
${{ ident .Name }}-width: {{ px .Width }};
${{ ident .Name }}-height: {{ px .Height }};
${{ ident .Name }}-total-width: {{ px .TotalWidth }};
${{ ident .Name }}-total-height: {{ px .TotalHeight }};
${{ ident .Name }}-image: '{{ .Image }}';
${{ ident .Name }}: ({{ px .X }}, {{ px .Y }}, {{ px .OffsetX }}, {{ px .OffsetY }}, {{ px .Width }}, {{ px .Height }}, {{ px .TotalWidth }}, {{ px .TotalHeight }}, '{{ .Image }}', '{{ .Name }}', );
{{ end -}}
${{ .Name }}-width: {{ px .Sheet.Spritesheet.Width }};
${{ .Name }}-height: {{ px .Sheet.Spritesheet.Height }};
${{ .Name }}-image: '{{ .Sheet.Spritesheet.Image }}';
${{ .Name }}-sprites: ({{ range $i, $s := .Sheet.Sprites }}{{ if $i }} {{ end }}${{ ident $s.Name }},{{ end }});
${{ .Name }}: ({{ px .Sheet.Spritesheet.Width }}, {{ px .Sheet.Spritesheet.Height }}, '{{ .Sheet.Spritesheet.Image }}', ${{ .Name }}-sprites, );

@mixin sprite-width($sprite) {
  width: nth($sprite, 5);
}

@mixin sprite-height($sprite) {
  height: nth($sprite, 6);
}

@mixin sprite-position($sprite) {
  background-position: nth($sprite, 3) nth($sprite, 4);
}

@mixin sprite-image($sprite) {
  $sprite-image: nth($sprite, 9);
  background-image: url(#{$sprite-image});
}

@mixin sprite($sprite) {
  @include sprite-image($sprite);
  @include sprite-position($sprite);
  @include sprite-width($sprite);
  @include sprite-height($sprite);
}

@mixin sprites($sprites) {
  @each $sprite in $sprites {
    $sprite-name: nth($sprite, 10);
    .{{ .Prefix }}#{$sprite-name} {
      @include sprite($sprite);
    }
  }
}
`

const sassTemplate = `{{ range .Sheet.Sprites -}}
${{ ident .Name }}-name: '{{ .Name }}'
${{ ident .Name }}-x: {{ px .X }}
${{ ident .Name }}-y: {{ px .Y }}
${{ ident .Name }}-offset-x: {{ px .OffsetX }}
${{ ident .Name }}-offset-y: {{ px .OffsetY }}
${{ ident .Name }}-width: {{ px .Width }}
${{ ident .Name }}-height: {{ px .Height }}
${{ ident .Name }}-total-width: {{ px .TotalWidth }}
${{ ident .Name }}-total-height: {{ px .TotalHeight }}
${{ ident .Name }}-image: '{{ .Image }}'
${{ ident .Name }}: ({{ px .X }}, {{ px .Y }}, {{ px .OffsetX }}, {{ px .OffsetY }}, {{ px .Width }}, {{ px .Height }}, {{ px .TotalWidth }}, {{ px .TotalHeight }}, '{{ .Image }}', '{{ .Name }}', )
{{ end -}}
${{ .Name }}-width: {{ px .Sheet.Spritesheet.Width }}
${{ .Name }}-height: {{ px .Sheet.Spritesheet.Height }}
${{ .Name }}-image: '{{ .Sheet.Spritesheet.Image }}'
${{ .Name }}-sprites: ({{ range $i, $s := .Sheet.Sprites }}{{ if $i }} {{ end }}${{ ident $s.Name }},{{ end }})

=sprite-width($sprite)
  width: nth($sprite, 5)

=sprite-height($sprite)
  height: nth($sprite, 6)

=sprite-position($sprite)
  background-position: nth($sprite, 3) nth($sprite, 4)

=sprite-image($sprite)
  $sprite-image: nth($sprite, 9)
  background-image: url(#{$sprite-image})

=sprite($sprite)
  +sprite-image($sprite)
  +sprite-position($sprite)
  +sprite-width($sprite)
  +sprite-height($sprite)
`

const lessTemplate = `{{ range .Sheet.Sprites -}}
@{{ ident .Name }}-name: '{{ .Name }}';
@{{ ident .Name }}-x: {{ px .X }};
@{{ ident .Name }}-y: {{ px .Y }};
@{{ ident .Name }}-offset-x: {{ px .OffsetX }};
@{{ ident .Name }}-offset-y: {{ px .OffsetY }};
@{{ ident .Name }}-width: {{ px .Width }};
@{{ ident .Name }}-height: {{ px .Height }};
@{{ ident .Name }}-total-width: {{ px .TotalWidth }};
@{{ ident .Name }}-total-height: {{ px .TotalHeight }};
@{{ ident .Name }}-image: '{{ .Image }}';
@{{ ident .Name }}: {{ px .X }} {{ px .Y }} {{ px .OffsetX }} {{ px .OffsetY }} {{ px .Width }} {{ px .Height }} {{ px .TotalWidth }} {{ px .TotalHeight }} '{{ .Image }}' '{{ .Name }}';
{{ end -}}
@{{ .Name }}-width: {{ px .Sheet.Spritesheet.Width }};
@{{ .Name }}-height: {{ px .Sheet.Spritesheet.Height }};
@{{ .Name }}-image: '{{ .Sheet.Spritesheet.Image }}';

.sprite-width(@sprite) {
  width: extract(@sprite, 5);
}

.sprite-height(@sprite) {
  height: extract(@sprite, 6);
}

.sprite-position(@sprite) {
  background-position: extract(@sprite, 3) extract(@sprite, 4);
}

.sprite-image(@sprite) {
  @sprite-image: extract(@sprite, 9);
  background-image: url(@sprite-image);
}

.sprite(@sprite) {
  .sprite-image(@sprite);
  .sprite-position(@sprite);
  .sprite-width(@sprite);
  .sprite-height(@sprite);
}
`

const stylusTemplate = `{{ range .Sheet.Sprites -}}
${{ ident .Name }}-name = '{{ .Name }}'
${{ ident .Name }}-x = {{ px .X }}
${{ ident .Name }}-y = {{ px .Y }}
${{ ident .Name }}-offset-x = {{ px .OffsetX }}
${{ ident .Name }}-offset-y = {{ px .OffsetY }}
${{ ident .Name }}-width = {{ px .Width }}
${{ ident .Name }}-height = {{ px .Height }}
${{ ident .Name }}-total-width = {{ px .TotalWidth }}
${{ ident .Name }}-total-height = {{ px .TotalHeight }}
${{ ident .Name }}-image = '{{ .Image }}'
${{ ident .Name }} = {{ px .X }} {{ px .Y }} {{ px .OffsetX }} {{ px .OffsetY }} {{ px .Width }} {{ px .Height }} {{ px .TotalWidth }} {{ px .TotalHeight }} '{{ .Image }}' '{{ .Name }}'
{{ end -}}
${{ .Name }}-width = {{ px .Sheet.Spritesheet.Width }}
${{ .Name }}-height = {{ px .Sheet.Spritesheet.Height }}
${{ .Name }}-image = '{{ .Sheet.Spritesheet.Image }}'

spriteWidth($sprite)
  width $sprite[4]

spriteHeight($sprite)
  height $sprite[5]

spritePosition($sprite)
  background-position $sprite[2] $sprite[3]

spriteImage($sprite)
  background-image url($sprite[8])

sprite($sprite)
  spriteImage($sprite)
  spritePosition($sprite)
  spriteWidth($sprite)
  spriteHeight($sprite)
`
