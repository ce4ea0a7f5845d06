package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/hugshop/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ProductSource supplies catalog rows to the product-grid variant.
type ProductSource interface {
	List(limit int, featuredOnly bool) ([]db.Product, error)
}

// templateVariant renders a section through an html/template. The optional
// prepare hook runs after defaults are merged and may replace raw props
// with render-ready values (sanitized HTML, fetched products).
type templateVariant struct {
	typeTag  string
	defaults map[string]any
	tmpl     *template.Template
	prepare  func(props map[string]any) error
}

func (v *templateVariant) Type() string {
	return v.typeTag
}

func (v *templateVariant) DefaultProps() map[string]any {
	defaults := make(map[string]any, len(v.defaults))
	for key, value := range v.defaults {
		defaults[key] = value
	}
	return defaults
}

func (v *templateVariant) Render(props map[string]any) (template.HTML, error) {
	if v.prepare != nil {
		if err := v.prepare(props); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := v.tmpl.Execute(&buf, props); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func mustVariant(typeTag, tmpl string, defaults map[string]any, prepare func(map[string]any) error) *templateVariant {
	return &templateVariant{
		typeTag:  typeTag,
		defaults: defaults,
		tmpl:     template.Must(template.New(typeTag).Parse(tmpl)),
		prepare:  prepare,
	}
}

// intProp reads a numeric prop, tolerating the float64 that JSON decoding
// produces for every number.
func intProp(props map[string]any, key string, fallback int) int {
	switch v := props[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func boolProp(props map[string]any, key string, fallback bool) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return fallback
}

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

const (
	heroTemplate = `<section class="section section-hero">
{{if .eyebrow}}<p class="hero-eyebrow">{{.eyebrow}}</p>
{{end}}<h1>{{.title}}</h1>
{{if .subtitle}}<p class="hero-subtitle">{{.subtitle}}</p>
{{end}}{{if .ctaLabel}}<a class="hero-cta" href="{{.ctaHref}}">{{.ctaLabel}}</a>
{{end}}</section>`

	productGridTemplate = `<section class="section section-product-grid">
<h2>{{.title}}</h2>
<div class="product-grid">
{{range .products}}<article class="product-card"><h3>{{.Title}}</h3><p>{{.Description}}</p><span class="price">{{printf "%.2f" .Price}} &euro;</span></article>
{{end}}</div>
</section>`

	testimonialTemplate = `<section class="section section-testimonial">
<blockquote>{{.quote}}</blockquote>
<cite>{{.author}}</cite>
</section>`

	bannerTemplate = `<section class="section section-banner">
{{if .href}}<a href="{{.href}}">{{.text}}</a>{{else}}<p>{{.text}}</p>{{end}}
</section>`

	textBlockTemplate = `<section class="section section-text-block">
{{if .title}}<h2>{{.title}}</h2>
{{end}}<div class="text-body">{{.bodyHTML}}</div>
</section>`

	locationTemplate = `<section class="section section-location">
<h2>{{.title}}</h2>
{{if .address}}<address>{{.address}}</address>
{{end}}{{if .mapUrl}}<a href="{{.mapUrl}}">Open map</a>
{{end}}</section>`

	openingHoursTemplate = `<section class="section section-opening-hours">
<h2>{{.title}}</h2>
<ul>
{{range .lines}}<li>{{.}}</li>
{{end}}</ul>
</section>`

	videoHeroTemplate = `<section class="section section-video-hero">
{{if .title}}<h1>{{.title}}</h1>
{{end}}<iframe src="{{.videoUrl}}" title="{{.title}}"{{if .autoplay}} allow="autoplay"{{end}}></iframe>
</section>`

	customHTMLTemplate = `<section class="section section-custom-html">{{.html}}</section>`
)

// DefaultRegistry registers the storefront's section variants: hero,
// product-grid, testimonial, banner, text-block, location, opening-hours,
// video-hero, and custom-html.
func DefaultRegistry(products ProductSource) *Registry {
	registry := NewRegistry()

	registry.Register(mustVariant("hero", heroTemplate, map[string]any{
		"eyebrow":  "",
		"title":    "Welcome",
		"subtitle": "",
		"ctaLabel": "Shop products",
		"ctaHref":  "/product",
	}, nil))

	registry.Register(mustVariant("product-grid", productGridTemplate, map[string]any{
		"title":        "Featured products",
		"limit":        4,
		"featuredOnly": false,
	}, func(props map[string]any) error {
		if products == nil {
			props["products"] = []db.Product{}
			return nil
		}
		rows, err := products.List(intProp(props, "limit", 4), boolProp(props, "featuredOnly", false))
		if err != nil {
			return fmt.Errorf("product grid: %w", err)
		}
		props["products"] = rows
		return nil
	}))

	registry.Register(mustVariant("testimonial", testimonialTemplate, map[string]any{
		"quote":  "",
		"author": "Anonymous",
	}, nil))

	registry.Register(mustVariant("banner", bannerTemplate, map[string]any{
		"text": "",
		"href": "",
	}, nil))

	registry.Register(mustVariant("text-block", textBlockTemplate, map[string]any{
		"title": "",
		"body":  "",
	}, func(props map[string]any) error {
		var buf bytes.Buffer
		if err := markdownEngine.Convert([]byte(stringProp(props, "body")), &buf); err != nil {
			return fmt.Errorf("text block: %w", err)
		}
		props["bodyHTML"] = template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
		return nil
	}))

	registry.Register(mustVariant("location", locationTemplate, map[string]any{
		"title":   "Find us",
		"address": "",
		"mapUrl":  "",
	}, nil))

	registry.Register(mustVariant("opening-hours", openingHoursTemplate, map[string]any{
		"title": "Opening hours",
		"lines": []any{"Mon-Fri 10:00-19:00", "Sat 10:00-16:00"},
	}, nil))

	registry.Register(mustVariant("video-hero", videoHeroTemplate, map[string]any{
		"title":    "",
		"videoUrl": "",
		"autoplay": false,
	}, nil))

	registry.Register(mustVariant("custom-html", customHTMLTemplate, map[string]any{
		"html": "",
	}, func(props map[string]any) error {
		props["html"] = template.HTML(sanitizer.Sanitize(stringProp(props, "html")))
		return nil
	}))

	return registry
}
