package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/hugshop/internal/db"
)

// RenderSections walks sections in the order given and renders each one via
// the registry. A section whose type has no registered variant, or whose
// variant fails, becomes a visible placeholder; one bad section never
// prevents the rest of the page from rendering.
func (r *Registry) RenderSections(sections []db.Section) template.HTML {
	var out strings.Builder
	for _, section := range sections {
		out.WriteString(string(r.renderSection(section)))
		out.WriteString("\n")
	}
	return template.HTML(out.String())
}

// RenderPage renders a page's ordered section list.
func (r *Registry) RenderPage(page *db.Page) template.HTML {
	return r.RenderSections(page.Sections)
}

func (r *Registry) renderSection(section db.Section) template.HTML {
	variant, ok := r.Lookup(section.Type)
	if !ok {
		return placeholder(fmt.Sprintf("Unknown section type: %s", section.Type))
	}

	props := variant.DefaultProps()
	for key, value := range section.Props {
		props[key] = value
	}

	html, err := variant.Render(props)
	if err != nil {
		return placeholder(fmt.Sprintf("Section %s failed to render", section.Type))
	}
	return html
}

func placeholder(message string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<div class="section section-placeholder">%s</div>`,
		template.HTMLEscapeString(message),
	))
}
