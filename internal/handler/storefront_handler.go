package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugshop/internal/db"
	"github.com/hugshop/internal/service"
)

var storefrontLayout = template.Must(template.New("storefront").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main class="page page-{{.Slug}}">
{{.Body}}</main>
</body>
</html>
`))

type storefrontView struct {
	Title string
	Slug  string
	Body  template.HTML
}

// ShowHome renders the default home page through the section dispatcher.
func (a *API) ShowHome(c *gin.Context) {
	page, err := a.pages.DefaultHome()
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			c.String(http.StatusNotFound, "No home page configured")
			return
		}
		c.String(http.StatusInternalServerError, "failed to load page")
		return
	}
	a.renderStorefrontPage(c, page)
}

// ShowPage renders a published page by slug. Drafts are not visible on the
// storefront.
func (a *API) ShowPage(c *gin.Context) {
	page, err := a.pages.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			c.String(http.StatusNotFound, "Page not found")
			return
		}
		c.String(http.StatusInternalServerError, "failed to load page")
		return
	}

	if page.Status != db.PageStatusPublished {
		c.String(http.StatusNotFound, "Page not found")
		return
	}

	a.renderStorefrontPage(c, page)
}

func (a *API) renderStorefrontPage(c *gin.Context, page *db.Page) {
	view := storefrontView{
		Title: page.Title,
		Slug:  page.Slug,
		Body:  a.registry.RenderPage(page),
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := storefrontLayout.Execute(c.Writer, view); err != nil {
		c.Error(err)
	}
}
