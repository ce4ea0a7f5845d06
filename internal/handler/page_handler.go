package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugshop/internal/service"
)

type sectionPayload struct {
	Type  string `json:"type"`
	Props any    `json:"props"`
	Order *int   `json:"order"`
}

type updatePagePayload struct {
	Sections []sectionPayload `json:"sections"`
}

// ListPages returns every page ordered by slug with its sections in render
// order.
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List(c.Query("orderBy") == "desc")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load pages")
		return
	}
	c.JSON(http.StatusOK, pages)
}

// GetPage returns a single page by slug.
func (a *API) GetPage(c *gin.Context) {
	page, err := a.pages.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "Page not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load page")
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdatePage replaces the whole section list of a page and publishes it.
// Admin access is enforced by middleware before this handler runs.
func (a *API) UpdatePage(c *gin.Context) {
	var payload updatePagePayload
	if !bindJSON(c, &payload, "invalid page payload") {
		return
	}

	inputs := make([]service.SectionInput, len(payload.Sections))
	for i, section := range payload.Sections {
		inputs[i] = service.SectionInput{
			Type:  section.Type,
			Props: section.Props,
			Order: section.Order,
		}
	}

	page, err := a.pages.UpdateSections(c.Param("slug"), inputs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSections):
			respondError(c, http.StatusBadRequest, "At least one section is required.")
		case errors.Is(err, service.ErrInvalidSectionType):
			respondError(c, http.StatusBadRequest, "Each section requires a valid type.")
		case errors.Is(err, service.ErrPageNotFound):
			respondError(c, http.StatusNotFound, "Page not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update page")
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

// SetDefaultHome flags a page as the storefront's default home page.
func (a *API) SetDefaultHome(c *gin.Context) {
	page, err := a.pages.SetDefaultHome(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "Page not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update page")
		return
	}
	c.JSON(http.StatusOK, page)
}
