package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetProducts lists catalog products, optionally capped and filtered to
// featured ones.
func (a *API) GetProducts(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	products, err := a.products.List(limit, c.Query("featured") == "true")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load products")
		return
	}
	c.JSON(http.StatusOK, products)
}
