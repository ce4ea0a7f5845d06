package handler

import (
	"github.com/hugshop/internal/render"
	"github.com/hugshop/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	pages    *service.PageService
	products *service.ProductService
	registry *render.Registry
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	productService := service.NewProductService(db)

	return &API{
		db:       db,
		pages:    service.NewPageService(db),
		products: productService,
		registry: render.DefaultRegistry(productService),
	}
}
