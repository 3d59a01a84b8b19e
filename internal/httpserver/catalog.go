package httpserver

import (
	"net/http"

	"flowershop/internal/domain"
	"flowershop/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listProducts(c *gin.Context) {
	q := catalog.ProductQuery{
		CategorySlug: c.Query("categories"),
		Sort:         c.Query("sort"),
	}
	list, err := h.deps.CatalogSvc.ListProducts(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.logger, "Product", err)
		return
	}
	if list == nil {
		list = []domain.Product{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.CatalogSvc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listCategories(c *gin.Context) {
	list, err := h.deps.CatalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "Category", err)
		return
	}
	if list == nil {
		list = []domain.Category{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) listAddOns(c *gin.Context) {
	list, err := h.deps.CatalogSvc.ListAddOns(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "Add-on", err)
		return
	}
	if list == nil {
		list = []domain.AddOn{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) getAddOn(c *gin.Context) {
	a, err := h.deps.CatalogSvc.GetAddOn(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Add-on", err)
		return
	}
	c.JSON(http.StatusOK, a)
}
