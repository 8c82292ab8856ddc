// backend-go/internal/api/handlers/catalog_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/partsbridge/backend-go/internal/service"
)

type CatalogHandler struct {
	productService *service.ProductService
}

func NewCatalogHandler(productService *service.ProductService) *CatalogHandler {
	return &CatalogHandler{productService: productService}
}

// ListProducts returns one page of the catalog.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page := parsePositiveIntWithDefault(c.Query("page"), 1)
	limit := parsePositiveIntWithDefault(c.Query("limit"), 20)

	result, err := h.productService.ListProducts(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateProduct creates a single product.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input service.NewProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.productService.AddProduct(c.Request.Context(), input)
	if err != nil {
		if strings.Contains(err.Error(), "required") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// ListCategories returns every category triple.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}
