package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imrishuroy/fybyshop/internal/catalog"
	"github.com/imrishuroy/fybyshop/internal/search"
)

// GET /products?q=&category=&brand=&sort=&featured=
// A query ranks by relevance; an explicit sort overrides the ranking. Queries
// too short to rank leave the default name order.
func (s *server) listProducts(c *gin.Context) {
	products, err := s.Catalog.Products(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	q := c.Query("q")
	sortKey := c.Query("sort")
	ranked := search.Ranks(q)
	if ranked {
		products = search.Search(q, products)
	}
	f := catalog.Filter{Brand: c.Query("brand")}
	if cat := c.Query("category"); cat != "" {
		f.Category = catalog.NormalizeCategory(cat)
	}
	// Apply copies, so sorting below never touches the cached snapshot.
	products = f.Apply(products)
	if c.Query("featured") == "true" {
		products = catalog.Featured(products)
	}
	if !ranked || sortKey != "" {
		catalog.Sort(products, sortKey)
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GET /products/suggest?q=
func (s *server) suggestProducts(c *gin.Context) {
	products, err := s.Catalog.Products(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": search.Quick(c.Query("q"), products)})
}

func (s *server) getProduct(c *gin.Context) {
	p, err := s.Catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		notFound(c, "product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *server) listCategories(c *gin.Context) {
	cats, err := s.Catalog.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (s *server) productsByCategory(c *gin.Context) {
	products, err := s.Catalog.ByCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (s *server) listBrands(c *gin.Context) {
	products, err := s.Catalog.Products(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": catalog.Brands(products)})
}
