package public

import (
	"github.com/h2go-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetHomePage 获取首页区块
func (h *Handler) GetHomePage(c *gin.Context) {
	page, err := h.CatalogClient.HomePage(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, page)
}

// GetProductBySlug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.CatalogClient.ProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, product)
}

// GetPosts 获取博客文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	posts, err := h.CatalogClient.Posts(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPostBySlug 获取文章详情
func (h *Handler) GetPostBySlug(c *gin.Context) {
	post, err := h.CatalogClient.PostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, post)
}
