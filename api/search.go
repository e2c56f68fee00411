package api

import (
	"net/http"

	"github.com/avelis/cargohold/internal/service/search"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchUseCase
}

func NewSearchHandler(service search.SearchUseCase) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.search)
}

func (h *SearchHandler) search(c *gin.Context) {
	var query search.Query
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
