package api

import (
	"net/http"
	"strconv"

	"github.com/avelis/cargohold/internal/feeds"
	"github.com/avelis/cargohold/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service  flights.FlightUseCase
	importer *feeds.Importer
}

func NewFlightHandler(service flights.FlightUseCase, importer *feeds.Importer) *FlightHandler {
	return &FlightHandler{service: service, importer: importer}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.GET("/utilization", h.utilization)
	router.POST("/import", h.importFeeds)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flights.CreateFlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) utilization(c *gin.Context) {
	report, err := h.service.Utilization(c.Request.Context())
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *FlightHandler) importFeeds(c *gin.Context) {
	if h.importer == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no feed sources configured"})
		return
	}
	report, err := h.importer.ImportAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
