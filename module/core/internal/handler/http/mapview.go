package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gss09/RegionMonitor/module/core/domain"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/mapview"
)

const (
	defaultEntryLimit = 50
	maxEntryLimit     = 500
)

type regionService interface {
	Definitions() []domain.GeofenceDefinition
	Recentering() bool
}

type recenterService interface {
	ToggleRecenter(ctx context.Context) (bool, string)
}

type mapStore interface {
	Snapshot() mapview.Snapshot
	SetViewport(v domain.Viewport)
}

type entryLister interface {
	List(ctx context.Context, limit int) ([]domain.RegionEntry, error)
}

type mapResponse struct {
	mapview.Snapshot
	Recentering bool `json:"recentering"`
}

type recenterResponse struct {
	Recentering bool   `json:"recentering"`
	Label       string `json:"label"`
}

// MapHandler exposes the map surface and the recenter button. entries may
// be nil when the journal is disabled.
type MapHandler struct {
	regions regionService
	screen  recenterService
	store   mapStore
	entries entryLister
}

func NewMapHandler(regions regionService, screen recenterService, store mapStore, entries entryLister) *MapHandler {
	return &MapHandler{
		regions: regions,
		screen:  screen,
		store:   store,
		entries: entries,
	}
}

func (h *MapHandler) Register(r *gin.RouterGroup) {
	r.GET("/regions", h.GetRegions)
	r.GET("/map", h.GetMap)
	r.PUT("/map/viewport", h.SetViewport)
	r.POST("/map/recenter", h.ToggleRecenter)
	r.GET("/entries", h.GetEntries)
}

func (h *MapHandler) GetRegions(c *gin.Context) {
	c.JSON(http.StatusOK, h.regions.Definitions())
}

func (h *MapHandler) GetMap(c *gin.Context) {
	c.JSON(http.StatusOK, mapResponse{
		Snapshot:    h.store.Snapshot(),
		Recentering: h.regions.Recentering(),
	})
}

func (h *MapHandler) SetViewport(c *gin.Context) {
	var v domain.Viewport
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid viewport"})
		return
	}
	if err := validateViewport(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.SetViewport(v)
	c.JSON(http.StatusOK, v)
}

func (h *MapHandler) ToggleRecenter(c *gin.Context) {
	on, label := h.screen.ToggleRecenter(c.Request.Context())
	c.JSON(http.StatusOK, recenterResponse{Recentering: on, Label: label})
}

func (h *MapHandler) GetEntries(c *gin.Context) {
	if h.entries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "entry journal disabled"})
		return
	}

	limit := defaultEntryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = min(n, maxEntryLimit)
	}

	entries, err := h.entries.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch entries"})
		return
	}
	if entries == nil {
		entries = []domain.RegionEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func validateViewport(v domain.Viewport) error {
	if err := v.Center.Validate(); err != nil {
		return err
	}
	if v.Span.LatitudeDelta <= 0 || v.Span.LatitudeDelta > 180 {
		return errors.New("span.latitude_delta: must be in (0, 180]")
	}
	if v.Span.LongitudeDelta <= 0 || v.Span.LongitudeDelta > 360 {
		return errors.New("span.longitude_delta: must be in (0, 360]")
	}
	return nil
}
