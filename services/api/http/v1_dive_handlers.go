package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seabook/divelog/services/api/db"
	"github.com/seabook/divelog/services/api/models"
)

const handlerTimeout = 10 * time.Second

// divePayload is the request body for create and update.
type divePayload struct {
	Location      string   `json:"location" binding:"required"`
	DiveSite      *string  `json:"dive_site"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Date          string   `json:"date" binding:"required"`
	DiveTime      *string  `json:"time"`
	Description   *string  `json:"description"`
	Comments      *string  `json:"comments"`
	Depth         *float64 `json:"depth"`
	Duration      *float64 `json:"duration"`
	WaterTemp     *float64 `json:"water_temp"`
	AirTemp       *float64 `json:"air_temp"`
	Visibility    *float64 `json:"visibility"`
	Buddy         *string  `json:"buddy"`
	DiveSiteType  *string  `json:"dive_site_type"`
	Rating        *int     `json:"rating"`
	FishSightings *string  `json:"fish_sightings"`
	AirStart      *int     `json:"air_consumption_start"`
	AirEnd        *int     `json:"air_consumption_end"`
	Weight        *float64 `json:"weight"`
	SuitType      *string  `json:"suit_type"`
	WaterType     *string  `json:"water_type"`
}

func (p divePayload) toDive() models.Dive {
	return models.Dive{
		Location:      p.Location,
		DiveSite:      p.DiveSite,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		Date:          p.Date,
		DiveTime:      p.DiveTime,
		Description:   p.Description,
		Comments:      p.Comments,
		Depth:         p.Depth,
		Duration:      p.Duration,
		WaterTemp:     p.WaterTemp,
		AirTemp:       p.AirTemp,
		Visibility:    p.Visibility,
		Buddy:         p.Buddy,
		DiveSiteType:  p.DiveSiteType,
		Rating:        p.Rating,
		FishSightings: p.FishSightings,
		AirStart:      p.AirStart,
		AirEnd:        p.AirEnd,
		Weight:        p.Weight,
		SuitType:      p.SuitType,
		WaterType:     p.WaterType,
	}
}

func (p divePayload) validate() string {
	if !isDate(p.Date) {
		return "date must be YYYY-MM-DD"
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return "coordinates out of range"
	}
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return "rating must be between 1 and 5"
	}
	return ""
}

func (s *Server) handleListDives(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, handlerTimeout)
	defer cancel()

	q := db.DiveQuery{
		Location: c.Query("location"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Limit:    s.cfg.DefaultLimit,
	}
	if q.From != "" && !isDate(q.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	if q.To != "" && !isDate(q.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		q.Limit = limit
	}

	dives, err := s.store.ListDives(ctx, q)
	if err != nil {
		s.log.Error("list dives failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list dives"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": dives,
		"meta": gin.H{"count": len(dives)},
	})
}

func (s *Server) handleGetDive(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, handlerTimeout)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return
	}

	dive, err := s.store.GetDive(ctx, id)
	if err != nil {
		s.log.Error("get dive failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dive"})
		return
	}
	if dive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dive not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dive})
}

func (s *Server) handleCreateDive(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, handlerTimeout)
	defer cancel()

	var payload divePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := payload.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	id, err := s.store.CreateDive(ctx, payload.toDive())
	if err != nil {
		s.log.Error("create dive failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create dive"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": id}})
}

func (s *Server) handleUpdateDive(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, handlerTimeout)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload divePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := payload.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	updated, err := s.store.UpdateDive(ctx, id, payload.toDive())
	if err != nil {
		s.log.Error("update dive failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update dive"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "dive not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}})
}

func (s *Server) handleDeleteDive(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, handlerTimeout)
	defer cancel()

	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteDive(ctx, id)
	if err != nil {
		s.log.Error("delete dive failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete dive"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "dive not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func isDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
