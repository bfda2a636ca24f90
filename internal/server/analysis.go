package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// monthQuery parses the optional ?month=YYYY-MM parameter. nil means
// "latest record per household".
func monthQuery(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("month")
	if raw == "" {
		return nil, true
	}
	month, err := parseMonth(raw)
	if err != nil {
		return nil, false
	}
	return &month, true
}

// @Summary      Classify households
// @Description  Households grouped by risk category for a month (or latest)
// @Tags         analysis
// @Produce      json
// @Param        month  query  string  false  "Record month, YYYY-MM"
// @Success      200  {object}  map[string]any
// @Router       /classification [get]
func (s *Server) GetClassification(c *gin.Context) {
	month, ok := monthQuery(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}

	groups, err := s.analysisSvc.CategorizeByRank(c.Request.Context(), month)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "classification failed")
		return
	}
	respondData(c, groups)
}

// @Summary      Building statistics
// @Tags         analysis
// @Produce      json
// @Param        month  query  string  false  "Record month, YYYY-MM"
// @Success      200  {object}  map[string]any
// @Router       /statistics/buildings [get]
func (s *Server) GetBuildingStatistics(c *gin.Context) {
	month, ok := monthQuery(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}

	stats, err := s.analysisSvc.BuildingStatistics(c.Request.Context(), month)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute building statistics")
		return
	}
	respondData(c, stats)
}

// @Summary      Entrance statistics within a building
// @Tags         analysis
// @Produce      json
// @Param        number  path   string  true   "Building number"
// @Param        month   query  string  false  "Record month, YYYY-MM"
// @Success      200  {object}  map[string]any
// @Router       /statistics/buildings/{number}/entrances [get]
func (s *Server) GetEntranceStatistics(c *gin.Context) {
	month, ok := monthQuery(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}

	stats, err := s.analysisSvc.EntranceStatistics(c.Request.Context(), c.Param("number"), month)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute entrance statistics")
		return
	}
	respondData(c, stats)
}

// @Summary      Households at or above a balance threshold
// @Tags         analysis
// @Produce      json
// @Param        threshold  query  string  true   "Minimum outstanding balance"
// @Param        month      query  string  false  "Record month, YYYY-MM"
// @Success      200  {object}  map[string]any
// @Router       /reports/above-threshold [get]
func (s *Server) GetHouseholdsAboveThreshold(c *gin.Context) {
	threshold, err := decimal.NewFromString(c.Query("threshold"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "threshold must be a decimal")
		return
	}
	month, ok := monthQuery(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}

	infos, err := s.analysisSvc.HouseholdsAboveThreshold(c.Request.Context(), threshold, month)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to build the threshold report")
		return
	}
	respondData(c, infos)
}

// @Summary      Household payment history
// @Tags         analysis
// @Produce      json
// @Param        id  path  string  true  "Household id"
// @Success      200  {object}  map[string]any
// @Router       /households/{id}/history [get]
func (s *Server) GetHouseholdHistory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid household id")
		return
	}

	household, err := s.householdRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load household")
		return
	}
	if household == nil {
		respondError(c, http.StatusNotFound, "household not found")
		return
	}

	history, err := s.analysisSvc.HouseholdHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load payment history")
		return
	}
	respondData(c, history)
}
