package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List buildings
// @Tags         complex
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /buildings [get]
func (s *Server) ListBuildings(c *gin.Context) {
	buildings, err := s.complexRepo.ListBuildings(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list buildings")
		return
	}
	respondData(c, buildings)
}

// @Summary      List entrances of a building
// @Tags         complex
// @Produce      json
// @Param        id  path  string  true  "Building id"
// @Success      200  {object}  map[string]any
// @Router       /buildings/{id}/entrances [get]
func (s *Server) ListEntrances(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid building id")
		return
	}

	entrances, err := s.complexRepo.ListEntrances(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list entrances")
		return
	}
	respondData(c, entrances)
}

// GetLatestMonth reports the newest record month across all balance data,
// the default selection for month pickers. data is null before the first
// ingestion.
func (s *Server) GetLatestMonth(c *gin.Context) {
	month, err := s.paymentRepo.LatestMonth(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to resolve latest month")
		return
	}
	if month == nil {
		respondData(c, nil)
		return
	}
	respondData(c, month.Format("2006-01"))
}
