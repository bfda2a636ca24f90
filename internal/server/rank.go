package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	rankdomain "github.com/happytownlabs/happytown/internal/rank/domain"
	"github.com/shopspring/decimal"
)

type createRankRequest struct {
	RankName        string  `json:"rank_name"`
	ThresholdAmount string  `json:"threshold_amount"`
	Description     *string `json:"description"`
	ColorCode       *string `json:"color_code"`
	Active          *bool   `json:"active"`
}

type updateRankRequest struct {
	RankName        *string `json:"rank_name,omitempty"`
	ThresholdAmount *string `json:"threshold_amount,omitempty"`
	Description     *string `json:"description,omitempty"`
	ColorCode       *string `json:"color_code,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

func (s *Server) ListRanks(c *gin.Context) {
	ranks, err := s.rankRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list ranks")
		return
	}
	respondData(c, ranks)
}

func (s *Server) CreateRank(c *gin.Context) {
	var req createRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.RankName)
	if name == "" {
		respondError(c, http.StatusBadRequest, "rank_name is required")
		return
	}
	threshold, err := decimal.NewFromString(strings.TrimSpace(req.ThresholdAmount))
	if err != nil {
		respondError(c, http.StatusBadRequest, "threshold_amount must be a decimal")
		return
	}

	rule := &rankdomain.RankConfiguration{
		ID:              s.genID.Generate(),
		RankName:        name,
		ThresholdAmount: threshold,
		Description:     req.Description,
		ColorCode:       req.ColorCode,
		IsActive:        true,
	}
	if req.Active != nil {
		rule.IsActive = *req.Active
	}

	if err := s.rankRepo.Insert(c.Request.Context(), rule); err != nil {
		respondError(c, http.StatusConflict, "could not create rank")
		return
	}
	respondData(c, rule)
}

func (s *Server) UpdateRank(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid rank id")
		return
	}

	var req updateRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := s.rankRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load rank")
		return
	}
	if rule == nil {
		respondError(c, http.StatusNotFound, "rank not found")
		return
	}

	if req.RankName != nil {
		rule.RankName = strings.TrimSpace(*req.RankName)
	}
	if req.ThresholdAmount != nil {
		threshold, err := decimal.NewFromString(strings.TrimSpace(*req.ThresholdAmount))
		if err != nil {
			respondError(c, http.StatusBadRequest, "threshold_amount must be a decimal")
			return
		}
		rule.ThresholdAmount = threshold
	}
	if req.Description != nil {
		rule.Description = req.Description
	}
	if req.ColorCode != nil {
		rule.ColorCode = req.ColorCode
	}
	if req.Active != nil {
		rule.IsActive = *req.Active
	}

	if err := s.rankRepo.Save(c.Request.Context(), rule); err != nil {
		respondError(c, http.StatusConflict, "could not update rank")
		return
	}
	respondData(c, rule)
}
