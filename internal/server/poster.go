package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	posterdomain "github.com/happytownlabs/happytown/internal/poster/domain"
)

type createPosterContentRequest struct {
	Kind         string `json:"kind"`
	Content      string `json:"content"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active"`
}

type updatePosterContentRequest struct {
	Kind         *string `json:"kind,omitempty"`
	Content      *string `json:"content,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

// ListPosterContents returns active content in display order; pass
// ?include_inactive=true for the full catalog.
func (s *Server) ListPosterContents(c *gin.Context) {
	var (
		contents []posterdomain.Content
		err      error
	)
	if c.Query("include_inactive") == "true" {
		contents, err = s.posterRepo.List(c.Request.Context())
	} else {
		contents, err = s.posterRepo.ListActive(c.Request.Context())
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list poster contents")
		return
	}
	respondData(c, contents)
}

func (s *Server) CreatePosterContent(c *gin.Context) {
	var req createPosterContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "content is required")
		return
	}

	content := &posterdomain.Content{
		ID:           s.genID.Generate(),
		Kind:         posterdomain.ContentKind(req.Kind),
		Content:      req.Content,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if req.Active != nil {
		content.IsActive = *req.Active
	}
	if err := content.Kind.Valid(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.posterRepo.Insert(c.Request.Context(), content); err != nil {
		respondError(c, http.StatusConflict, "could not create poster content")
		return
	}
	respondData(c, content)
}

func (s *Server) UpdatePosterContent(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid poster content id")
		return
	}

	var req updatePosterContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	content, err := s.posterRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load poster content")
		return
	}
	if content == nil {
		respondError(c, http.StatusNotFound, "poster content not found")
		return
	}

	if req.Kind != nil {
		content.Kind = posterdomain.ContentKind(*req.Kind)
		if err := content.Kind.Valid(); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Content != nil {
		content.Content = *req.Content
	}
	if req.DisplayOrder != nil {
		content.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		content.IsActive = *req.Active
	}

	if err := s.posterRepo.Save(c.Request.Context(), content); err != nil {
		respondError(c, http.StatusConflict, "could not update poster content")
		return
	}
	respondData(c, content)
}
