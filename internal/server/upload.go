package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	ingestdomain "github.com/happytownlabs/happytown/internal/ingest/domain"
	"github.com/happytownlabs/happytown/pkg/db/pagination"
	"go.uber.org/zap"
)

// @Summary      Upload balance file
// @Description  Ingest one Excel file of monthly outstanding balances
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true  "Balance workbook (.xlsx)"
// @Param        month  formData  string  true  "Record month, YYYY-MM"
// @Param        uploaded_by formData string false "Uploader identity"
// @Success      200  {object}  map[string]any
// @Router       /uploads [post]
func (s *Server) UploadBalances(c *gin.Context) {
	month, err := parseMonth(c.PostForm("month"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}
	if max := s.cfg.Ingest.MaxFileBytes; max > 0 && fileHeader.Size > max {
		respondError(c, http.StatusRequestEntityTooLarge, "file exceeds the configured size cap")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not open uploaded file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not read uploaded file")
		return
	}

	result, err := s.ingestSvc.ProcessFile(c.Request.Context(), ingestdomain.ProcessRequest{
		FileName:    fileHeader.Filename,
		UploadedBy:  c.PostForm("uploaded_by"),
		RecordMonth: month,
		Content:     content,
	})
	if err != nil {
		if errors.Is(err, ingestdomain.ErrUnreadableWorkbook) {
			respondError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.log.Error("upload failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "upload failed")
		return
	}

	respondData(c, result)
}

// @Summary      List uploads
// @Tags         uploads
// @Produce      json
// @Param        page_token  query  string  false  "Page Token"
// @Param        page_size   query  int     false  "Page Size"
// @Success      200  {object}  map[string]any
// @Router       /uploads [get]
func (s *Server) ListUploads(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		respondError(c, http.StatusBadRequest, "invalid pagination")
		return
	}

	entries, total, err := s.uploadRepo.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list uploads")
		return
	}
	respondList(c, entries, pagination.Next(page, len(entries), total))
}

func (s *Server) GetUpload(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid upload id")
		return
	}

	entry, err := s.uploadRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load upload")
		return
	}
	if entry == nil {
		respondError(c, http.StatusNotFound, "upload not found")
		return
	}
	entry.FileContent = nil
	respondData(c, entry)
}

// DownloadUploadFile serves the retained raw bytes exactly as uploaded.
func (s *Server) DownloadUploadFile(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid upload id")
		return
	}

	entry, err := s.uploadRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load upload")
		return
	}
	if entry == nil {
		respondError(c, http.StatusNotFound, "upload not found")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+entry.FileName+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", entry.FileContent)
}

func parseMonth(raw string) (time.Time, error) {
	return time.Parse("2006-01", raw)
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(raw)
}
