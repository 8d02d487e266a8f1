package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/callsight/backend/internal/models"
	"github.com/callsight/backend/internal/service"
	"github.com/callsight/backend/internal/store"
)

type Handler struct {
	Store     store.Store
	Analyzer  *service.AnalyzeService
	Validator *validator.Validate
	Logger    zerolog.Logger
	UploadDir string
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary List call records
// @Tags calls
// @Produce json
// @Success 200 {array} models.CallRecord
// @Router /api/calls [get]
func (h *Handler) CallsList(c *gin.Context) {
	calls, err := h.Store.ListCalls(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to list calls", err.Error())
		return
	}
	if calls == nil {
		calls = []models.CallRecord{}
	}
	c.JSON(http.StatusOK, calls)
}

// @Summary Get one call record
// @Tags calls
// @Produce json
// @Param id path string true "Call ID"
// @Success 200 {object} models.CallRecord
// @Failure 404 {object} map[string]any
// @Router /api/calls/{id} [get]
func (h *Handler) CallDetails(c *gin.Context) {
	rec, err := h.Store.GetCall(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Call not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to get call", err.Error())
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary Combined state snapshot
// @Tags state
// @Produce json
// @Success 200 {object} store.Snapshot
// @Router /api/state [get]
func (h *Handler) State(c *gin.Context) {
	snap, err := h.Store.State(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to load state", err.Error())
		return
	}
	if snap.Calls == nil {
		snap.Calls = []models.CallRecord{}
	}
	if snap.Scripts == nil {
		snap.Scripts = []models.Script{}
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary List call scripts
// @Tags scripts
// @Produce json
// @Success 200 {array} models.Script
// @Router /api/scripts [get]
func (h *Handler) ScriptsList(c *gin.Context) {
	scripts, err := h.Store.ListScripts(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to list scripts", err.Error())
		return
	}
	c.JSON(http.StatusOK, scripts)
}

// @Summary Update a call script
// @Tags scripts
// @Accept json
// @Produce json
// @Param id path string true "Script ID"
// @Success 200 {object} models.Script
// @Failure 404 {object} map[string]any
// @Router /api/scripts/{id} [put]
func (h *Handler) ScriptUpdate(c *gin.Context) {
	var patch models.ScriptPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	script, err := h.Store.UpdateScript(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Script not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to update script", err.Error())
		return
	}
	c.JSON(http.StatusOK, script)
}

type AnalyzeRequest struct {
	AgentName  string `json:"agentName" form:"agentName"`
	Notes      string `json:"notes" form:"notes"`
	Transcript string `json:"transcript" form:"transcript" validate:"required"`
}

// @Summary Analyze a call transcript
// @Tags calls
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} models.CallRecord
// @Failure 400 {object} map[string]any
// @Router /api/calls/analyze [post]
func (h *Handler) AnalyzeCall(c *gin.Context) {
	var req AnalyzeRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.AgentName = c.PostForm("agentName")
		req.Notes = c.PostForm("notes")
		req.Transcript = c.PostForm("transcript")
	} else if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil || strings.TrimSpace(req.Transcript) == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "transcript is required", nil)
		return
	}

	rec, err := h.Analyzer.Analyze(c.Request.Context(), service.AnalyzeInput{
		AgentName:  req.AgentName,
		Notes:      req.Notes,
		Transcript: req.Transcript,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "ANALYZE_ERROR", "Failed to analyze call", err.Error())
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary Upload call metadata and optional audio
// @Tags calls
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]any
// @Router /upload [post]
func (h *Handler) Upload(c *gin.Context) {
	in := service.AnalyzeInput{
		AgentName:  c.PostForm("agentName"),
		Notes:      c.PostForm("notes"),
		Transcript: c.PostForm("transcript"),
	}

	if file, err := c.FormFile("audio"); err == nil && file != nil {
		name := filepath.Base(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, name)); err != nil {
			writeError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to save audio file", err.Error())
			return
		}
		in.Filename = name
	}

	rec, err := h.Analyzer.Analyze(c.Request.Context(), in)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "ANALYZE_ERROR", "Failed to analyze call", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": rec.ID})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
