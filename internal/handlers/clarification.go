package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/plumbline/plumbline-backend/internal/services"
)

type ClarificationHandler struct {
  svc services.IntakeService
}

func NewClarificationHandler(svc services.IntakeService) *ClarificationHandler {
  return &ClarificationHandler{svc: svc}
}

// GET /api/projects/:id/clarifications
func (h *ClarificationHandler) ListForProject(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }

  requests, err := h.svc.ListClarifications(c.Request.Context(), projectID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"clarifications": requests})
}

// POST /api/clarifications/:id/resolve
func (h *ClarificationHandler) Resolve(c *gin.Context) {
  requestID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clarification id"})
    return
  }
  var body struct {
    PackageAmounts map[string]float64 `json:"package_amounts"`
  }
  if err := c.ShouldBindJSON(&body); err != nil || len(body.PackageAmounts) == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "per-package amounts required"})
    return
  }

  request, err := h.svc.ResolveClarification(c.Request.Context(), requestID, body.PackageAmounts)
  if err != nil {
    RespondError(c, http.StatusConflict, "resolve_failed", err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"clarification": request})
}
