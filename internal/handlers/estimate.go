package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/plumbline/plumbline-backend/internal/services"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type EstimateHandler struct {
  svc services.EstimateService
}

func NewEstimateHandler(svc services.EstimateService) *EstimateHandler {
  return &EstimateHandler{svc: svc}
}

// GET /api/projects/:id/estimate
func (h *EstimateHandler) BuildEstimate(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }

  breakdown, err := h.svc.BuildEstimate(c.Request.Context(), projectID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, breakdown)
}

// GET /api/projects/:id/estimate-settings
func (h *EstimateHandler) GetSettings(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }

  settings, err := h.svc.GetSettings(c.Request.Context(), projectID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// PUT /api/projects/:id/estimate-settings
func (h *EstimateHandler) UpsertSettings(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  var body types.EstimateSetting
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
    return
  }
  body.ProjectID = projectID

  settings, err := h.svc.UpsertSettings(c.Request.Context(), &body)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"settings": settings})
}
