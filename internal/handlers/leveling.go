package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/plumbline/plumbline-backend/internal/services"
)

type LevelingHandler struct {
  svc services.LevelingService
}

func NewLevelingHandler(svc services.LevelingService) *LevelingHandler {
  return &LevelingHandler{svc: svc}
}

// GET /api/projects/:id/leveling
func (h *LevelingHandler) LevelProject(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }

  leveled, err := h.svc.LevelProject(c.Request.Context(), projectID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"packages": leveled})
}

// GET /api/packages/:id/coverage
func (h *LevelingHandler) LevelPackage(c *gin.Context) {
  packageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package id"})
    return
  }

  leveled, err := h.svc.LevelPackage(c.Request.Context(), packageID)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, leveled)
}
