package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/plumbline/plumbline-backend/internal/services"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type ScopeHandler struct {
  svc services.ScopeService
}

func NewScopeHandler(svc services.ScopeService) *ScopeHandler {
  return &ScopeHandler{svc: svc}
}

// POST /api/projects
func (h *ScopeHandler) CreateProject(c *gin.Context) {
  var body types.Project
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project payload"})
    return
  }

  project, err := h.svc.CreateProject(c.Request.Context(), &body)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GET /api/projects
func (h *ScopeHandler) ListProjects(c *gin.Context) {
  projects, err := h.svc.ListProjects(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GET /api/projects/:id/scope
func (h *ScopeHandler) GetProjectScope(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }

  scope, err := h.svc.GetProjectScope(c.Request.Context(), projectID)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, scope)
}

// POST /api/subcontractors
func (h *ScopeHandler) CreateSubcontractor(c *gin.Context) {
  var body types.Subcontractor
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subcontractor payload"})
    return
  }

  sub, err := h.svc.CreateSubcontractor(c.Request.Context(), &body)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"subcontractor": sub})
}

// POST /api/divisions
func (h *ScopeHandler) CreateDivisions(c *gin.Context) {
  var body struct {
    Divisions []*types.Division `json:"divisions"`
  }
  if err := c.ShouldBindJSON(&body); err != nil || len(body.Divisions) == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid divisions payload"})
    return
  }

  divisions, err := h.svc.CreateDivisions(c.Request.Context(), body.Divisions)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"divisions": divisions})
}

// GET /api/divisions
func (h *ScopeHandler) ListDivisions(c *gin.Context) {
  divisions, err := h.svc.ListDivisions(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"divisions": divisions})
}

// POST /api/scope-items
func (h *ScopeHandler) CreateScopeItems(c *gin.Context) {
  var body struct {
    Items []*types.ScopeItem `json:"items"`
  }
  if err := c.ShouldBindJSON(&body); err != nil || len(body.Items) == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scope items payload"})
    return
  }

  items, err := h.svc.CreateScopeItems(c.Request.Context(), body.Items)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"items": items})
}

// POST /api/packages
func (h *ScopeHandler) CreateScopePackage(c *gin.Context) {
  var body struct {
    Package *types.ScopePackage `json:"package"`
    ItemIDs []uuid.UUID         `json:"item_ids"`
  }
  if err := c.ShouldBindJSON(&body); err != nil || body.Package == nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package payload"})
    return
  }

  pkg, err := h.svc.CreateScopePackage(c.Request.Context(), body.Package, body.ItemIDs)
  if err != nil {
    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"package": pkg})
}

// POST /api/packages/:id/items
func (h *ScopeHandler) AssignItemsToPackage(c *gin.Context) {
  packageID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package id"})
    return
  }
  var body struct {
    ItemIDs []uuid.UUID `json:"item_ids"`
  }
  if err := c.ShouldBindJSON(&body); err != nil || len(body.ItemIDs) == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ids payload"})
    return
  }

  if err := h.svc.AssignItemsToPackage(c.Request.Context(), packageID, body.ItemIDs); err != nil {
    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"assigned": len(body.ItemIDs)})
}

// POST /api/projects/:id/invitations
func (h *ScopeHandler) InviteBids(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  var body struct {
    SubcontractorID uuid.UUID   `json:"subcontractor_id"`
    ItemIDs         []uuid.UUID `json:"item_ids"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invitation payload"})
    return
  }

  bids, err := h.svc.InviteBids(c.Request.Context(), projectID, body.SubcontractorID, body.ItemIDs)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"bids": bids})
}
