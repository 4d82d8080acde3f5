package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/plumbline/plumbline-backend/internal/services"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type SubmissionHandler struct {
  svc services.IntakeService
}

func NewSubmissionHandler(svc services.IntakeService) *SubmissionHandler {
  return &SubmissionHandler{svc: svc}
}

// POST /api/submissions/freeform
func (h *SubmissionHandler) RecordFreeform(c *gin.Context) {
  var body types.FreeformSubmission
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission payload"})
    return
  }
  body.State = types.FreeformStateReceived

  sub, err := h.svc.RecordFreeform(c.Request.Context(), &body)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"submission": sub})
}

// POST /api/submissions/freeform/:id/process
func (h *SubmissionHandler) ProcessFreeform(c *gin.Context) {
  submissionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
    return
  }

  outcome, err := h.svc.ProcessFreeform(c.Request.Context(), submissionID)
  if err != nil {
    RespondError(c, http.StatusUnprocessableEntity, "reconcile_failed", err)
    return
  }
  RespondOK(c, outcome)
}
