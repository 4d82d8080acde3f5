package handlers

import (
  "net/http"
  "sync"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/requestdata"
  "github.com/plumbline/plumbline-backend/internal/sse"
)

type RealtimeHandler struct {
  Log *logger.Logger
  Hub *sse.SSEHub

  mu      sync.RWMutex
  clients map[uuid.UUID]*sse.SSEClient // key: client ID
}

func NewRealtimeHandler(log *logger.Logger, hub *sse.SSEHub) *RealtimeHandler {
  return &RealtimeHandler{
    Log:     log,
    Hub:     hub,
    clients: make(map[uuid.UUID]*sse.SSEClient),
  }
}

// GET /sse/stream?project=<uuid>
// Each repeated project param subscribes the stream to that project's channel.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
    return
  }

  client := h.Hub.NewSSEClient(rd.UserID)
  h.Log.Info("SSEStream open", "user_id", rd.UserID.String(), "client_id", client.ID.String())

  h.mu.Lock()
  h.clients[client.ID] = client
  h.mu.Unlock()

  for _, raw := range c.QueryArray("project") {
    projectID, err := uuid.Parse(raw)
    if err != nil {
      continue
    }
    h.Hub.AddChannel(client, sse.ProjectChannel(projectID))
  }

  h.Hub.ServeHTTP(c.Writer, c.Request, client)

  h.mu.Lock()
  delete(h.clients, client.ID)
  h.mu.Unlock()
  h.Hub.CloseClient(client)
}

// POST /sse/subscribe
func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
  client, projectID, ok := h.clientFromRequest(c)
  if !ok {
    return
  }
  h.Hub.AddChannel(client, sse.ProjectChannel(projectID))
  c.JSON(http.StatusOK, gin.H{"message": "subscribed", "channel": sse.ProjectChannel(projectID)})
}

// POST /sse/unsubscribe
func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
  client, projectID, ok := h.clientFromRequest(c)
  if !ok {
    return
  }
  h.Hub.RemoveChannel(client, sse.ProjectChannel(projectID))
  c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "channel": sse.ProjectChannel(projectID)})
}

func (h *RealtimeHandler) clientFromRequest(c *gin.Context) (*sse.SSEClient, uuid.UUID, bool) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
    return nil, uuid.Nil, false
  }

  var req struct {
    ClientID  uuid.UUID `json:"client_id"`
    ProjectID uuid.UUID `json:"project_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.ClientID == uuid.Nil || req.ProjectID == uuid.Nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "client_id and project_id required"})
    return nil, uuid.Nil, false
  }

  h.mu.RLock()
  client, exists := h.clients[req.ClientID]
  h.mu.RUnlock()
  if !exists {
    c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection for this client"})
    return nil, uuid.Nil, false
  }
  if client.UserID != rd.UserID {
    c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
    return nil, uuid.Nil, false
  }
  return client, req.ProjectID, true
}
