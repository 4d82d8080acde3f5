package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/plumbline/plumbline-backend/internal/clients/redis"
	"github.com/plumbline/plumbline-backend/internal/logger"
	"github.com/plumbline/plumbline-backend/internal/sse"
)

// LevelingNotifier pushes leveling events onto the project channel, locally
// and across instances when a redis bus is configured.
type LevelingNotifier interface {
	BidsReconciled(projectID, subID uuid.UUID, updated int)
	ClarificationPending(projectID, subID uuid.UUID, packages []string, amount float64)
	ClarificationResolved(projectID, subID uuid.UUID, amounts map[string]float64)
	CoverageRefreshed(projectID uuid.UUID)
	EstimateUpdated(projectID uuid.UUID)
}

type levelingNotifier struct {
	log *logger.Logger
	hub *sse.SSEHub
	bus redis.SSEBus
}

func NewLevelingNotifier(log *logger.Logger, hub *sse.SSEHub, bus redis.SSEBus) LevelingNotifier {
	return &levelingNotifier{
		log: log.With("service", "LevelingNotifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *levelingNotifier) emit(msg sse.SSEMessage) {
	if n == nil {
		return
	}
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
	if n.bus != nil {
		if err := n.bus.Publish(context.Background(), msg); err != nil {
			n.log.Warn("Failed to publish SSE message to bus", "error", err)
		}
	}
}

func (n *levelingNotifier) BidsReconciled(projectID, subID uuid.UUID, updated int) {
	if projectID == uuid.Nil {
		return
	}
	n.emit(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventBidsReconciled,
		Data: map[string]any{
			"subcontractor_id": subID,
			"updated_bids":     updated,
		},
	})
}

func (n *levelingNotifier) ClarificationPending(projectID, subID uuid.UUID, packages []string, amount float64) {
	if projectID == uuid.Nil {
		return
	}
	n.emit(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventClarificationPending,
		Data: map[string]any{
			"subcontractor_id":   subID,
			"requested_packages": packages,
			"lump_sum_amount":    amount,
		},
	})
}

func (n *levelingNotifier) ClarificationResolved(projectID, subID uuid.UUID, amounts map[string]float64) {
	if projectID == uuid.Nil {
		return
	}
	n.emit(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventClarificationResolved,
		Data: map[string]any{
			"subcontractor_id": subID,
			"package_amounts":  amounts,
		},
	})
}

// CoverageRefreshed tells listeners the coverage picture for a project
// changed and any leveling view should be re-fetched.
func (n *levelingNotifier) CoverageRefreshed(projectID uuid.UUID) {
	if projectID == uuid.Nil {
		return
	}
	n.emit(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventCoverageRefreshed,
	})
}

func (n *levelingNotifier) EstimateUpdated(projectID uuid.UUID) {
	if projectID == uuid.Nil {
		return
	}
	n.emit(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventEstimateUpdated,
	})
}
