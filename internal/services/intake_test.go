package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/plumbline/plumbline-backend/internal/types"
)

func TestInvitedPackages(t *testing.T) {
	electricalItem := &types.ScopeItem{ID: uuid.New()}
	fireAlarmItem := &types.ScopeItem{ID: uuid.New()}
	plumbingItem := &types.ScopeItem{ID: uuid.New()}

	electrical := &types.ScopePackage{ID: uuid.New(), Name: "Electrical", Items: []*types.ScopeItem{electricalItem}}
	fireAlarm := &types.ScopePackage{ID: uuid.New(), Name: "Fire Alarm", Items: []*types.ScopeItem{fireAlarmItem}}
	plumbing := &types.ScopePackage{ID: uuid.New(), Name: "Plumbing", Items: []*types.ScopeItem{plumbingItem}}

	openBids := []*types.ItemBid{
		{ScopeItemID: electricalItem.ID},
		{ScopeItemID: fireAlarmItem.ID},
	}

	invited := invitedPackages([]*types.ScopePackage{electrical, fireAlarm, plumbing}, openBids)
	if len(invited) != 2 {
		t.Fatalf("invited = %d packages, want 2", len(invited))
	}
	if invited[0].Name != "Electrical" || invited[1].Name != "Fire Alarm" {
		t.Errorf("invited = [%s, %s], want [Electrical, Fire Alarm]", invited[0].Name, invited[1].Name)
	}

	if got := invitedPackages([]*types.ScopePackage{plumbing}, openBids); len(got) != 0 {
		t.Errorf("expected no invited packages, got %d", len(got))
	}
}

func TestPackageAmountsFromEntries(t *testing.T) {
	tests := []struct {
		name      string
		entries   []types.LineEntry
		requested []string
		want      map[string]float64
	}{
		{
			name: "breakdown matched by description",
			entries: []types.LineEntry{
				{Description: "Electrical scope", Amount: 32000},
				{Description: "Fire alarm system", Amount: 18000},
			},
			requested: []string{"Electrical", "Fire Alarm"},
			want:      map[string]float64{"Electrical": 32000, "Fire Alarm": 18000},
		},
		{
			name: "matched by trade hint",
			entries: []types.LineEntry{
				{Description: "Base bid", TradeHint: "electrical", Amount: 41000},
			},
			requested: []string{"Electrical"},
			want:      map[string]float64{"Electrical": 41000},
		},
		{
			name: "entry claimed only once",
			entries: []types.LineEntry{
				{Description: "Electrical and fire alarm", Amount: 50000},
			},
			requested: []string{"Electrical", "Fire Alarm"},
			want:      map[string]float64{"Electrical": 50000},
		},
		{
			name: "zero amounts skipped",
			entries: []types.LineEntry{
				{Description: "Electrical", Amount: 0},
			},
			requested: []string{"Electrical"},
			want:      map[string]float64{},
		},
		{
			name: "unrelated entries produce nothing",
			entries: []types.LineEntry{
				{Description: "See attached quote", Amount: 50000},
			},
			requested: []string{"Electrical"},
			want:      map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := packageAmountsFromEntries(tt.entries, tt.requested)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d amounts, want %d: %v", len(got), len(tt.want), got)
			}
			for name, amount := range tt.want {
				if got[name] != amount {
					t.Errorf("amounts[%q] = %v, want %v", name, got[name], amount)
				}
			}
		})
	}
}
