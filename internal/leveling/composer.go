package leveling

import (
	"sort"

	"github.com/google/uuid"

	"github.com/plumbline/plumbline-backend/internal/types"
)

const (
	defaultDivisionCode = "01"
	defaultDivisionName = "General Requirements"
)

type EstimateLine struct {
	ScopeItemID uuid.UUID `json:"scope_item_id,omitempty"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
}

type DivisionGroup struct {
	DivisionCode string         `json:"division_code"`
	DivisionName string         `json:"division_name"`
	Lines        []EstimateLine `json:"lines"`
	Total        float64        `json:"total"`
}

// EstimateBreakdown is the client-facing roll-up. Markup is already folded
// into every line amount and never appears as its own line.
type EstimateBreakdown struct {
	Divisions         []DivisionGroup        `json:"divisions"`
	Subtotal          float64                `json:"subtotal"`
	GeneralConditions float64                `json:"general_conditions"`
	OverheadProfit    float64                `json:"overhead_profit"`
	Contingency       float64                `json:"contingency"`
	CustomLineItems   []types.CustomLineItem `json:"custom_line_items,omitempty"`
	GrandTotal        float64                `json:"grand_total"`
}

// ComposeEstimate rolls the resolved per-item amounts up into a
// division-grouped client price. The winning amount comes from leveling;
// items no bidder priced fall back to the manual price, or zero. Items
// without a division land in General Requirements, which also hosts the
// general-conditions line.
func ComposeEstimate(items []*types.ScopeItem, winners map[uuid.UUID]float64, settings *types.EstimateSetting) EstimateBreakdown {
	breakdown := EstimateBreakdown{}
	markup := 1.0
	if settings != nil {
		markup += settings.MarkupPercent
		breakdown.GeneralConditions = settings.GeneralConditions
		breakdown.OverheadProfit = settings.OverheadProfit
		breakdown.Contingency = settings.Contingency
		breakdown.CustomLineItems = append(breakdown.CustomLineItems, settings.CustomLineItems...)
	}

	groups := make(map[string]*DivisionGroup)
	order := make([]string, 0)
	group := func(code, name string) *DivisionGroup {
		g, ok := groups[code]
		if !ok {
			g = &DivisionGroup{DivisionCode: code, DivisionName: name}
			groups[code] = g
			order = append(order, code)
		}
		return g
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		amount, ok := winners[item.ID]
		if !ok && item.FallbackPrice != nil {
			amount = *item.FallbackPrice
		}
		marked := amount * markup

		code, name := defaultDivisionCode, defaultDivisionName
		if item.Division != nil {
			code, name = item.Division.Code, item.Division.Name
		}
		g := group(code, name)
		g.Lines = append(g.Lines, EstimateLine{
			ScopeItemID: item.ID,
			Description: item.Description,
			Amount:      marked,
		})
		g.Total += marked
		breakdown.Subtotal += marked
	}

	if breakdown.GeneralConditions != 0 {
		g := group(defaultDivisionCode, defaultDivisionName)
		g.Lines = append(g.Lines, EstimateLine{
			Description: "General conditions",
			Amount:      breakdown.GeneralConditions,
		})
		g.Total += breakdown.GeneralConditions
	}

	sort.Strings(order)
	for _, code := range order {
		breakdown.Divisions = append(breakdown.Divisions, *groups[code])
	}

	breakdown.GrandTotal = breakdown.Subtotal + breakdown.GeneralConditions + breakdown.OverheadProfit + breakdown.Contingency
	for _, custom := range breakdown.CustomLineItems {
		breakdown.GrandTotal += custom.Amount
	}

	return breakdown
}
