// Package domain holds the receipt model and http/service contracts
package domain

// Action is the event kind a receipt records
type Action string

// Allowed actions
const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionHold  Action = "HOLD"
	ActionAlert Action = "ALERT"
)

// Actions lists every allowed action in message order
var Actions = []Action{ActionBuy, ActionSell, ActionHold, ActionAlert}

// valid reports whether a is one of the allowed actions
func (a Action) valid() bool {
	for _, v := range Actions {
		if a == v {
			return true
		}
	}
	return false
}

// Receipt is a persisted trade/alert event
// ID and CreatedAt are assigned exactly once at persistence time
type Receipt struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Action    Action  `json:"action"`
	Price     float64 `json:"price"`
	Size      float64 `json:"size"`
	TS        string  `json:"ts"`
	Note      string  `json:"note,omitempty"`
	Source    string  `json:"source"`
	CreatedAt string  `json:"created_at"`
}

// Input is the raw submission payload before validation
// Price, Size, and TS stay loosely typed so clients may send numbers or
// numeric strings, mismatches surface as validation failures not bind errors
type Input struct {
	Symbol string `json:"symbol"`
	Action string `json:"action"`
	Price  any    `json:"price"`
	Size   any    `json:"size"`
	TS     any    `json:"ts"`
	Note   string `json:"note"`
	Source string `json:"source"`
}

// ListInput carries the query knobs for recent listings
type ListInput struct {
	Limit int `json:"limit"`
}
