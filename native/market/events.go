package market

import (
	"encoding/hex"
	"strconv"

	"marketvault/core/types"
)

const (
	EventTypeInitialized  = "market.initialized"
	EventTypeCanMature    = "market.can_mature"
	EventTypeCanLiquidate = "market.can_liquidate"
	EventTypeMatured      = "market.matured"
	EventTypeLiquidated   = "market.liquidated"
)

// NewInitializedEvent returns the canonical payload emitted when a market
// opens.
func NewInitializedEvent(admin [20]byte, name, marketID string, timestamp int64) *types.Event {
	return &types.Event{Type: EventTypeInitialized, Attributes: map[string]string{
		"admin":     hex.EncodeToString(admin[:]),
		"name":      name,
		"marketId":  marketID,
		"timestamp": strconv.FormatInt(timestamp, 10),
	}}
}

func lifecycleEvent(eventType string, hedge, risk [20]byte, name string, timestamp int64) *types.Event {
	return &types.Event{Type: eventType, Attributes: map[string]string{
		"hedge":     hex.EncodeToString(hedge[:]),
		"risk":      hex.EncodeToString(risk[:]),
		"name":      name,
		"timestamp": strconv.FormatInt(timestamp, 10),
	}}
}

// NewCanMatureEvent signals that an oracle bump flagged the market for
// maturity and a keeper may settle it.
func NewCanMatureEvent(hedge, risk [20]byte, name string, timestamp int64) *types.Event {
	return lifecycleEvent(EventTypeCanMature, hedge, risk, name, timestamp)
}

// NewCanLiquidateEvent signals that an oracle bump flagged the market for
// liquidation.
func NewCanLiquidateEvent(hedge, risk [20]byte, name string, timestamp int64) *types.Event {
	return lifecycleEvent(EventTypeCanLiquidate, hedge, risk, name, timestamp)
}

// NewMaturedEvent records a completed maturity settlement.
func NewMaturedEvent(hedge, risk [20]byte, name string, timestamp int64) *types.Event {
	return lifecycleEvent(EventTypeMatured, hedge, risk, name, timestamp)
}

// NewLiquidatedEvent records a completed liquidation settlement.
func NewLiquidatedEvent(hedge, risk [20]byte, name string, timestamp int64) *types.Event {
	return lifecycleEvent(EventTypeLiquidated, hedge, risk, name, timestamp)
}
