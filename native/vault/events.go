package vault

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"marketvault/core/types"
)

const (
	EventTypeInitialized       = "vault.initialized"
	EventTypeDeposit           = "vault.deposit"
	EventTypeWithdraw          = "vault.withdraw"
	EventTypeSharesTransferred = "vault.shares_transferred"
	EventTypeAllowanceApproved = "vault.allowance_approved"
)

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewInitializedEvent returns the canonical payload emitted once the vault is
// bound to its administrator and underlying asset.
func NewInitializedEvent(admin, asset [20]byte, name, symbol string, decimals uint32) *types.Event {
	return &types.Event{Type: EventTypeInitialized, Attributes: map[string]string{
		"admin":    hex.EncodeToString(admin[:]),
		"asset":    hex.EncodeToString(asset[:]),
		"name":     name,
		"symbol":   symbol,
		"decimals": strconv.FormatUint(uint64(decimals), 10),
	}}
}

// NewDepositEvent returns the canonical payload for a completed deposit or
// mint.
func NewDepositEvent(caller, receiver [20]byte, assets, shares *big.Int) *types.Event {
	return &types.Event{Type: EventTypeDeposit, Attributes: map[string]string{
		"caller":   hex.EncodeToString(caller[:]),
		"receiver": hex.EncodeToString(receiver[:]),
		"assets":   amountString(assets),
		"shares":   amountString(shares),
	}}
}

// NewWithdrawEvent returns the canonical payload for a completed withdrawal
// or redemption.
func NewWithdrawEvent(caller, receiver, owner [20]byte, assets, shares *big.Int) *types.Event {
	return &types.Event{Type: EventTypeWithdraw, Attributes: map[string]string{
		"caller":   hex.EncodeToString(caller[:]),
		"receiver": hex.EncodeToString(receiver[:]),
		"owner":    hex.EncodeToString(owner[:]),
		"assets":   amountString(assets),
		"shares":   amountString(shares),
	}}
}

// NewSharesTransferredEvent returns the canonical payload for a direct share
// transfer between holders.
func NewSharesTransferredEvent(owner, receiver [20]byte, shares *big.Int) *types.Event {
	return &types.Event{Type: EventTypeSharesTransferred, Attributes: map[string]string{
		"owner":    hex.EncodeToString(owner[:]),
		"receiver": hex.EncodeToString(receiver[:]),
		"shares":   amountString(shares),
	}}
}

// NewAllowanceApprovedEvent returns the canonical payload for a share
// allowance approval.
func NewAllowanceApprovedEvent(owner, spender [20]byte, amount *big.Int, expiryLedger uint64) *types.Event {
	return &types.Event{Type: EventTypeAllowanceApproved, Attributes: map[string]string{
		"owner":        hex.EncodeToString(owner[:]),
		"spender":      hex.EncodeToString(spender[:]),
		"amount":       amountString(amount),
		"expiryLedger": strconv.FormatUint(expiryLedger, 10),
	}}
}
