package vault

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// KVStore is the flat key-value surface the engine persists through. The
// storage package provides the production implementation; tests may supply
// an in-memory map.
type KVStore interface {
	KVHas(key []byte) (bool, error)
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	// WithRollback runs fn and discards every write made through the store
	// when fn returns an error.
	WithRollback(fn func() error) error
}

// AllowanceData is a per (owner, spender) share-spending approval with a
// ledger-sequence expiry.
type AllowanceData struct {
	Amount       *big.Int `json:"amount"`
	ExpiryLedger uint64   `json:"expiryLedger"`
}

// state wraps the KV store with typed per-field accessors, preserving the
// has/read/write access pattern of the storage layer.
type state struct {
	kv   KVStore
	addr [20]byte
}

func encodeAddr(addr [20]byte) string {
	return hex.EncodeToString(addr[:])
}

func decodeAddr(encoded string) ([20]byte, error) {
	var addr [20]byte
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return addr, fmt.Errorf("vault: decode address: %w", err)
	}
	if len(raw) != len(addr) {
		return addr, fmt.Errorf("vault: decode address: unexpected length %d", len(raw))
	}
	copy(addr[:], raw)
	return addr, nil
}

func (s *state) readAddr(key []byte) ([20]byte, error) {
	var encoded string
	ok, err := s.kv.KVGet(key, &encoded)
	if err != nil {
		return [20]byte{}, err
	}
	if !ok {
		return [20]byte{}, fmt.Errorf("vault: missing storage entry %s", key)
	}
	return decodeAddr(encoded)
}

func (s *state) hasAdministrator() (bool, error) {
	return s.kv.KVHas(adminKey(s.addr))
}

func (s *state) readAdministrator() ([20]byte, error) {
	return s.readAddr(adminKey(s.addr))
}

func (s *state) writeAdministrator(admin [20]byte) error {
	return s.kv.KVPut(adminKey(s.addr), encodeAddr(admin))
}

func (s *state) readAssetAddress() ([20]byte, error) {
	return s.readAddr(assetAddressKey(s.addr))
}

func (s *state) writeAssetAddress(asset [20]byte) error {
	return s.kv.KVPut(assetAddressKey(s.addr), encodeAddr(asset))
}

func (s *state) readAssetName() (string, error) {
	var name string
	if _, err := s.kv.KVGet(assetNameKey(s.addr), &name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *state) writeAssetName(name string) error {
	return s.kv.KVPut(assetNameKey(s.addr), name)
}

func (s *state) readAssetSymbol() (string, error) {
	var symbol string
	if _, err := s.kv.KVGet(assetSymbolKey(s.addr), &symbol); err != nil {
		return "", err
	}
	return symbol, nil
}

func (s *state) writeAssetSymbol(symbol string) error {
	return s.kv.KVPut(assetSymbolKey(s.addr), symbol)
}

func (s *state) readAssetDecimals() (uint32, error) {
	var decimals uint32
	if _, err := s.kv.KVGet(assetDecimalsKey(s.addr), &decimals); err != nil {
		return 0, err
	}
	return decimals, nil
}

func (s *state) writeAssetDecimals(decimals uint32) error {
	return s.kv.KVPut(assetDecimalsKey(s.addr), decimals)
}

func (s *state) readTotalShares() (*big.Int, error) {
	var total big.Int
	ok, err := s.kv.KVGet(totalSharesKey(s.addr), &total)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return &total, nil
}

func (s *state) writeTotalShares(total *big.Int) error {
	return s.kv.KVPut(totalSharesKey(s.addr), total)
}

// readSharesOf defaults to zero for absent holders.
func (s *state) readSharesOf(holder [20]byte) (*big.Int, error) {
	var shares big.Int
	ok, err := s.kv.KVGet(sharesOfKey(s.addr, holder), &shares)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return &shares, nil
}

func (s *state) writeSharesOf(holder [20]byte, shares *big.Int) error {
	return s.kv.KVPut(sharesOfKey(s.addr, holder), shares)
}

func (s *state) readAllowance(owner, spender [20]byte) (AllowanceData, bool, error) {
	var allowance AllowanceData
	ok, err := s.kv.KVGet(allowanceKey(s.addr, owner, spender), &allowance)
	if err != nil {
		return AllowanceData{}, false, err
	}
	return allowance, ok, nil
}

func (s *state) writeAllowance(owner, spender [20]byte, allowance AllowanceData) error {
	return s.kv.KVPut(allowanceKey(s.addr, owner, spender), allowance)
}

func (s *state) removeAllowance(owner, spender [20]byte) error {
	return s.kv.KVDelete(allowanceKey(s.addr, owner, spender))
}

func (s *state) readLockTimestamp() (int64, error) {
	var lock int64
	if _, err := s.kv.KVGet(lockTimestampKey(s.addr), &lock); err != nil {
		return 0, err
	}
	return lock, nil
}

func (s *state) writeLockTimestamp(lock int64) error {
	return s.kv.KVPut(lockTimestampKey(s.addr), lock)
}

func (s *state) readUnlockTimestamp() (int64, error) {
	var unlock int64
	if _, err := s.kv.KVGet(unlockTimestampKey(s.addr), &unlock); err != nil {
		return 0, err
	}
	return unlock, nil
}

func (s *state) writeUnlockTimestamp(unlock int64) error {
	return s.kv.KVPut(unlockTimestampKey(s.addr), unlock)
}

// Pause flags are presence-keyed: a written key means the flag is set.

func (s *state) isPaused() (bool, error) {
	return s.kv.KVHas(pausedKey(s.addr))
}

func (s *state) writePaused() error {
	return s.kv.KVPut(pausedKey(s.addr), true)
}

func (s *state) removePaused() error {
	return s.kv.KVDelete(pausedKey(s.addr))
}

func (s *state) depositPaused() (bool, error) {
	return s.kv.KVHas(depositPausedKey(s.addr))
}

func (s *state) writeDepositPaused() error {
	return s.kv.KVPut(depositPausedKey(s.addr), true)
}

func (s *state) removeDepositPaused() error {
	return s.kv.KVDelete(depositPausedKey(s.addr))
}

func (s *state) withdrawPaused() (bool, error) {
	return s.kv.KVHas(withdrawPausedKey(s.addr))
}

func (s *state) writeWithdrawPaused() error {
	return s.kv.KVPut(withdrawPausedKey(s.addr), true)
}

func (s *state) removeWithdrawPaused() error {
	return s.kv.KVDelete(withdrawPausedKey(s.addr))
}
