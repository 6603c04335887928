package market

import (
	"encoding/hex"
	"fmt"
)

// KVStore is the flat key-value surface the engine persists through.
type KVStore interface {
	KVHas(key []byte) (bool, error)
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	// WithRollback runs fn and discards every write made through the store
	// when fn returns an error.
	WithRollback(fn func() error) error
}

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
		return addr, fmt.Errorf("market: decode address: %w", err)
	}
	if len(raw) != len(addr) {
		return addr, fmt.Errorf("market: decode address: unexpected length %d", len(raw))
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
		return [20]byte{}, fmt.Errorf("market: missing storage entry %s", key)
	}
	return decodeAddr(encoded)
}

func (s *state) writeAddr(key []byte, addr [20]byte) error {
	return s.kv.KVPut(key, encodeAddr(addr))
}

func (s *state) readString(key []byte) (string, error) {
	var value string
	if _, err := s.kv.KVGet(key, &value); err != nil {
		return "", err
	}
	return value, nil
}

func (s *state) readInt64(key []byte) (int64, error) {
	var value int64
	if _, err := s.kv.KVGet(key, &value); err != nil {
		return 0, err
	}
	return value, nil
}

// Optional timestamps distinguish "never recorded" from zero.
func (s *state) readOptionalInt64(key []byte) (int64, bool, error) {
	var value int64
	ok, err := s.kv.KVGet(key, &value)
	if err != nil {
		return 0, false, err
	}
	return value, ok, nil
}

func (s *state) hasAdministrator() (bool, error) {
	return s.kv.KVHas(adminKey(s.addr))
}

func (s *state) readAdministrator() ([20]byte, error) {
	return s.readAddr(adminKey(s.addr))
}

func (s *state) writeAdministrator(admin [20]byte) error {
	return s.writeAddr(adminKey(s.addr), admin)
}

func (s *state) readAsset() ([20]byte, error) {
	return s.readAddr(assetKey(s.addr))
}

func (s *state) writeAsset(asset [20]byte) error {
	return s.writeAddr(assetKey(s.addr), asset)
}

func (s *state) readHedgeVault() ([20]byte, error) {
	return s.readAddr(hedgeVaultKey(s.addr))
}

func (s *state) writeHedgeVault(addr [20]byte) error {
	return s.writeAddr(hedgeVaultKey(s.addr), addr)
}

func (s *state) readRiskVault() ([20]byte, error) {
	return s.readAddr(riskVaultKey(s.addr))
}

func (s *state) writeRiskVault(addr [20]byte) error {
	return s.writeAddr(riskVaultKey(s.addr), addr)
}

func (s *state) readOracleAddress() ([20]byte, error) {
	return s.readAddr(oracleAddressKey(s.addr))
}

func (s *state) writeOracleAddress(addr [20]byte) error {
	return s.writeAddr(oracleAddressKey(s.addr), addr)
}

func (s *state) readOracleName() (string, error) {
	return s.readString(oracleNameKey(s.addr))
}

func (s *state) writeOracleName(name string) error {
	return s.kv.KVPut(oracleNameKey(s.addr), name)
}

func (s *state) readStatus() (Status, error) {
	var status uint32
	if _, err := s.kv.KVGet(statusKey(s.addr), &status); err != nil {
		return 0, err
	}
	return Status(status), nil
}

func (s *state) writeStatus(status Status) error {
	return s.kv.KVPut(statusKey(s.addr), uint32(status))
}

func (s *state) readName() (string, error) {
	return s.readString(nameKey(s.addr))
}

func (s *state) writeName(name string) error {
	return s.kv.KVPut(nameKey(s.addr), name)
}

func (s *state) readDescription() (string, error) {
	return s.readString(descriptionKey(s.addr))
}

func (s *state) writeDescription(description string) error {
	return s.kv.KVPut(descriptionKey(s.addr), description)
}

func (s *state) readMarketID() (string, error) {
	return s.readString(marketIDKey(s.addr))
}

func (s *state) writeMarketID(id string) error {
	return s.kv.KVPut(marketIDKey(s.addr), id)
}

func (s *state) readInitializedTime() (int64, error) {
	return s.readInt64(initializedTimeKey(s.addr))
}

func (s *state) writeInitializedTime(ts int64) error {
	return s.kv.KVPut(initializedTimeKey(s.addr), ts)
}

func (s *state) readLiquidatedTime() (int64, bool, error) {
	return s.readOptionalInt64(liquidatedTimeKey(s.addr))
}

func (s *state) writeLiquidatedTime(ts int64) error {
	return s.kv.KVPut(liquidatedTimeKey(s.addr), ts)
}

func (s *state) readMaturedTime() (int64, bool, error) {
	return s.readOptionalInt64(maturedTimeKey(s.addr))
}

func (s *state) writeMaturedTime(ts int64) error {
	return s.kv.KVPut(maturedTimeKey(s.addr), ts)
}

func (s *state) readLastOracleTime() (int64, bool, error) {
	return s.readOptionalInt64(lastOracleTimeKey(s.addr))
}

func (s *state) writeLastOracleTime(ts int64) error {
	return s.kv.KVPut(lastOracleTimeKey(s.addr), ts)
}

func (s *state) readLastKeeperTime() (int64, bool, error) {
	return s.readOptionalInt64(lastKeeperTimeKey(s.addr))
}

func (s *state) writeLastKeeperTime(ts int64) error {
	return s.kv.KVPut(lastKeeperTimeKey(s.addr), ts)
}

func (s *state) readCommissionFee() (uint32, error) {
	var fee uint32
	if _, err := s.kv.KVGet(commissionFeeKey(s.addr), &fee); err != nil {
		return 0, err
	}
	return fee, nil
}

func (s *state) writeCommissionFee(fee uint32) error {
	return s.kv.KVPut(commissionFeeKey(s.addr), fee)
}

func (s *state) readRiskScore() (Risk, error) {
	var risk uint32
	if _, err := s.kv.KVGet(riskScoreKey(s.addr), &risk); err != nil {
		return 0, err
	}
	return Risk(risk), nil
}

func (s *state) writeRiskScore(risk Risk) error {
	return s.kv.KVPut(riskScoreKey(s.addr), uint32(risk))
}

func (s *state) readIsAutomatic() (bool, error) {
	var automatic bool
	if _, err := s.kv.KVGet(isAutomaticKey(s.addr), &automatic); err != nil {
		return false, err
	}
	return automatic, nil
}

func (s *state) writeIsAutomatic(automatic bool) error {
	return s.kv.KVPut(isAutomaticKey(s.addr), automatic)
}

func (s *state) readEventTimestamp() (int64, error) {
	return s.readInt64(eventTimestampKey(s.addr))
}

func (s *state) writeEventTimestamp(ts int64) error {
	return s.kv.KVPut(eventTimestampKey(s.addr), ts)
}

func (s *state) readActualEventTimestamp() (int64, bool, error) {
	return s.readOptionalInt64(actualEventTimestampKey(s.addr))
}

func (s *state) writeActualEventTimestamp(ts int64) error {
	return s.kv.KVPut(actualEventTimestampKey(s.addr), ts)
}

func (s *state) readLockSeconds() (int64, error) {
	return s.readInt64(lockSecondsKey(s.addr))
}

func (s *state) writeLockSeconds(seconds int64) error {
	return s.kv.KVPut(lockSecondsKey(s.addr), seconds)
}

func (s *state) readEventThresholdSeconds() (int64, error) {
	return s.readInt64(eventThresholdSecondsKey(s.addr))
}

func (s *state) writeEventThresholdSeconds(seconds int64) error {
	return s.kv.KVPut(eventThresholdSecondsKey(s.addr), seconds)
}

func (s *state) readUnlockSeconds() (int64, error) {
	return s.readInt64(unlockSecondsKey(s.addr))
}

func (s *state) writeUnlockSeconds(seconds int64) error {
	return s.kv.KVPut(unlockSecondsKey(s.addr), seconds)
}

func (s *state) isPaused() (bool, error) {
	return s.kv.KVHas(pausedKey(s.addr))
}

func (s *state) writePaused() error {
	return s.kv.KVPut(pausedKey(s.addr), true)
}

func (s *state) removePaused() error {
	return s.kv.KVDelete(pausedKey(s.addr))
}
