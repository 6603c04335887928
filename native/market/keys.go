package market

import "fmt"

// Storage keys are namespaced by the market's contract address, one key per
// field. The administrator key doubles as the initialization marker.
func adminKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/admin", contract))
}

func assetKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/asset", contract))
}

func hedgeVaultKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/vault/hedge", contract))
}

func riskVaultKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/vault/risk", contract))
}

func oracleAddressKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/oracle/address", contract))
}

func oracleNameKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/oracle/name", contract))
}

func statusKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/status", contract))
}

func nameKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/name", contract))
}

func descriptionKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/description", contract))
}

func marketIDKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/id", contract))
}

func initializedTimeKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/time/initialized", contract))
}

func liquidatedTimeKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/time/liquidated", contract))
}

func maturedTimeKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/time/matured", contract))
}

func lastOracleTimeKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/time/oracle", contract))
}

func lastKeeperTimeKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/time/keeper", contract))
}

func commissionFeeKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/fee", contract))
}

func riskScoreKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/risk", contract))
}

func isAutomaticKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/automatic", contract))
}

func eventTimestampKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/event/expected", contract))
}

func actualEventTimestampKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/event/actual", contract))
}

func lockSecondsKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/period/lock", contract))
}

func eventThresholdSecondsKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/period/threshold", contract))
}

func unlockSecondsKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/period/unlock", contract))
}

func pausedKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("market/%x/paused", contract))
}
