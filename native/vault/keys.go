package vault

import "fmt"

// Storage keys are namespaced by the vault's contract address so a single
// key-value backend can host any number of vault instances. One key per
// field; the administrator key doubles as the initialization marker.
func adminKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/admin", contract))
}

func assetAddressKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/asset/address", contract))
}

func assetNameKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/asset/name", contract))
}

func assetSymbolKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/asset/symbol", contract))
}

func assetDecimalsKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/asset/decimals", contract))
}

func totalSharesKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/shares/total", contract))
}

func sharesOfKey(contract, holder [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/shares/of/%x", contract, holder))
}

func allowanceKey(contract, owner, spender [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/allowance/%x/%x", contract, owner, spender))
}

func lockTimestampKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/lock", contract))
}

func unlockTimestampKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/unlock", contract))
}

func pausedKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/paused", contract))
}

func depositPausedKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/paused/deposit", contract))
}

func withdrawPausedKey(contract [20]byte) []byte {
	return []byte(fmt.Sprintf("vault/%x/paused/withdraw", contract))
}
