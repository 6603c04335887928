package token

import "fmt"

func balanceKey(contract, holder [20]byte) []byte {
	return []byte(fmt.Sprintf("token/%x/bal/%x", contract, holder))
}

func allowanceKey(contract, owner, spender [20]byte) []byte {
	return []byte(fmt.Sprintf("token/%x/alw/%x/%x", contract, owner, spender))
}
