package auth

// Authorizer proves that the named principal approved the current invocation.
// Engines call RequireAuth before any state mutation; the host environment is
// expected to back this with real signature verification.
type Authorizer interface {
	RequireAuth(addr [20]byte) error
}

// AllowAll accepts every principal. It is the default wired into engines so
// that embedders who perform authorization upstream do not have to configure
// anything.
type AllowAll struct{}

// RequireAuth implements the Authorizer interface.
func (AllowAll) RequireAuth([20]byte) error { return nil }
