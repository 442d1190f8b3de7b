package x

import "github.com/pensionledger/weave"

// Authenticator tells who signed the transaction a context belongs to.
// Handlers take one in their constructor instead of reading signatures
// themselves.
type Authenticator interface {
	// GetConditions lists the fulfilled conditions, the main signer
	// first.
	GetConditions(weave.Context) []weave.Condition
	HasAddress(weave.Context, weave.Address) bool
}

// ChainAuth combines authenticators. A condition is fulfilled when any of
// them fulfills it.
func ChainAuth(auths ...Authenticator) Authenticator {
	return multiAuth(auths)
}

type multiAuth []Authenticator

// GetConditions keeps the order of the authenticators and lists every
// condition once.
func (m multiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var conds []weave.Condition
	for _, auth := range m {
	next:
		for _, c := range auth.GetConditions(ctx) {
			for _, seen := range conds {
				if seen.Equals(c) {
					continue next
				}
			}
			conds = append(conds, c)
		}
	}
	return conds
}

func (m multiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, auth := range m {
		if auth.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first condition, or nil for an unsigned
// transaction.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	if conds := auth.GetConditions(ctx); len(conds) != 0 {
		return conds[0]
	}
	return nil
}
