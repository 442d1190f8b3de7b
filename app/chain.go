package app

import (
	"reflect"

	"github.com/pensionledger/weave"
)

// Decorators is an ordered list of decorators waiting for the handler
// they wrap. The first decorator runs first.
type Decorators []weave.Decorator

// ChainDecorators starts a list. Nil entries, typed nil pointers
// included, are skipped, which lets optional decorators be passed as is:
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//   ).WithHandler(router)
func ChainDecorators(ds ...weave.Decorator) Decorators {
	return Decorators(nil).Chain(ds...)
}

// Chain returns a new list with ds appended.
func (d Decorators) Chain(ds ...weave.Decorator) Decorators {
	out := append(Decorators(nil), d...)
	for _, dec := range ds {
		if dec == nil {
			continue
		}
		if v := reflect.ValueOf(dec); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		out = append(out, dec)
	}
	return out
}

// WithHandler returns a handler running every decorator in order and h
// last.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = decorated{dec: d[i], next: h}
	}
	return h
}

// decorated is one decorator bound to the rest of the chain.
type decorated struct {
	dec  weave.Decorator
	next weave.Handler
}

func (d decorated) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
