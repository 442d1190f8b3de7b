/*
Package pensiond assembles the pension ledger node: the decorator chain,
the message routes, the query paths and the iavl backed store.
*/
package pensiond

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/app"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/orm"
	"github.com/pensionledger/weave/store/iavl"
	"github.com/pensionledger/weave/x"
	"github.com/pensionledger/weave/x/cash"
	"github.com/pensionledger/weave/x/pension"
	"github.com/pensionledger/weave/x/sigs"
	"github.com/pensionledger/weave/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// decorators run around every message handler, outermost first. A check
// is rolled back as a whole when it fails. A failed delivery keeps the
// signature sequences, only the handler changes are rolled back.
func decorators(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		utils.NewSavepoint().OnDeliver(),
	)
}

func routes(metrics *pension.Metrics) *app.Router {
	auth := x.ChainAuth(sigs.Authenticate{})
	wallets := cash.NewController(cash.NewBucket())

	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, wallets)
	pension.RegisterRoutes(r, auth, wallets, metrics)
	return r
}

// queries serves "/wallets", "/auth", the pension buckets and the raw
// store under "/".
func queries() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		pension.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack returns the handler of the ledger, the decorators around the cash
// and pension routes.
//
// Stack registers its collectors in reg and panics when reg already holds
// them, so every call needs a registry of its own. A nil reg is the default
// prometheus registry, which allows a single call per process.
func Stack(reg prometheus.Registerer) weave.Handler {
	return decorators(utils.NewMetrics(reg)).WithHandler(routes(pension.NewMetrics(reg)))
}

// Application opens the store at dbPath and returns a BaseApp running h.
// An empty dbPath keeps the state in memory.
func Application(name string, h weave.Handler, decode weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := openStore(dbPath)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "open store")
	}
	state := app.NewStoreApp(name, kv, queries(), context.Background())
	return app.NewBaseApp(state, decode, h, debug), nil
}

func openStore(dbPath string) (weave.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q: %s", dbPath, err)
	}
	// iavl adds the ".db" extension itself.
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path)), nil
}
