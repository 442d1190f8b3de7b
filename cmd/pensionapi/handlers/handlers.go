package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/client"
	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/x/pension"
	"github.com/tendermint/tendermint/libs/log"
)

// PensionClient is the part of the node client that the handlers use.
type PensionClient interface {
	Status(context.Context) (*client.Status, error)
	Balance(context.Context, weave.Address) (coin.Coins, error)
	Pensioner(context.Context, weave.Address) (*pension.Pensioner, error)
	PensionerAt(context.Context, int64) (*pension.Pensioner, error)
	Configuration(context.Context) (*pension.Configuration, error)
	Ledger(context.Context) (*pension.Ledger, error)
	LatestSnapshot(context.Context) (*pension.StateSnapshot, error)
}

var _ PensionClient = (*client.Client)(nil)

// Router returns all API routes.
func Router(c PensionClient, logger log.Logger) http.Handler {
	rt := mux.NewRouter()
	rt.Handle("/info", &InfoHandler{Client: c, Logger: logger}).Methods(http.MethodGet)
	rt.Handle("/balance", &BalanceHandler{Client: c, Logger: logger}).Methods(http.MethodGet)
	rt.Handle("/pensioners/by-address/{address}", &PensionerByAddressHandler{Client: c, Logger: logger}).Methods(http.MethodGet)
	rt.Handle("/pensioners/{index}", &PensionerHandler{Client: c, Logger: logger}).Methods(http.MethodGet)
	rt.NotFoundHandler = &DefaultHandler{}
	rt.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})
	return rt
}

// InfoHandler returns the node status and the ledger configuration.
type InfoHandler struct {
	Client PensionClient
	Logger log.Logger
}

func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, err := h.Client.Status(r.Context())
	if err != nil {
		handleErr(w, h.Logger, "status", err)
		return
	}
	conf, err := h.Client.Configuration(r.Context())
	if err != nil {
		handleErr(w, h.Logger, "configuration", err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Version       string                 `json:"version"`
		ChainID       string                 `json:"chain_id"`
		Height        int64                  `json:"height"`
		CatchingUp    bool                   `json:"catching_up"`
		Configuration *pension.Configuration `json:"configuration"`
	}{
		Version:       weave.Version(),
		ChainID:       status.ChainID,
		Height:        status.Height,
		CatchingUp:    status.CatchingUp,
		Configuration: conf,
	})
}

// BalanceHandler returns the ledger totals. With an address query
// parameter the wallet of that address is returned instead.
type BalanceHandler struct {
	Client PensionClient
	Logger log.Logger
}

func (h *BalanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("address"); raw != "" {
		addr, err := weave.ParseAddress(raw)
		if err != nil {
			JSONErr(w, http.StatusBadRequest, "address must be a valid address value.")
			return
		}
		coins, err := h.Client.Balance(r.Context(), addr)
		if err != nil {
			handleErr(w, h.Logger, "wallet balance", err)
			return
		}
		if coins == nil {
			coins = coin.Coins{}
		}
		JSONResp(w, http.StatusOK, struct {
			Address weave.Address `json:"address"`
			Coins   coin.Coins    `json:"coins"`
		}{addr, coins})
		return
	}

	ledger, err := h.Client.Ledger(r.Context())
	if err != nil {
		handleErr(w, h.Logger, "ledger", err)
		return
	}
	snap, err := h.Client.LatestSnapshot(r.Context())
	switch {
	case errors.ErrNotFound.Is(err):
		snap = nil
	case err != nil:
		handleErr(w, h.Logger, "snapshot", err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Balance  *coin.Coin             `json:"balance"`
		Count    int64                  `json:"count"`
		Snapshot *pension.StateSnapshot `json:"snapshot,omitempty"`
	}{ledger.Balance, ledger.Count, snap})
}

// PensionerHandler returns the pensioner registered at the position given
// in the path.
type PensionerHandler struct {
	Client PensionClient
	Logger log.Logger
}

func (h *PensionerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseInt(mux.Vars(r)["index"], 10, 64)
	if err != nil || index < 0 {
		JSONErr(w, http.StatusBadRequest, "index must be a non negative integer.")
		return
	}
	p, err := h.Client.PensionerAt(r.Context(), index)
	if err != nil {
		handleErr(w, h.Logger, "pensioner at", err)
		return
	}
	JSONResp(w, http.StatusOK, p)
}

// PensionerByAddressHandler returns the pensioner registered by the address
// given in the path.
type PensionerByAddressHandler struct {
	Client PensionClient
	Logger log.Logger
}

func (h *PensionerByAddressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	addr, err := weave.ParseAddress(mux.Vars(r)["address"])
	if err != nil || len(addr) == 0 {
		JSONErr(w, http.StatusBadRequest, "address must be a valid address value.")
		return
	}
	p, err := h.Client.Pensioner(r.Context(), addr)
	if err != nil {
		handleErr(w, h.Logger, "pensioner", err)
		return
	}
	JSONResp(w, http.StatusOK, p)
}

// DefaultHandler answers every unknown path.
type DefaultHandler struct{}

func (h *DefaultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// No trailing slash.
	if len(r.URL.Path) > 1 && strings.HasSuffix(r.URL.Path, "/") {
		JSONRedirect(w, http.StatusPermanentRedirect, strings.TrimRight(r.URL.Path, "/"))
		return
	}
	JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// handleErr writes the response matching the error. Errors that are not
// caused by the request are logged and hidden from the client.
func handleErr(w http.ResponseWriter, logger log.Logger, op string, err error) {
	switch {
	case errors.ErrNotFound.Is(err), pension.ErrIndexOutOfRange.Is(err):
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	case errors.ErrInput.Is(err):
		JSONErr(w, http.StatusBadRequest, err.Error())
	case errors.ErrNetwork.Is(err):
		logger.Error("node unavailable", "op", op, "err", err)
		JSONErr(w, http.StatusBadGateway, http.StatusText(http.StatusBadGateway))
	default:
		logger.Error("request failed", "op", op, "err", err)
		JSONErr(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// JSONResp write content as JSON encoded response.
func JSONResp(w http.ResponseWriter, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		code = http.StatusInternalServerError
		b = []byte(`{"errors":["Internal Server Error"]}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// JSONErr write single error as JSON encoded response.
func JSONErr(w http.ResponseWriter, code int, errText string) {
	JSONResp(w, code, struct {
		Errors []string `json:"errors"`
	}{
		Errors: []string{errText},
	})
}

// JSONRedirect return redirect response, but with JSON formatted body.
func JSONRedirect(w http.ResponseWriter, code int, urlStr string) {
	w.Header().Set("Location", urlStr)
	JSONResp(w, code, struct {
		Code     int
		Location string
	}{
		Code:     code,
		Location: urlStr,
	})
}
