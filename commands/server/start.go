package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pensionledger/weave/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

type startArgs struct {
	bind    string
	metrics string
	debug   bool
}

func parseStartFlags(args []string) (startArgs, error) {
	var sa startArgs
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&sa.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.StringVar(&sa.metrics, flagMetrics, "", "address of the prometheus /metrics endpoint, disabled if empty")
	startFlags.BoolVar(&sa.debug, flagDebug, false, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return sa, errors.Wrap(errors.ErrInput, err.Error())
	}
	return sa, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until the process receives an interrupt. If requested, metrics are
// exposed over HTTP next to it.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	sa, err := parseStartFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()
	return serve(ctx, gen, logger, home, sa)
}

// serve runs the ABCI server and the optional metrics server until the
// context is cancelled or one of them fails.
func serve(ctx context.Context, gen AppGenerator, logger log.Logger, home string, sa startArgs) error {
	// Generate the app in the proper dir
	app, err := gen(home, logger, sa.debug)
	if err != nil {
		return errors.Wrap(err, "cannot create application")
	}

	logger.Info("Starting ABCI app", "bind", sa.bind)
	svr, err := server.NewServer(sa.bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := svr.Start(); err != nil {
			return errors.Wrapf(errors.ErrNetwork, "cannot start abci server: %s", err)
		}
		select {
		case <-ctx.Done():
			return svr.Stop()
		case <-svr.Quit():
			return errors.Wrap(errors.ErrNetwork, "abci server stopped")
		}
	})

	if sa.metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		hs := &http.Server{Addr: sa.metrics, Handler: mux}

		g.Go(func() error {
			logger.Info("Serving metrics", "addr", sa.metrics)
			if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrapf(errors.ErrNetwork, "metrics server: %s", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return hs.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// signalContext returns a context that is cancelled when the process
// receives an interrupt or termination signal.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sig)
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
