package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pensionledger/weave/client"
	"github.com/pensionledger/weave/cmd/pensionapi/handlers"
	"github.com/tendermint/tendermint/libs/log"
)

type configuration struct {
	HTTP       string
	Tendermint string
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "pensionapi")

	// A missing .env file is not an error.
	_ = godotenv.Load()

	conf := configuration{
		HTTP:       env("HTTP", ":8000"),
		Tendermint: env("TENDERMINT", "http://localhost:26657"),
	}

	if err := run(conf, logger); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func run(conf configuration, logger log.Logger) error {
	c := client.NewClient(client.NewHTTPConnection(conf.Tendermint))
	srv := &http.Server{
		Addr:         conf.HTTP,
		Handler:      handlers.Router(c, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	logger.Info("listening", "addr", conf.HTTP, "tendermint", conf.Tendermint)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
