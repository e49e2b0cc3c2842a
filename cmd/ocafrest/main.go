// Command ocafrest serves the documents of a storage backend over the REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/application"
	"github.com/sharedcode/ocaf/restapi"
	_ "github.com/sharedcode/ocaf/stdattr"
)

// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ocaf.ConfigureLogging()

	var showVersion bool
	var configFile, address, logLevel string
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.StringVar(&configFile, "config", "", "Path to a .json, .yaml or .toml configuration file (optional)")
	flag.StringVar(&address, "address", "", "Listen address, overrides the configuration file")
	flag.StringVar(&logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR, overrides OCAF_LOG_LEVEL")
	flag.Parse()
	if logLevel != "" {
		ocaf.SetLogLevel(ocaf.ParseLogLevel(logLevel))
	}

	if showVersion {
		fmt.Printf("ocafrest v%s\n", ocaf.Version)
		os.Exit(0)
	}

	opts := ocaf.DefaultOptions()
	if configFile != "" {
		var err error
		if opts, err = ocaf.LoadOptions(configFile); err != nil {
			log.Error("failed to load config file", "file", configFile, "error", err)
			os.Exit(1)
		}
	}
	if address != "" {
		opts.REST.Address = address
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := application.Open(ctx, opts)
	if err != nil {
		log.Error("failed to open application", "error", err)
		os.Exit(1)
	}
	defer app.Close()
	restapi.App = app

	srv := &http.Server{
		Addr:    opts.REST.Address,
		Handler: restapi.NewRouter(opts.REST),
	}
	go func() {
		log.Info("serving", "address", srv.Addr, "driver", opts.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", "error", err)
	}
	if err := app.SaveAll(shutdownCtx); err != nil {
		log.Error("saving documents on exit failed", "error", err)
	}
}
