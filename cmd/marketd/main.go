package main

import (
	"fmt"
	"net/http"

	"github.com/dappmarket/marketplace-ledger/internal/config"
	"github.com/dappmarket/marketplace-ledger/internal/config/di"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var container *di.Container

func main() {
	config.Init("marketd")

	var err error
	container, err = di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	container.GetElastic().InstallMappings()

	// Subscribers register themselves against the event stream on build.
	container.GetMarketIndexer()
	if config.Get().AmqpUri != "" {
		container.GetNotifier()
	}
	if config.Get().Storefront.CdnUrl != "" {
		container.GetStorefront()
	}

	go health()

	zap.L().With(
		zap.String("port", config.Get().ApiPort),
		zap.String("feeAccount", container.GetLedger().FeeAccount()),
		zap.Uint64("feePercent", container.GetLedger().FeePercent()),
	).Info("Marketplace Started")

	if err := http.ListenAndServe(":"+config.Get().ApiPort, container.GetApiServer().Router()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start marketplace")
	}
}

func health() {
	if err := http.ListenAndServe(":"+config.Get().HealthPort, healthRouter()); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start health endpoint")
	}
}

func healthRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	return r
}
