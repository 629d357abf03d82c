package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/pos-register/internal/catalog"
	"github.com/carson-networks/pos-register/internal/handlers/v1/checkout"
	"github.com/carson-networks/pos-register/internal/handlers/v1/products"
	"github.com/carson-networks/pos-register/internal/handlers/v1/status"
	"github.com/carson-networks/pos-register/internal/handlers/v1/transactions"
	"github.com/carson-networks/pos-register/internal/logging"
	"github.com/carson-networks/pos-register/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.TransactionService
	Catalog *catalog.Catalog
}

func (r *Rest) Serve() {
	statusHandler := status.NewHandler()
	productsHandler := products.NewHandler(r.Catalog)
	transactionsHandler := transactions.NewHandler(r.Service)
	checkoutHandler := checkout.NewHandler(r.Service)

	mux := http.NewServeMux()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))
	mux.HandleFunc("/api/products", logging.LoggingWrapper("Products", r.Logger, productsHandler.Handler))
	mux.HandleFunc("/api/transactions", logging.LoggingWrapper("Transactions", r.Logger, transactionsHandler.Handler))
	mux.HandleFunc("/api/checkout", logging.LoggingWrapper("Checkout", r.Logger, checkoutHandler.Handler))

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
