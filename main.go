package main

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/pos-register/api"
	"github.com/carson-networks/pos-register/internal/catalog"
	"github.com/carson-networks/pos-register/internal/config"
	"github.com/carson-networks/pos-register/internal/logging"
	"github.com/carson-networks/pos-register/internal/operator"
	"github.com/carson-networks/pos-register/internal/service"
	"github.com/carson-networks/pos-register/internal/store"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("pos-register starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	productCatalog := catalog.Builtin()
	if envConfig.CatalogFile != "" {
		productCatalog, err = catalog.Load(envConfig.CatalogFile)
		if err != nil {
			logrus.WithError(err).Fatal("catalog.Load")
			return
		}
	}

	fileStore := store.NewStore(envConfig, logger)

	// One worker keeps all writes behind a single writer.
	delegator := operator.NewOperatorDelegator(fileStore, 1)
	delegator.Start()
	defer delegator.Stop()

	svc := service.NewTransactionService(fileStore, delegator, envConfig, logger)

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.Port,
		Service: svc,
		Catalog: productCatalog,
	}
	httpRest.Serve()
}
