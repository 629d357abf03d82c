package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port           string
	DataDir        string
	TaxRatePercent decimal.Decimal
	CatalogFile    string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// Defaults suit a register running out of its working directory.
	env := Config{
		Port:           "8080",
		DataDir:        ".",
		TaxRatePercent: decimal.RequireFromString("8.5"),
		CatalogFile:    "",
	}

	envPort := os.Getenv("POS_PORT")
	envDataDir := os.Getenv("POS_DATA_DIR")
	envTaxRate := os.Getenv("POS_TAX_RATE_PERCENT")
	envCatalogFile := os.Getenv("POS_CATALOG_FILE")

	if len(envPort) != 0 {
		env.Port = envPort
	}

	if len(envDataDir) != 0 {
		env.DataDir = envDataDir
	}

	if len(envTaxRate) != 0 {
		rate, err := decimal.NewFromString(envTaxRate)
		if err != nil {
			return nil, fmt.Errorf("config: POS_TAX_RATE_PERCENT %q: %w", envTaxRate, err)
		}
		env.TaxRatePercent = rate
	}

	if len(envCatalogFile) != 0 {
		env.CatalogFile = envCatalogFile
	}

	return &env, nil
}
