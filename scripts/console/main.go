// Command console is the menu-driven register for a single operator. It works
// against the same two log files as the HTTP server.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/carson-networks/pos-register/internal/catalog"
	"github.com/carson-networks/pos-register/internal/config"
	"github.com/carson-networks/pos-register/internal/logging"
	"github.com/carson-networks/pos-register/internal/operator"
	"github.com/carson-networks/pos-register/internal/record"
	"github.com/carson-networks/pos-register/internal/service"
	"github.com/carson-networks/pos-register/internal/store"
)

const menuSeparator = "=================================================="

var last4Pattern = regexp.MustCompile(`^\d{4}$`)

type console struct {
	service *service.TransactionService
	store   *store.Store
	catalog *catalog.Catalog
	input   *bufio.Scanner
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive point-of-sale register",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()
			c.run()
			return nil
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump decoded store contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()
			transactions, err := c.store.LoadAll()
			if err != nil {
				return err
			}
			spew.Dump(transactions)
			return nil
		},
	}

	rootCmd.AddCommand(dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*console, func(), error) {
	// Interactive output owns stdout; logs go to stderr.
	logger := logging.SetupLogging()
	logger.Out = os.Stderr

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, nil, err
	}

	productCatalog := catalog.Builtin()
	if envConfig.CatalogFile != "" {
		productCatalog, err = catalog.Load(envConfig.CatalogFile)
		if err != nil {
			return nil, nil, err
		}
	}

	fileStore := store.NewStore(envConfig, logger)
	delegator := operator.NewOperatorDelegator(fileStore, 1)
	delegator.Start()

	return &console{
		service: service.NewTransactionService(fileStore, delegator, envConfig, logger),
		store:   fileStore,
		catalog: productCatalog,
		input:   bufio.NewScanner(os.Stdin),
	}, delegator.Stop, nil
}

func (c *console) run() {
	fmt.Println("=== Point-of-Sale Register ===")

	for {
		c.printMenu()
		switch c.prompt("Enter your choice: ") {
		case "1":
			c.newTransaction()
		case "2":
			c.viewTransactions()
		case "3":
			c.viewSummary()
		case "4":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func (c *console) printMenu() {
	fmt.Println("\n" + menuSeparator)
	fmt.Println("REGISTER MAIN MENU")
	fmt.Println(menuSeparator)
	fmt.Println("1. Process New Transaction")
	fmt.Println("2. View All Transactions")
	fmt.Println("3. View Transaction Summary")
	fmt.Println("4. Exit")
	fmt.Println(menuSeparator)
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	if !c.input.Scan() {
		return ""
	}
	return strings.TrimSpace(c.input.Text())
}

func (c *console) newTransaction() {
	fmt.Println("\n--- NEW TRANSACTION ---")

	var items []service.CheckoutItem
	products := c.catalog.Products()
	for {
		c.printProducts(products)

		index, err := strconv.Atoi(c.prompt(fmt.Sprintf("Select product (1-%d): ", len(products))))
		if err != nil || index < 1 || index > len(products) {
			fmt.Println("Invalid product selection.")
			continue
		}
		product := products[index-1]

		quantity, err := strconv.Atoi(c.prompt("Enter quantity: "))
		if err != nil || quantity <= 0 {
			fmt.Println("Quantity must be a positive number.")
			continue
		}

		items = append(items, service.CheckoutItem{
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
		})
		fmt.Printf("Added: %d x %s = $%s\n", quantity, product.Name,
			product.Price.Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2))

		again := strings.ToLower(c.prompt("Add another item? (y/n): "))
		if again != "y" && again != "yes" {
			break
		}
	}

	if len(items) == 0 {
		fmt.Println("No items added. Transaction cancelled.")
		return
	}

	req := service.CheckoutRequest{Items: items}
	switch strings.ToLower(c.prompt("Select payment method (1=Cash, 2=Card) or type 'Cash'/'Card': ")) {
	case "1", "cash":
		req.PaymentMethod = record.PaymentCash
		paid, err := decimal.NewFromString(c.prompt("Enter amount paid: $"))
		if err != nil {
			fmt.Println("Invalid amount. Transaction cancelled.")
			return
		}
		req.AmountPaid = paid
	case "2", "card":
		req.PaymentMethod = record.PaymentCard
		last4 := c.prompt("Enter card number (last 4 digits): ")
		if !last4Pattern.MatchString(last4) {
			fmt.Println("Invalid card number format. Transaction cancelled.")
			return
		}
		req.CardLast4 = last4
		req.CardHolderName = c.prompt("Enter cardholder name: ")
		req.CardExpiry = c.prompt("Enter expiry date (MM/YY): ")
	default:
		fmt.Println("Invalid payment method. Transaction cancelled.")
		return
	}

	tx, err := c.service.Checkout(context.Background(), req)
	if errors.Is(err, service.ErrInsufficientPayment) {
		fmt.Println("Insufficient payment. Transaction cancelled.")
		return
	}
	if err != nil {
		fmt.Printf("Could not save transaction: %v\n", err)
		return
	}

	fmt.Printf("Subtotal: $%s  Tax: $%s  Total: $%s\n",
		tx.Subtotal.StringFixed(2), tx.TaxAmount.StringFixed(2), tx.TotalDue.StringFixed(2))
	if tx.PaymentMethod == record.PaymentCash && !tx.ChangeAmount.IsZero() {
		fmt.Printf("Change due: $%s\n", tx.ChangeAmount.StringFixed(2))
	}
	fmt.Printf("Transaction %d completed successfully!\n", tx.ID)
}

func (c *console) printProducts(products []catalog.Product) {
	fmt.Println("\n--- PRODUCT MENU ---")
	for i, p := range products {
		fmt.Printf("%d. %-18s $%-7s - %s\n", i+1, p.Name, p.Price.StringFixed(2), p.Description)
	}
}

func (c *console) viewTransactions() {
	transactions, err := c.service.ListTransactions(context.Background())
	if err != nil {
		fmt.Printf("Could not load transactions: %v\n", err)
		return
	}
	if len(transactions) == 0 {
		fmt.Println("No transactions found.")
		return
	}

	fmt.Println("\n--- ALL TRANSACTIONS ---")
	fmt.Printf("%-5s %-20s %-10s %-10s %-10s %-8s %-10s\n",
		"ID", "Date", "Subtotal", "Tax", "Total", "Method", "Paid")
	fmt.Println(strings.Repeat("-", 80))
	for _, tx := range transactions {
		fmt.Printf("%-5d %-20s $%-9s $%-9s $%-9s %-8s $%-9s\n",
			tx.ID,
			tx.Timestamp.Format(record.TimeLayout),
			tx.Subtotal.StringFixed(2),
			tx.TaxAmount.StringFixed(2),
			tx.TotalDue.StringFixed(2),
			tx.PaymentMethod,
			tx.AmountPaid.StringFixed(2))
	}
	fmt.Printf("\nTotal transactions: %d\n", len(transactions))
}

func (c *console) viewSummary() {
	summary, err := c.service.Summary(context.Background())
	if err != nil {
		fmt.Printf("Could not load summary: %v\n", err)
		return
	}
	if summary.Count == 0 {
		fmt.Println("No transactions found.")
		return
	}

	fmt.Println("\n--- TRANSACTION SUMMARY ---")
	fmt.Printf("Total Transactions: %d\n", summary.Count)
	fmt.Printf("Total Sales: $%s\n", summary.TotalSales.StringFixed(2))
	fmt.Printf("Total Tax Collected: $%s\n", summary.TotalTax.StringFixed(2))
	fmt.Printf("Average Transaction: $%s\n", summary.Average.StringFixed(2))
	fmt.Println()
	fmt.Printf("Cash Transactions: %d - $%s\n", summary.CashCount, summary.CashTotal.StringFixed(2))
	fmt.Printf("Card Transactions: %d - $%s\n", summary.CardCount, summary.CardTotal.StringFixed(2))
}
