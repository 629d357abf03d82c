// Package store is the append-only file-backed transaction repository. Two
// parallel logs live under the data directory: transactions.txt holds header
// records, line_items.txt holds every line item across all transactions,
// joined by transaction id on read.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/pos-register/internal/config"
	"github.com/carson-networks/pos-register/internal/record"
)

const (
	transactionsFile = "transactions.txt"
	lineItemsFile    = "line_items.txt"
)

// PartialPersistError reports a transaction whose header reached the log but
// whose line items did not all follow. There is no rollback; the header stays.
type PartialPersistError struct {
	TransactionID int
	ItemsWritten  int
	Err           error
}

func (e *PartialPersistError) Error() string {
	return fmt.Sprintf("store: transaction %d partially persisted, %d line items written: %v",
		e.TransactionID, e.ItemsWritten, e.Err)
}

func (e *PartialPersistError) Unwrap() error { return e.Err }

// Store assigns identifiers and persists transactions. Identifier assignment
// uses an in-memory counter seeded from a full header scan and advanced under
// a single mutex, so concurrent savers cannot share an id. Reads take no lock;
// the design assumes no reader overlaps a write.
type Store struct {
	logger *logrus.Logger

	transactionsPath string
	lineItemsPath    string

	mu     sync.Mutex
	nextID int // 0 until seeded from the log
}

func NewStore(env *config.Config, logger *logrus.Logger) *Store {
	return &Store{
		logger:           logger,
		transactionsPath: filepath.Join(env.DataDir, transactionsFile),
		lineItemsPath:    filepath.Join(env.DataDir, lineItemsFile),
	}
}

// NextID reports the identifier the next saved transaction will receive. It
// does not reserve it; use Save to assign and persist atomically.
func (s *Store) NextID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.seedCounter(); err != nil {
		return 0, err
	}
	return s.nextID, nil
}

// Save assigns the next identifier, stamps it onto the transaction and its
// line items, and appends both records. The read-increment-append sequence
// runs under one lock.
func (s *Store) Save(tx *record.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.seedCounter(); err != nil {
		return 0, err
	}

	tx.ID = s.nextID
	for i := range tx.LineItems {
		tx.LineItems[i].TransactionID = tx.ID
	}

	err := s.append(tx)
	s.advanceCounter(tx.ID, err)
	if err != nil {
		return 0, err
	}
	return tx.ID, nil
}

// Append persists a transaction that already carries its identifier, keeping
// the counter ahead of it.
func (s *Store) Append(tx *record.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.seedCounter(); err != nil {
		return err
	}

	err := s.append(tx)
	s.advanceCounter(tx.ID, err)
	return err
}

// LoadAll reads the full transaction log top to bottom, skipping and logging
// rows that fail to decode, then joins line items by rescanning the line-item
// log once per transaction. The rescan is deliberate: it keeps ordering and
// duplicate/partial-row handling identical to the original flat-file layout.
func (s *Store) LoadAll() ([]*record.Transaction, error) {
	transactions, err := s.loadHeaders()
	if err != nil {
		return nil, err
	}

	for _, tx := range transactions {
		items, err := s.loadLineItems(tx.ID)
		if err != nil {
			return nil, err
		}
		tx.LineItems = items
	}
	return transactions, nil
}

// seedCounter initializes the id counter from a full header scan. The caller
// holds mu. A missing log seeds the counter at 1.
func (s *Store) seedCounter() error {
	if s.nextID != 0 {
		return nil
	}

	transactions, err := s.loadHeaders()
	if err != nil {
		return err
	}

	maxID := 0
	for _, tx := range transactions {
		if tx.ID > maxID {
			maxID = tx.ID
		}
	}
	s.nextID = maxID + 1
	return nil
}

// advanceCounter moves the counter past id once the header is on disk. A
// partial persist still consumed the id; any other error did not. The caller
// holds mu.
func (s *Store) advanceCounter(id int, appendErr error) {
	var partial *PartialPersistError
	if appendErr != nil && !errors.As(appendErr, &partial) {
		return
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
}

// append encodes everything first so codec errors leave both logs untouched,
// then writes the header line and the line-item lines. A failure after the
// header write surfaces as *PartialPersistError.
func (s *Store) append(tx *record.Transaction) error {
	headerLine, err := record.EncodeHeader(tx)
	if err != nil {
		return err
	}
	itemLines := make([]string, len(tx.LineItems))
	for i := range tx.LineItems {
		line, err := record.EncodeLineItem(&tx.LineItems[i])
		if err != nil {
			return err
		}
		itemLines[i] = line
	}

	if _, err := appendLines(s.transactionsPath, []string{headerLine}); err != nil {
		s.logger.WithError(err).WithField("transactionID", tx.ID).Error("Store.Append.header write failed")
		return fmt.Errorf("store: appending transaction header: %w", err)
	}

	if len(itemLines) == 0 {
		return nil
	}
	written, err := appendLines(s.lineItemsPath, itemLines)
	if err != nil {
		partial := &PartialPersistError{TransactionID: tx.ID, ItemsWritten: written, Err: err}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"transactionID": tx.ID,
			"itemsWritten":  written,
			"itemsExpected": len(itemLines),
		}).Error("Store.Append.partial persist")
		return partial
	}
	return nil
}

func (s *Store) loadHeaders() ([]*record.Transaction, error) {
	f, err := os.Open(s.transactionsPath)
	if errors.Is(err, os.ErrNotExist) {
		// Absence is a fresh store, not a failure.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: opening transaction log: %w", err)
	}
	defer f.Close()

	var transactions []*record.Transaction
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		tx, err := record.DecodeHeader(line)
		if err != nil {
			s.logger.WithError(err).WithField("line", lineNo).Warn("Store.LoadAll.skipping transaction row")
			continue
		}
		transactions = append(transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("store: reading transaction log: %w", err)
	}
	return transactions, nil
}

func (s *Store) loadLineItems(transactionID int) ([]record.LineItem, error) {
	f, err := os.Open(s.lineItemsPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: opening line-item log: %w", err)
	}
	defer f.Close()

	var items []record.LineItem
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		item, err := record.DecodeLineItem(line)
		if err != nil {
			s.logger.WithError(err).WithField("line", lineNo).Warn("Store.LoadAll.skipping line-item row")
			continue
		}
		if item.TransactionID != transactionID {
			continue
		}
		items = append(items, *item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("store: reading line-item log: %w", err)
	}
	return items, nil
}

// appendLines opens path in append mode, writes each line, and reports how
// many made it out before any failure.
func appendLines(path string, lines []string) (int, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	for i, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return i, err
		}
	}
	return len(lines), nil
}
