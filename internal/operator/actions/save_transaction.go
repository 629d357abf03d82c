package actions

import (
	"context"

	"github.com/carson-networks/pos-register/internal/record"
	"github.com/carson-networks/pos-register/internal/store"
)

// SaveTransaction persists a fully computed transaction. The store assigns
// the identifier and stamps it onto Transaction and its line items.
type SaveTransaction struct {
	Transaction *record.Transaction
}

func (a *SaveTransaction) Perform(ctx context.Context, st *store.Store) error {
	_, err := st.Save(a.Transaction)
	return err
}
