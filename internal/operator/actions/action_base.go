package actions

import (
	"context"

	"github.com/carson-networks/pos-register/internal/store"
)

type IAction interface {
	Perform(ctx context.Context, store *store.Store) error
}
