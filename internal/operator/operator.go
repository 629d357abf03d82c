package operator

import (
	"context"

	"github.com/carson-networks/pos-register/internal/operator/actions"
	"github.com/carson-networks/pos-register/internal/store"
)

// Operator is the worker that processes items from the queue. The server runs
// exactly one, which keeps the store's read-increment-append sequence behind a
// single writer end to end.
type Operator struct {
	store *store.Store
	queue chan ActionItem
}

func NewOperator(s *store.Store, queue chan ActionItem) *Operator {
	return &Operator{
		store: s,
		queue: queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: item.action.Perform(item.ctx, o.store)}
	}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
