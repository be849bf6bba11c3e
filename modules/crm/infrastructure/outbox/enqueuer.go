package outbox

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/outbox"
)

// Table is the crm module's transactional outbox.
var Table = pgx.Identifier{"crm_message_outbox"}

type Enqueuer struct {
	publisher outbox.Publisher
	newID     func() uuid.UUID
}

func NewEnqueuer() *Enqueuer {
	return &Enqueuer{
		publisher: outbox.NewPublisher(),
		newID:     uuid.New,
	}
}

// EnqueueStatusChanged stores the event in the same transaction as the status
// update that produced it.
func (e *Enqueuer) EnqueueStatusChanged(ctx context.Context, ev workorder.StatusChangedEvent) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "failed to encode status change event")
	}

	_, err = e.publisher.Enqueue(ctx, tx, Table, outbox.Message{
		Topic:   workorder.TopicStatusChangedV1,
		EventID: e.newID(),
		Payload: payload,
	})
	return err
}
