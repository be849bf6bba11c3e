package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/modules/crm/domain/entities/notification"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/eventbus"
	"github.com/rsmhq/rsm/pkg/outbox"
)

const handleTimeout = 30 * time.Second

// Mailer delivers a customer notification. The default implementation only
// logs; real transports plug in here.
type Mailer interface {
	Send(ctx context.Context, customerID uint, payload []byte) error
}

type logMailer struct {
	log *logrus.Logger
}

func (m *logMailer) Send(_ context.Context, customerID uint, payload []byte) error {
	m.log.WithFields(logrus.Fields{
		"customer_id": customerID,
		"payload":     string(payload),
	}).Info("crm: mail notification dispatched")
	return nil
}

// NotificationHandler turns committed status-changed events into
// notifications_log rows. Only transitions into waiting_customer notify the
// customer.
type NotificationHandler struct {
	pool   *pgxpool.Pool
	logs   notification.Repository
	mailer Mailer
	log    *logrus.Logger
}

func NewNotificationHandler(
	pool *pgxpool.Pool,
	logs notification.Repository,
	mailer Mailer,
	log *logrus.Logger,
) *NotificationHandler {
	if mailer == nil {
		mailer = &logMailer{log: log}
	}
	return &NotificationHandler{
		pool:   pool,
		logs:   logs,
		mailer: mailer,
		log:    log,
	}
}

// Register subscribes the handler to outbox deliveries on the bus.
func (h *NotificationHandler) Register(bus eventbus.EventBus) {
	bus.Subscribe(h.onOutboxMessage)
}

func (h *NotificationHandler) onOutboxMessage(meta *outbox.Meta, topic string, payload json.RawMessage) error {
	if topic != workorder.TopicStatusChangedV1 {
		return nil
	}

	var ev workorder.StatusChangedEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return errors.Wrap(err, "failed to decode status change event")
	}
	if ev.NewStatus != workorder.StatusWaitingCustomer {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	ctx = composables.WithPool(ctx, h.pool)

	return h.notify(ctx, meta, ev)
}

func (h *NotificationHandler) notify(ctx context.Context, meta *outbox.Meta, ev workorder.StatusChangedEvent) error {
	eventID := meta.EventID.String()

	sent, err := h.logs.ExistsSentForEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if sent {
		h.log.WithField("event_id", eventID).Debug("crm: notification already sent, skipping redelivery")
		return nil
	}

	previous := ""
	if ev.OldStatus != "" {
		previous = string(ev.OldStatus)
	}
	payload, err := json.Marshal(map[string]any{
		"event_id":        eventID,
		"work_order_id":   ev.WorkOrderID,
		"title":           ev.Title,
		"previous_status": previous,
		"new_status":      string(ev.NewStatus),
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode notification payload")
	}

	entry := notification.NewLog(ev.WorkOrderID, ev.CustomerID, notification.ChannelMail, payload)

	sendErr := h.mailer.Send(ctx, ev.CustomerID, payload)
	if sendErr != nil {
		entry = entry.MarkFailed(sendErr.Error())
	} else {
		entry = entry.MarkSent(time.Now())
	}

	if err := runInTx(ctx, func(txCtx context.Context) error {
		_, err := h.logs.Create(txCtx, entry)
		return err
	}); err != nil {
		return err
	}

	if sendErr != nil {
		h.log.WithError(sendErr).WithFields(logrus.Fields{
			"event_id":      eventID,
			"work_order_id": ev.WorkOrderID,
		}).Warn("crm: notification delivery failed")
		return sendErr
	}

	h.log.WithFields(logrus.Fields{
		"event_id":      eventID,
		"work_order_id": ev.WorkOrderID,
		"customer_id":   ev.CustomerID,
	}).Info("crm: notification recorded")
	return nil
}

var runInTx = composables.InTx
