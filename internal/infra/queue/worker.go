package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/infra/integration/kommo"
)

// CRMClient define o contrato do CRM externo (Kommo).
type CRMClient interface {
	CreateLead(ctx context.Context, input kommo.CreateLeadInput) (int, error)
}

// Worker consome os outcomes e leva os leads contatados para o funil do CRM.
type Worker struct {
	Channel *amqp.Channel
	CRM     CRMClient
	Logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, crm CRMClient, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{Channel: ch, CRM: crm, Logger: logger.Named("crm-sync")}
}

// Start blocks until ctx is cancelled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("worker aguardando na fila", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

// Acknowledger is implemented by amqp.Delivery.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	w.HandleMessage(ctx, d.Body, &d)
}

// HandleMessage processes one outcome event and acks/nacks it.
func (w *Worker) HandleMessage(ctx context.Context, body []byte, ack Acknowledger) {
	var event OutcomeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.Logger.Warn("❌ JSON inválido, descartando", zap.Error(err))
		// Mensagem podre. Rejeita sem requeue para não travar a fila.
		ack.Nack(false, false)
		return
	}

	if err := w.process(ctx, event); err != nil {
		w.Logger.Error("❌ erro na integração com o CRM",
			zap.String("external_id", event.ExternalID), zap.Error(err))
		ack.Nack(false, false)
		return
	}
	ack.Ack(false)
}

func (w *Worker) process(ctx context.Context, event OutcomeEvent) error {
	if !event.MessageSent {
		// só leads contatados entram no funil
		return nil
	}
	if w.CRM == nil {
		return nil
	}

	leadID, err := w.CRM.CreateLead(ctx, kommo.CreateLeadInput{
		Name:     event.Name,
		Phone:    event.Phone,
		Address:  event.Address,
		Criteria: event.Criteria,
		Origin:   "PROSPECCAO",
	})
	if err != nil {
		return err
	}

	w.Logger.Info("✅ lead sincronizado no CRM",
		zap.String("tenant", event.TenantID),
		zap.String("external_id", event.ExternalID),
		zap.Int("crm_lead_id", leadID))
	return nil
}
