package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

// OutcomeEvent é o payload publicado para cada candidato processado.
type OutcomeEvent struct {
	OutcomeID      string    `json:"outcome_id"`
	TenantID       string    `json:"tenant_id"`
	ExternalID     string    `json:"external_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	ChannelAddress string    `json:"channel_address"`
	Status         string    `json:"status"`
	MessageSent    bool      `json:"message_sent"`
	LeadID         string    `json:"lead_id"`
	Criteria       string    `json:"criteria"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewOutcomeEvent(o *entity.Outcome) OutcomeEvent {
	return OutcomeEvent{
		OutcomeID:      o.ID,
		TenantID:       o.TenantID,
		ExternalID:     o.ExternalID,
		Name:           o.Name,
		Address:        o.Address,
		Phone:          o.Phone,
		ChannelAddress: o.ChannelAddress,
		Status:         string(o.Status),
		MessageSent:    o.MessageSent,
		LeadID:         o.LeadID,
		Criteria:       o.Criteria,
		CreatedAt:      o.CreatedAt,
	}
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishOutcome(ctx context.Context, o *entity.Outcome) error {
	body, err := json.Marshal(NewOutcomeEvent(o))
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    o.ID,
			Timestamp:    o.CreatedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
