package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/agendlyapp/booking-platform/internal/logger"
	"github.com/agendlyapp/booking-platform/internal/models"
)

// Event names double as Kafka topics (prefixed). Downstream consumers (the
// notification service, analytics) subscribe to these; this service only
// emits.
const (
	AppointmentCreated   = "appointment.created"
	AppointmentCancelled = "appointment.cancelled"
)

type AppointmentEvent struct {
	EventID        string    `json:"event_id"`
	TenantID       uint      `json:"tenant_id"`
	ProfessionalID uint      `json:"professional_id"`
	AppointmentID  uint      `json:"appointment_id"`
	PublicRef      string    `json:"public_ref"`
	CustomerPhone  string    `json:"customer_phone"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher pushes appointment lifecycle events to Kafka through a bounded
// queue, mirroring the audit dispatcher: the API never blocks on the broker,
// and a full queue drops events with a log line.
type Publisher struct {
	writer      *kafka.Writer
	topicPrefix string
	queue       chan message
}

type message struct {
	name    string
	payload AppointmentEvent
}

// NewPublisher returns nil when no brokers are configured; a nil *Publisher
// is safe to publish to and does nothing.
func NewPublisher(brokers, topicPrefix string) *Publisher {
	if strings.TrimSpace(brokers) == "" {
		return nil
	}

	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		return nil
	}

	p := &Publisher{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  addrs,
			Balancer: &kafka.Hash{},
		}),
		topicPrefix: topicPrefix,
		queue:       make(chan message, 256),
	}

	go p.worker()
	return p
}

func (p *Publisher) worker() {
	for m := range p.queue {
		body, err := json.Marshal(m.payload)
		if err != nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = p.writer.WriteMessages(ctx, kafka.Message{
			Topic: p.topicPrefix + "." + m.name,
			Key:   []byte(m.payload.PublicRef),
			Value: body,
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(m.payload.EventID)},
				{Key: "event_type", Value: []byte(m.name)},
			},
		})
		cancel()

		if err != nil {
			logger.L().Warn("event publish failed",
				zap.String("event", m.name),
				zap.Error(err))
		}
	}
}

func (p *Publisher) publish(name string, ap *models.Appointment) {
	if p == nil {
		return
	}

	ev := AppointmentEvent{
		EventID:        uuid.NewString(),
		TenantID:       ap.TenantID,
		ProfessionalID: ap.ProfessionalID,
		AppointmentID:  ap.ID,
		PublicRef:      ap.PublicRef,
		CustomerPhone:  ap.Customer.Phone,
		StartTime:      ap.StartTime,
		EndTime:        ap.EndTime,
		OccurredAt:     time.Now().UTC(),
	}

	select {
	case p.queue <- message{name: name, payload: ev}:
	default:
		logger.L().Warn("event queue full, dropping event",
			zap.String("event", name))
	}
}

func (p *Publisher) AppointmentCreated(ap *models.Appointment) {
	p.publish(AppointmentCreated, ap)
}

func (p *Publisher) AppointmentCancelled(ap *models.Appointment) {
	p.publish(AppointmentCancelled, ap)
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	close(p.queue)
	return p.writer.Close()
}
