package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/equiplend/lending-service/internal/model"
	"github.com/equiplend/lending-service/pkg/kafka"
)

const (
	EventRequestSubmitted = "request_submitted"
	EventRequestApproved  = "request_approved"
	EventRequestRejected  = "request_rejected"
	EventRequestReturned  = "request_returned"
	EventRequestOverdue   = "request_overdue"
)

type Event struct {
	Event        string `json:"event"`
	RequestUid   string `json:"requestUid"`
	EquipmentUid string `json:"equipmentUid"`
	Username     string `json:"username"`
	Quantity     int    `json:"quantity"`
}

func newEvent(name string, br model.BorrowRequest) Event {
	return Event{
		Event:        name,
		RequestUid:   br.RequestUid,
		EquipmentUid: br.EquipmentUid,
		Username:     br.Username,
		Quantity:     br.Quantity,
	}
}

type Publisher interface {
	Publish(topic string, v any) error
}

func NewKafkaPublisher(producer sarama.SyncProducer) Publisher {
	return &kafkaPublisher{producer: producer}
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
}

func (p *kafkaPublisher) Publish(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.StringEncoder(data)}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

// publish is fire-and-forget: a broker outage never fails the already
// committed lending operation.
func (s *Service) publish(ev Event) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(kafka.LendingEventsTopic, ev); err != nil {
		s.log.Warn("publish event", zap.String("event", ev.Event), zap.Error(err))
	}
}

// RunOverdueSweep periodically recomputes the overdue set and publishes a
// notice per request. Returns when ctx is cancelled.
func (s *Service) RunOverdueSweep(ctx context.Context, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			overdue, err := s.ListOverdue(ctx, now, "")
			if err != nil {
				s.log.Error("overdue sweep", zap.Error(err))
				continue
			}
			if len(overdue) == 0 {
				continue
			}
			s.log.Info("overdue sweep", zap.Int("count", len(overdue)))
			if s.pub == nil {
				continue
			}
			for _, br := range overdue {
				if err := s.pub.Publish(kafka.NotificationsTopic, newEvent(EventRequestOverdue, br)); err != nil {
					s.log.Warn("publish overdue notice", zap.String("requestUid", br.RequestUid), zap.Error(err))
				}
			}
		}
	}
}
