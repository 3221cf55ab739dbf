package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"concierge/models"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"go.uber.org/zap"
)

func TestKafkaPublisherSendsKeyedJSON(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)

	var sent *sarama.ProducerMessage
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		sent = msg
		return nil
	})

	pub := newKafkaPublisher(producer, "concierge.events", zap.NewNop())
	evt := New(models.EventBookingStatusChanged, "bk-1", "usr-4", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		map[string]any{"from": "paid", "to": "scheduled"})
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if sent == nil {
		t.Fatal("no message sent")
	}
	if sent.Topic != "concierge.events" {
		t.Errorf("topic = %s", sent.Topic)
	}
	key, _ := sent.Key.Encode()
	if string(key) != "bk-1" {
		t.Errorf("key = %s", key)
	}
	raw, _ := sent.Value.Encode()
	var decoded models.DomainEvent
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.Type != models.EventBookingStatusChanged || decoded.ActorID != "usr-4" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_ = r.Publish(context.Background(), New("a", "1", "", time.Now(), nil))
	_ = r.Publish(context.Background(), New("b", "2", "", time.Now(), nil))
	if got := r.Types(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Types = %v", got)
	}
}
