package checkoutevents

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront/lib/myevents"
)

type recordingService struct {
	started   []CheckoutStarted
	completed []CheckoutCompleted
}

func (s *recordingService) OnCheckoutStarted(c context.Context, topic string, event CheckoutStarted) error {
	s.started = append(s.started, event)
	return nil
}

func (s *recordingService) OnCheckoutCompleted(c context.Context, topic string, event CheckoutCompleted) error {
	s.completed = append(s.completed, event)
	return nil
}

func TestDispatchEvent(t *testing.T) {
	t.Run("Checkout started", func(t *testing.T) {
		svc := &recordingService{}

		err := DispatchEvent(context.TODO(), pushMessage(t, CheckoutStarted{
			CheckoutUID: "c-123",
			AmountCents: 2500,
			Currency:    "INR",
		}), svc)

		assert.NoError(t, err)
		assert.Len(t, svc.started, 1)
		assert.Equal(t, "c-123", svc.started[0].CheckoutUID)
	})

	t.Run("Checkout completed", func(t *testing.T) {
		svc := &recordingService{}

		err := DispatchEvent(context.TODO(), pushMessage(t, CheckoutCompleted{
			CheckoutUID: "c-123",
			OrderUID:    "order-1",
			Success:     true,
		}), svc)

		assert.NoError(t, err)
		assert.Len(t, svc.completed, 1)
		assert.Equal(t, "order-1", svc.completed[0].OrderUID)
	})

	t.Run("Unknown event type", func(t *testing.T) {
		envelope := myevents.EventEnvelope{EventTypeName: "checkout.exploded"}
		envelopeBytes, _ := json.Marshal(envelope)
		req := myevents.PushRequest{Message: myevents.PushMessage{Data: envelopeBytes}}
		reqBytes, _ := json.Marshal(req)

		err := DispatchEvent(context.TODO(), strings.NewReader(string(reqBytes)), &recordingService{})

		assert.Error(t, err)
	})

	t.Run("Garbage payload", func(t *testing.T) {
		err := DispatchEvent(context.TODO(), strings.NewReader("not json"), &recordingService{})

		assert.Error(t, err)
	})
}

func pushMessage(t *testing.T, event myevents.Event) *strings.Reader {
	eventBytes, err := json.Marshal(event)
	assert.NoError(t, err)

	envelope := myevents.EventEnvelope{
		UID:           "123",
		Topic:         TopicName,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	}
	envelopeBytes, err := json.Marshal(envelope)
	assert.NoError(t, err)

	req := myevents.PushRequest{
		Message:      myevents.PushMessage{Data: envelopeBytes},
		Subscription: TopicName,
	}
	reqBytes, err := json.Marshal(req)
	assert.NoError(t, err)

	return strings.NewReader(string(reqBytes))
}
