package cartevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/myevents"
)

const (
	TopicName         = "cart"
	orderRecordedName = TopicName + ".orderRecorded"
)

type CartEventService interface {
	OnOrderRecorded(c context.Context, topic string, event OrderRecorded) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CartEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case orderRecordedName:
		event := OrderRecorded{}
		err := json.Unmarshal([]byte(envelope.EventPayload), &event)
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		return service.OnOrderRecorded(c, envelope.Topic, event)
	default:
		return myerrors.NewInvalidInputError(fmt.Errorf("unknown event type %s", envelope.EventTypeName))
	}
}

type OrderRecorded struct {
	OrderUID      string
	ProductIDs    []string
	TotalCents    int64
	Currency      string
	PaymentMethod string
	Message       string
}

func (e OrderRecorded) GetEventTypeName() string {
	return orderRecordedName
}

func (e OrderRecorded) GetAggregateName() string {
	return e.OrderUID
}
