package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopfront/storefront/lib/myevents"
	"github.com/shopfront/storefront/lib/mypubsub"
	"github.com/shopfront/storefront/lib/mytime"
)

type publisher struct {
	pubsub    mypubsub.PubSub
	enveloper enveloper
}

func New(c context.Context, pubsub mypubsub.PubSub, nower mytime.Nower) (*publisher, func(), error) {
	return &publisher{
		pubsub:    pubsub,
		enveloper: newEnveloper(nower),
	}, func() {}, nil
}

func (p *publisher) CreateTopic(c context.Context, topicName string) error {
	return p.pubsub.CreateTopic(c, topicName)
}

func (p *publisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}

	jsonBytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("error serializing envelope: %s", err)
	}

	err = p.pubsub.Publish(c, topic, string(jsonBytes))
	if err != nil {
		return fmt.Errorf("error publishing event %s: %s", envelope, err)
	}

	return nil
}
