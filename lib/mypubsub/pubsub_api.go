package mypubsub

import "context"

// PubSub decouples event transport: an in-process fake locally, Cloud
// Pub/Sub when deployed. Subscribe registers a push endpoint for a topic.
//
//go:generate mockgen -source=pubsub_api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	Publish(c context.Context, topic string, data string) error
	CreateTopic(c context.Context, topic string) error
	Subscribe(c context.Context, topic string, urlToPostTo string) error
}

// New is bound to an implementation by an init() based on the environment.
var New func(c context.Context) (PubSub, func(), error)
