package pubsub

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const publishTimeout = 10 * time.Second

func New(projectID string) PubSubClient {
	gcp, err := pubsub.NewClient(context.Background(), projectID)
	if err != nil {
		log.Fatalf("Failed to create pubsub client: %v", err)
	}

	return &client{
		gcp:    gcp,
		topics: make(map[EventType]*pubsub.Topic),
	}
}

// topic returns a cached topic handle. Handles hold per-topic publish
// goroutines, so creating one per message leaks.
func (c *client) topic(event EventType) *pubsub.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.topics[event]
	if !ok {
		t = c.gcp.Topic(string(event))
		c.topics[event] = t
	}
	return t
}

func (c *client) SendMessage(topic EventType, data any) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", topic, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	result := c.topic(topic).Publish(ctx, &pubsub.Message{Data: payload})
	serverID, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing %s event: %w", topic, err)
	}
	log.Debug("Published event", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		return fmt.Errorf("decoding event payload: %w", err)
	}
	return nil
}
