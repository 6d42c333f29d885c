// mqtt.go - MQTT client used to broadcast room events to the broker
// Topics are <prefix>/<room id>/<event type>, e.g. rooms/3/reservation.created

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"go-room-booking/events"
)

const qosAtLeastOnce = 1

// Client wraps a connected paho client.
type Client struct {
	client paho.Client
	prefix string
}

// Connect dials the broker and waits for the connection to be established.
func Connect(broker, clientID, prefix string) (*Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("mqtt connect %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	return &Client{client: client, prefix: prefix}, nil
}

// Send publishes payload on topic. Strings and byte slices are sent as-is,
// anything else is JSON encoded.
func (c *Client) Send(ctx context.Context, topic string, payload interface{}) error {
	body, err := encode(payload)
	if err != nil {
		return err
	}
	token := c.client.Publish(topic, qosAtLeastOnce, false, body)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish implements events.Publisher.
func (c *Client) Publish(ctx context.Context, ev events.Event) error {
	return c.Send(ctx, Topic(c.prefix, ev), ev)
}

// Close disconnects, giving in-flight messages a short grace period.
func (c *Client) Close() {
	c.client.Disconnect(250)
}

// Topic builds the topic an event is published on.
func Topic(prefix string, ev events.Event) string {
	return prefix + "/" + strconv.FormatUint(uint64(ev.RoomID), 10) + "/" + ev.Type
}

func encode(payload interface{}) ([]byte, error) {
	switch p := payload.(type) {
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode mqtt payload: %w", err)
		}
		return b, nil
	}
}
