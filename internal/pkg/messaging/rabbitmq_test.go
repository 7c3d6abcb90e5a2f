package messaging

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_InvalidURL(t *testing.T) {
	_, err := NewPublisher("not-a-url", "hr.events", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to RabbitMQ")
}

func TestPublisher_Publish(t *testing.T) {
	url := os.Getenv("TEST_AMQP_URL")
	if url == "" {
		t.Skip("TEST_AMQP_URL not set")
	}

	exchange := "hr.events.test"
	pub, err := NewPublisher(url, exchange, "retail-hr-test")
	require.NoError(t, err)
	defer pub.Close()

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "notification.#", exchange, false, nil))

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pub.Publish(ctx, "notification.leave_submitted", map[string]string{"leave_id": "l-1"}))

	select {
	case d := <-deliveries:
		assert.Equal(t, "application/json", d.ContentType)
		assert.Equal(t, "retail-hr-test", d.AppId)
		assert.Equal(t, "notification.leave_submitted", d.Type)

		var body map[string]string
		require.NoError(t, json.Unmarshal(d.Body, &body))
		assert.Equal(t, "l-1", body["leave_id"])
	case <-ctx.Done():
		t.Fatal("no delivery received")
	}
}
