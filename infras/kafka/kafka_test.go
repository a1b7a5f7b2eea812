package kafka_test

import (
	"context"
	"testing"

	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/infras/kafka"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	Event     string `json:"event"`
	BookingID string `json:"booking_id"`
}

func TestMessageRoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "room-1", Value: event{Event: "booking.created", BookingID: "b-1"}}

	raw, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("room-1"), raw.Key)
	assert.JSONEq(t, `{"event":"booking.created","booking_id":"b-1"}`, string(raw.Value))

	decoded, err := kafka.Decode[event](raw)
	require.NoError(t, err)
	assert.Equal(t, "b-1", decoded.BookingID)
}

func TestMessageMarshalError(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := kafka.Decode[event](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestPublishWithoutBrokers(t *testing.T) {
	publisher := kafka.New(&config.Config{})

	err := publisher.Publish(context.Background(), "booking-events", kafka.Message{Key: "k", Value: "v"})
	assert.ErrorIs(t, err, kafka.ErrNoBrokers)
	assert.NoError(t, publisher.Close())
}
