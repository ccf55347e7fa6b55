package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/config"
	"github.com/khoahotran/spotme/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishPortfolioEvent_RoundTrip(t *testing.T) {
	w := &fakeWriter{}
	client := &KafkaProducerClient{PortfolioEventsWriter: w, logger: logger.NewNopLogger()}
	e := service.PortfolioEvent{
		Type:        service.EventPortfolioPublished,
		PortfolioID: uuid.New(),
		UserID:      uuid.New(),
		Username:    "joshua",
		PublicURL:   "https://spotme.com/joshua",
		OccurredAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, client.PublishPortfolioEvent(context.Background(), e))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, e.PortfolioID.String(), string(w.msgs[0].Key))
	decoded, err := DecodePortfolioEvent(w.msgs[0])
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestPublishPortfolioEvent_WriteFailure(t *testing.T) {
	client := &KafkaProducerClient{PortfolioEventsWriter: &fakeWriter{err: errors.New("broker down")}, logger: logger.NewNopLogger()}

	err := client.PublishPortfolioEvent(context.Background(), service.PortfolioEvent{Type: service.EventPortfolioPublished})

	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaProducerClient_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestDecodePortfolioEvent_Garbage(t *testing.T) {
	_, err := DecodePortfolioEvent(kafka.Message{Value: []byte("nope")})
	assert.Error(t, err)
}
