package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewKafkaPublisherTargetsOneTopic(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "activity_sport_type_changed")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	require.Equal(t, "activity_sport_type_changed", w.Topic)
	require.IsType(t, &kafka.Hash{}, w.Balancer)
	require.Equal(t, kafka.RequireAll, w.RequiredAcks)
}

func TestKafkaPublisherWritesJSONKeyedByActivity(t *testing.T) {
	w := &stubWriter{}
	p := &KafkaPublisher{writer: w}
	at := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
	evt := NewSportTypeChanged("act-1", "ath-1", "Peloton", "Bike", 152.4, at)

	_, err := uuid.Parse(evt.EventID)
	require.NoError(t, err)

	require.NoError(t, p.PublishSportTypeChanged(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	require.Equal(t, []byte("act-1"), w.msgs[0].Key)
	require.Equal(t, EventSportTypeChanged, string(w.msgs[0].Headers[0].Value))

	var decoded SportTypeChanged
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	require.Equal(t, evt, decoded)

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &KafkaPublisher{writer: &stubWriter{err: boom}}
	err := p.PublishSportTypeChanged(context.Background(), NewSportTypeChanged("a", "b", "Peloton", "Bike", 1, time.Now()))
	require.ErrorIs(t, err, boom)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	require.NoError(t, p.PublishSportTypeChanged(context.Background(), SportTypeChanged{}))
}
