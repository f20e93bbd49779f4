package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

// fakeReader serves queued messages, then blocks until ctx is done.
type fakeReader struct {
	queue     []kafka.Message
	committed []int64
	fetchErr  error
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if f.fetchErr != nil {
		return kafka.Message{}, f.fetchErr
	}
	if len(f.queue) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		f.committed = append(f.committed, msg.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func TestNewProducer(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}, Topic: "notifications"})

	writer, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "notifications", writer.Topic)
	assert.Equal(t, 1, writer.MaxAttempts)
	assert.Equal(t, kafka.RequireAll, writer.RequiredAcks)
	assert.IsType(t, &kafka.Hash{}, writer.Balancer)
}

func TestProducer_Send(t *testing.T) {
	t.Run("writes keyed message", func(t *testing.T) {
		writer := &fakeWriter{}
		p := &Producer{writer: writer, topic: "notifications"}

		require.NoError(t, p.Send(context.Background(), "bob@example.com", []byte(`{"id":"1"}`)))
		require.Len(t, writer.messages, 1)
		assert.Equal(t, "bob@example.com", string(writer.messages[0].Key))
		assert.Equal(t, `{"id":"1"}`, string(writer.messages[0].Value))
	})

	t.Run("wraps write errors", func(t *testing.T) {
		writeErr := errors.New("leader not available")
		p := &Producer{writer: &fakeWriter{err: writeErr}, topic: "notifications"}

		err := p.Send(context.Background(), "k", []byte("v"))
		assert.ErrorIs(t, err, writeErr)
	})

	t.Run("close", func(t *testing.T) {
		writer := &fakeWriter{}
		p := &Producer{writer: writer}
		require.NoError(t, p.Close())
		assert.True(t, writer.closed)
	})
}

func TestSubscriber_Subscribe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("commits every message including failed ones", func(t *testing.T) {
		reader := &fakeReader{queue: []kafka.Message{
			{Offset: 10, Value: []byte("a")},
			{Offset: 11, Value: []byte("b")},
		}}
		s := &Subscriber{reader: reader, logger: logger}

		ctx, cancel := context.WithCancel(context.Background())
		var seen []string
		err := s.Subscribe(ctx, func(ctx context.Context, value []byte) error {
			seen = append(seen, string(value))
			if len(seen) == 2 {
				cancel()
				return errors.New("handler failed")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, seen)
		assert.Equal(t, []int64{10, 11}, reader.committed)
	})

	t.Run("fetch error", func(t *testing.T) {
		fetchErr := errors.New("group coordinator unavailable")
		s := &Subscriber{reader: &fakeReader{fetchErr: fetchErr}, logger: logger}

		err := s.Subscribe(context.Background(), func(ctx context.Context, value []byte) error { return nil })
		assert.ErrorIs(t, err, fetchErr)
	})
}
