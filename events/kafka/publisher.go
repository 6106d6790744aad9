// Package kafka publishes the outcome of a ledger run to a Kafka topic.
//
// Every message is a JSON document keyed by client id, so all the events of
// one client land on the same partition. Two event types are produced,
// named by the "event" header: account summaries and rejected records.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/etnz/payments"
	"github.com/segmentio/kafka-go"
)

// Event header values.
const (
	EventAccountSummary = "account.summary"
	EventRecordRejected = "record.rejected"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "ledger.accounts"

// MessageWriter is the part of kafka.Writer used by the Publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher buffers ledger events and writes them in a single batch.
type Publisher struct {
	writer  MessageWriter
	runID   string
	pending []kafka.Message
	err     error
}

// NewPublisher creates a Publisher writing to topic on brokers. runID tags
// every message so consumers can group the events of one run.
func NewPublisher(brokers []string, topic, runID string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}, runID)
}

// NewPublisherWithWriter creates a Publisher on top of an existing writer.
func NewPublisherWithWriter(w MessageWriter, runID string) *Publisher {
	return &Publisher{writer: w, runID: runID}
}

type rejectionEvent struct {
	Record payments.Record `json:"record"`
	Kind   string          `json:"kind,omitempty"`
	Error  string          `json:"error"`
}

// Rejected queues a record refused by the ledger. Its signature matches
// payments.Ingester.OnReject.
func (p *Publisher) Rejected(rec payments.Record, err error) {
	ev := rejectionEvent{Record: rec, Error: err.Error()}
	var lerr *payments.Error
	if errors.As(err, &lerr) {
		ev.Kind = lerr.Kind.String()
	}
	p.queue(EventRecordRejected, rec.Client, ev)
}

// Summaries queues one event per account summary.
func (p *Publisher) Summaries(rows []payments.AccountSummary) {
	for _, row := range rows {
		p.queue(EventAccountSummary, row.Client, row)
	}
}

// Pending returns the number of queued messages.
func (p *Publisher) Pending() int { return len(p.pending) }

func (p *Publisher) queue(event string, client payments.ClientID, v any) {
	if p.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		p.err = fmt.Errorf("failed to marshal %s event for client %d: %w", event, client, err)
		return
	}
	p.pending = append(p.pending, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(client), 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event)},
			{Key: "run-id", Value: []byte(p.runID)},
		},
	})
}

// Flush writes every queued message. Queued messages are dropped whether the
// write succeeds or not.
func (p *Publisher) Flush(ctx context.Context) error {
	if p.err != nil {
		return p.err
	}
	if len(p.pending) == 0 {
		return nil
	}
	msgs := p.pending
	p.pending = nil
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d messages: %w", len(msgs), err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error { return p.writer.Close() }
