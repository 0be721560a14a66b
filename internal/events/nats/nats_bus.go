package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
	"hrdesk/internal/resilience"
)

// Options configures the NATS event bus.
type Options struct {
	DecisionSubject string
	InboundSubject  string
	QueueGroup      string
	ConnectTimeout  time.Duration
	ReconnectWait   time.Duration
	MaxReconnects   int
	Executor        *resilience.Executor
}

// Bus publishes verification decisions and consumes decisions from external verifiers.
type Bus struct {
	conn *nats.Conn
	opts Options

	mu  sync.Mutex
	sub *nats.Subscription
}

var (
	_ port.EventPublisher     = (*Bus)(nil)
	_ port.DecisionSubscriber = (*Bus)(nil)
)

// Connect dials the NATS server at url.
func Connect(url string, opts Options) (*Bus, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 2 * time.Second
	}
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 2 * time.Second
	}
	if opts.MaxReconnects <= 0 {
		opts.MaxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name("hrdesk"),
		nats.Timeout(opts.ConnectTimeout),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats.Bus: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("nats.Bus: reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Bus{conn: conn, opts: opts}, nil
}

// PublishDecision publishes event on the decision subject.
func (b *Bus) PublishDecision(ctx context.Context, event port.DecisionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding decision event: %w", err)
	}
	call := func(context.Context, int) error {
		if err := b.conn.Publish(b.opts.DecisionSubject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}
	if b.opts.Executor != nil {
		return b.opts.Executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	}
	return call(ctx, 1)
}

// Subscribe starts delivering inbound decisions to handler on the queue group.
func (b *Bus) Subscribe(handler port.DecisionHandler) error {
	sub, err := b.conn.QueueSubscribe(b.opts.InboundSubject, b.opts.QueueGroup, func(msg *nats.Msg) {
		decision, err := DecodeDecision(msg.Data)
		if err != nil {
			log.Printf("nats.Bus: dropping malformed decision on %s: %v", msg.Subject, err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := handler(ctx, decision); err != nil {
			log.Printf("nats.Bus: applying decision for document %s failed: %v", decision.DocumentID, err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := b.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	b.mu.Lock()
	b.sub = sub
	b.mu.Unlock()
	log.Printf("nats.Bus: consuming %s as %s", b.opts.InboundSubject, b.opts.QueueGroup)
	return nil
}

// Close drains the subscription and closes the connection.
func (b *Bus) Close() error {
	b.mu.Lock()
	sub := b.sub
	b.sub = nil
	b.mu.Unlock()

	var err error
	if sub != nil {
		if derr := sub.Drain(); derr != nil {
			err = fmt.Errorf("nats drain subscription: %w", derr)
		}
	}
	if ferr := b.conn.FlushTimeout(5 * time.Second); ferr != nil && err == nil && !errors.Is(ferr, nats.ErrConnectionClosed) {
		err = fmt.Errorf("nats flush: %w", ferr)
	}
	b.conn.Close()
	return err
}

type inboundDecision struct {
	DocumentID string                    `json:"document_id"`
	Status     domain.VerificationStatus `json:"status"`
	Reason     string                    `json:"reason"`
}

// DecodeDecision parses an external verifier message: {"document_id", "status", "reason"}.
func DecodeDecision(data []byte) (domain.VerificationDecision, error) {
	var in inboundDecision
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.VerificationDecision{}, fmt.Errorf("decoding decision: %w", err)
	}
	id, err := parseUUID(in.DocumentID)
	if err != nil {
		return domain.VerificationDecision{}, err
	}
	if !domain.ValidVerificationStatuses[in.Status] {
		return domain.VerificationDecision{}, domain.ErrInvalidVerification
	}
	return domain.VerificationDecision{
		DocumentID: id,
		Status:     in.Status,
		Reason:     in.Reason,
		DecidedAt:  time.Now().UTC(),
	}, nil
}

func classifyNATSError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionReconnecting) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid document_id %q: %w", s, err)
	}
	return id, nil
}

// Ping reports whether the connection is currently usable. It is a readiness check.
func (b *Bus) Ping(context.Context) error {
	if status := b.conn.Status(); status != nats.CONNECTED {
		return fmt.Errorf("nats connection %s", status)
	}
	return nil
}
