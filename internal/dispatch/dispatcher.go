// Package dispatch fans inbound messages out to per-user queues so
// each user's conversation is handled strictly in arrival order while
// different users proceed in parallel.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"reviewbot/internal/common/logger"
	"reviewbot/internal/common/observability"
	"reviewbot/internal/conversation"
	"reviewbot/internal/transport"
)

// Handler processes one inbound message to completion.
type Handler interface {
	HandleMessage(ctx context.Context, userID, body string)
}

// Dispatcher owns one buffered queue and one worker goroutine per
// active user, created lazily on first contact.
type Dispatcher struct {
	handler   Handler
	sender    conversation.Sender
	obs       *observability.Observability
	logger    logger.Logger
	queueSize int

	mu     sync.Mutex
	queues map[string]chan transport.Message
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(handler Handler, sender conversation.Sender, queueSize int, obs *observability.Observability, log logger.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		handler:   handler,
		sender:    sender,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "dispatcher"}),
		queueSize: queueSize,
		queues:    make(map[string]chan transport.Message),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Dispatch enqueues one message onto its user's queue, starting the
// user's worker on first contact. A full queue rejects the message so
// the webhook answers busy instead of holding the connection while an
// analysis run drains the backlog.
func (d *Dispatcher) Dispatch(msg transport.Message) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return fmt.Errorf("dispatcher is shut down")
	}
	queue, ok := d.queues[msg.From]
	if !ok {
		queue = make(chan transport.Message, d.queueSize)
		d.queues[msg.From] = queue
		d.wg.Add(1)
		go d.runUserQueue(msg.From, queue)
	}
	d.mu.Unlock()

	select {
	case queue <- msg:
		return nil
	case <-d.ctx.Done():
		return fmt.Errorf("dispatcher is shut down")
	default:
		d.logger.Warn("queue full, rejecting message", map[string]interface{}{
			"userId": msg.From,
		})
		return fmt.Errorf("queue full for user %s", msg.From)
	}
}

func (d *Dispatcher) runUserQueue(userID string, queue chan transport.Message) {
	defer d.wg.Done()
	for {
		select {
		case msg := <-queue:
			d.process(msg)
		case <-d.ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) process(msg transport.Message) {
	correlationID := uuid.NewString()
	log := d.logger.WithFields(map[string]interface{}{
		"correlationId": correlationID,
		"userId":        msg.From,
	})
	start := time.Now()
	status := "ok"

	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			log.Error("panic while handling message", map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
			})
			if err := d.sender.Send(d.ctx, msg.From, conversation.MsgErrGeneral); err != nil {
				log.WithError(err).Error("failed to send apology after panic", nil)
			}
		}
		d.obs.RecordMessageProcessed(d.ctx, status)
		d.obs.RecordMessageDuration(d.ctx, time.Since(start), status)
	}()

	log.Info("handling message", map[string]interface{}{
		"bodyLength": len(msg.Body),
	})
	d.handler.HandleMessage(d.ctx, msg.From, msg.Body)
	log.Debug("message handled", map[string]interface{}{
		"elapsed": time.Since(start).String(),
	})
}

// Shutdown stops accepting messages and waits for in-flight handlers,
// up to the context deadline.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
