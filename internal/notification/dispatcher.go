package notification

import (
	"vastra-be/internal/logger"

	"go.uber.org/zap"
)

// Message is one queued email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher delivers emails off the request path. Dispatch never blocks the
// caller: messages go through a buffered channel to a single worker, and
// when the queue is full the message is dropped and logged. Send failures
// are logged, never propagated to the transition that triggered them.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message
	done   chan struct{}
}

func NewDispatcher(mailer Mailer, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, queueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		if err := d.mailer.Send(msg.To, msg.Subject, msg.Body); err != nil {
			logger.L().Error("email send failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			continue
		}
		logger.L().Debug("email sent",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
}

// Dispatch queues a message without blocking.
func (d *Dispatcher) Dispatch(msg Message) {
	if msg.To == "" {
		return
	}
	select {
	case d.queue <- msg:
	default:
		logger.L().Warn("notification queue full, dropping email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
}

// Close stops accepting messages and waits for the worker to drain.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
