// Package amc implements spec.md §5's async message channel: a per-service
// mailbox with blocking receive, FIFO-per-sender delivery, service-death
// notification, and a small shared-memory-region simulation for the bulk
// transfers window buffers use. The non-blocking-broadcast/subscriber-map
// shape is grounded on a publish/subscribe event bus in the retrieved
// corpus, adapted here from fire-and-forget broadcast to addressed,
// queued, blocking delivery.
package amc

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/codyd51/axle-sub000/internal/audit"
	"github.com/codyd51/axle-sub000/internal/clock"
)

// Message is a single AMC delivery (spec.md §5). TraceID has no wire
// meaning; it exists so a dropped or misrouted delivery can be correlated
// against the audit log without guessing from timestamps alone.
type Message struct {
	From     string
	To       string
	Payload  []byte
	SentAtMs int64
	TraceID  string
}

// Mailbox is one service's inbound queue. Messages are appended in arrival
// order, so per-sender relative order is preserved as a corollary of the
// single lock guarding enqueue (spec.md §5's FIFO-per-sender guarantee).
type Mailbox struct {
	mu      sync.Mutex
	pending []Message
	notify  chan struct{}
}

func newMailbox() *Mailbox {
	return &Mailbox{notify: make(chan struct{}, 1)}
}

func (m *Mailbox) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *Mailbox) enqueue(msg Message) {
	m.mu.Lock()
	m.pending = append(m.pending, msg)
	m.mu.Unlock()
	m.signal()
}

// HasMessage reports whether a receive would return immediately
// (amc_has_message, spec.md §5).
func (m *Mailbox) HasMessage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending) > 0
}

// AwaitAny blocks until any message arrives, or ctx is done
// (amc_message_await_any, spec.md §5).
func (m *Mailbox) AwaitAny(ctx context.Context) (Message, error) {
	for {
		m.mu.Lock()
		if len(m.pending) > 0 {
			msg := m.pending[0]
			m.pending = m.pending[1:]
			m.mu.Unlock()
			return msg, nil
		}
		m.mu.Unlock()
		select {
		case <-m.notify:
		case <-ctx.Done():
			return Message{}, ctx.Err()
		}
	}
}

// AwaitFrom blocks until a message from sender arrives, or ctx is done
// (amc_message_await, spec.md §5).
func (m *Mailbox) AwaitFrom(ctx context.Context, sender string) (Message, error) {
	for {
		m.mu.Lock()
		for i, msg := range m.pending {
			if msg.From == sender {
				m.pending = append(m.pending[:i], m.pending[i+1:]...)
				m.mu.Unlock()
				return msg, nil
			}
		}
		m.mu.Unlock()
		select {
		case <-m.notify:
		case <-ctx.Done():
			return Message{}, ctx.Err()
		}
	}
}

// Flush drains and returns every pending message, in arrival order
// (amc_flush_messages_to_service, spec.md §5).
func (m *Mailbox) Flush() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pending
	m.pending = nil
	return out
}

// SharedRegion is a named, byte-addressable region two services can map
// into their respective address spaces (spec.md §5's shared-memory
// transfer path). The real kernel backs this with physical pages shared
// between VAS mappings; this stand-in is a single backing buffer.
type SharedRegion struct {
	Name string
	Data []byte
}

// Directory is the AMC service registry: name -> mailbox, plus shared
// regions and death-notification subscriptions.
type Directory struct {
	mu         sync.RWMutex
	mailboxes  map[string]*Mailbox
	deathSubs  map[string][]chan<- string
	sharedRegs map[string]*SharedRegion
	clock      clock.Clock
	logger     audit.Logger
}

// NewDirectory returns an empty Directory. logger may be nil, in which case
// audit.NopLogger() semantics apply (events are dropped, never block).
func NewDirectory(c clock.Clock, logger audit.Logger) *Directory {
	if logger == nil {
		logger = audit.NopLogger()
	}
	return &Directory{
		mailboxes:  map[string]*Mailbox{},
		deathSubs:  map[string][]chan<- string{},
		sharedRegs: map[string]*SharedRegion{},
		clock:      c,
		logger:     logger,
	}
}

// Register creates service's mailbox. Fails if already registered
// (spec.md §5: service names are unique).
func (d *Directory) Register(service string) (*Mailbox, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.mailboxes[service]; exists {
		return nil, fmt.Errorf("amc: service %q already registered", service)
	}
	mb := newMailbox()
	d.mailboxes[service] = mb
	d.logger.Emit(audit.New(audit.EventServiceRegistered, "service registered", audit.WithService(service)))
	return mb, nil
}

// Lookup returns service's mailbox, if registered.
func (d *Directory) Lookup(service string) (*Mailbox, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	mb, ok := d.mailboxes[service]
	return mb, ok
}

// Send delivers payload from -> to. Returns an error (and emits
// EventMessageDropped) if to is not a registered service (spec.md §5:
// sending to a dead or unknown service drops the message rather than
// blocking the sender).
func (d *Directory) Send(from, to string, payload []byte) error {
	d.mu.RLock()
	dest, ok := d.mailboxes[to]
	d.mu.RUnlock()
	if !ok {
		d.logger.Emit(audit.New(audit.EventMessageDropped, "destination service not registered",
			audit.WithService(to), audit.WithDetail(fmt.Sprintf("from=%s", from))))
		return fmt.Errorf("amc: send %s -> %s: no such service", from, to)
	}
	dest.enqueue(Message{From: from, To: to, Payload: payload, SentAtMs: d.clock.NowMs(), TraceID: uuid.NewString()})
	return nil
}

// NotifyWhenServiceDies registers watcher to receive service's name on a
// channel once Deregister(service) runs (spec.md §5's death-notification
// subscription; the AWM loop uses it to learn when a window's client
// service is gone).
func (d *Directory) NotifyWhenServiceDies(service string, watcher chan<- string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deathSubs[service] = append(d.deathSubs[service], watcher)
}

// Deregister removes service's mailbox and notifies every death subscriber.
// Returns an error if service was never registered.
func (d *Directory) Deregister(service string) error {
	d.mu.Lock()
	if _, ok := d.mailboxes[service]; !ok {
		d.mu.Unlock()
		return fmt.Errorf("amc: deregister: no such service %q", service)
	}
	delete(d.mailboxes, service)
	subs := d.deathSubs[service]
	delete(d.deathSubs, service)
	d.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- service:
		default:
			// A subscriber that isn't listening must not block teardown.
		}
	}
	d.logger.Emit(audit.New(audit.EventServiceDied, "service deregistered", audit.WithService(service)))
	return nil
}

// CreateSharedRegion allocates a named shared-memory region of size bytes.
// Fails if the name is already taken.
func (d *Directory) CreateSharedRegion(name string, size int) (*SharedRegion, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.sharedRegs[name]; exists {
		return nil, fmt.Errorf("amc: shared region %q already exists", name)
	}
	r := &SharedRegion{Name: name, Data: make([]byte, size)}
	d.sharedRegs[name] = r
	return r, nil
}

// OpenSharedRegion returns a previously-created shared region.
func (d *Directory) OpenSharedRegion(name string) (*SharedRegion, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.sharedRegs[name]
	return r, ok
}
