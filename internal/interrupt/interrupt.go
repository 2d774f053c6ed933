// Package interrupt models spec.md §4.1: a 256-gate IDT, the legacy PIC
// remap (IRQs 0-15 -> vectors 32-47), vectored dispatch to registered
// callbacks, and end-of-interrupt signaling for both PIC and local-APIC
// delivery. Real port I/O and the asm dispatch stub are out of scope (the
// physical PIC/APIC are hardware this module does not own); Controller
// models the dispatcher's decision logic, which is where spec.md's
// invariants live.
package interrupt

import (
	"fmt"

	"github.com/codyd51/axle-sub000/log"
)

// NumVectors is the size of the IDT: 256 gates, vectors 0-255.
const NumVectors = 256

// PIC remap: legacy IRQs 0-15 land at vectors 32-47 (spec.md §4.1).
const (
	PICVectorBase  = 32
	PICVectorLimit = 48 // exclusive
	// SpuriousIRQ7Vector is IRQ7 remapped: a spurious PIC interrupt that
	// must be silently dropped if unhandled (spec.md §4.1, §7).
	SpuriousIRQ7Vector = PICVectorBase + 7
	// slaveVectorBase is the first vector routed through the slave PIC,
	// whose EOI must also be acknowledged on the slave (spec.md §4.1).
	slaveVectorBase = PICVectorBase + 8
)

// RegisterFrame is the uniform register-state snapshot the asm stub would
// push before calling the dispatcher (spec.md §4.1). A syscall handler
// returns its result by writing into this frame (spec.md §4.1 tie-break).
type RegisterFrame struct {
	Vector    int
	General   map[string]uint64
	ReturnRAX uint64
}

// Handler is a registered interrupt callback. It returns signalsEOIOwn =
// true when it has already signaled end-of-interrupt itself (spec.md
// §4.1: "unless the handler indicated it would signal EOI itself").
type Handler func(frame *RegisterFrame) (signalsEOIOwn bool)

// PIC models the two legacy 8259 controllers, tracked only by EOI-signal
// counts — there is no real I/O port to write 0x20 to.
type PIC struct {
	MasterEOIs int
	SlaveEOIs  int
}

func (p *PIC) ackMaster() { p.MasterEOIs++ }
func (p *PIC) ackSlave()  { p.SlaveEOIs++ }

// APIC is the local-APIC EOI sink consumed for vectors not routed through
// the legacy PIC (spec.md §4.1).
type APIC interface {
	SignalEOI()
}

type apicCounter struct{ eois int }

func (a *apicCounter) SignalEOI() { a.eois++ }

// NewAPIC returns a countable APIC stand-in suitable for tests and for the
// demo boot sequence where no real local APIC exists.
func NewAPIC() APIC { return &apicCounter{} }

// Controller is the IDT: a 256-entry callback table plus PIC/APIC EOI
// plumbing. It owns no CPU — a kernel.CPU dispatches into it per received
// vector.
type Controller struct {
	handlers [NumVectors]Handler
	unmasked [NumVectors]bool
	pic      *PIC
	apic     APIC
}

// NewController builds a Controller with CPU-exception vectors 0-31
// pre-registered to a panicking default handler (spec.md §4.1: "CPU-
// exception vectors 0-31 have built-in handlers... that print register
// state and panic unless the handler is overridable"). onFault is called
// for any of these; RegisterInterruptHandler refuses vectors 0-31 because
// each already has a handler, so they cannot be overridden.
func NewController(onFault func(vector int, frame *RegisterFrame)) *Controller {
	c := &Controller{pic: &PIC{}, apic: NewAPIC()}
	for v := 0; v < 32; v++ {
		vec := v
		c.handlers[vec] = func(frame *RegisterFrame) bool {
			onFault(vec, frame)
			return true // a fatal fault never reaches ordinary EOI
		}
	}
	return c
}

// SetAPIC swaps in a real/fake local-APIC EOI sink.
func (c *Controller) SetAPIC(a APIC) { c.apic = a }

// PIC exposes the EOI-count PIC stand-in for assertions in tests.
func (c *Controller) PIC() *PIC { return c.pic }

// RegisterInterruptHandler installs callback for vector. Fails if a handler
// already exists for that vector (spec.md §4.1, §7: fatal assertion).
// PIC-delivered vectors (32-47) become implicitly unmasked on registration.
func (c *Controller) RegisterInterruptHandler(vector int, callback Handler) error {
	if vector < 0 || vector >= NumVectors {
		return fmt.Errorf("interrupt: vector %d out of range", vector)
	}
	if c.handlers[vector] != nil {
		return fmt.Errorf("interrupt: handler already registered for vector %d", vector)
	}
	c.handlers[vector] = callback
	if vector >= PICVectorBase && vector < PICVectorLimit {
		c.unmasked[vector] = true
	}
	return nil
}

// IsUnmasked reports whether a PIC-delivered vector has been unmasked by a
// successful RegisterInterruptHandler call.
func (c *Controller) IsUnmasked(vector int) bool { return c.unmasked[vector] }

// Dispatch runs the registered callback for vector, if any, then performs
// end-of-interrupt signaling per spec.md §4.1's algorithm.
func (c *Controller) Dispatch(frame *RegisterFrame) {
	vector := frame.Vector
	h := c.handlers[vector]

	var eoiSignaledByHandler bool
	if h != nil {
		eoiSignaledByHandler = h(frame)
	} else if vector == SpuriousIRQ7Vector {
		log.With("vector", vector).Debug("spurious PIC IRQ7, dropped")
	} else {
		log.With("vector", vector).Warn("unhandled interrupt")
	}

	c.signalEOI(vector, eoiSignaledByHandler)
}

func (c *Controller) signalEOI(vector int, handlerSignaledOwn bool) {
	if handlerSignaledOwn {
		return
	}
	switch {
	case vector >= PICVectorBase && vector < PICVectorLimit:
		c.pic.ackMaster()
		if vector >= slaveVectorBase {
			c.pic.ackSlave()
		}
	default:
		if c.apic != nil {
			c.apic.SignalEOI()
		}
	}
}
