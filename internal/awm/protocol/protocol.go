// Package protocol defines the wire message types AWM exchanges with its
// clients over AMC (spec.md §6). Each EventType is the numeric tag a real
// client would see on the wire; Encode/Decode here work against an
// in-process amc.Message payload rather than a raw byte buffer, since
// spec.md §1 places the exact byte layout out of scope and the AMC
// transport already carries arbitrary []byte payloads.
package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// EventType enumerates the AWM client protocol's message kinds (spec.md §6).
type EventType uint32

const (
	EventCreateWindowRequest  EventType = 800
	EventCreateWindowResponse EventType = 800 // response reuses the request's tag, distinguished by direction
	EventWindowRedrawReady    EventType = 801
	EventMouseEntered         EventType = 802
	EventMouseExited          EventType = 803
	EventMouseMoved           EventType = 804
	EventKeyDown              EventType = 805
	EventKeyUp                EventType = 806
	EventMouseScrolled        EventType = 807
	EventWindowResized        EventType = 808
	EventMouseLeftClick       EventType = 809
	EventMouseDragged         EventType = 810
	EventMouseLeftClickEnded  EventType = 811
	EventUpdateWindowTitle    EventType = 813
	EventCloseWindow          EventType = 814
	EventCloseWindowRequest   EventType = 814
	EventWindowResizeEnded      EventType = 816
	EventDockWindowCreated      EventType = 817
	EventDockWindowTitleUpdated EventType = 818

	// EventMouseDriverPacket and EventKeyDriverPacket are AWM's own
	// consumption-side tags for the raw events the keyboard and mouse
	// drivers deliver into AMC. Their wire shape is outside this system's
	// scope (the drivers themselves aren't part of this module), so these
	// tags sit outside the documented 800-818 client protocol range rather
	// than overloading one of it.
	EventMouseDriverPacket EventType = 900
	EventKeyDriverPacket   EventType = 901
)

// Envelope is the uniform wrapper every wire message carries: a tag plus a
// JSON-encoded body specific to that tag.
type Envelope struct {
	Type EventType
	Body json.RawMessage
}

// Header size: a 4-byte big-endian event type precedes the JSON body, so a
// client peeking at the first bytes can dispatch without parsing JSON.
const headerSize = 4

// Encode serializes an envelope carrying body (marshaled as JSON) under typ.
func Encode(typ EventType, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode type %d: %w", typ, err)
	}
	out := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(out[:headerSize], uint32(typ))
	copy(out[headerSize:], payload)
	return out, nil
}

// Decode splits raw into its event type and JSON body.
func Decode(raw []byte) (Envelope, error) {
	if len(raw) < headerSize {
		return Envelope{}, fmt.Errorf("protocol: message too short (%d bytes)", len(raw))
	}
	typ := EventType(binary.BigEndian.Uint32(raw[:headerSize]))
	return Envelope{Type: typ, Body: json.RawMessage(raw[headerSize:])}, nil
}

// CreateWindowRequest is a client's request to create a new top-level
// window (spec.md §6).
type CreateWindowRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
}

// CreateWindowResponse answers a CreateWindowRequest with the assigned
// window id and its allotted framebuffer shared-region name.
type CreateWindowResponse struct {
	WindowID         int64  `json:"window_id"`
	SharedBufferName string `json:"shared_buffer_name"`
}

// WindowRedrawReady signals a client finished writing its framebuffer and
// AWM should composite it on the next frame.
type WindowRedrawReady struct {
	WindowID int64 `json:"window_id"`
}

// MouseEvent carries the position (and, for scroll, delta) of a pointer
// event (spec.md §6: MOUSE_MOVED, MOUSE_SCROLLED, MOUSE_DRAGGED).
type MouseEvent struct {
	WindowID int64 `json:"window_id"`
	X        int   `json:"x"`
	Y        int   `json:"y"`
	DeltaX   int   `json:"delta_x,omitempty"`
	DeltaY   int   `json:"delta_y,omitempty"`
}

// MouseClickEvent carries a left-click start/end (spec.md §6).
type MouseClickEvent struct {
	WindowID int64 `json:"window_id"`
	X        int   `json:"x"`
	Y        int   `json:"y"`
}

// KeyEvent carries a key-down/key-up with modifier state (spec.md §6).
type KeyEvent struct {
	WindowID  int64  `json:"window_id"`
	Key       uint32 `json:"key"`
	Modifiers uint8  `json:"modifiers"` // bitmask, see input.Modifier
}

// WindowResizedEvent carries a window's new frame (spec.md §6:
// WINDOW_RESIZED, WINDOW_RESIZE_ENDED).
type WindowResizedEvent struct {
	WindowID int64 `json:"window_id"`
	X        int   `json:"x"`
	Y        int   `json:"y"`
	W        int   `json:"w"`
	H        int   `json:"h"`
}

// UpdateWindowTitleEvent carries a client's new title for its window
// (spec.md §6). Re-sent to docks on every title update, per SPEC_FULL.md's
// supplemented dock-sync behavior.
type UpdateWindowTitleEvent struct {
	WindowID int64  `json:"window_id"`
	Title    string `json:"title"`
}

// CloseWindowEvent carries a request or notification of window closure
// (spec.md §6: CLOSE_WINDOW, CLOSE_WINDOW_REQUEST).
type CloseWindowEvent struct {
	WindowID int64 `json:"window_id"`
}

// DockWindowCreatedEvent announces a new top-level window to the dock so
// it can add a launcher/taskbar entry (spec.md §6).
type DockWindowCreatedEvent struct {
	WindowID int64  `json:"window_id"`
	Title    string `json:"title"`
}

// DockWindowTitleUpdatedEvent re-announces a title change to the dock
// (spec.md §6, re-sent per SPEC_FULL.md's supplemented dock-sync behavior
// rather than only sent once at creation).
type DockWindowTitleUpdatedEvent struct {
	WindowID int64  `json:"window_id"`
	Title    string `json:"title"`
}

// MouseDriverPacket is a raw pointer sample the mouse driver delivers into
// AMC: absolute position, current left-button state, and any scroll delta
// accumulated since the last sample.
type MouseDriverPacket struct {
	X            int  `json:"x"`
	Y            int  `json:"y"`
	LeftDown     bool `json:"left_down"`
	ScrollDeltaZ int  `json:"scroll_delta_z"`
}

// KeyDriverPacket is a raw key transition the keyboard driver delivers into
// AMC.
type KeyDriverPacket struct {
	Key       uint32 `json:"key"`
	Down      bool   `json:"down"`
	Modifiers uint8  `json:"modifiers"`
}
