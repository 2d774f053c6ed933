// Package loop drives AWM's event loop: drain pending AMC messages,
// dispatch any animation ticks that are due, then run one compositor
// frame (spec.md §4.7, §4.9). The drain-dispatch-render cadence mirrors
// the update/view split the retrieved corpus's bubbletea-based programs
// use, adapted from a single-process UI loop to one servicing multiple
// remote clients over AMC.
package loop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codyd51/axle-sub000/internal/amc"
	"github.com/codyd51/axle-sub000/internal/awm/animation"
	"github.com/codyd51/axle-sub000/internal/awm/compositor"
	"github.com/codyd51/axle-sub000/internal/awm/input"
	"github.com/codyd51/axle-sub000/internal/awm/protocol"
	"github.com/codyd51/axle-sub000/internal/awm/render"
	"github.com/codyd51/axle-sub000/internal/awm/window"
	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/codyd51/axle-sub000/log"
)

// ServiceName is AWM's well-known AMC address (spec.md §6).
const ServiceName = "com.axle.awm"

// Animation durations, in ms, for the four linear window transitions
// (open, close, minimize, unminimize). closeAnimMs matches Scenario 4's "200ms later"
// timing exactly since that scenario is defined in terms of this duration.
const (
	openAnimMs       = 150
	closeAnimMs      = 200
	minimizeAnimMs   = 200
	unminimizeAnimMs = 150
)

// serviceDeathQueueDepth bounds how many pending service-death
// notifications the loop buffers between Tick calls.
const serviceDeathQueueDepth = 64

// Loop is the assembled AWM runtime: window list, compositor, animation
// manager, input dispatcher, and the AMC mailbox clients talk to.
type Loop struct {
	Windows       *window.List
	Compositor    *compositor.Compositor
	Animations    *animation.Manager
	Input         *input.State
	Framebuffer   *render.Framebuffer
	AMC           *amc.Directory
	Mailbox       *amc.Mailbox
	Clock         clock.Clock
	TickMs        int64
	BytesPerPixel int

	screen        window.Rect
	lastTickMs    int64
	cursorX       int
	cursorY       int
	mouseDown     bool
	serviceDeaths chan string
}

// New assembles a Loop registered against dir under ServiceName.
func New(dir *amc.Directory, screen window.Rect, c clock.Clock, tickMs int64, bytesPerPixel int) (*Loop, error) {
	mb, err := dir.Register(ServiceName)
	if err != nil {
		return nil, err
	}
	if bytesPerPixel <= 0 {
		bytesPerPixel = 4
	}
	windows := window.NewList()
	comp := compositor.New(windows, screen)
	fb := render.NewFramebuffer(screen.W, screen.H)

	l := &Loop{
		Windows:       windows,
		Compositor:    comp,
		Animations:    animation.NewManager(c, tickMs),
		Input:         input.NewState(windows, 500),
		Framebuffer:   fb,
		AMC:           dir,
		Mailbox:       mb,
		Clock:         c,
		TickMs:        tickMs,
		BytesPerPixel: bytesPerPixel,
		screen:        screen,
		lastTickMs:    c.NowMs(),
		serviceDeaths: make(chan string, serviceDeathQueueDepth),
	}

	comp.FillBackground = fb.Fill
	comp.DrawFragment = fb.DrawFragment
	comp.DrawCursor = func() { fb.DrawCursor(l.cursorX, l.cursorY) }
	comp.Blit = func(window.Rect) {} // readback happens via Framebuffer.Snapshot, not per-rect

	return l, nil
}

// Tick runs one iteration: drain every currently-queued message, react to
// any clients whose service died since the last tick, advance animations
// if a tick interval has elapsed, then render a frame if anything is dirty.
// Returns the dirty regions repainted, if any.
func (l *Loop) Tick() []window.Rect {
	for l.Mailbox.HasMessage() {
		msg, err := l.Mailbox.AwaitAny(context.Background())
		if err != nil {
			break
		}
		l.dispatch(msg)
	}

	l.drainServiceDeaths()

	now := l.Clock.NowMs()
	if now-l.lastTickMs >= l.TickMs {
		l.lastTickMs = now
		l.Animations.Tick()
	}

	return l.Compositor.RenderFrame()
}

func (l *Loop) dispatch(msg amc.Message) {
	env, err := protocol.Decode(msg.Payload)
	if err != nil {
		log.With("from", msg.From, "err", err).Warn("dropping malformed AWM message")
		return
	}

	switch env.Type {
	case protocol.EventCreateWindowRequest:
		var req protocol.CreateWindowRequest
		if err := json.Unmarshal(env.Body, &req); err != nil {
			return
		}
		w := l.Windows.Create(req.Title, window.Rect{X: 0, Y: 0, W: req.Width, H: req.Height}, msg.From, false)
		l.AMC.NotifyWhenServiceDies(w.ClientService, l.serviceDeaths)
		l.replyCreateWindow(w)
		l.animateOpen(w)
		l.notifyDockCreated(w)
	case protocol.EventWindowRedrawReady:
		var ev protocol.WindowRedrawReady
		if err := json.Unmarshal(env.Body, &ev); err != nil {
			return
		}
		if w := findByID(l.Windows, ev.WindowID); w != nil {
			l.Compositor.Damage.MarkWindowDirty(w)
		}
	case protocol.EventUpdateWindowTitle:
		var ev protocol.UpdateWindowTitleEvent
		if err := json.Unmarshal(env.Body, &ev); err != nil {
			return
		}
		if w := findByID(l.Windows, ev.WindowID); w != nil {
			w.UpdateTitle(ev.Title)
			l.Compositor.Damage.MarkWindowDirty(w)
			l.notifyDocksTitle(ev.WindowID, ev.Title)
		}
	case protocol.EventCloseWindowRequest:
		var ev protocol.CloseWindowEvent
		if err := json.Unmarshal(env.Body, &ev); err != nil {
			return
		}
		if w := findByID(l.Windows, ev.WindowID); w != nil {
			l.closeWithAnimation(w)
		}
	case protocol.EventWindowResizeEnded:
		var ev protocol.WindowResizedEvent
		if err := json.Unmarshal(env.Body, &ev); err != nil {
			return
		}
		if w := findByID(l.Windows, ev.WindowID); w != nil {
			l.Compositor.Damage.MarkWindowDirty(w)
			w.Resize(window.Rect{X: ev.X, Y: ev.Y, W: ev.W, H: ev.H})
			l.Compositor.Damage.MarkWindowDirty(w)
		}
	case protocol.EventMouseDriverPacket:
		var pkt protocol.MouseDriverPacket
		if err := json.Unmarshal(env.Body, &pkt); err != nil {
			return
		}
		l.handleMouseDriverPacket(pkt)
	case protocol.EventKeyDriverPacket:
		var pkt protocol.KeyDriverPacket
		if err := json.Unmarshal(env.Body, &pkt); err != nil {
			return
		}
		l.handleKeyDriverPacket(pkt)
	default:
		log.With("type", env.Type).Debug("unhandled AWM protocol message")
	}
}

// handleMouseDriverPacket drives the input state machine from one mouse
// driver sample: hover change, button-down hit-testing (title-bar buttons
// take priority over starting a drag), in-progress drag, button-up, and
// scroll, forwarding whichever of spec.md §6's 802/803/804/807/809/810/811/816
// events the gesture implies to the relevant client (spec.md §4.9).
func (l *Loop) handleMouseDriverPacket(pkt protocol.MouseDriverPacket) {
	x, y := pkt.X, pkt.Y

	if prev, next := l.Input.MouseMove(x, y); prev != next {
		if prev != nil {
			l.sendToClient(prev, protocol.EventMouseExited, protocol.MouseEvent{WindowID: prev.ID})
		}
		if next != nil {
			l.sendToClient(next, protocol.EventMouseEntered, protocol.MouseEvent{WindowID: next.ID})
		}
	} else if w := l.Input.Hover(); w != nil {
		cf := w.ContentFrame()
		l.sendToClient(w, protocol.EventMouseMoved, protocol.MouseEvent{WindowID: w.ID, X: x - cf.X, Y: y - cf.Y})
	}

	wasDown := l.mouseDown
	switch {
	case pkt.LeftDown && !wasDown:
		l.mouseDown = true
		if w := l.Windows.ContainingPoint(x, y); w != nil {
			switch input.HitTitleBarButton(w, x, y) {
			case input.ButtonHitClose:
				l.closeWithAnimation(w)
				l.cursorX, l.cursorY = x, y
				return
			case input.ButtonHitMinimize:
				l.minimizeWithAnimation(w)
				l.cursorX, l.cursorY = x, y
				return
			}
		}
		if w := l.Input.MouseDown(x, y, l.Clock.NowMs()); w != nil {
			l.Compositor.Damage.MarkWindowDirty(w)
			cf := w.ContentFrame()
			l.sendToClient(w, protocol.EventMouseLeftClick, protocol.MouseClickEvent{WindowID: w.ID, X: x - cf.X, Y: y - cf.Y})
		}
	case pkt.LeftDown && wasDown:
		if w, _, ok := l.Input.MouseDrag(x, y); ok {
			l.Compositor.Damage.MarkWindowDirty(w)
		} else if w := l.Input.DragContentWindow(); w != nil {
			cf := w.ContentFrame()
			l.sendToClient(w, protocol.EventMouseDragged, protocol.MouseEvent{WindowID: w.ID, X: x - cf.X, Y: y - cf.Y})
		}
	case !pkt.LeftDown && wasDown:
		l.mouseDown = false
		w, kind := l.Input.MouseUp()
		if w != nil {
			l.Compositor.Damage.MarkWindowDirty(w)
			cf := w.ContentFrame()
			switch kind {
			case input.DragContent:
				l.sendToClient(w, protocol.EventMouseLeftClickEnded, protocol.MouseClickEvent{WindowID: w.ID, X: x - cf.X, Y: y - cf.Y})
			case input.DragResize:
				l.sendToClient(w, protocol.EventWindowResizeEnded, protocol.WindowResizedEvent{
					WindowID: w.ID, X: w.Frame.X, Y: w.Frame.Y, W: w.Frame.W, H: w.Frame.H,
				})
			}
		}
	}

	if pkt.ScrollDeltaZ != 0 {
		if w := l.Windows.ContainingPoint(x, y); w != nil {
			cf := w.ContentFrame()
			l.sendToClient(w, protocol.EventMouseScrolled, protocol.MouseEvent{
				WindowID: w.ID, X: x - cf.X, Y: y - cf.Y, DeltaY: pkt.ScrollDeltaZ,
			})
		}
	}

	l.cursorX, l.cursorY = x, y
}

// handleKeyDriverPacket drives the keyboard half of the input state
// machine: recognized shortcuts (Ctrl+Tab cycle, Ctrl+W close) are handled
// locally; everything else is forwarded to the top z-ordered window
// (spec.md §4.8, §6).
func (l *Loop) handleKeyDriverPacket(pkt protocol.KeyDriverPacket) {
	mods := input.Modifier(pkt.Modifiers)
	if !pkt.Down {
		l.Input.KeyUp(mods)
		if w := l.Windows.TopOrdinary(); w != nil {
			l.sendToClient(w, protocol.EventKeyUp, protocol.KeyEvent{WindowID: w.ID, Key: pkt.Key, Modifiers: pkt.Modifiers})
		}
		return
	}

	switch l.Input.KeyDown(input.Key(pkt.Key), mods) {
	case input.ShortcutCycleWindows:
		if w := l.Input.CycleFocus(); w != nil {
			l.Compositor.Damage.MarkWindowDirty(w)
		}
	case input.ShortcutCloseFocused:
		if w := l.Input.Focused(); w != nil {
			l.closeWithAnimation(w)
		}
	default:
		if w := l.Windows.TopOrdinary(); w != nil {
			l.sendToClient(w, protocol.EventKeyDown, protocol.KeyEvent{WindowID: w.ID, Key: pkt.Key, Modifiers: pkt.Modifiers})
		}
	}
}

// animateOpen grows w from a point to its requested frame (spec.md §4.8's
// open-window animation). The window is already usable (its
// CreateWindowResponse has already been sent) before this animation
// finishes — the animation is chrome, not a gate on the client's ability
// to draw.
func (l *Loop) animateOpen(w *window.Window) {
	to := w.Frame
	cx, cy := to.X+to.W/2, to.Y+to.H/2
	from := window.Rect{X: cx, Y: cy, W: 1, H: 1}
	w.Frame = from
	l.Compositor.Damage.MarkWindowDirty(w)
	l.Animations.Start(from, to, openAnimMs, func(r window.Rect) {
		w.Frame = r
		l.Compositor.Damage.MarkWindowDirty(w)
	}, func() {
		w.Frame = to
		l.Compositor.Damage.MarkWindowDirty(w)
	})
}

// closeWithAnimation shrinks w to a point before destroying it (spec.md
// §4.8's close-window animation; §8 Scenario 4's "AWM starts a close-window
// animation... 200ms later, the window is destroyed").
func (l *Loop) closeWithAnimation(w *window.Window) {
	from := w.Frame
	cx, cy := from.X+from.W/2, from.Y+from.H/2
	to := window.Rect{X: cx, Y: cy, W: 1, H: 1}
	l.Compositor.Damage.MarkWindowDirty(w)
	l.Animations.Start(from, to, closeAnimMs, func(r window.Rect) {
		w.Frame = r
		l.Compositor.Damage.MarkWindowDirty(w)
	}, func() {
		l.Compositor.Damage.MarkWindowDirty(w)
		_ = l.Windows.Destroy(w)
	})
}

// minimizeWithAnimation shrinks w toward the desktop before marking it
// minimized. The round-trip invariant (minimize then unminimize restores
// w's exact original frame, spec.md §8) requires capturing that frame
// before the animation starts mutating w.Frame and only calling
// Windows.Minimize — which is what actually snapshots PreMinimizeFrame —
// once the frame has been restored in onFinish.
func (l *Loop) minimizeWithAnimation(w *window.Window) {
	orig := w.Frame
	to := window.Rect{X: orig.X, Y: l.screen.Bottom() - 1, W: 1, H: 1}
	l.Animations.Start(orig, to, minimizeAnimMs, func(r window.Rect) {
		w.Frame = r
		l.Compositor.Damage.MarkWindowDirty(w)
	}, func() {
		w.Frame = orig
		l.Windows.Minimize(w)
		l.Compositor.Damage.MarkWindowDirty(w)
	})
}

// CloseWindow starts w's close animation. Exported so a real interactive
// frontend can trigger it directly from a terminal mouse click against
// render.Zones, alongside the driver-packet path dispatch drives.
func (l *Loop) CloseWindow(w *window.Window) { l.closeWithAnimation(w) }

// MinimizeWindow starts w's minimize animation, the terminal-mouse-click
// counterpart to handleMouseDriverPacket's ButtonHitMinimize case.
func (l *Loop) MinimizeWindow(w *window.Window) { l.minimizeWithAnimation(w) }

// Unminimize restores a minimized window, animating it back up from the
// desktop to its pre-minimize frame. Unminimize itself (which runs
// immediately, restoring w.Frame and w.Minimized) happens before the
// animation so the window is hit-testable and interactive throughout.
func (l *Loop) Unminimize(w *window.Window) {
	if !w.Minimized {
		return
	}
	to := w.PreMinimizeFrame
	from := window.Rect{X: to.X, Y: l.screen.Bottom() - 1, W: 1, H: 1}
	l.Windows.Unminimize(w)
	w.Frame = from
	l.Compositor.Damage.MarkWindowDirty(w)
	l.Animations.Start(from, to, unminimizeAnimMs, func(r window.Rect) {
		w.Frame = r
		l.Compositor.Damage.MarkWindowDirty(w)
	}, func() {
		w.Frame = to
		l.Compositor.Damage.MarkWindowDirty(w)
	})
}

// drainServiceDeaths reacts to every AMC service death observed since the
// last tick: any window whose client died gets a close-window animation
// (spec.md §8 Scenario 4).
func (l *Loop) drainServiceDeaths() {
	for {
		select {
		case service := <-l.serviceDeaths:
			l.handleServiceDied(service)
		default:
			return
		}
	}
}

func (l *Loop) handleServiceDied(service string) {
	for _, w := range l.Windows.Ordinary() {
		if w.ClientService == service {
			l.closeWithAnimation(w)
		}
	}
}

// replyCreateWindow completes spec.md §6's window-creation handshake:
// allocate the client's framebuffer shared region and hand back its id and
// name before the client attempts its first paint. The region is sized for
// the whole screen, so a later resize never needs a new region.
func (l *Loop) replyCreateWindow(w *window.Window) {
	bufName := fmt.Sprintf("awm.window.%d.fb", w.ID)
	if _, err := l.AMC.CreateSharedRegion(bufName, l.screen.W*l.screen.H*l.BytesPerPixel); err != nil {
		log.With("window_id", w.ID, "err", err).Warn("failed to allocate window framebuffer region")
	}
	l.sendToClient(w, protocol.EventCreateWindowResponse, protocol.CreateWindowResponse{
		WindowID: w.ID, SharedBufferName: bufName,
	})
}

// sendToClient encodes and sends an AWM-originated event to w's client.
func (l *Loop) sendToClient(w *window.Window, typ protocol.EventType, body any) {
	raw, err := protocol.Encode(typ, body)
	if err != nil {
		return
	}
	_ = l.AMC.Send(ServiceName, w.ClientService, raw)
}

// notifyDockCreated announces a new top-level window to every dock
// (spec.md §6: DOCK_WINDOW_CREATED).
func (l *Loop) notifyDockCreated(w *window.Window) {
	for _, dock := range l.Windows.Overlays() {
		l.sendToClient(dock, protocol.EventDockWindowCreated, protocol.DockWindowCreatedEvent{WindowID: w.ID, Title: w.Title})
	}
}

// notifyDocksTitle re-sends a title update to every registered dock window,
// per SPEC_FULL.md's supplemented dock-sync behavior: docks must reflect a
// client's current title immediately, not only at window creation.
func (l *Loop) notifyDocksTitle(windowID int64, title string) {
	for _, dock := range l.Windows.Overlays() {
		l.sendToClient(dock, protocol.EventDockWindowTitleUpdated, protocol.DockWindowTitleUpdatedEvent{WindowID: windowID, Title: title})
	}
}

func findByID(l *window.List, id int64) *window.Window {
	for _, w := range l.Ordinary() {
		if w.ID == id {
			return w
		}
	}
	for _, w := range l.Overlays() {
		if w.ID == id {
			return w
		}
	}
	return nil
}
