package axle

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codyd51/axle-sub000/internal/awm/loop"
	"github.com/codyd51/axle-sub000/internal/awm/render"
	"github.com/codyd51/axle-sub000/internal/kernel"
	"github.com/codyd51/axle-sub000/internal/task"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// sessionModel drives the kernel's scheduling rounds and the AWM event loop
// from a bubbletea Program's tick cadence — the interactive counterpart to
// runBoot's plain round loop, rendering the same window-list summary
// (spec.md §4.10's drain/dispatch/render cycle, here driven by a real
// Program instead of a hand-rolled for loop).
type sessionModel struct {
	kernel     *kernel.Kernel
	awm        *loop.Loop
	tick       int
	termHeight int
}

func newSessionModel(k *kernel.Kernel, l *loop.Loop) sessionModel {
	return sessionModel{kernel: k, awm: l}
}

func (m sessionModel) Init() tea.Cmd {
	return tickCmd()
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termHeight = msg.Height
		return m, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tickMsg:
		m.tick++
		workMs := time.Duration(1+m.tick%4) * time.Millisecond
		for _, cpu := range m.kernel.CPUs {
			m.kernel.RunSlice(cpu, func(t *task.Task) {
				time.Sleep(workMs)
			})
		}
		if m.awm != nil {
			m.awm.Tick()
		}
		return m, tickCmd()
	}
	return m, nil
}

// handleMouse resolves a real terminal click against the close/minimize
// zones View marked on the previous render (render/zones.go), the same
// zone-then-click idiom the retrieved corpus's bubblezone-based programs
// use. AWM's own input package hit-tests synthetic client-driver
// coordinates (loop.handleMouseDriverPacket); this is the terminal
// frontend's separate, coarser hit-test against rendered cells.
func (m sessionModel) handleMouse(msg tea.MouseMsg) {
	if m.awm == nil {
		return
	}
	click, ok := msg.(tea.MouseClickMsg)
	if !ok || click.Mouse().Button != tea.MouseLeft {
		return
	}
	for _, w := range m.awm.Windows.Ordinary() {
		switch {
		case render.HitClose(w, msg):
			m.awm.CloseWindow(w)
			return
		case render.HitMinimize(w, msg):
			m.awm.MinimizeWindow(w)
			return
		}
	}
}

func (m sessionModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(render.ColorText).Render("axle — press q to quit")
	body := title + "\n"
	if m.awm != nil {
		body += "\n" + render.View(m.awm.Windows, m.awm.Input.Focused())
	}
	return render.FillBackground(body, 0, m.termHeight, render.ColorDesktop)
}

// runInteractive hands the boot sequence off to a real bubbletea.Program
// instead of runBoot's fixed-round loop. It sets the terminal background to
// match AWM's desktop color for the session's duration and enables full
// mouse tracking so close/minimize buttons respond to real left clicks,
// not just the synthetic driver-packet path exercised by --windows without
// --interactive. Scroll and other mouse events are ignored.
func runInteractive(k *kernel.Kernel, l *loop.Loop) error {
	restore := render.SetTerminalBackground(string(render.ColorDesktop))
	defer restore()

	p := tea.NewProgram(newSessionModel(k, l), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
