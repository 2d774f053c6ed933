package axle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codyd51/axle-sub000/config"
	"github.com/codyd51/axle-sub000/internal/amc"
	"github.com/codyd51/axle-sub000/internal/audit"
	"github.com/codyd51/axle-sub000/internal/awm/loop"
	"github.com/codyd51/axle-sub000/internal/awm/protocol"
	"github.com/codyd51/axle-sub000/internal/awm/render"
	"github.com/codyd51/axle-sub000/internal/awm/window"
	"github.com/codyd51/axle-sub000/internal/clock"
	"github.com/codyd51/axle-sub000/internal/kernel"
	"github.com/codyd51/axle-sub000/internal/task"
	"github.com/codyd51/axle-sub000/log"
)

func newBootCmd() *cobra.Command {
	var numCPUs int
	var rounds int
	var withWindows bool
	var interactive bool

	cmd := &cobra.Command{
		Use:   "boot",
		Short: "Boot the simulated kernel (scheduler, AMC, reaper) and AWM compositor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoot(cmd.Context(), numCPUs, rounds, withWindows, interactive)
		},
	}

	cmd.Flags().IntVar(&numCPUs, "cpus", 2, "number of simulated CPUs")
	cmd.Flags().IntVar(&rounds, "rounds", 200, "scheduling rounds to run before exiting (0 = run until interrupted)")
	cmd.Flags().BoolVar(&withWindows, "windows", true, "also drive a demo AWM session alongside the scheduler")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "drive the session from a bubbletea program instead of exiting after --rounds")
	return cmd
}

func runBoot(parent context.Context, numCPUs, rounds int, withWindows, interactive bool) error {
	cfg := config.LoadConfig()

	var logger audit.Logger
	if cfg.AuditDBPath != "" {
		sqliteLogger, err := audit.NewSQLiteLogger(cfg.AuditDBPath)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer sqliteLogger.Close()
		logger = sqliteLogger
	} else {
		logger = audit.NopLogger()
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	k, err := kernel.Boot(cfg, clock.NewSystem(), logger, numCPUs)
	if err != nil {
		return fmt.Errorf("boot kernel: %w", err)
	}

	go k.RunReaper(ctx)

	names := []string{"shell", "compositor-worker", "net-daemon", "logger"}
	for _, name := range names {
		t, err := k.SpawnTask(name, nil)
		if err != nil {
			return fmt.Errorf("spawn %s: %w", name, err)
		}
		log.With("task_id", t.ID, "name", t.Name).Info("spawned task")
	}

	var awmLoop *loop.Loop
	if withWindows {
		awmLoop, err = loop.New(k.AMC, window.Rect{X: 0, Y: 0, W: cfg.ScreenWidth, H: cfg.ScreenHeight}, k.Clock, int64(cfg.AnimationTickMs), cfg.BytesPerPixel)
		if err != nil {
			return fmt.Errorf("start awm loop: %w", err)
		}
		seedDemoWindows(k.AMC)
	}

	if interactive {
		return runInteractive(k, awmLoop)
	}

	i := 0
	for rounds == 0 || i < rounds {
		select {
		case <-ctx.Done():
			log.L().Info("boot: received shutdown signal")
			return nil
		default:
		}

		for _, cpu := range k.CPUs {
			workMs := time.Duration(1+i%4) * time.Millisecond // varies the simulated workload so quanta deplete gradually, not instantly
			t := k.RunSlice(cpu, func(task *task.Task) {
				time.Sleep(workMs)
			})
			if t != nil && i == rounds/2 && rounds > 0 {
				if err := k.DieTask(t, 0); err != nil {
					log.With("task_id", t.ID, "err", err).Warn("task death deferred")
				}
			}
		}

		if awmLoop != nil {
			awmLoop.Tick()
		}
		i++
	}

	if awmLoop != nil {
		fmt.Print(render.View(awmLoop.Windows, awmLoop.Input.Focused()))
	}
	return nil
}

// seedDemoWindows sends a single create-window request from a fake client
// service so `axle boot --windows` has something to show in its summary view.
func seedDemoWindows(dir *amc.Directory) {
	raw, err := protocol.Encode(protocol.EventCreateWindowRequest, protocol.CreateWindowRequest{
		Width: 640, Height: 400, Title: "shell",
	})
	if err != nil {
		return
	}
	_ = dir.Send("com.axle.shell", loop.ServiceName, raw)
}
