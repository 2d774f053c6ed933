package main

import (
	"fmt"
	"os"

	"github.com/codyd51/axle-sub000/cmd/axle"
	"github.com/codyd51/axle-sub000/config"
	sentrypkg "github.com/codyd51/axle-sub000/internal/sentry"
	"github.com/codyd51/axle-sub000/log"
)

var version = "0.1.0"

func main() {
	cfg := config.LoadConfig()

	if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled()); err != nil {
		// Non-fatal: telemetry failing to initialize should not prevent startup.
		_ = err
	}
	defer sentrypkg.Flush()
	defer sentrypkg.RecoverPanic()

	log.Init(os.Stderr, cfg.Debug)
	sentrypkg.SetContext(1, cfg.ScreenWidth, cfg.ScreenHeight)

	if err := axle.NewRootCmd(version).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
