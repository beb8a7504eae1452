package main

import (
	"log"
	"os"

	"github.com/clintecker/clanker-radio-sub000/internal/config"
	"github.com/clintecker/clanker-radio-sub000/internal/engine"
	"github.com/clintecker/clanker-radio-sub000/internal/export"
	"github.com/clintecker/clanker-radio-sub000/internal/scheduler"
)

// nowplaying exports the engine's current-playing metadata to a JSON
// snapshot for listener-facing surfaces. A peer invocation holding the
// lock is a benign no-op.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	client := engine.NewClient(cfg.Engine.SocketPath)
	gateway := engine.NewGateway(client, cfg.PollTimeout())

	exporter := &export.Exporter{
		Gateway:  gateway,
		Clock:    scheduler.RealClock{},
		Source:   cfg.Engine.Source,
		OutPath:  cfg.Export.OutputPath,
		LockPath: cfg.Export.LockPath,
	}

	if err := exporter.Run(); err != nil {
		log.Printf("❌ Now-playing export failed: %v", err)
		os.Exit(1)
	}
}
