package main

import (
	"log"
	"os"

	"github.com/clintecker/clanker-radio-sub000/internal/config"
	"github.com/clintecker/clanker-radio-sub000/internal/engine"
	"github.com/clintecker/clanker-radio-sub000/internal/scheduler"
)

// stationid runs once per cron tick and queues a station-identification
// bumper when a :15/:30/:45 window is open. Exit 0 covers success and
// benign no-ops; exit 1 means operator attention.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	client := engine.NewClient(cfg.Engine.SocketPath)
	gateway := engine.NewGateway(client, cfg.EngineTimeout())

	job := &scheduler.StationID{
		Clock:     scheduler.RealClock{},
		Store:     scheduler.NewStateStore(cfg.Station.StateDir),
		Queue:     gateway,
		BumperDir: cfg.Station.BumperDir,
		Pattern:   cfg.Station.BumperPattern,
		Location:  cfg.Location(),
		QueueName: engine.QueueBreaks,
	}

	if err := job.Run(); err != nil {
		log.Printf("❌ Station ID scheduling failed: %v", err)
		os.Exit(1)
	}
}
