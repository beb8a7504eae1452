package main

import (
	"log"
	"os"

	"github.com/clintecker/clanker-radio-sub000/internal/config"
	"github.com/clintecker/clanker-radio-sub000/internal/engine"
	"github.com/clintecker/clanker-radio-sub000/internal/scheduler"
)

// breaks runs once per cron tick and queues the freshest generated
// news/weather break shortly after the top of each hour. Stale or absent
// break content is a hard failure so alerting can see a broken
// generation pipeline.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	client := engine.NewClient(cfg.Engine.SocketPath)
	gateway := engine.NewGateway(client, cfg.PollTimeout())

	job := &scheduler.TopOfHour{
		Clock: scheduler.RealClock{},
		Gate: &scheduler.FreshnessGate{
			Clock:     scheduler.RealClock{},
			Pattern:   cfg.Station.BreakPattern,
			Threshold: cfg.Freshness(),
		},
		Queue:         gateway,
		BreaksDir:     cfg.Station.BreaksDir,
		NextFile:      cfg.Station.NextBreakFile,
		LastGoodFile:  cfg.Station.LastGoodBreakFile,
		WindowMinutes: cfg.Station.BreakWindowMinutes,
		Location:      cfg.Location(),
		QueueName:     engine.QueueBreaks,
	}

	if err := job.Run(); err != nil {
		log.Printf("❌ Break scheduling failed: %v", err)
		os.Exit(1)
	}
}
