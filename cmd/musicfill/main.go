package main

import (
	"log"
	"os"
	"time"

	"github.com/clintecker/clanker-radio-sub000/internal/config"
	database "github.com/clintecker/clanker-radio-sub000/internal/db"
	"github.com/clintecker/clanker-radio-sub000/internal/dj"
	"github.com/clintecker/clanker-radio-sub000/internal/engine"
)

// musicfill tops up the engine's music queue when it runs low. Partial
// success (some tracks pushed) is still exit 0; only a needed fill that
// pushed nothing is a failure.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	db, err := database.New(cfg.Music.DBPath)
	if err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}

	if err := dj.LoadDayparts(cfg.Music.DaypartFile); err != nil {
		log.Printf("⚠️ Dayparts unavailable (%v), using fallback rotation", err)
	}

	client := engine.NewClient(cfg.Engine.SocketPath)
	gateway := engine.NewGateway(client, cfg.PollTimeout())

	fill := dj.NewFill(
		dj.NewSelector(db.DB),
		gateway,
		cfg.Music.QueueFloor,
		cfg.Music.FillCount,
		cfg.Music.RecentCount,
	)

	pushed, needed := fill.Run(time.Now().In(cfg.Location()))
	if needed && pushed == 0 {
		log.Println("❌ Fill was needed but no tracks were pushed")
		os.Exit(1)
	}
}
