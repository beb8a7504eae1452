package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clintecker/clanker-radio-sub000/internal/api"
	"github.com/clintecker/clanker-radio-sub000/internal/config"
	database "github.com/clintecker/clanker-radio-sub000/internal/db"
	"github.com/clintecker/clanker-radio-sub000/internal/dj"
	"github.com/clintecker/clanker-radio-sub000/internal/engine"
	"github.com/clintecker/clanker-radio-sub000/internal/export"
	"github.com/clintecker/clanker-radio-sub000/internal/scheduler"
)

// Metrics
var (
	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "radio_scheduler_job_runs_total", Help: "Scheduler job invocations"},
		[]string{"job"},
	)
	jobFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "radio_scheduler_job_failures_total", Help: "Scheduler job failures"},
		[]string{"job"},
	)
	queueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "radio_engine_queue_depth", Help: "Engine queue depth (-1 = unreachable)"},
		[]string{"queue"},
	)
	breakAge = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "radio_break_age_seconds", Help: "Age of the newest generated break"},
	)
	tracksPushed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "radio_music_tracks_pushed_total", Help: "Tracks pushed by the fill job"},
	)
)

func registerMetrics() {
	prometheus.MustRegister(jobRuns, jobFailures, queueDepth, breakAge, tracksPushed)
}

// radiod runs every scheduler job on a single sequential tick loop and
// exposes metrics plus a read-only status API. It is an alternative to
// running the per-job CLIs under cron; the jobs themselves are identical.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()
	registerMetrics()

	db, err := database.New(cfg.Music.DBPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	if err := dj.LoadDayparts(cfg.Music.DaypartFile); err != nil {
		log.Printf("⚠️ Dayparts unavailable (%v), using fallback rotation", err)
	}

	client := engine.NewClient(cfg.Engine.SocketPath)
	gateway := engine.NewGateway(client, cfg.PollTimeout())
	clock := scheduler.RealClock{}
	loc := cfg.Location()

	gate := &scheduler.FreshnessGate{
		Clock:     clock,
		Pattern:   cfg.Station.BreakPattern,
		Threshold: cfg.Freshness(),
	}

	stationID := &scheduler.StationID{
		Clock:     clock,
		Store:     scheduler.NewStateStore(cfg.Station.StateDir),
		Queue:     gateway,
		BumperDir: cfg.Station.BumperDir,
		Pattern:   cfg.Station.BumperPattern,
		Location:  loc,
		QueueName: engine.QueueBreaks,
	}

	topOfHour := &scheduler.TopOfHour{
		Clock:         clock,
		Gate:          gate,
		Queue:         gateway,
		BreaksDir:     cfg.Station.BreaksDir,
		NextFile:      cfg.Station.NextBreakFile,
		LastGoodFile:  cfg.Station.LastGoodBreakFile,
		WindowMinutes: cfg.Station.BreakWindowMinutes,
		Location:      loc,
		QueueName:     engine.QueueBreaks,
	}

	fill := dj.NewFill(
		dj.NewSelector(db.DB),
		gateway,
		cfg.Music.QueueFloor,
		cfg.Music.FillCount,
		cfg.Music.RecentCount,
	)

	exporter := &export.Exporter{
		Gateway:  gateway,
		Clock:    clock,
		Source:   cfg.Engine.Source,
		OutPath:  cfg.Export.OutputPath,
		LockPath: cfg.Export.LockPath,
	}

	// Metrics endpoint
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics on %s/metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Fatalf("❌ Metrics server failed: %v", err)
		}
	}()

	// Status API
	go func() {
		srv := api.New(cfg, gateway)
		log.Printf("🌐 Status API on %s", cfg.Server.StatusPort)
		if err := srv.Run(cfg.Server.StatusPort); err != nil {
			log.Fatalf("❌ Status API failed: %v", err)
		}
	}()

	log.Println("🚀 Starting radiod supervisor...")

	tick := time.Duration(cfg.Server.TickSeconds) * time.Second
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		runJob("stationid", stationID.Run)
		runJob("breaks", topOfHour.Run)

		jobRuns.WithLabelValues("musicfill").Inc()
		pushed, needed := fill.Run(clock.Now().In(loc))
		tracksPushed.Add(float64(pushed))
		if needed && pushed == 0 {
			jobFailures.WithLabelValues("musicfill").Inc()
		}

		runJob("nowplaying", exporter.Run)
		observeGauges(gateway, gate, cfg.Station.BreaksDir)

		<-ticker.C
	}
}

func runJob(name string, fn func() error) {
	jobRuns.WithLabelValues(name).Inc()
	if err := fn(); err != nil {
		jobFailures.WithLabelValues(name).Inc()
		log.Printf("❌ Job %s failed: %v", name, err)
	}
}

func observeGauges(gateway *engine.Gateway, gate *scheduler.FreshnessGate, breaksDir string) {
	for _, q := range []string{engine.QueueMusic, engine.QueueBreaks, engine.QueueOverride} {
		queueDepth.WithLabelValues(q).Set(float64(gateway.GetQueueLength(q)))
	}

	path, err := gate.FreshBreak(breaksDir)
	if err != nil {
		var stale *scheduler.StaleBreakError
		if errors.As(err, &stale) {
			breakAge.Set(stale.Age.Seconds())
		}
		return
	}
	if info, err := os.Stat(path); err == nil {
		breakAge.Set(time.Since(info.ModTime()).Seconds())
	}
}
