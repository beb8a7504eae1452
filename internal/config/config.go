package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Engine struct {
		SocketPath         string `mapstructure:"socket_path"`
		TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
		PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds"`
		Source             string `mapstructure:"source"` // source queried for now-playing
	} `mapstructure:"engine"`
	Station struct {
		Timezone           string `mapstructure:"timezone"`
		StateDir           string `mapstructure:"state_dir"`
		BumperDir          string `mapstructure:"bumper_dir"`
		BumperPattern      string `mapstructure:"bumper_pattern"`
		BreaksDir          string `mapstructure:"breaks_dir"`
		BreakPattern       string `mapstructure:"break_pattern"`
		NextBreakFile      string `mapstructure:"next_break_file"`
		LastGoodBreakFile  string `mapstructure:"last_good_break_file"`
		FreshnessMinutes   int    `mapstructure:"freshness_minutes"`
		BreakWindowMinutes int    `mapstructure:"break_window_minutes"`
	} `mapstructure:"station"`
	Music struct {
		DBPath      string `mapstructure:"db_path"`
		QueueFloor  int    `mapstructure:"queue_floor"`
		FillCount   int    `mapstructure:"fill_count"`
		RecentCount int    `mapstructure:"recent_count"`
		DaypartFile string `mapstructure:"daypart_file"`
	} `mapstructure:"music"`
	Export struct {
		OutputPath string `mapstructure:"output_path"`
		LockPath   string `mapstructure:"lock_path"`
	} `mapstructure:"export"`
	Server struct {
		MetricsPort string `mapstructure:"metrics_port"`
		StatusPort  string `mapstructure:"status_port"`
		TickSeconds int    `mapstructure:"tick_seconds"`
		LogLevel    string `mapstructure:"log_level"`
	} `mapstructure:"server"`
}

func Load() *Config {
	viper.SetEnvPrefix("RADIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("engine.socket_path")
	viper.BindEnv("engine.timeout_seconds")
	viper.BindEnv("engine.poll_timeout_seconds")
	viper.BindEnv("engine.source")
	viper.BindEnv("station.timezone")
	viper.BindEnv("station.state_dir")
	viper.BindEnv("station.bumper_dir")
	viper.BindEnv("station.bumper_pattern")
	viper.BindEnv("station.breaks_dir")
	viper.BindEnv("station.break_pattern")
	viper.BindEnv("station.next_break_file")
	viper.BindEnv("station.last_good_break_file")
	viper.BindEnv("station.freshness_minutes")
	viper.BindEnv("station.break_window_minutes")
	viper.BindEnv("music.db_path")
	viper.BindEnv("music.queue_floor")
	viper.BindEnv("music.fill_count")
	viper.BindEnv("music.recent_count")
	viper.BindEnv("music.daypart_file")
	viper.BindEnv("export.output_path")
	viper.BindEnv("export.lock_path")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.status_port")
	viper.BindEnv("server.tick_seconds")
	viper.BindEnv("server.log_level")

	// Defaults
	viper.SetDefault("engine.socket_path", "/run/radio/engine.sock")
	viper.SetDefault("engine.timeout_seconds", 5)
	viper.SetDefault("engine.poll_timeout_seconds", 3)
	viper.SetDefault("engine.source", "output")
	viper.SetDefault("station.timezone", "America/Chicago")
	viper.SetDefault("station.state_dir", "/var/lib/radio/state")
	viper.SetDefault("station.bumper_dir", "/var/lib/radio/bumpers")
	viper.SetDefault("station.bumper_pattern", "*.mp3")
	viper.SetDefault("station.breaks_dir", "/var/lib/radio/breaks")
	viper.SetDefault("station.break_pattern", "break_2*.mp3")
	viper.SetDefault("station.next_break_file", "break_next.mp3")
	viper.SetDefault("station.last_good_break_file", "break_last_good.mp3")
	viper.SetDefault("station.freshness_minutes", 50)
	viper.SetDefault("station.break_window_minutes", 5)
	viper.SetDefault("music.db_path", "/var/lib/radio/library.db")
	viper.SetDefault("music.queue_floor", 3)
	viper.SetDefault("music.fill_count", 5)
	viper.SetDefault("music.recent_count", 30)
	viper.SetDefault("music.daypart_file", "dayparts.yaml")
	viper.SetDefault("export.output_path", "/var/lib/radio/export/now_playing.json")
	viper.SetDefault("export.lock_path", "/var/lib/radio/export/now_playing.lock")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.status_port", ":8087")
	viper.SetDefault("server.tick_seconds", 30)
	viper.SetDefault("server.log_level", "info")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/radio/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	return &cfg
}

func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSeconds) * time.Second
}

func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.Engine.PollTimeoutSeconds) * time.Second
}

func (c *Config) Freshness() time.Duration {
	return time.Duration(c.Station.FreshnessMinutes) * time.Minute
}

// Location resolves the station timezone; all scheduling windows are
// evaluated on station wall-clock time, never UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Station.Timezone)
	if err != nil {
		log.Printf("⚠️ Bad timezone %q, falling back to UTC: %v", c.Station.Timezone, err)
		return time.UTC
	}
	return loc
}
