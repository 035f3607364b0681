package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/foodfight/config"
	"github.com/milk9111/foodfight/host"
	"github.com/milk9111/foodfight/logging"
	"github.com/milk9111/foodfight/match"
	"github.com/milk9111/foodfight/prefabs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

func main() {
	configDir := flag.String("config", ".", "directory holding foodfight.yaml")
	assetsDir := flag.String("assets", "assets", "directory holding sound and music files")
	prefabsDir := flag.String("prefabs", "", "prefab directory, overrides prefabs.dir")
	watch := flag.Bool("watch", false, "hot reload prefabs and scripts")
	debug := flag.Bool("debug", false, "enable debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	boot := logging.New("info", logging.FormatConsole, os.Stderr)
	cfg, err := config.Load(config.New(), *configDir)
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if *prefabsDir != "" {
		cfg.Prefabs.Dir = *prefabsDir
	}
	if *watch {
		cfg.Prefabs.Watch = true
	}
	prefabs.Dir = cfg.Prefabs.Dir

	log := logging.New(cfg.LogLevel, logging.Format(cfg.LogFormat), os.Stderr)

	var provider metric.MeterProvider
	if cfg.Metrics.Enabled {
		provider = otel.GetMeterProvider()
	}
	metrics, err := match.NewMetrics(provider)
	if err != nil {
		log.Fatal().Err(err).Msg("metrics")
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("foodfight")
	ebiten.SetTPS(int(1/cfg.FixedStep + 0.5))

	game, err := host.New(host.Options{
		Config:    cfg,
		Log:       log,
		Metrics:   metrics,
		AssetsDir: *assetsDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("start")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("run")
	}
}
