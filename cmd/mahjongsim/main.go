package main

import (
	"fmt"
	"hkmahjong/common/config"
	"hkmahjong/common/log"
	"hkmahjong/common/metrics"
	"hkmahjong/common/utils"
	"hkmahjong/internal/monitor"
	"hkmahjong/mahjong"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var (
	configFile string
	logLevel   string
	seed       int64
	rounds     int
	metricPort int
)

var rootCmd = &cobra.Command{
	Use:   "mahjongsim",
	Short: "mahjongsim 麻将规则引擎模拟器",
	Long:  `mahjongsim runs batches of four-player Hong Kong Mahjong games against the rules engine with randomized players.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Load(configFile); err != nil {
			log.Warn("config: falling back to flag defaults", "resource", configFile, "err", err)
			config.Conf = &config.SimulatorConfig{AppName: "mahjongsim"}
		}
		// Command-line flags always win over the resource file.
		config.Conf.Seed, config.Conf.Rounds = seed, rounds
		config.Conf.Log.Level, config.Conf.MetricPort = logLevel, metricPort

		if !utils.Contains(validLogLevels, config.Conf.Log.Level) {
			config.Conf.Log.Level = "info"
		}

		log.InitLog(config.Conf.AppName, config.Conf.Log.Level)
		log.Info("starting simulation", "seed", config.Conf.Seed, "rounds", config.Conf.Rounds)

		go func() {
			addr := fmt.Sprintf("0.0.0.0:%d", config.Conf.MetricPort)
			log.Info("monitor dashboard", "url", "http://localhost:"+fmt.Sprintf("%d", config.Conf.MetricPort)+"/debug/statsviz/")
			if err := metrics.Serve(addr); err != nil {
				log.Error("metrics server stopped", "err", err)
			}
		}()

		stats := &monitor.Stats{}
		mon := monitor.NewMonitor(stats, 5*time.Second)
		go mon.Report(cmd.Context())
		defer mon.Stop()

		runBatch(config.Conf, stats)
	},
}

// runBatch plays cfg.Rounds independent games, each seeded deterministically
// off cfg.Seed, and logs a summary line per game plus the running totals
// the Monitor reports on its own cadence.
func runBatch(cfg *config.SimulatorConfig, stats *monitor.Stats) {
	for round := 0; round < cfg.Rounds; round++ {
		seed := cfg.Seed + int64(round)
		dealer := round % 4
		gs := mahjong.NewGameState(seed, mahjong.East, dealer)

		var players [4]mahjong.PlayerPort
		for seat := 0; seat < 4; seat++ {
			players[seat] = mahjong.NewRandomPlayer(seed + int64(seat) + 1)
		}
		engine := mahjong.NewGameEngine(gs, players)

		for !gs.Done {
			if err := engine.Step(); err != nil {
				log.Error("engine step failed", "round", round, "err", err)
				break
			}
		}

		stats.RecordGame()
		if gs.Winner >= 0 {
			stats.RecordWin(gs.FinalFaan)
		}
		log.Info("round complete", "round", round, "dealer", dealer,
			"winner", gs.Winner, "faan", gs.FinalFaan, "draw", gs.Draw)
	}
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "resource", "resource/application.yml", "resource file")
	rootCmd.Flags().StringVar(&logLevel, "logLevel", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "base PRNG seed; game N draws from seed+N")
	rootCmd.Flags().IntVar(&rounds, "rounds", 100, "number of independent games to simulate")
	rootCmd.Flags().IntVar(&metricPort, "metricPort", 9090, "statsviz dashboard port")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen", "err", err)
		os.Exit(1)
	}
}
