// Package monitor periodically logs the simulator's load and throughput,
// adapted from the server fleet's room-load reporter with the etcd/registry
// leg removed: a standalone simulator has nothing to report load to, only
// an operator watching its own logs.
package monitor

import (
	"context"
	"fmt"
	"hkmahjong/common/log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// Stats are the simulator counters Monitor logs alongside CPU/mem. All
// fields are updated with atomic adds from the simulation loop, since the
// reporting goroutine reads them concurrently.
type Stats struct {
	GamesCompleted int64
	HandsScored    int64
	TotalFaan      int64
}

func (s *Stats) RecordGame() {
	atomic.AddInt64(&s.GamesCompleted, 1)
}

func (s *Stats) RecordWin(faan int) {
	atomic.AddInt64(&s.HandsScored, 1)
	atomic.AddInt64(&s.TotalFaan, int64(faan))
}

func (s *Stats) snapshot() (games, hands, faan int64) {
	return atomic.LoadInt64(&s.GamesCompleted), atomic.LoadInt64(&s.HandsScored), atomic.LoadInt64(&s.TotalFaan)
}

// Monitor logs CPU/memory usage and simulator throughput on a fixed
// interval, the way the server fleet's load reporter does minus the
// upstream registry call.
type Monitor struct {
	stats          *Stats
	updateInterval time.Duration
	stopCh         chan struct{}
}

// NewMonitor builds a monitor reporting on stats every updateInterval.
func NewMonitor(stats *Stats, updateInterval time.Duration) *Monitor {
	return &Monitor{
		stats:          stats,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
	}
}

// Report runs the reporting loop until ctx is cancelled or Stop is called.
func (m *Monitor) Report(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	m.reportLoad()

	for {
		select {
		case <-ctx.Done():
			log.Info("monitor stopping: context cancelled")
			return
		case <-m.stopCh:
			log.Info("monitor stopping: Stop called")
			return
		case <-ticker.C:
			m.reportLoad()
		}
	}
}

// Stop ends the reporting loop.
func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) reportLoad() {
	cpuUsage := getCPUUsage()
	memUsage := getMemoryUsage()
	games, hands, faan := m.stats.snapshot()

	avgFaan := 0.0
	if hands > 0 {
		avgFaan = float64(faan) / float64(hands)
	}

	log.Info(fmt.Sprintf("monitor: cpu=%.2f%% mem=%.2f%% games=%d hands=%d avgFaan=%.2f",
		cpuUsage, memUsage, games, hands, avgFaan))
}

// getCPUUsage samples system-wide CPU usage over a short window, averaged
// across cores.
func getCPUUsage() float64 {
	percentages, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil {
		log.Error(fmt.Sprintf("monitor: cpu.Percent failed: %v", err))
		return 0.0
	}
	if len(percentages) == 0 {
		return 0.0
	}
	usage := percentages[0]
	if usage > 100.0 {
		usage = 100.0
	}
	if usage < 0.0 {
		usage = 0.0
	}
	return usage
}

// getMemoryUsage reports this process's share of the runtime-reserved
// memory against an assumed 8GB host, mirroring the fleet monitor's
// simplified accounting (a true host-memory read needs gopsutil's mem
// package, not wired here since nothing downstream consumes it).
func getMemoryUsage() float64 {
	var mStats runtime.MemStats
	runtime.ReadMemStats(&mStats)

	const assumedHostMemory = 8 * 1024 * 1024 * 1024
	usage := float64(mStats.Sys) / float64(assumedHostMemory) * 100.0
	if usage > 100.0 {
		usage = 100.0
	}
	if usage < 0.0 {
		usage = 0.0
	}
	return usage
}
