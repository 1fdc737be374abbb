// Package parallel fans read-only index loops out over goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/klauspost/cpuid/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine.
}

// DefaultConfig sizes the pool from the detected logical core count.
func DefaultConfig() Config {
	n := Cores()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// Cores reports the logical CPU count, preferring cpuid and falling back to
// the runtime when detection fails.
func Cores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// For executes f(i) for i in [0, n). It runs sequentially when parallelism
// is disabled or n is below the chunk size.
func For(n int, f func(i int), cfg Config) {
	forChunks(n, cfg, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	})
}

// Count returns how many i in [0, n) satisfy pred. Each chunk counts
// locally and the partial sums are added atomically.
func Count(n int, pred func(i int) bool, cfg Config) int {
	var total int64
	forChunks(n, cfg, func(start, end int) {
		var local int64
		for i := start; i < end; i++ {
			if pred(i) {
				local++
			}
		}
		atomic.AddInt64(&total, local)
	})
	return int(total)
}

func forChunks(n int, cfg Config, body func(start, end int)) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		body(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			body(s, e)
		}(start, end)
	}
	wg.Wait()
}
