// Package profiling keeps per-frame timing buckets.
//
// Usage: defer profiling.Track("subsystem.Operation")()
package profiling

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type bucket struct {
	total time.Duration
	calls int
}

var (
	mu     sync.Mutex
	frame  = make(map[string]bucket)
	frames int
)

// Entry is one bucket of the current frame.
type Entry struct {
	Name  string
	Total time.Duration
	Calls int
}

// Track returns a stop function that records the elapsed time under name.
// It is safe to call from worker goroutines.
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		b := frame[name]
		b.total += d
		b.calls++
		frame[name] = b
		mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frame)
	frames++
	mu.Unlock()
}

// Frames counts ResetFrame calls.
func Frames() int {
	mu.Lock()
	defer mu.Unlock()
	return frames
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frame))
	for k, b := range frame {
		out[k] = b.total
	}
	return out
}

// Top returns the n slowest buckets, slowest first. Ties sort by name.
func Top(n int) []Entry {
	mu.Lock()
	list := make([]Entry, 0, len(frame))
	for k, b := range frame {
		list = append(list, Entry{Name: k, Total: b.total, Calls: b.calls})
	}
	mu.Unlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].Total != list[j].Total {
			return list[i].Total > list[j].Total
		}
		return list[i].Name < list[j].Name
	})
	if n < len(list) {
		list = list[:max(n, 0)]
	}
	return list
}

// TopN formats the n slowest buckets.
// Example: "meshing.Build:4.2ms, world.BuildChunk:2.1ms"
func TopN(n int) string {
	top := Top(n)
	parts := make([]string, 0, len(top))
	for _, e := range top {
		parts = append(parts, e.Name+":"+formatMs(e.Total))
	}
	return strings.Join(parts, ", ")
}

// LogTop writes the n slowest buckets as one structured record.
func LogTop(log *slog.Logger, msg string, n int) {
	top := Top(n)
	attrs := make([]any, 0, len(top))
	for _, e := range top {
		attrs = append(attrs, slog.Group(e.Name, "total", e.Total, "calls", e.Calls))
	}
	log.Info(msg, attrs...)
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
