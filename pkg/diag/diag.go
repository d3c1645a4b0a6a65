// Package diag is the diagnostics channel for shipping calculations. Debug
// lines are emitted only when the method runs in debug mode and are
// deduplicated by message hash within one collector's lifetime, so a single
// calculation never repeats itself.
package diag

import (
	"crypto/md5"
	"log"
	"net/url"
	"strings"
	"sync"
)

// Sink receives human-readable diagnostic lines from a calculation run.
type Sink interface {
	Debug(message string)
	Error(message string)
}

// Nop is a Sink that discards everything. Used when debug mode is off.
type Nop struct{}

func (Nop) Debug(string) {}
func (Nop) Error(string) {}

// Line is one recorded diagnostic message.
type Line struct {
	Level   string
	Message string
}

// Collector records deduplicated diagnostic lines and optionally forwards
// them to the standard logger.
type Collector struct {
	// Verbose forwards every recorded line to the standard logger.
	Verbose bool

	mu    sync.Mutex
	seen  map[[md5.Size]byte]struct{}
	lines []Line
}

// NewCollector creates an empty collector.
func NewCollector(verbose bool) *Collector {
	return &Collector{
		Verbose: verbose,
		seen:    make(map[[md5.Size]byte]struct{}),
	}
}

func (c *Collector) Debug(message string) { c.record("DEBUG", message) }

func (c *Collector) Error(message string) { c.record("ERROR", message) }

func (c *Collector) record(level, message string) {
	if message == "" {
		return
	}

	key := md5.Sum([]byte(message))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.lines = append(c.lines, Line{Level: level, Message: message})

	if c.Verbose {
		log.Printf("%s => %s", level, message)
	}
}

// Lines returns the recorded lines in emission order.
func (c *Collector) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// MaskKey replaces every occurrence of the API key in a request URL with
// asterisks so credentials never reach the diagnostics output in plaintext.
func MaskKey(rawURL, key string) string {
	if key == "" {
		return rawURL
	}
	masked := strings.ReplaceAll(rawURL, url.QueryEscape(key), "**********")
	return strings.ReplaceAll(masked, key, "**********")
}
