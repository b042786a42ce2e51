package logging

import (
	"sync"
	"time"
)

// Entry is a single captured log record with its structured attributes.
type Entry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Collector stores log entries grouped by activity name, so the daemon can
// show what each activity logged during a pass.
type Collector struct {
	mu   sync.RWMutex
	logs map[string][]Entry
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		logs: make(map[string][]Entry),
	}
}

// Add appends an entry for the named activity.
func (c *Collector) Add(activityName string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs[activityName] = append(c.logs[activityName], entry)
}

// Logs returns a copy of the entries captured for the named activity.
func (c *Collector) Logs(activityName string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries, ok := c.logs[activityName]
	if !ok {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// AllLogs returns a deep copy of all captured entries keyed by activity name.
func (c *Collector) AllLogs() map[string][]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string][]Entry, len(c.logs))
	for name, entries := range c.logs {
		cp := make([]Entry, len(entries))
		copy(cp, entries)
		out[name] = cp
	}
	return out
}

// Clear drops all captured entries, typically at the start of a new pass.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = make(map[string][]Entry)
}
