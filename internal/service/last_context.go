package service

import "sync"

// LastContext holds the article-id set produced by the most recent
// successful answer. It is the only mutable state shared between the
// answerer and the graph builder: replaced atomically on each successful
// answer (last writer by completion time wins) and never persisted.
type LastContext struct {
	mu  sync.RWMutex
	ids []string
}

func NewLastContext() *LastContext {
	return &LastContext{}
}

// Set replaces the held set with a copy of ids.
func (c *LastContext) Set(ids []string) {
	copied := make([]string, len(ids))
	copy(copied, ids)

	c.mu.Lock()
	c.ids = copied
	c.mu.Unlock()
}

// Get returns a copy of the held set; nil when no answer has completed.
func (c *LastContext) Get() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ids == nil {
		return nil
	}
	copied := make([]string, len(c.ids))
	copy(copied, c.ids)
	return copied
}
