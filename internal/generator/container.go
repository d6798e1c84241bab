package generator

import (
	"context"
	"sync"

	"github.com/user/manifest-service/internal/entity"
)

// Container owns a single State for an in-process consumer.
// The lock only guards the record; the network call runs unlocked, so
// concurrent fetches race and the last one to finish wins.
type Container struct {
	gen   *Generator
	mu    sync.RWMutex
	state entity.State
}

func NewContainer(gen *Generator) *Container {
	return &Container{gen: gen, state: entity.NewState()}
}

// State returns a snapshot of the current record.
func (c *Container) State() entity.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

func (c *Container) UpdateLink(raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return UpdateLink(&c.state, raw)
}

func (c *Container) GetManifestInformation(ctx context.Context) error {
	c.mu.RLock()
	work := c.state.Clone()
	c.mu.RUnlock()

	err := c.gen.GetManifestInformation(ctx, &work)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Error = work.Error
		return err
	}
	c.state.Manifest = work.Manifest
	c.state.ManifestID = work.ManifestID
	c.state.SiteServiceWorkers = work.SiteServiceWorkers
	c.state.Icons = work.Icons
	c.state.Suggestions = work.Suggestions
	c.state.Warnings = work.Warnings
	c.state.Errors = work.Errors
	return nil
}
