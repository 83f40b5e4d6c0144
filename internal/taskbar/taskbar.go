// Package taskbar hides or shows the application window in the task switcher.
package taskbar

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Controller applies the skip-taskbar flag to the application window
type Controller struct {
	title string
	mu    sync.Mutex
}

// NewController targets the top-level window with the given title
func NewController(windowTitle string) *Controller {
	return &Controller{title: windowTitle}
}

// SetSkipTaskbar excludes (skip=true) or includes the window in the taskbar
func (c *Controller) SetSkipTaskbar(ctx context.Context, skip bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := setSkipTaskbar(c.title, skip); err != nil {
		return fmt.Errorf("set skip taskbar=%v: %w", skip, err)
	}
	log.Printf("[Taskbar] skip_taskbar=%v applied", skip)
	return nil
}

// Apply lets the controller serve as a prefsync.HostEffect
func (c *Controller) Apply(ctx context.Context, value bool) error {
	return c.SetSkipTaskbar(ctx, value)
}
