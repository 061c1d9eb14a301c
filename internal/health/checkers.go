// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/ManuGH/tlgrab/internal/epg"
)

// XMLTVChecker reports whether the published guide exists and parses. The
// parse result is memoised per modification time and size.
type XMLTVChecker struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	last    CheckResult
}

// NewXMLTVChecker checks the guide at path.
func NewXMLTVChecker(path string) *XMLTVChecker {
	return &XMLTVChecker{path: path}
}

func (c *XMLTVChecker) Name() string { return "xmltv" }

func (c *XMLTVChecker) Check(context.Context) CheckResult {
	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{Status: StatusUnhealthy, Error: "file not found", Message: c.path}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected file, got directory"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if info.ModTime().Equal(c.modTime) && info.Size() == c.size && c.last.Status != "" {
		return c.last
	}

	tv, err := epg.ParseFile(c.path)
	switch {
	case err != nil:
		c.last = CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	case len(tv.Programmes) == 0:
		c.last = CheckResult{Status: StatusDegraded, Message: "guide has no programmes"}
	default:
		c.last = CheckResult{
			Status:  StatusHealthy,
			Message: fmt.Sprintf("%d channels, %d programmes", len(tv.Channels), len(tv.Programmes)),
		}
	}
	c.modTime, c.size = info.ModTime(), info.Size()
	return c.last
}

// FuncChecker adapts a ping function.
type FuncChecker struct {
	name    string
	timeout time.Duration
	fn      func(context.Context) error
}

// NewFuncChecker wraps fn. Each check gets timeout when positive.
func NewFuncChecker(name string, timeout time.Duration, fn func(context.Context) error) *FuncChecker {
	return &FuncChecker{name: name, timeout: timeout, fn: fn}
}

func (c *FuncChecker) Name() string { return c.name }

func (c *FuncChecker) Check(ctx context.Context) CheckResult {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := c.fn(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}
