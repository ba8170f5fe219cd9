package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/attest/pkg/attest/types"
)

// progressPrinter renders a single-line hashing counter on stderr. The
// builder reports every completed file; rendering is throttled here so a
// tree of tiny files does not drown the terminal.
type progressPrinter struct {
	lastRender atomic.Int64
	active     bool
}

// newProgressPrinter returns a printer, or nil when progress is disabled.
func newProgressPrinter(enabled bool) *progressPrinter {
	if !enabled {
		return nil
	}
	return &progressPrinter{active: true}
}

// Callback returns the builder progress callback, or nil.
func (p *progressPrinter) Callback() func(types.BuildProgress) {
	if p == nil {
		return nil
	}
	return p.render
}

func (p *progressPrinter) render(prog types.BuildProgress) {
	now := time.Now().UnixMilli()
	last := p.lastRender.Load()
	if now-last < 100 {
		return
	}
	if !p.lastRender.CompareAndSwap(last, now) {
		return
	}

	fmt.Fprintf(os.Stderr, "\rhashed %d files (%s)",
		prog.FilesHashed, types.FormatSize(prog.BytesHashed))
}

// Finish terminates the progress line.
func (p *progressPrinter) Finish() {
	if p == nil || !p.active {
		return
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
}
