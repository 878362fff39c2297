package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ProgressReporter reports the steps of a count: one per fetched image
// URL and one for the count itself.
type ProgressReporter interface {
	Start(total int64)
	Step(message string)
	Finish()
	Error(err error)
}

// SimpleProgress implements a single-line text progress reporter.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int64
	current int64
	message string
	width   int
	writer  io.Writer
}

// NewProgressReporter creates a new progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr so progress never mixes with
// command output.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{
		writer: w,
	}
}

// Start initializes the progress reporter with the number of steps.
func (p *SimpleProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.message = ""
	p.width = 0
}

// Step advances by one and shows message.
func (p *SimpleProgress) Step(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	p.message = message
	p.render()
}

// Finish clears the progress line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.width > 0 {
		fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", p.width))
		p.width = 0
	}
}

// Error reports an error during progress.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.width > 0 {
		fmt.Fprintln(p.writer)
		p.width = 0
	}
	fmt.Fprintf(p.writer, "✗ %v\n", err)
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	line := fmt.Sprintf("[%d/%d] %s", p.current, p.total, p.message)
	pad := ""
	if n := p.width - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprintf(p.writer, "\r%s%s", line, pad)
	p.width = len(line)
}

// NopProgress discards progress. Machine-readable output uses it.
type NopProgress struct{}

func (NopProgress) Start(int64) {}
func (NopProgress) Step(string) {}
func (NopProgress) Finish()     {}
func (NopProgress) Error(error) {}
