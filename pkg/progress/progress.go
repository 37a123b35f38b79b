// Package progress shows the long running installation steps of a project.
package progress

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// ErrActive is returned when starting an indicator that is already running.
var ErrActive = errors.New("indicator already active")

// Indicator reports the state of one running step.
type Indicator interface {
	Start(message string) error
	Update(message string) error
	Success(message string) error
	Failure(message string) error
	Stop() error
	IsActive() bool
}

// Config configures an indicator.
type Config struct {
	// Enabled shows the indicator. Disabled indicators print nothing.
	Enabled bool
	// Writer receives the indicator output. Nil means stdout.
	Writer io.Writer
	// Delay between two frames of the spinner.
	Delay time.Duration
}

// New returns a spinner, or a silent indicator when config is nil or disabled.
func New(config *Config) Indicator {
	if config == nil || !config.Enabled {
		return &Noop{}
	}
	return NewSpinner(config)
}

// Step runs fn between Start and Success, or Failure when fn fails. The
// error of fn is returned unchanged.
func Step(ind Indicator, message, done, failed string, fn func() error) error {
	if err := ind.Start(message); err != nil {
		return err
	}
	if err := fn(); err != nil {
		_ = ind.Failure(failed)
		return err
	}
	return ind.Success(done)
}

// Spinner is a pterm spinner.
type Spinner struct {
	mu      sync.Mutex
	config  Config
	printer *pterm.SpinnerPrinter
}

// NewSpinner creates a spinner. It starts on Start.
func NewSpinner(config *Config) *Spinner {
	s := &Spinner{}
	if config != nil {
		s.config = *config
	}
	return s
}

// Start shows the spinner with message.
func (s *Spinner) Start(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.printer != nil {
		return ErrActive
	}

	printer := pterm.DefaultSpinner.WithRemoveWhenDone(false)
	if s.config.Writer != nil {
		printer = printer.WithWriter(s.config.Writer)
	}
	if s.config.Delay > 0 {
		printer = printer.WithDelay(s.config.Delay)
	}

	p, err := printer.Start(message)
	if err != nil {
		return err
	}
	s.printer = p
	return nil
}

// Update replaces the spinner text.
func (s *Spinner) Update(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.printer != nil {
		s.printer.UpdateText(message)
	}
	return nil
}

// Success stops the spinner with a success line.
func (s *Spinner) Success(message string) error {
	return s.finish(func(p *pterm.SpinnerPrinter) { p.Success(message) })
}

// Failure stops the spinner with an error line.
func (s *Spinner) Failure(message string) error {
	return s.finish(func(p *pterm.SpinnerPrinter) { p.Fail(message) })
}

// Stop stops the spinner without a final line.
func (s *Spinner) Stop() error {
	return s.finish(func(p *pterm.SpinnerPrinter) { _ = p.Stop() })
}

// IsActive reports whether the spinner is running.
func (s *Spinner) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.printer != nil
}

func (s *Spinner) finish(fn func(*pterm.SpinnerPrinter)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.printer == nil {
		return nil
	}
	fn(s.printer)
	s.printer = nil
	return nil
}

// Noop is an indicator that prints nothing.
type Noop struct {
	active bool
}

func (n *Noop) Start(string) error   { n.active = true; return nil }
func (n *Noop) Update(string) error  { return nil }
func (n *Noop) Success(string) error { n.active = false; return nil }
func (n *Noop) Failure(string) error { n.active = false; return nil }
func (n *Noop) Stop() error          { n.active = false; return nil }
func (n *Noop) IsActive() bool       { return n.active }
