package instrument

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/pitch"
	"github.com/pkg/errors"
)

// Dry logs notes instead of sounding them and keeps a record of what it
// was asked to do.
type Dry struct {
	mu      sync.Mutex
	name    string
	logger  *log.Logger
	played  []string
	stopped []string
	closed  bool
}

func NewDry(name string, logger *log.Logger) *Dry {
	if logger == nil {
		logger = log.Default()
	}
	return &Dry{name: name, logger: logger}
}

func (d *Dry) Play(p string, velocity uint8) error {
	if !pitch.Valid(p) {
		return errors.Errorf("invalid pitch %q", p)
	}
	d.mu.Lock()
	d.played = append(d.played, p)
	d.mu.Unlock()
	d.logger.Debug("note on", "instrument", d.name, "pitch", p, "velocity", velocity)
	return nil
}

func (d *Dry) Stop(p string) error {
	d.mu.Lock()
	d.stopped = append(d.stopped, p)
	d.mu.Unlock()
	d.logger.Debug("note off", "instrument", d.name, "pitch", p)
	return nil
}

func (d *Dry) StopAll() error {
	d.logger.Debug("all notes off", "instrument", d.name)
	return nil
}

func (d *Dry) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

func (d *Dry) Played() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.played...)
}

func (d *Dry) Stopped() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.stopped...)
}

func (d *Dry) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type DryLoader struct {
	Logger *log.Logger
}

func (l DryLoader) Load(ctx context.Context, name string) (Instrument, error) {
	if _, err := Program(name); err != nil {
		return nil, err
	}
	return NewDry(name, l.Logger), nil
}
