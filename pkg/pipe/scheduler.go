package pipe

import (
	"fmt"
	"log/slog"
)

// Block is a unit of pipeline work. The scheduler invokes Step repeatedly;
// each call does as much work as current buffer occupancy and capacity
// allow, then returns. A non-nil error aborts the whole pipeline run.
//
// Blocks must not block on buffer state. The only blocking permitted is
// the underlying byte-stream I/O in StreamSource and StreamSink.
type Block interface {
	// Name returns the diagnostic name of the block.
	Name() string

	// Step runs one activation.
	Step() error
}

// BufferStats is a snapshot of one buffer's counters.
type BufferStats struct {
	Name     string
	Cap      int    // capacity in elements
	Readable int    // elements currently queued
	In       uint64 // lifetime elements committed by the producer
	Out      uint64 // lifetime elements consumed
}

// bufferState is the non-generic view the scheduler keeps of each buffer.
type bufferState interface {
	Name() string
	stats() BufferStats
	totalIn() uint64
}

// Scheduler drives a pipeline cooperatively on the calling goroutine.
// Buffers and blocks register themselves at construction time, in the
// order the pipeline is assembled; blocks are stepped in that order.
type Scheduler struct {
	debug   bool
	log     *slog.Logger
	blocks  []Block
	buffers []bufferState
}

// Option configures a Scheduler.
type Option interface {
	apply(*Scheduler)
}

type optionFunc func(*Scheduler)

func (f optionFunc) apply(s *Scheduler) { f(s) }

// WithDebug enables per-block trace logging.
func WithDebug(debug bool) Option {
	return optionFunc(func(s *Scheduler) { s.debug = debug })
}

// WithLogger sets the logger used for trace output.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return optionFunc(func(s *Scheduler) { s.log = log })
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{log: slog.Default()}
	for _, opt := range opts {
		opt.apply(s)
	}
	return s
}

// Debug reports whether trace logging is enabled.
func (s *Scheduler) Debug() bool { return s.debug }

func (s *Scheduler) addBlock(b Block)        { s.blocks = append(s.blocks, b) }
func (s *Scheduler) addBuffer(b bufferState) { s.buffers = append(s.buffers, b) }

// trace logs a debug message when the debug flag is set.
func (s *Scheduler) trace(msg string, args ...any) {
	if s.debug {
		s.log.Debug(msg, args...)
	}
}

// Blocks returns the registered blocks in scheduling order.
func (s *Scheduler) Blocks() []Block { return s.blocks }

// Stats returns a snapshot of every registered buffer, in registration
// order.
func (s *Scheduler) Stats() []BufferStats {
	out := make([]BufferStats, 0, len(s.buffers))
	for _, b := range s.buffers {
		out = append(out, b.stats())
	}
	return out
}

// total sums lifetime writes across all buffers. Any block that makes
// progress commits to some buffer, so a sweep that leaves this unchanged
// means the pipeline is quiescent.
func (s *Scheduler) total() uint64 {
	var n uint64
	for _, b := range s.buffers {
		n += b.totalIn()
	}
	return n
}

// Step runs one activation of every block, in order. It reports whether
// any block made progress. An error from a block stops the sweep.
func (s *Scheduler) Step() (bool, error) {
	before := s.total()
	for _, b := range s.blocks {
		s.trace("step", "block", b.Name())
		if err := b.Step(); err != nil {
			return false, fmt.Errorf("pipe: block %s: %w", b.Name(), err)
		}
	}
	return s.total() != before, nil
}

// Run sweeps the pipeline until a full pass makes no progress, then
// returns nil. A block error aborts the run.
func (s *Scheduler) Run() error {
	for {
		progress, err := s.Step()
		if err != nil {
			return err
		}
		if !progress {
			return nil
		}
	}
}
