package keymap

import (
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lmorel/tremolo/internal/input"
)

// Stream is the live input pipeline. It decodes events from a byte source,
// resolves them against the current context and delivers the resulting
// actions on an unbounded channel, so a slow consumer never stalls the
// decoder.
type Stream struct {
	src io.ByteReader
	res *Resolver
	log zerolog.Logger

	mu      sync.Mutex
	current Context

	in   chan Action
	out  chan Action
	done chan struct{}

	closeOnce sync.Once
}

// Start launches the pipeline on src. The context starts out as search, the
// initial mode of the player.
func Start(src io.ByteReader, res *Resolver, logger zerolog.Logger) *Stream {
	s := &Stream{
		src:     src,
		res:     res,
		log:     logger,
		current: SearchContext(),
		in:      make(chan Action),
		out:     make(chan Action),
		done:    make(chan struct{}),
	}
	go s.shuttle()
	go s.run()
	return s
}

// Actions returns the channel carrying resolved actions. It is closed when
// the source ends or the stream is closed.
func (s *Stream) Actions() <-chan Action {
	return s.out
}

// SetContext publishes a new current context. Events decoded after the call
// resolve against it.
func (s *Stream) SetContext(c Context) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}

// Context returns the context events currently resolve against.
func (s *Stream) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close terminates the pipeline. If the source supports cancellation the
// pending read is interrupted, otherwise the pipeline winds down after the
// next byte arrives.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if c, ok := s.src.(interface{ Cancel() bool }); ok {
			c.Cancel()
		}
	})
}

func (s *Stream) run() {
	defer close(s.in)
	dec := input.NewDecoder(s.src)
	for {
		select {
		case <-s.done:
			return
		default:
		}
		ev, err := dec.Next()
		if err != nil {
			if errors.Is(err, input.ErrDecode) {
				s.log.Error().Err(err).Msg("dropping undecodable input")
				continue
			}
			select {
			case <-s.done:
				// Closed on purpose, the canceled read is expected.
			default:
				if !errors.Is(err, io.EOF) {
					s.log.Error().Err(err).Msg("input source failed")
				}
			}
			return
		}
		action, ok := s.res.Resolve(s.Context(), ev)
		if !ok {
			continue
		}
		select {
		case s.in <- action:
		case <-s.done:
			return
		}
	}
}

// shuttle moves actions from in to out through an unbounded buffer. The
// decoder side never blocks on the consumer.
func (s *Stream) shuttle() {
	defer close(s.out)
	var pending []Action
	in := s.in
	for {
		var (
			out   chan Action
			first Action
		)
		if len(pending) > 0 {
			out = s.out
			first = pending[0]
		} else if in == nil {
			return
		}
		select {
		case a, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending = append(pending, a)
		case out <- first:
			pending = pending[1:]
		case <-s.done:
			return
		}
	}
}
