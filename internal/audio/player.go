package audio

import (
	"errors"
	"sync"
	"time"
)

// EventType identifies a player notification.
type EventType int

// Player notifications.
const (
	// EventDuration is sent once per loaded stream.
	EventDuration EventType = iota + 1

	// EventProgress is sent on every tick while playing and after each seek.
	// Slow consumers may miss progress events.
	EventProgress

	// EventEnded is sent when playback reaches the end of the stream.
	EventEnded
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventDuration:
		return "duration"
	case EventProgress:
		return "progress"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event reports player state to subscribers.
type Event struct {
	Type     EventType
	Position time.Duration
	Duration time.Duration
}

var (
	// ErrNoStream indicates playback was requested before Load.
	ErrNoStream = errors.New("no stream loaded")

	// ErrClosed indicates the player has been closed.
	ErrClosed = errors.New("player closed")
)

const (
	defaultTick       = 250 * time.Millisecond
	eventBufferLength = 64
)

// Option configures a Player.
type Option func(*Player)

// WithTick sets the progress reporting interval.
func WithTick(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.tick = d
		}
	}
}

// Player tracks playback of one WAV stream at a time.
// All methods are safe for concurrent use.
type Player struct {
	mu       sync.Mutex
	loaded   bool
	duration time.Duration
	position time.Duration
	playing  bool
	ended    bool
	closed   bool

	// startedAt and startPos anchor the clock while playing.
	startedAt time.Time
	startPos  time.Duration

	tick time.Duration
	stop chan struct{}
	done chan struct{}

	sendMu sync.RWMutex
	events chan Event
	quit   chan struct{}
}

// NewPlayer creates an idle player.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		tick:   defaultTick,
		events: make(chan Event, eventBufferLength),
		quit:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events returns the notification channel. It is closed by Close.
func (p *Player) Events() <-chan Event {
	return p.events
}

// Load replaces the current stream, stopping playback and rewinding.
func (p *Player) Load(wav []byte) error {
	f, err := Parse(wav)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.stopLocked()
	p.loaded = true
	p.duration = f.Duration()
	p.position = 0
	p.ended = false
	d := p.duration
	p.mu.Unlock()

	p.emit(Event{Type: EventDuration, Duration: d}, true)
	return nil
}

// TogglePlay starts or pauses playback and reports whether it is now playing.
// Playing after the end restarts from the beginning.
func (p *Player) TogglePlay() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false, ErrClosed
	}
	if !p.loaded {
		return false, ErrNoStream
	}

	if p.playing {
		p.position = p.currentLocked()
		p.stopLocked()
		return false, nil
	}

	if p.ended || p.position >= p.duration {
		p.position = 0
		p.ended = false
	}
	p.startLocked()
	return true, nil
}

// Seek moves the playback position, clamped to the stream bounds.
func (p *Player) Seek(pos time.Duration) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if !p.loaded {
		p.mu.Unlock()
		return ErrNoStream
	}

	pos = max(0, min(pos, p.duration))
	p.position = pos
	p.ended = false
	if p.playing {
		p.startedAt = time.Now()
		p.startPos = pos
	}
	d := p.duration
	p.mu.Unlock()

	p.emit(Event{Type: EventProgress, Position: pos, Duration: d}, false)
	return nil
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentLocked()
}

// Duration returns the length of the loaded stream.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Playing reports whether playback is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Close stops playback and closes the events channel.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.quit)
	p.stopLocked()
	p.mu.Unlock()

	p.sendMu.Lock()
	close(p.events)
	p.sendMu.Unlock()
	return nil
}

func (p *Player) currentLocked() time.Duration {
	if !p.playing {
		return p.position
	}
	return min(p.startPos+time.Since(p.startedAt), p.duration)
}

func (p *Player) startLocked() {
	p.playing = true
	p.startedAt = time.Now()
	p.startPos = p.position
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.stop, p.done)
}

// stopLocked halts the clock goroutine. The caller holds mu; run never
// takes mu while blocked on stop, so waiting here cannot deadlock.
func (p *Player) stopLocked() {
	if p.stop == nil {
		p.playing = false
		return
	}
	close(p.stop)
	done := p.done
	p.stop, p.done = nil, nil
	p.playing = false

	p.mu.Unlock()
	<-done
	p.mu.Lock()
}

func (p *Player) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if p.stop != stop {
			p.mu.Unlock()
			return
		}
		pos := p.currentLocked()
		d := p.duration
		finished := pos >= d
		if finished {
			p.position = d
			p.playing = false
			p.ended = true
			p.stop, p.done = nil, nil
		}
		p.mu.Unlock()

		p.emit(Event{Type: EventProgress, Position: pos, Duration: d}, false)
		if finished {
			p.emit(Event{Type: EventEnded, Position: d, Duration: d}, true)
			return
		}
	}
}

// emit sends an event. Progress events are dropped when the buffer is full;
// reliable events wait for room unless the player closes.
func (p *Player) emit(e Event, reliable bool) {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	select {
	case <-p.quit:
		return
	default:
	}

	if !reliable {
		select {
		case p.events <- e:
		default:
		}
		return
	}

	select {
	case p.events <- e:
	case <-p.quit:
	}
}
