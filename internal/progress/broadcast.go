package progress

import (
	"sync"
	"time"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
)

// Event is one stage/percentage/message tuple for a job. Events are
// broadcast and discarded, never persisted.
type Event struct {
	Stage     constants.Stage `json:"stage"`
	Progress  int             `json:"progress"`
	Message   string          `json:"message"`
	Detail    map[string]any  `json:"detail,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Sink receives progress updates from pipeline stages.
type Sink func(stage constants.Stage, percent int, message string, detail map[string]any)

// Subscription is one listener's handle on a job's event stream.
// Events arrive on C in emission order. Callers must Unsubscribe when
// their transport disconnects.
type Subscription struct {
	C     chan Event
	jobID string
	id    int
}

// Broadcaster fans events out to all current subscribers of a job id.
// Late subscribers only see events emitted after they subscribe, apart
// from one synthetic "connected" event delivered on subscription.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]*Subscription
}

// subscriber channels are buffered so one stalled listener cannot block
// the pipeline; overflowed events are dropped for that listener only.
const subscriberBuffer = 64

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]map[int]*Subscription)}
}

// Subscribe registers a listener for one job id and immediately queues
// the synthetic connected event.
func (b *Broadcaster) Subscribe(jobID string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		C:     make(chan Event, subscriberBuffer),
		jobID: jobID,
		id:    b.nextID,
	}
	if b.subs[jobID] == nil {
		b.subs[jobID] = make(map[int]*Subscription)
	}
	b.subs[jobID][sub.id] = sub

	sub.C <- Event{
		Stage:     constants.StageConnected,
		Progress:  0,
		Message:   "Connected to progress stream",
		Timestamp: time.Now().UTC(),
	}
	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners, ok := b.subs[sub.jobID]
	if !ok {
		return
	}
	if _, ok := listeners[sub.id]; !ok {
		return
	}
	delete(listeners, sub.id)
	if len(listeners) == 0 {
		delete(b.subs, sub.jobID)
	}
	close(sub.C)
}

// Publish delivers an event to every current subscriber of jobID.
func (b *Broadcaster) Publish(jobID string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs[jobID] {
		select {
		case sub.C <- event:
		default:
			// listener is not draining; drop rather than stall the job
		}
	}
}

// Sink returns a Sink that publishes to this broadcaster under jobID.
func (b *Broadcaster) Sink(jobID string) Sink {
	return func(stage constants.Stage, percent int, message string, detail map[string]any) {
		b.Publish(jobID, Event{
			Stage:    stage,
			Progress: percent,
			Message:  message,
			Detail:   detail,
		})
	}
}

// ListenerCount reports current subscribers for a job id (used in tests
// and the health endpoint).
func (b *Broadcaster) ListenerCount(jobID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[jobID])
}
