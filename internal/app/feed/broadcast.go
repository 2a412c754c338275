package feed

import (
	"sync"
	"time"
)

// broadcaster multicasts the latest State to every subscriber. Late
// subscribers immediately receive the most recent value. After the last
// subscriber detaches, the retained value is kept for the keep-alive grace
// period and dropped if nobody resubscribes in time.
type broadcaster struct {
	mu        sync.Mutex
	subs      map[int]chan State
	nextID    int
	latest    State
	hasLatest bool
	keepAlive time.Duration
	idleTimer *time.Timer
}

func newBroadcaster(keepAlive time.Duration) *broadcaster {
	return &broadcaster{
		subs:      make(map[int]chan State),
		keepAlive: keepAlive,
	}
}

// publish retains s as the latest value and fans it out. Subscriber channels
// hold one element; a slow subscriber has its stale value replaced rather
// than blocking the publisher.
func (b *broadcaster) publish(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = s
	b.hasLatest = true

	for _, ch := range b.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// subscribe registers a new subscriber and replays the latest state into it.
// The returned cancel func is idempotent.
func (b *broadcaster) subscribe() (<-chan State, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.idleTimer != nil {
		b.idleTimer.Stop()
		b.idleTimer = nil
	}

	id := b.nextID
	b.nextID++

	ch := make(chan State, 1)
	if b.hasLatest {
		ch <- b.latest
	}
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			if len(b.subs) == 0 {
				b.startIdleTimerLocked()
			}
		})
	}
	return ch, cancel
}

// startIdleTimerLocked arms the keep-alive timer. Callers hold b.mu.
func (b *broadcaster) startIdleTimerLocked() {
	if b.keepAlive <= 0 {
		b.latest = State{}
		b.hasLatest = false
		return
	}
	b.idleTimer = time.AfterFunc(b.keepAlive, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if len(b.subs) == 0 {
			b.latest = State{}
			b.hasLatest = false
		}
		b.idleTimer = nil
	})
}
