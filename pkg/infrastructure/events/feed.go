package events

import (
	"log/slog"
	"sync"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

type subscription struct {
	id          int
	handler     repositories.ChangeHandler
	collections map[repositories.Collection]bool
}

func (s subscription) wants(c repositories.Collection) bool {
	return len(s.collections) == 0 || s.collections[c]
}

// Feed records committed changes in order and fans them out to subscribers.
// Handlers run on the publishing goroutine, after the store has released its locks.
type Feed struct {
	mutex       sync.RWMutex
	all         []Event
	subscribers []subscription
	nextID      int
	logger      *slog.Logger
}

// NewFeed creates an empty change feed
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		all:    make([]Event, 0),
		logger: logger,
	}
}

// Publish appends a committed group of changes and notifies subscribers
func (f *Feed) Publish(changes ...repositories.ChangeEvent) {
	if len(changes) == 0 {
		return
	}

	f.mutex.Lock()
	published := make([]Event, 0, len(changes))
	for _, change := range changes {
		event := Event{ChangeEvent: change, Position: len(f.all) + 1}
		f.all = append(f.all, event)
		published = append(published, event)
	}
	subscribers := make([]subscription, len(f.subscribers))
	copy(subscribers, f.subscribers)
	f.mutex.Unlock()

	for _, event := range published {
		for _, sub := range subscribers {
			if sub.wants(event.Collection) {
				f.deliver(sub, event)
			}
		}
	}
}

func (f *Feed) deliver(sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("change handler panicked", "event", event.Type(), "id", event.ID, "panic", r)
		}
	}()
	sub.handler(event.ChangeEvent)
}

// Subscribe registers handler for the given collections (all when none given)
func (f *Feed) Subscribe(handler repositories.ChangeHandler, collections ...repositories.Collection) (cancel func()) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.nextID++
	sub := subscription{id: f.nextID, handler: handler}
	if len(collections) > 0 {
		sub.collections = make(map[repositories.Collection]bool, len(collections))
		for _, c := range collections {
			sub.collections[c] = true
		}
	}
	f.subscribers = append(f.subscribers, sub)

	var once sync.Once
	return func() {
		once.Do(func() { f.unsubscribe(sub.id) })
	}
}

func (f *Feed) unsubscribe(id int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	kept := make([]subscription, 0, len(f.subscribers))
	for _, sub := range f.subscribers {
		if sub.id != id {
			kept = append(kept, sub)
		}
	}
	f.subscribers = kept
}

// ReadAll returns events after fromPosition (positions start at 1)
func (f *Feed) ReadAll(fromPosition int) []Event {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(f.all) {
		return []Event{}
	}

	out := make([]Event, len(f.all)-fromPosition)
	copy(out, f.all[fromPosition:])
	return out
}
