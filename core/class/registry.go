package class

import (
	"sync"

	"github.com/google/uuid"
)

// EventKind tells subscribers which mutation produced an Event.
type EventKind string

const (
	EventSnapshot EventKind = "snapshot" // never emitted by the Registry; initial state sent to new listeners
	EventLoaded   EventKind = "loaded"
	EventAdded    EventKind = "added"
	EventActive   EventKind = "active"
)

// Event is the state of the Registry right after a mutation.
// Seq is the number of mutations committed so far; it increases by one per event.
type Event struct {
	Seq     uint64      `json:"seq"`
	Kind    EventKind   `json:"kind"`
	Classes []ClassInfo `json:"classes"`
	Active  *ClassInfo  `json:"active"`
}

type subscription struct {
	id string
	fn func(Event)
}

// Registry holds the ordered list of classes and the active class.
//
// The list is append-only, so the active class always references an element of it.
// Lookups by id resolve to the last class with that id in list order.
type Registry struct {
	mu      sync.RWMutex
	classes []ClassInfo
	byID    map[int]int // id -> index of the last class with that id
	active  int         // index in classes; -1 when no class is active
	seed    []ClassInfo
	seq     uint64

	subsMu sync.Mutex
	subs   []subscription

	// events are delivered one at a time, in Seq order
	pubMu     sync.Mutex
	pubCond   *sync.Cond
	published uint64
}

type Option func(*Registry)

// WithSeed replaces the data LoadClasses appends to an empty Registry.
func WithSeed(seed []ClassInfo) Option {
	return func(r *Registry) {
		r.seed = append([]ClassInfo(nil), seed...)
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byID:   make(map[int]int),
		active: -1,
		seed:   DefaultSeed(),
	}
	r.pubCond = sync.NewCond(&r.pubMu)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadClasses appends the seed classes if the Registry is empty, and does nothing otherwise.
func (r *Registry) LoadClasses() {
	r.mu.Lock()
	if len(r.classes) > 0 {
		r.mu.Unlock()
		return
	}
	r.appendLocked(r.seed)
	evt := r.commitLocked(EventLoaded)
	r.mu.Unlock()

	r.publish(evt)
}

// Add appends classes to the Registry. Ids are not checked for uniqueness.
func (r *Registry) Add(classes ...ClassInfo) {
	if len(classes) == 0 {
		return
	}
	r.mu.Lock()
	r.appendLocked(classes)
	evt := r.commitLocked(EventAdded)
	r.mu.Unlock()

	r.publish(evt)
}

// AddUnique appends cls unless a class with the same id exists, in which case it returns ErrIDExists.
func (r *Registry) AddUnique(cls ClassInfo) error {
	r.mu.Lock()
	if _, ok := r.byID[cls.ID]; ok {
		r.mu.Unlock()
		return ErrIDExists
	}
	r.appendLocked([]ClassInfo{cls})
	evt := r.commitLocked(EventAdded)
	r.mu.Unlock()

	r.publish(evt)
	return nil
}

// SetActiveClass makes the class with the given id the active one and returns it.
// If no class has that id, the active class is left unchanged and ErrNotFound is returned.
func (r *Registry) SetActiveClass(id int) (ClassInfo, error) {
	r.mu.Lock()
	idx, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return ClassInfo{}, ErrNotFound
	}
	r.active = idx
	cls := r.classes[idx]
	evt := r.commitLocked(EventActive)
	r.mu.Unlock()

	r.publish(evt)
	return cls, nil
}

// Classes returns a copy of the class list, in insertion order.
func (r *Registry) Classes() []ClassInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyLocked()
}

// ActiveClass returns the active class, if any.
func (r *Registry) ActiveClass() (ClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active < 0 {
		return ClassInfo{}, false
	}
	return r.classes[r.active], true
}

// Find returns the last class with the given id.
func (r *Registry) Find(id int) (ClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx, ok := r.byID[id]; ok {
		return r.classes[idx], true
	}
	return ClassInfo{}, false
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Subscribe registers fn to be called after every mutation of the Registry.
// Subscribers are called synchronously, in subscription order, outside the Registry lock.
// Events reach them in commit order: a mutation returns only once its event was delivered.
// Subscribers may read from the Registry but must neither mutate it nor block.
// The returned func removes the subscription; it is safe to call more than once.
func (r *Registry) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := uuid.New().String()

	r.subsMu.Lock()
	r.subs = append(r.subs, subscription{id: id, fn: fn})
	r.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.subsMu.Lock()
			defer r.subsMu.Unlock()
			for i, sub := range r.subs {
				if sub.id == id {
					r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot returns the current state as an Event of the given kind.
// Its Seq is the one of the last committed mutation.
func (r *Registry) Snapshot(kind EventKind) Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.eventLocked(kind)
}

func (r *Registry) appendLocked(classes []ClassInfo) {
	for _, cls := range classes {
		r.classes = append(r.classes, cls)
		r.byID[cls.ID] = len(r.classes) - 1
	}
}

func (r *Registry) copyLocked() []ClassInfo {
	classes := make([]ClassInfo, len(r.classes))
	copy(classes, r.classes)
	return classes
}

func (r *Registry) commitLocked(kind EventKind) Event {
	r.seq++
	return r.eventLocked(kind)
}

func (r *Registry) eventLocked(kind EventKind) Event {
	evt := Event{Seq: r.seq, Kind: kind, Classes: r.copyLocked()}
	if r.active >= 0 {
		active := r.classes[r.active]
		evt.Active = &active
	}
	return evt
}

// publish waits until every earlier event was delivered, then calls the subscribers.
func (r *Registry) publish(evt Event) {
	r.pubMu.Lock()
	for r.published+1 != evt.Seq {
		r.pubCond.Wait()
	}
	r.pubMu.Unlock()

	defer func() {
		r.pubMu.Lock()
		r.published = evt.Seq
		r.pubCond.Broadcast()
		r.pubMu.Unlock()
	}()

	r.subsMu.Lock()
	subs := make([]subscription, len(r.subs))
	copy(subs, r.subs)
	r.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(evt)
	}
}
