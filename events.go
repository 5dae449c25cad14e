package layers

// EventKind names a store notification.
type EventKind string

// Store notifications.
const (
	// EventAdd fires after Add, AddLayer and Duplicate with Layer and Name.
	EventAdd EventKind = "addCanvas"

	// EventRemove fires after Remove and for every layer collapsed by Merge,
	// with Name.
	EventRemove EventKind = "removeCanvas"

	// EventMove fires after Move with the resulting Layers.
	EventMove EventKind = "moveCanvas"

	// EventRename fires after Rename with Layer, Name (new) and OldName.
	EventRename EventKind = "renameCanvas"

	// EventSet fires after ReplaceAll with the resulting Layers.
	EventSet EventKind = "setCanvases"
)

// Event is delivered to listeners registered with On.
type Event[S Surface] struct {
	Kind    EventKind
	Layer   *Layer[S]
	Name    string
	OldName string
	Layers  []*Layer[S]
}

// Listener receives store notifications.
type Listener[S Surface] func(Event[S])

// listener pairs a callback with a registration id so it can be removed.
type listener[S Surface] struct {
	id uint64
	fn Listener[S]
}

// On registers fn for events of the given kind and returns a function that
// unregisters it.
//
// Delivery is synchronous, on the goroutine that performed the operation,
// in registration order, after the store state has been fully updated. A
// listener may call back into the store; the order in which notifications
// caused by such nested calls reach other listeners is unspecified.
func (s *Store[S]) On(kind EventKind, fn Listener[S]) (off func()) {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.listeners[kind] = append(s.listeners[kind], listener[S]{id: id, fn: fn})

	return func() {
		ls := s.listeners[kind]
		for i, l := range ls {
			if l.id == id {
				s.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// emit delivers ev to every listener registered for its kind. The listener
// slice is snapshotted so that (un)registration during delivery does not
// affect the current round.
func (s *Store[S]) emit(ev Event[S]) {
	ls := s.listeners[ev.Kind]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]listener[S], len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		l.fn(ev)
	}
}
