package store

import "sync"

// notifier is the change-signal hub behind the live queries. Repositories
// call broadcast after every committed mutation; each live query holds one
// subscription and requeries on every signal. Signals carry no payload and
// coalesce: a subscriber that has not consumed the pending signal does not
// accumulate more.
type notifier struct {
	mu     sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan struct{})}
}

func (n *notifier) subscribe() (int, chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	return id, ch
}

func (n *notifier) unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ch, ok := n.subs[id]; ok {
		delete(n.subs, id)
		close(ch)
	}
}

func (n *notifier) broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
