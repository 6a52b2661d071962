package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/slidefit/internal/core/domain"
	"github.com/custodia-labs/slidefit/internal/core/ports/driven"
)

// Ensure Participant implements the interface.
var _ driven.CollaborationChannel = (*Participant)(nil)

// subscriberBuffer is how many undelivered mutations a subscriber may hold
// before the broker drops further ones for it.
const subscriberBuffer = 64

// Broker is an in-process pub/sub hub for collaboration mutations.
// Each editor joins as a Participant; a participant never receives its own mutations.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	participant *Participant
	ch          chan domain.Mutation
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscription)}
}

// Join returns a new participant connected to the broker.
func (b *Broker) Join() *Participant {
	return &Participant{broker: b}
}

func (b *Broker) publish(from *Participant, m domain.Mutation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if s.participant == from {
			continue
		}
		select {
		case s.ch <- m:
		default:
			// Slow subscriber; last-write-wins makes a dropped intermediate state harmless.
		}
	}
}

func (b *Broker) subscribe(p *Participant) (int, chan domain.Mutation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan domain.Mutation, subscriberBuffer)
	b.subs[id] = &subscription{participant: p, ch: ch}
	return id, ch
}

func (b *Broker) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.subs[id]; ok {
		close(s.ch)
		delete(b.subs, id)
	}
}

// Participant is one editor's connection to a Broker.
type Participant struct {
	broker *Broker

	mu     sync.Mutex
	closed bool
	subIDs []int
}

// Publish broadcasts a mutation to every other participant.
func (p *Participant) Publish(_ context.Context, m domain.Mutation) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return domain.ErrChannelClosed
	}
	p.broker.publish(p, m)
	return nil
}

// Subscribe returns mutations from other participants until ctx is cancelled
// or the participant is closed.
func (p *Participant) Subscribe(ctx context.Context) (<-chan domain.Mutation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, domain.ErrChannelClosed
	}
	id, in := p.broker.subscribe(p)
	p.subIDs = append(p.subIDs, id)

	out := make(chan domain.Mutation)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				p.broker.unsubscribe(id)
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- m:
				case <-ctx.Done():
					p.broker.unsubscribe(id)
					return
				}
			}
		}
	}()
	return out, nil
}

// Close disconnects the participant and ends its subscriptions.
func (p *Participant) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	for _, id := range p.subIDs {
		p.broker.unsubscribe(id)
	}
	p.subIDs = nil
	return nil
}
