package auth

import (
	"sync"

	"rewards/internal/domain/entity"
)

// observers notifies state-change callbacks on a dedicated goroutine, one
// notification at a time and in the order the changes happened.
type observers struct {
	mu      sync.Mutex
	fns     map[uint64]func(*entity.Identity)
	nextID  uint64
	pending []func()
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newObservers() *observers {
	o := &observers{
		fns:  make(map[uint64]func(*entity.Identity)),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go o.run()

	return o
}

// add registers fn and schedules an initial call with current.
func (o *observers) add(fn func(*entity.Identity), current func() *entity.Identity) func() {
	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.fns[id] = fn
	o.mu.Unlock()

	o.enqueue(func() {
		o.mu.Lock()
		_, still := o.fns[id]
		o.mu.Unlock()
		if still {
			fn(copyIdentity(current()))
		}
	})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.fns, id)
	}
}

// notify schedules a call of every registered observer with identity.
func (o *observers) notify(identity *entity.Identity) {
	o.enqueue(func() {
		o.mu.Lock()
		targets := make([]func(*entity.Identity), 0, len(o.fns))
		for _, fn := range o.fns {
			targets = append(targets, fn)
		}
		o.mu.Unlock()

		for _, fn := range targets {
			fn(copyIdentity(identity))
		}
	})
}

func (o *observers) enqueue(task func()) {
	o.mu.Lock()
	o.pending = append(o.pending, task)
	o.mu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *observers) run() {
	for {
		select {
		case <-o.done:
			return
		case <-o.wake:
		}

		for {
			o.mu.Lock()
			if len(o.pending) == 0 {
				o.mu.Unlock()

				break
			}
			task := o.pending[0]
			o.pending = o.pending[1:]
			o.mu.Unlock()

			task()
		}
	}
}

func (o *observers) close() {
	o.once.Do(func() { close(o.done) })
}

func copyIdentity(identity *entity.Identity) *entity.Identity {
	if identity == nil {
		return nil
	}
	c := *identity

	return &c
}
