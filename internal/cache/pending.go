package cache

import (
	"github.com/Egozit/W40KRogueTraderSpeechMod/internal/audio"
)

// Pending is the result of a Load. It resolves exactly once, either with a
// payload or with an error. A cache hit returns an already resolved Pending.
type Pending struct {
	id      string
	done    chan struct{}
	payload *audio.Payload
	err     error
}

func newPending(id string) *Pending {
	return &Pending{id: id, done: make(chan struct{})}
}

func resolved(id string, p *audio.Payload) *Pending {
	pd := newPending(id)
	pd.resolve(p, nil)
	return pd
}

func (p *Pending) resolve(payload *audio.Payload, err error) {
	p.payload = payload
	p.err = err
	close(p.done)
}

// ID returns the dialogue ID being loaded.
func (p *Pending) ID() string { return p.id }

// Done is closed once the load has finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Result blocks until the load finishes.
func (p *Pending) Result() (*audio.Payload, error) {
	<-p.done
	return p.payload, p.err
}

// Ready returns the payload without blocking. ok is false while the load is
// running or if it failed.
func (p *Pending) Ready() (payload *audio.Payload, ok bool) {
	select {
	case <-p.done:
		return p.payload, p.err == nil
	default:
		return nil, false
	}
}
