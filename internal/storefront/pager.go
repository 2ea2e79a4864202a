package storefront

import "sync"

// VisibilityObserver reports when a watched sentinel becomes visible.
// Observe returns a function that detaches the callback.
type VisibilityObserver interface {
	Observe(onVisible func()) (detach func())
}

// Pager advances a ViewState one page each time the load-more sentinel
// becomes visible.
type Pager struct {
	mu       sync.Mutex
	state    ViewState
	onChange func(ViewState)
	detach   func()
}

// NewPager attaches to observer. onChange, when set, receives every state the
// pager produces.
func NewPager(initial ViewState, observer VisibilityObserver, onChange func(ViewState)) *Pager {
	p := &Pager{state: initial, onChange: onChange}
	p.detach = observer.Observe(p.visible)
	return p
}

func (p *Pager) visible() {
	p.mu.Lock()
	if !p.state.CanLoadMore() {
		p.mu.Unlock()
		return
	}
	next, _ := Reduce(p.state, LoadMore{})
	p.state = next
	cb := p.onChange
	p.mu.Unlock()
	if cb != nil {
		cb(next)
	}
}

// Dispatch applies an action to the pager's state.
func (p *Pager) Dispatch(a Action) (ViewState, Effect) {
	p.mu.Lock()
	next, eff := Reduce(p.state, a)
	p.state = next
	p.mu.Unlock()
	return next, eff
}

// State returns the current state.
func (p *Pager) State() ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Close detaches from the observer.
func (p *Pager) Close() {
	p.mu.Lock()
	detach := p.detach
	p.detach = nil
	p.mu.Unlock()
	if detach != nil {
		detach()
	}
}
