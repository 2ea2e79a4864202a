package storefront

import (
	"strconv"
	"sync"
	"time"

	"github.com/shonra/storefront_api/internal/models"
)

// Suppression cookies written when a visitor asks not to see the popup again.
const (
	HidePopupKey     = "hide_popup_banner"
	HidePopupTimeKey = "hide_popup_banner_time"

	SuppressionWindow   = 24 * time.Hour
	AutoAdvanceInterval = 5 * time.Second
)

// KVStore persists popup suppression between visits. The HTTP layer backs it
// with cookies.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
	Clear(key string)
}

// PopupState is the lifecycle of the popup carousel.
type PopupState int

const (
	PopupHidden PopupState = iota
	PopupShown
	PopupClosed
)

func (s PopupState) String() string {
	switch s {
	case PopupShown:
		return "shown"
	case PopupClosed:
		return "closed"
	default:
		return "hidden"
	}
}

// PopupController drives the banner popup: suppression check, carousel
// navigation, auto-advance and dismissal.
type PopupController struct {
	mu            sync.Mutex
	store         KVStore
	clock         func() time.Time
	schedule      Scheduler
	interval      time.Duration
	banners       []models.Banner
	index         int
	state         PopupState
	dontShowAgain bool
	task          Stopper
}

// PopupOption configures a PopupController.
type PopupOption func(*PopupController)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) PopupOption {
	return func(p *PopupController) { p.clock = clock }
}

// WithScheduler overrides how the auto-advance task is started.
func WithScheduler(s Scheduler) PopupOption {
	return func(p *PopupController) { p.schedule = s }
}

// NewPopupController creates a controller backed by store.
func NewPopupController(store KVStore, opts ...PopupOption) *PopupController {
	p := &PopupController{
		store:    store,
		clock:    time.Now,
		schedule: Every,
		interval: AutoAdvanceInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Eligible reports whether the popup may be fetched and shown. An elapsed
// suppression is cleared as a side effect.
func (p *PopupController) Eligible() bool {
	hide, _ := p.store.Get(HidePopupKey)
	if hide != "true" {
		return true
	}
	raw, _ := p.store.Get(HidePopupTimeKey)
	hiddenAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		hiddenAt = 0
	}
	elapsed := p.clock().UnixMilli() - hiddenAt
	if elapsed < SuppressionWindow.Milliseconds() {
		return false
	}
	p.store.Clear(HidePopupKey)
	p.store.Clear(HidePopupTimeKey)
	return true
}

// Mount shows banners starting at the first one. With more than one banner
// the carousel auto-advances. It reports whether the popup is visible.
func (p *PopupController) Mount(banners []models.Banner) bool {
	p.mu.Lock()
	old := p.task
	p.task = nil
	p.banners = append([]models.Banner(nil), banners...)
	p.index = 0
	if len(p.banners) == 0 {
		p.state = PopupHidden
		p.mu.Unlock()
		stop(old)
		return false
	}
	p.state = PopupShown
	if len(p.banners) > 1 {
		p.task = p.schedule(p.interval, p.advance)
	}
	p.mu.Unlock()
	stop(old)
	return true
}

func (p *PopupController) advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != PopupShown || len(p.banners) <= 1 {
		return
	}
	p.index = (p.index + 1) % len(p.banners)
}

// Next moves to the following banner, wrapping around.
func (p *PopupController) Next() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.banners); n > 0 {
		p.index = (p.index + 1) % n
	}
	return p.index
}

// Prev moves to the previous banner, wrapping around.
func (p *PopupController) Prev() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.banners); n > 0 {
		p.index = (p.index - 1 + n) % n
	}
	return p.index
}

// Index returns the current banner position.
func (p *PopupController) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Current returns the banner on display.
func (p *PopupController) Current() (models.Banner, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != PopupShown || len(p.banners) == 0 {
		return models.Banner{}, false
	}
	return p.banners[p.index], true
}

// State returns the lifecycle state.
func (p *PopupController) State() PopupState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetDontShowAgain records the visitor's choice for the next Close.
func (p *PopupController) SetDontShowAgain(v bool) {
	p.mu.Lock()
	p.dontShowAgain = v
	p.mu.Unlock()
}

// Close hides the popup. With "don't show again" set, both suppression keys
// are written with a 24h lifetime; the stored timestamp is authoritative.
func (p *PopupController) Close() {
	p.mu.Lock()
	p.state = PopupClosed
	suppress := p.dontShowAgain
	p.dontShowAgain = false
	task := p.task
	p.task = nil
	p.mu.Unlock()

	stop(task)
	if suppress {
		p.store.Set(HidePopupKey, "true", SuppressionWindow)
		p.store.Set(HidePopupTimeKey, strconv.FormatInt(p.clock().UnixMilli(), 10), SuppressionWindow)
	}
}

// Teardown stops auto-advance without touching suppression.
func (p *PopupController) Teardown() {
	p.mu.Lock()
	task := p.task
	p.task = nil
	p.mu.Unlock()
	stop(task)
}

func stop(s Stopper) {
	if s != nil {
		s.Stop()
	}
}

// MemoryStore is an in-process KVStore. Expiry is ignored; suppression relies
// on the stored timestamp.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string, _ time.Duration) {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
}

func (m *MemoryStore) Clear(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}
