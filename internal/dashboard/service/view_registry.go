package service

import (
	"sync"
	"time"

	"traderflow/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// ViewRegistry keeps one CompanyView per browser session and company, so a
// route only ever renders the view of its own company. Views idle longer than
// the TTL are evicted and their in-flight fetches canceled.
type ViewRegistry struct {
	views   *cache.Cache
	ttl     time.Duration
	factory func() *CompanyView
	logger  *logger.Logger
	mu      sync.Mutex
}

// NewViewRegistry creates a registry whose views are built by factory.
func NewViewRegistry(ttl time.Duration, factory func() *CompanyView, log *logger.Logger) *ViewRegistry {
	views := cache.New(ttl, ttl/2+time.Second)
	views.OnEvicted(func(key string, v interface{}) {
		if view, ok := v.(*CompanyView); ok {
			view.Close()
		}
		log.Debug("Company view evicted", logger.StringField("view_key", key))
	})
	return &ViewRegistry{views: views, ttl: ttl, factory: factory, logger: log}
}

// Get returns the session's view of companyID, creating it on first use, and
// extends its idle TTL.
func (r *ViewRegistry) Get(sessionID, companyID string) *CompanyView {
	key := viewKey(sessionID, companyID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.views.Get(key); ok {
		view := v.(*CompanyView)
		r.views.Set(key, view, r.ttl)
		return view
	}
	view := r.factory()
	r.views.Set(key, view, r.ttl)
	return view
}

func viewKey(sessionID, companyID string) string {
	return sessionID + "|" + companyID
}

// Len returns the number of live views.
func (r *ViewRegistry) Len() int {
	return r.views.ItemCount()
}

// Close cancels every view's in-flight work and empties the registry.
func (r *ViewRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.views.Items() {
		r.views.Delete(key)
	}
}
