package status

import (
	"context"
	"sync"

	"seller-console/internal/models"
	"seller-console/internal/util"

	"go.uber.org/zap"
)

// Fetcher retrieves the delivery-status catalog from the marketplace.
type Fetcher interface {
	DeliveryStatuses(ctx context.Context) ([]models.DeliveryStatus, error)
}

// Cache holds a catalog snapshot between loads. A nil Cache disables caching.
type Cache interface {
	GetStatusCatalog(ctx context.Context) ([]models.DeliveryStatus, error)
	SetStatusCatalog(ctx context.Context, entries []models.DeliveryStatus) error
}

// Entry is the display projection of a catalog entry.
type Entry struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// Catalog decodes status codes into display titles and canonical statuses.
// A failed load leaves it empty; lookups then degrade to the raw value.
type Catalog struct {
	fetcher Fetcher
	cache   Cache
	logger  *zap.Logger

	mu      sync.RWMutex
	entries []models.DeliveryStatus
}

// NewCatalog creates an empty catalog backed by the given fetcher.
func NewCatalog(fetcher Fetcher, cache Cache) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		cache:   cache,
		logger:  util.GetLogger(),
	}
}

// Load populates the catalog, preferring the cache over a backend round
// trip. On failure the previous entries (possibly none) are kept.
func (c *Catalog) Load(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "Catalog.Load")
	defer span.End()

	if c.cache != nil {
		if entries, err := c.cache.GetStatusCatalog(ctx); err == nil && len(entries) > 0 {
			c.mu.Lock()
			c.entries = entries
			c.mu.Unlock()
			return nil
		}
	}

	entries, err := c.fetcher.DeliveryStatuses(ctx)
	if err != nil {
		c.logger.Warn("Failed to load delivery status catalog", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.SetStatusCatalog(ctx, entries); err != nil {
			c.logger.Warn("Failed to cache delivery status catalog", zap.Error(err))
		}
	}
	return nil
}

// Lookup returns the display entry for a status code or title. Misses fall
// back to showing the raw value with no icon.
func (c *Catalog) Lookup(codeOrTitle string) Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if e.StatusCode == codeOrTitle || e.StatusTitle == codeOrTitle {
			return Entry{Title: e.StatusTitle, Icon: e.Image}
		}
	}
	return Entry{Title: codeOrTitle}
}

// Resolve normalizes a status code or title to its canonical Status. When
// the catalog has no matching entry the raw value itself is parsed, so an
// order already carrying a title still resolves.
func (c *Catalog) Resolve(codeOrTitle string) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if e.StatusCode == codeOrTitle || e.StatusTitle == codeOrTitle {
			return ParseTitle(e.StatusTitle)
		}
	}
	return ParseTitle(codeOrTitle)
}

// CodeFor returns the catalog code for a canonical status, if known.
func (c *Catalog) CodeFor(s Status) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if ParseTitle(e.StatusTitle) == s {
			return e.StatusCode, true
		}
	}
	return "", false
}

// Actionable returns the subset of catalog entries a seller may manually
// move an order into. The initiating state is excluded: orders arrive as
// Pending, they are never set to it.
func (c *Catalog) Actionable() []models.DeliveryStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.DeliveryStatus, 0, len(c.entries))
	for _, e := range c.entries {
		switch ParseTitle(e.StatusTitle) {
		case StatusAccepted, StatusGoingToPickup, StatusDelivered, StatusCancelled:
			out = append(out, e)
		}
	}
	return out
}
