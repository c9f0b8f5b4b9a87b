package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// VideoCache keeps generated video URLs in process memory. Entries
// survive until the process exits unless a ttl is set.
type VideoCache struct {
	mu      sync.RWMutex
	records map[string]recipe.VideoRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewVideoCache creates an empty cache. A zero ttl keeps entries forever.
func NewVideoCache(ttl time.Duration) *VideoCache {
	return &VideoCache{
		records: make(map[string]recipe.VideoRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached URL for the recipe
func (c *VideoCache) Get(ctx context.Context, recipeID string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	c.mu.RLock()
	rec, ok := c.records[recipeID]
	c.mu.RUnlock()

	if !ok || rec.URL == "" {
		return "", false, nil
	}

	if rec.Expired(c.ttl, c.now()) {
		c.mu.Lock()
		// Only drop the entry we looked at; a concurrent Put may have replaced it
		if cur, still := c.records[recipeID]; still && cur.CreatedAt.Equal(rec.CreatedAt) {
			delete(c.records, recipeID)
		}
		c.mu.Unlock()
		return "", false, nil
	}

	return rec.URL, true, nil
}

// Put stores the URL, replacing any earlier one for the recipe
func (c *VideoCache) Put(ctx context.Context, recipeID, url string, createdAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recipeID == "" {
		return recipe.ErrBlankRecipeID
	}
	if url == "" {
		return recipe.ErrEmptyVideoURL
	}

	c.mu.Lock()
	c.records[recipeID] = recipe.VideoRecord{RecipeID: recipeID, URL: url, CreatedAt: createdAt}
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached entries, expired ones included
func (c *VideoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
