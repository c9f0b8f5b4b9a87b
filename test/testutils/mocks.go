// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

var (
	_ outbound.CatalogRepository = (*MockCatalogRepository)(nil)
	_ outbound.VideoCache        = (*MockVideoCache)(nil)
	_ outbound.VideoGenerator    = (*MockVideoGenerator)(nil)
	_ outbound.RatingRepository  = (*MockRatingRepository)(nil)
	_ outbound.EventPublisher    = (*MockEventPublisher)(nil)
	_ outbound.ObjectStorage     = (*MockObjectStorage)(nil)
)

// MockCatalogRepository provides a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

// List lists the catalog
func (m *MockCatalogRepository) List(ctx context.Context) ([]recipe.Recipe, error) {
	args := m.Called(ctx)
	recipes, _ := args.Get(0).([]recipe.Recipe)
	return recipes, args.Error(1)
}

// FindByID finds a recipe by ID
func (m *MockCatalogRepository) FindByID(ctx context.Context, id string) (recipe.Recipe, bool, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(recipe.Recipe)
	return r, args.Bool(1), args.Error(2)
}

// MockVideoCache provides a mock implementation of VideoCache
type MockVideoCache struct {
	mock.Mock
}

// Get looks up a cached URL
func (m *MockVideoCache) Get(ctx context.Context, recipeID string) (string, bool, error) {
	args := m.Called(ctx, recipeID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Put stores a URL
func (m *MockVideoCache) Put(ctx context.Context, recipeID, url string, createdAt time.Time) error {
	args := m.Called(ctx, recipeID, url, createdAt)
	return args.Error(0)
}

// MockVideoGenerator provides a mock implementation of VideoGenerator
type MockVideoGenerator struct {
	mock.Mock
}

// Generate generates a video URL
func (m *MockVideoGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockRatingRepository provides a mock implementation of RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

// Record records a rating
func (m *MockRatingRepository) Record(ctx context.Context, rating recipe.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

// Summary summarizes ratings
func (m *MockRatingRepository) Summary(ctx context.Context, recipeID string) (recipe.RatingSummary, error) {
	args := m.Called(ctx, recipeID)
	s, _ := args.Get(0).(recipe.RatingSummary)
	return s, args.Error(1)
}

// MockObjectStorage provides a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

// Upload uploads an object
func (m *MockObjectStorage) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

// MockEventPublisher records published events. Expectations are
// optional: without any, Publish succeeds.
type MockEventPublisher struct {
	mock.Mock
	published []shared.DomainEvent
	mu        sync.RWMutex
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish publishes an event
func (m *MockEventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	m.mu.Unlock()

	if len(m.ExpectedCalls) == 0 {
		return nil
	}
	args := m.Called(ctx, event)
	return args.Error(0)
}

// GetPublishedEvents returns all published events
func (m *MockEventPublisher) GetPublishedEvents() []shared.DomainEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]shared.DomainEvent, len(m.published))
	copy(events, m.published)
	return events
}

// EventNames returns the names of published events in order
func (m *MockEventPublisher) EventNames() []string {
	names := make([]string, 0)
	for _, e := range m.GetPublishedEvents() {
		names = append(names, e.EventName())
	}
	return names
}

// ClearPublishedEvents clears the list of published events
func (m *MockEventPublisher) ClearPublishedEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = nil
}
