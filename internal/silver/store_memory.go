package silver

import (
	"context"
	"sync"
)

// MemoryStore keeps the conformed layer in process memory. Used in tests and
// single-shot local runs.
type MemoryStore struct {
	mu           sync.RWMutex
	customers    []Customer
	products     []Product
	sales        []Sale
	demographics []Demographic
	locations    []Location
	categories   []Category
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ReplaceCustomers(_ context.Context, rows []Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append([]Customer(nil), rows...)
	return nil
}

func (s *MemoryStore) ReplaceProducts(_ context.Context, rows []Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]Product(nil), rows...)
	return nil
}

func (s *MemoryStore) ReplaceSales(_ context.Context, rows []Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append([]Sale(nil), rows...)
	return nil
}

func (s *MemoryStore) ReplaceDemographics(_ context.Context, rows []Demographic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demographics = append([]Demographic(nil), rows...)
	return nil
}

func (s *MemoryStore) ReplaceLocations(_ context.Context, rows []Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append([]Location(nil), rows...)
	return nil
}

func (s *MemoryStore) ReplaceCategories(_ context.Context, rows []Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]Category(nil), rows...)
	return nil
}

func (s *MemoryStore) Customers(_ context.Context) ([]Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Customer(nil), s.customers...), nil
}

func (s *MemoryStore) Products(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...), nil
}

func (s *MemoryStore) Sales(_ context.Context) ([]Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Sale(nil), s.sales...), nil
}

func (s *MemoryStore) Demographics(_ context.Context) ([]Demographic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Demographic(nil), s.demographics...), nil
}

func (s *MemoryStore) Locations(_ context.Context) ([]Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Location(nil), s.locations...), nil
}

func (s *MemoryStore) Categories(_ context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.categories...), nil
}
