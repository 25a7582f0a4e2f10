package dimension

import (
	"context"
	"sync"
)

// MemoryStore keeps the gold layer in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	customers []DimCustomer
	products  []DimProduct
	facts     []FactSale
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Replace(_ context.Context, customers []DimCustomer, products []DimProduct, facts []FactSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append([]DimCustomer(nil), customers...)
	s.products = append([]DimProduct(nil), products...)
	s.facts = append([]FactSale(nil), facts...)
	return nil
}

func (s *MemoryStore) Customers(_ context.Context) ([]DimCustomer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DimCustomer(nil), s.customers...), nil
}

func (s *MemoryStore) Products(_ context.Context) ([]DimProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DimProduct(nil), s.products...), nil
}

func (s *MemoryStore) Facts(_ context.Context) ([]FactSale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]FactSale(nil), s.facts...), nil
}
