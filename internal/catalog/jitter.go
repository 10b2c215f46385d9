package catalog

import "math/rand"

// maxJitter is the half-width of the uniform price fluctuation: ±5%.
const maxJitter = 0.05

// PriceSimulator adds presentation-only noise to prices in the read path.
// The stored price is never touched; two consecutive reads of the same
// product may report different prices.
type PriceSimulator struct {
	enabled bool
}

func NewPriceSimulator(enabled bool) *PriceSimulator {
	return &PriceSimulator{enabled: enabled}
}

func (s *PriceSimulator) Jitter(price float64) float64 {
	if !s.enabled {
		return price
	}
	return price * (1 + (rand.Float64()*2-1)*maxJitter)
}

// Apply jitters every price in place. The slice is expected to be a snapshot
// copy, never the store's backing array.
func (s *PriceSimulator) Apply(products []Product) {
	if !s.enabled {
		return
	}
	for i := range products {
		products[i].Price = s.Jitter(products[i].Price)
	}
}
