package catalog

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultGenerateInterval is the pause between synthesized products.
	DefaultGenerateInterval = 3 * time.Second

	genMinPrice = 10.0
	genMaxPrice = 500.0

	genTimeout = 5 * time.Second
)

var genCategories = []string{"Shoes", "Clothes", "Electronics", "Books", "Accessories"}

// Generator periodically synthesizes products, stores them and publishes them
// to the hub. Start while already running is a no-op: exactly one loop is
// active per enabled period. Stop is cooperative — the loop notices the
// signal at its next iteration boundary.
type Generator struct {
	store    Store
	hub      *Hub
	log      *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

func NewGenerator(store Store, hub *Hub, log *zap.Logger, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = DefaultGenerateInterval
	}
	return &Generator{
		store:    store,
		hub:      hub,
		log:      log,
		interval: interval,
	}
}

// Start spawns the generation loop. Returns false if one was already running.
func (g *Generator) Start() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return false
	}
	g.running = true
	g.stop = make(chan struct{})

	go g.loop(g.stop)

	g.log.Info("product generation enabled", zap.Duration("interval", g.interval))
	return true
}

// Stop signals the loop to exit. Returns false if it was not running.
func (g *Generator) Stop() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return false
	}
	g.running = false
	close(g.stop)

	g.log.Info("product generation disabled")
	return true
}

func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

func (g *Generator) loop(stop chan struct{}) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		g.generateOne()
	}
}

func (g *Generator) generateOne() {
	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	// Peek at the next id so name and description can reference it. A client
	// create racing this read only skews the label, never the stored id.
	next := int64(1)
	if products, err := g.store.List(ctx); err == nil {
		for _, p := range products {
			if p.ID >= next {
				next = p.ID + 1
			}
		}
	}

	category := genCategories[rand.Intn(len(genCategories))]
	price := genMinPrice + rand.Float64()*(genMaxPrice-genMinPrice)

	in := ProductInput{
		Name:        fmt.Sprintf("Generated %s %d", category, next),
		Price:       math.Round(price*100) / 100,
		Image:       "/assets/images/generated.jpg",
		Description: fmt.Sprintf("Automatically generated catalog item number %d", next),
		Category:    category,
	}

	p, err := g.store.Create(ctx, in)
	if err != nil {
		// Failed ticks are skipped, the loop keeps its cadence.
		g.log.Warn("generate product failed", zap.Error(err))
		return
	}

	g.hub.Publish(p)
	g.log.Debug("generated product",
		zap.Int64("id", p.ID),
		zap.String("category", p.Category),
		zap.Float64("price", p.Price),
	)
}
