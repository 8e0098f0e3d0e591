package network

import (
	"sync"

	"camp-engine/internal/domain"
	"camp-engine/pkg/api"
)

// Batcher - слушатель очереди событий. Копит события хода и по маркеру
// queue_exhausted выдаёт их одной пачкой: клиент проигрывает анимации хода
// целиком, а не по одному событию.
type Batcher struct {
	mu      sync.Mutex
	pending []api.EventView
	ready   []api.EventView
	onFlush func(batch []api.EventView)
}

// NewBatcher создаёт пачкователь; onFlush (если задан) вызывается на каждую
// готовую пачку.
func NewBatcher(onFlush func(batch []api.EventView)) *Batcher {
	return &Batcher{onFlush: onFlush}
}

func (b *Batcher) ProcessGameEvent(ev domain.GameEvent) {
	b.mu.Lock()
	if ev.Type != domain.EventQueueExhausted {
		b.pending = append(b.pending, ToEventView(ev))
		b.mu.Unlock()
		return
	}
	batch := append(b.pending, ToEventView(ev))
	b.pending = nil
	b.ready = batch
	flush := b.onFlush
	b.mu.Unlock()

	if flush != nil {
		flush(batch)
	}
}

// Take отдаёт последнюю готовую пачку и забывает её.
func (b *Batcher) Take() []api.EventView {
	b.mu.Lock()
	defer b.mu.Unlock()
	batch := b.ready
	b.ready = nil
	return batch
}

// ToEventView - событие в виде для клиента.
func ToEventView(ev domain.GameEvent) api.EventView {
	v := api.EventView{Type: ev.Type.String(), X: ev.Location.X, Y: ev.Location.Y}
	if !ev.Actor.IsNil() {
		v.Actor = ev.Actor.String()
	}
	return v
}
