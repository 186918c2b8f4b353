package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Envelope описывает универсальный контейнер события.
type Envelope struct {
	ID        string          `json:"id"`         // UUID события
	Timestamp time.Time       `json:"timestamp"`  // Время создания (UTC)
	Source    string          `json:"source"`     // Имя сервиса-источника
	EventType string          `json:"event_type"` // world.tick, world.edit ...
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope сериализует payload в JSON и заполняет служебные поля
func NewEnvelope(source, eventType string, payload interface{}) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("сериализация %s: %w", eventType, err)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Payload:   data,
	}, nil
}

// Decode разбирает полезную нагрузку в v
func (ev *Envelope) Decode(v interface{}) error {
	return json.Unmarshal(ev.Payload, v)
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types []string // Если пусто: все типы.
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
}

// EventBus определяет абстракцию шины событий.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
	Close() error
}

//================ In-Memory implementation =================//

// memoryBus доставляет события подписчикам в порядке публикации, подписчики
// получают каждое событие в порядке подписки.
type memoryBus struct {
	mu        sync.RWMutex
	subs      []*memSub
	nextID    int
	stats     Stats
	queue     chan *Envelope
	done      chan struct{}
	closeOnce sync.Once
}

type memSub struct {
	bus     *memoryBus
	id      int
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMemoryBus создаёт in-memory шину с очередью на capacity событий
func NewMemoryBus(capacity int) EventBus {
	mb := &memoryBus{
		queue: make(chan *Envelope, capacity),
		done:  make(chan struct{}),
	}
	go mb.dispatch()
	return mb
}

// Publish не блокирует тик: при полной очереди событие отбрасывается
func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	select {
	case mb.queue <- ev:
		mb.count(func(st *Stats) { st.Published++ })
	default:
		mb.count(func(st *Stats) { st.Dropped++ })
	}
	return nil
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	cctx, cancel := context.WithCancel(ctx)

	mb.mu.Lock()
	defer mb.mu.Unlock()
	sub := &memSub{bus: mb, id: mb.nextID, filter: f, handler: h, ctx: cctx, cancel: cancel}
	mb.nextID++
	mb.subs = append(mb.subs, sub)
	return sub, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return mb.stats
}

// Close дожидается доставки уже принятых событий
func (mb *memoryBus) Close() error {
	mb.closeOnce.Do(func() {
		close(mb.queue)
		<-mb.done
	})
	return nil
}

func (mb *memoryBus) count(update func(st *Stats)) {
	mb.mu.Lock()
	update(&mb.stats)
	mb.mu.Unlock()
}

func (mb *memoryBus) dispatch() {
	defer close(mb.done)

	for ev := range mb.queue {
		mb.mu.RLock()
		subs := append([]*memSub(nil), mb.subs...)
		mb.mu.RUnlock()

		for _, sub := range subs {
			if sub.ctx.Err() != nil || !matchFilter(ev, sub.filter) {
				continue
			}
			sub.handler(sub.ctx, ev)
			mb.count(func(st *Stats) { st.Consumed++ })
		}
	}
}

func matchFilter(ev *Envelope, f Filter) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == ev.EventType {
			return true
		}
	}
	return false
}

func (s *memSub) Unsubscribe() {
	s.cancel()

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	for i, sub := range s.bus.subs {
		if sub.id == s.id {
			s.bus.subs = append(s.bus.subs[:i], s.bus.subs[i+1:]...)
			return
		}
	}
}
