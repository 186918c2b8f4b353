package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	nats "github.com/nats-io/nats.go"
)

// NATSBus реализует EventBus поверх core NATS.
// События публикуются в subject <prefix>.<event_type>.
type NATSBus struct {
	nc        *nats.Conn
	prefix    string
	published uint64
	consumed  uint64
	dropped   uint64
}

// NewNATSBus подключается к NATS, url: nats://127.0.0.1:4222
func NewNATSBus(url, prefix string) (*NATSBus, error) {
	if prefix == "" {
		prefix = "blockverse"
	}

	nc, err := nats.Connect(url, nats.Name("blockverse-worldsim"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSBus{nc: nc, prefix: prefix}, nil
}

func (nb *NATSBus) subject(eventType string) string {
	return nb.prefix + "." + eventType
}

// Publish сериализует Envelope в JSON и публикует его
func (nb *NATSBus) Publish(ctx context.Context, ev *Envelope) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := nb.nc.Publish(nb.subject(ev.EventType), data); err != nil {
		atomic.AddUint64(&nb.dropped, 1)
		return err
	}
	atomic.AddUint64(&nb.published, 1)
	return nil
}

// Subscribe подписывается на один тип события или на все (<prefix>.>)
func (nb *NATSBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	subj := nb.prefix + ".>"
	if len(f.Types) == 1 {
		subj = nb.subject(f.Types[0])
	}

	sub, err := nb.nc.Subscribe(subj, func(msg *nats.Msg) {
		var ev Envelope
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return
		}
		if !matchFilter(&ev, f) {
			return
		}
		h(ctx, &ev)
		atomic.AddUint64(&nb.consumed, 1)
	})
	if err != nil {
		return nil, err
	}
	return &natsSub{sub}, nil
}

// natsSub обёртка вокруг *nats.Subscription чтобы удовлетворить наш интерфейс.
type natsSub struct {
	s *nats.Subscription
}

func (n *natsSub) Unsubscribe() {
	_ = n.s.Unsubscribe()
}

// Metrics возвращает текущие метрики.
func (nb *NATSBus) Metrics() Stats {
	return Stats{
		Published: atomic.LoadUint64(&nb.published),
		Consumed:  atomic.LoadUint64(&nb.consumed),
		Dropped:   atomic.LoadUint64(&nb.dropped),
	}
}

// Close отправляет буферизованные сообщения и закрывает соединение
func (nb *NATSBus) Close() error {
	return nb.nc.Drain()
}
