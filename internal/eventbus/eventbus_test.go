package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockverse/internal/vec"
	"github.com/annel0/blockverse/internal/world"
)

func TestMemoryBusDeliversInOrder(t *testing.T) {
	bus := NewMemoryBus(16)

	var got []TickEvent
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeWorldTick}}, func(_ context.Context, ev *Envelope) {
		var te TickEvent
		if ev.Decode(&te) == nil {
			got = append(got, te)
		}
	})
	require.NoError(t, err)

	var other int
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{"world.other"}}, func(context.Context, *Envelope) {
		other++
	})
	require.NoError(t, err)

	ctx := context.Background()
	for tick := uint64(1); tick <= 3; tick++ {
		report := world.TickReport{
			Tick:          tick,
			ObserverChunk: vec.Vec3{X: -1},
			Remeshed:      int(tick),
			Errors:        []error{errors.New("сломано")},
		}
		require.NoError(t, PublishTick(ctx, bus, "test", report))
	}
	require.NoError(t, bus.Close())

	require.Len(t, got, 3)
	for i, te := range got {
		assert.Equal(t, uint64(i+1), te.Tick)
		assert.Equal(t, vec.Vec3{X: -1}, te.ObserverChunk)
		assert.Equal(t, []string{"сломано"}, te.Errors)
	}
	assert.Zero(t, other, "фильтр по типу")

	stats := bus.Metrics()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(3), stats.Consumed)
}

func TestMemoryBusDropsWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	block := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		<-block
	})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		env, err := NewEnvelope("test", "flood", i)
		require.NoError(t, err)
		require.NoError(t, bus.Publish(ctx, env), "публикация не блокирует")
	}
	close(block)
	require.NoError(t, bus.Close())

	stats := bus.Metrics()
	assert.Equal(t, uint64(10), stats.Published+stats.Dropped)
	assert.Positive(t, stats.Dropped)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	var n int
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) { n++ })
	require.NoError(t, err)
	sub.Unsubscribe()

	env, err := NewEnvelope("test", "x", nil)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), env))
	require.NoError(t, bus.Close())
	assert.Zero(t, n)
}

func TestRegisterMetrics(t *testing.T) {
	bus := NewMemoryBus(4)
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg, bus))

	env, err := NewEnvelope("test", "x", map[string]int{"a": 1})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), env))
	require.NoError(t, bus.Close())

	count, err := testutil.GatherAndCount(reg, "eventbus_messages_published_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Error(t, RegisterMetrics(reg, bus), "повторная регистрация")
}

func TestNATSBusConnectError(t *testing.T) {
	_, err := NewNATSBus("nats://127.0.0.1:1", "")
	assert.Error(t, err, "без сервера подключение невозможно")
}
