package container

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface {
	Greet() string
}

type englishGreeter struct{ name string }

func (g englishGreeter) Greet() string { return "hello " + g.name }

type counter struct{ n int }

func TestAddReturnsSameCollection(t *testing.T) {
	t.Parallel()

	services := NewCollection()
	assert.Same(t, services, AddInstance(services, "value"))
	assert.Same(t, services, AddSingleton(services, func(*Provider) (*counter, error) { return &counter{}, nil }))
	assert.Same(t, services, AddTransient(services, func(*Provider) (int, error) { return 1, nil }))
	assert.Equal(t, 3, services.Len())
}

func TestResolveInterfaceRegistration(t *testing.T) {
	t.Parallel()

	services := NewCollection()
	AddInstance(services, "world")
	AddSingleton[greeter](services, func(p *Provider) (greeter, error) {
		name, err := Resolve[string](p)
		if err != nil {
			return nil, err
		}
		return englishGreeter{name: name}, nil
	})

	provider, err := services.Build()
	require.NoError(t, err)

	g, err := Resolve[greeter](provider)
	require.NoError(t, err)
	assert.Equal(t, "hello world", g.Greet())
}

func TestSingletonBuiltOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	services := NewCollection()
	AddSingleton(services, func(*Provider) (*counter, error) {
		calls.Add(1)
		return &counter{}, nil
	})

	provider, err := services.Build()
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*counter, 8)
	for idx := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[idx] = MustResolve[*counter](provider)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
}

func TestTransientBuiltPerResolve(t *testing.T) {
	t.Parallel()

	services := NewCollection()
	AddTransient(services, func(*Provider) (*counter, error) { return &counter{}, nil })

	provider, err := services.Build()
	require.NoError(t, err)

	first := MustResolve[*counter](provider)
	second := MustResolve[*counter](provider)
	assert.NotSame(t, first, second)
}

func TestLaterRegistrationReplacesEarlier(t *testing.T) {
	t.Parallel()

	services := NewCollection()
	AddInstance(services, "first")
	AddInstance(services, "second")
	assert.Equal(t, 1, services.Len())
	assert.True(t, Contains[string](services))
	assert.False(t, Contains[int](services))

	provider, err := services.Build()
	require.NoError(t, err)
	assert.Equal(t, "second", MustResolve[string](provider))
}

func TestBuildSnapshotsRegistrations(t *testing.T) {
	t.Parallel()

	services := NewCollection()
	provider, err := services.Build()
	require.NoError(t, err)

	AddInstance(services, 42)
	_, err = Resolve[int](provider)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	services := NewCollection()
	AddSingleton(services, func(*Provider) (int, error) { return 0, errBoom })
	AddSingleton(services, func(p *Provider) (string, error) {
		_, err := Resolve[float64](p)
		return "", err
	})
	AddSingleton(services, func(p *Provider) (float64, error) {
		_, err := Resolve[string](p)
		return 0, err
	})

	provider, err := services.Build()
	require.NoError(t, err)

	_, err = Resolve[int](provider)
	assert.ErrorIs(t, err, errBoom)

	_, err = Resolve[bool](provider)
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = Resolve[string](provider)
	assert.ErrorIs(t, err, ErrCircularDependency)
	assert.Contains(t, err.Error(), "string -> float64 -> string")

	assert.Panics(t, func() { MustResolve[bool](provider) })
}

func TestNilCollectionAndProvider(t *testing.T) {
	t.Parallel()

	var services *Collection
	_, err := services.Build()
	assert.Error(t, err)
	assert.Equal(t, 0, services.Len())

	_, err = Resolve[int](nil)
	assert.Error(t, err)

	assert.NotPanics(t, func() {
		assert.Nil(t, AddInstance(services, 1))
		assert.Nil(t, AddSingleton(services, func(*Provider) (string, error) { return "x", nil }))
		assert.Nil(t, AddTransient(services, func(*Provider) (bool, error) { return true, nil }))
	})
	assert.False(t, Contains[int](services))
}
