package effects_test

import (
	"math"
	"testing"

	"github.com/san-kum/orrery/internal/effects"
	"github.com/san-kum/orrery/internal/vec"
)

func TestEmitAssignsUniqueIDs(t *testing.T) {
	bus := effects.New(effects.DefaultDecayRate, effects.DefaultThreshold)

	seen := make(map[effects.EventID]bool)
	for i := 0; i < 50; i++ {
		id := bus.Emit(vec.New(float64(i), 0, 0), vec.Up)
		if seen[id] {
			t.Errorf("duplicate event id %d", id)
		}
		seen[id] = true
	}
	if bus.Len() != 50 {
		t.Errorf("Len = %d, want 50", bus.Len())
	}

	active := bus.Active()
	for i := 1; i < len(active); i++ {
		if active[i-1].ID >= active[i].ID {
			t.Errorf("Active not ordered at %d", i)
		}
	}
}

func TestAdvanceExpires(t *testing.T) {
	bus := effects.New(2, 1)
	id := bus.Emit(vec.New(5, 0, 0), vec.Up)
	if l := bus.Lifetime(); l != 0.5 {
		t.Errorf("Lifetime = %v, want 0.5", l)
	}

	bus.Advance(0.2)
	e, ok := bus.Get(id)
	if !ok {
		t.Fatal("event expired early")
	}
	if math.Abs(e.Age-0.4) > 1e-12 {
		t.Errorf("Age = %v, want 0.4", e.Age)
	}

	bus.Advance(0.2)
	if _, ok := bus.Get(id); !ok {
		t.Error("age 0.8 is below the threshold")
	}

	bus.Advance(0.15)
	if _, ok := bus.Get(id); ok {
		t.Error("age 1.1 crosses the threshold")
	}
	if n := len(bus.Active()); n != 0 {
		t.Errorf("%d events still active", n)
	}

	expired, completed := bus.Counts()
	if expired != 1 || completed != 0 {
		t.Errorf("Counts = %d, %d, want 1, 0", expired, completed)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	bus := effects.New(2, 1)
	a := bus.Emit(vec.Zero, vec.Up)
	b := bus.Emit(vec.Zero, vec.Up)

	if !bus.Complete(a) {
		t.Error("first Complete returned false")
	}
	if bus.Complete(a) {
		t.Error("second Complete returned true")
	}
	if bus.Complete(999) {
		t.Error("unknown id completed")
	}

	bus.Advance(1)
	if bus.Complete(b) {
		t.Error("expired event completed")
	}

	expired, completed := bus.Counts()
	if expired != 1 || completed != 1 {
		t.Errorf("Counts = %d, %d, want 1, 1", expired, completed)
	}
}

func TestActiveReturnsCopies(t *testing.T) {
	bus := effects.New(2, 1)
	id := bus.Emit(vec.New(1, 2, 3), vec.Up)

	active := bus.Active()
	active[0].Age = 42

	if e, _ := bus.Get(id); e.Age != 0 {
		t.Errorf("stored age changed to %v", e.Age)
	}
}

func TestDefaultsForInvalidRates(t *testing.T) {
	bus := effects.New(0, -1)
	want := effects.DefaultThreshold / effects.DefaultDecayRate
	if math.Abs(bus.Lifetime()-want) > 1e-12 {
		t.Errorf("Lifetime = %v, want %v", bus.Lifetime(), want)
	}

	bus.Advance(-1)
	id := bus.Emit(vec.Zero, vec.Up)
	bus.Advance(0)
	if _, ok := bus.Get(id); !ok {
		t.Error("zero advance expired the event")
	}
}
