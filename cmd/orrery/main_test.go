package main

import (
	"math"
	"testing"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/vec"
)

func TestSampleSeries(t *testing.T) {
	sun := body.Body{ID: 1, Kind: body.Sun, Mass: 1000}
	planet := func(id body.ID, x, v float64) body.Body {
		return body.Body{ID: id, Kind: body.Planet, Mass: 2, Position: vec.New(x, 0, 0), Velocity: vec.New(v, 0, 0)}
	}

	samples := []sim.Sample{
		{Tick: 0, Body: sun},
		{Tick: 0, Body: planet(2, 100, 1)},
		{Tick: 0, Body: planet(3, 200, 2)},
		{Tick: 6, Body: sun},
		{Tick: 6, Body: planet(2, 50, 3)},
	}

	energy, radius := sampleSeries(samples)
	if len(energy) != 2 || len(radius) != 2 {
		t.Fatalf("expected 2 points, got %d / %d", len(energy), len(radius))
	}
	if math.Abs(energy[0]-5) > 1e-12 || math.Abs(energy[1]-9) > 1e-12 {
		t.Errorf("unexpected energy %v", energy)
	}
	if radius[0] != 150 || radius[1] != 50 {
		t.Errorf("unexpected radius %v", radius)
	}
}

func TestSampleSeries_Empty(t *testing.T) {
	energy, radius := sampleSeries(nil)
	if len(energy) != 0 || len(radius) != 0 {
		t.Error("expected empty series")
	}
}
