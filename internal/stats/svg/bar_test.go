package svg

import (
	"strings"
	"testing"
)

func TestStackedBarsProducesSVG(t *testing.T) {
	out, err := StackedBars(420, 220,
		[][]float64{{3, 1}, {1, 0}, {0, 2}},
		[]string{"Gómez", "Pérez"},
		BarOpts{
			Title:        "Órdenes por técnico",
			SeriesLabels: []string{"Cerradas", "Pendientes", "Canceladas"},
		})
	if err != nil {
		t.Fatalf("stacked renderer error: %v", err)
	}
	if !strings.HasPrefix(out, "<svg") {
		t.Fatalf("expected svg output, got %s", out)
	}
	if !strings.Contains(out, "<rect") {
		t.Fatalf("expected rect segments in svg")
	}
	if !strings.Contains(out, "Cerradas") {
		t.Fatalf("expected legend label")
	}
}

func TestStackedBarsRejectsMismatchedSeries(t *testing.T) {
	_, err := StackedBars(420, 220, [][]float64{{1, 2, 3}}, []string{"a", "b"}, BarOpts{})
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestStackedBarsRejectsNegativeValues(t *testing.T) {
	_, err := StackedBars(420, 220, [][]float64{{-1}}, []string{"a"}, BarOpts{})
	if err == nil {
		t.Fatal("expected negative value error")
	}
}

func TestHorizontalBarsProducesSVG(t *testing.T) {
	out, err := HorizontalBars(420, 220, []float64{5, 0, 2}, []string{"Florencio Varela", "Quilmes", "La Colorada"}, BarOpts{
		Title: "Cerradas por zona",
	})
	if err != nil {
		t.Fatalf("horizontal renderer error: %v", err)
	}
	if !strings.Contains(out, "Quilmes") {
		t.Fatalf("expected zone label in svg")
	}
	if !strings.Contains(out, "<rect") {
		t.Fatalf("expected rect bars in svg")
	}
}

func TestHorizontalBarsAllZeroStillRenders(t *testing.T) {
	out, err := HorizontalBars(420, 220, []float64{0, 0}, []string{"a", "b"}, BarOpts{})
	if err != nil {
		t.Fatalf("zero series error: %v", err)
	}
	if !strings.HasPrefix(out, "<svg") {
		t.Fatalf("expected svg output")
	}
}

func TestGroupedBarsProducesSVG(t *testing.T) {
	out, err := GroupedBars(420, 220,
		[][]float64{{4, 2}, {1, 0}},
		[]string{"Gómez", "Pérez"},
		BarOpts{SeriesLabels: []string{"Cerradas", "Con problema"}})
	if err != nil {
		t.Fatalf("grouped renderer error: %v", err)
	}
	if !strings.Contains(out, "Con problema") {
		t.Fatalf("expected legend label")
	}
}
