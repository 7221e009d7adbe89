package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/astrovault/natalcore/internal/domain"
)

// TestRoundTrip ingests a raw artifact and checks that reconstruction
// recomposes every recognized section from the normalized entities alone.
func TestRoundTrip(t *testing.T) {
	store := newMemStore()
	raw := fixtureArtifact()

	h, err := newIngestion(store).Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), raw)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	composite, err := newAggregation(store).GetByHash(context.Background(), "ws-1", "hash-1")
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if composite.BirthHash != "hash-1" {
		t.Errorf("birth hash = %q", composite.BirthHash)
	}
	if !reflect.DeepEqual(composite.BirthDetails, fixtureDetails()) {
		t.Errorf("birth details = %+v", composite.BirthDetails)
	}

	data := composite.HoroscopeData
	if data.AyanamsaValue != raw.AyanamsaValue || data.JulianDay != raw.JulianDay {
		t.Errorf("metadata fields = %v / %v", data.AyanamsaValue, data.JulianDay)
	}
	if !reflect.DeepEqual(data.PlanetaryStates, raw.PlanetaryStates) {
		t.Errorf("planetary states:\n got %+v\nwant %+v", data.PlanetaryStates, raw.PlanetaryStates)
	}
	if !reflect.DeepEqual(data.NakshatraPada, raw.NakshatraPada) {
		t.Errorf("nakshatra pada:\n got %+v\nwant %+v", data.NakshatraPada, raw.NakshatraPada)
	}
	if !reflect.DeepEqual(data.GrahaDashas, raw.GrahaDashas) {
		t.Errorf("graha dashas:\n got %+v\nwant %+v", data.GrahaDashas, raw.GrahaDashas)
	}
	if !reflect.DeepEqual(data.Doshas, raw.Doshas) {
		t.Errorf("doshas:\n got %+v\nwant %+v", data.Doshas, raw.Doshas)
	}
	wantYogas := map[string]string{
		"Gajakesari Yoga":   "Confers fame and virtue",
		"Budha-Aditya Yoga": "Sun conjunct Mercury",
	}
	if !reflect.DeepEqual(data.Yogas.YogaList, wantYogas) {
		t.Errorf("yogas:\n got %+v\nwant %+v", data.Yogas.YogaList, wantYogas)
	}
	if !reflect.DeepEqual(data.ShadBala, raw.ShadBala) ||
		!reflect.DeepEqual(data.BhavaBala, raw.BhavaBala) ||
		!reflect.DeepEqual(data.Ashtakavarga, raw.Ashtakavarga) {
		t.Error("strength tables did not round-trip")
	}
	if !reflect.DeepEqual(data.Sahams, raw.Sahams) {
		t.Errorf("sahams:\n got %+v\nwant %+v", data.Sahams, raw.Sahams)
	}
	if !reflect.DeepEqual(data.SpecialLagnas, raw.SpecialLagnas) ||
		!reflect.DeepEqual(data.Upagrahas, raw.Upagrahas) ||
		!reflect.DeepEqual(data.GrahaArudhas, raw.GrahaArudhas) ||
		!reflect.DeepEqual(data.CharaKarakas, raw.CharaKarakas) {
		t.Error("point sections did not round-trip")
	}

	// Chart keys are division codes; each view carries the ascendant plus
	// every body from the raw chart.
	if len(data.DivisionalChart) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(data.DivisionalChart))
	}
	rasi, ok := data.DivisionalChart["D-1"]
	if !ok {
		t.Fatalf("missing D-1 view, keys: %v", data.DivisionalChart)
	}
	asc := rasi["Ascendant"]
	if asc.Sign != "Aries" || asc.Longitude != 15.5 || asc.Name != "" || asc.House != 0 {
		t.Errorf("ascendant entry = %+v", asc)
	}
	for name, body := range raw.DivisionalChart["D-1_rasi"] {
		if name == "Ascendant" {
			continue
		}
		entry, ok := rasi[name]
		if !ok {
			t.Fatalf("missing body %s", name)
		}
		if entry.Name != name || entry.Sign != body.Sign || entry.Longitude != body.Longitude {
			t.Errorf("body %s = %+v, want %+v", name, entry, body)
		}
	}

	// Reconstruction is repeatable: a second read yields the same view.
	again, err := newAggregation(store).GetByID(context.Background(), "ws-1", h.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reflect.DeepEqual(composite, again) {
		t.Error("reconstruction is not deterministic")
	}
}

func TestAggregationNotFound(t *testing.T) {
	store := newMemStore()
	svc := newAggregation(store)

	if _, err := svc.GetByHash(context.Background(), "ws-1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAggregationFailsClosed(t *testing.T) {
	store := newMemStore()
	if _, err := newIngestion(store).Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact()); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	store.failChartList = true
	composite, err := newAggregation(store).GetByHash(context.Background(), "ws-1", "hash-1")
	if err == nil {
		t.Fatal("expected reconstruction to fail when one read fails")
	}
	if composite != nil {
		t.Fatal("partial composite returned on failure")
	}
}

func TestAggregationWorkspaceIsolation(t *testing.T) {
	store := newMemStore()
	if _, err := newIngestion(store).Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact()); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if _, err := newAggregation(store).GetByHash(context.Background(), "ws-2", "hash-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-workspace read: err = %v, want ErrNotFound", err)
	}
}
