package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/astrovault/natalcore/internal/domain"
)

func TestIngestDecomposesPlanets(t *testing.T) {
	store := newMemStore()
	svc := newIngestion(store)

	h, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if h.ID.IsZero() {
		t.Fatal("expected assigned horoscope ID")
	}
	if h.Metadata.SourceAPI != "jhora" || h.Metadata.AyanamsaValue != 24.10223 {
		t.Errorf("unexpected metadata: %+v", h.Metadata)
	}

	// Only bodies present in the D-1 chart become planets.
	if len(store.planets) != 4 {
		t.Fatalf("expected 4 planets, got %d", len(store.planets))
	}
	byName := map[string]domain.Planet{}
	for _, p := range store.planets {
		byName[p.Name] = p
	}
	sun := byName["Sun"]
	if sun.Sign != "Taurus" || sun.Longitude != 41.25 || sun.Speed != 0.96 {
		t.Errorf("unexpected Sun: %+v", sun)
	}
	if sun.Nakshatra != "Rohini" || sun.Pada != 1 {
		t.Errorf("Sun nakshatra not merged: %+v", sun)
	}
	mars := byName["Mars"]
	if !mars.IsRetrograde || !mars.IsExalted || mars.IsCombust {
		t.Errorf("Mars state flags wrong: %+v", mars)
	}
	if !byName["Saturn"].IsInOwnSign {
		t.Error("Saturn should be in own sign")
	}
	if sun.House != 0 {
		t.Errorf("houses are computed at read time, stored house = %d", sun.House)
	}
}

func TestIngestCharts(t *testing.T) {
	store := newMemStore()
	svc := newIngestion(store)

	if _, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact()); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if len(store.charts) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(store.charts))
	}
	var navamsa *domain.DivisionalChart
	for i := range store.charts {
		if store.charts[i].Division == "D-9" {
			navamsa = &store.charts[i]
		}
	}
	if navamsa == nil {
		t.Fatal("composite chart key not reduced to division code D-9")
	}
	if navamsa.Ascendant.Sign != "Libra" || navamsa.Ascendant.Longitude != 187.0 {
		t.Errorf("ascendant not hoisted: %+v", navamsa.Ascendant)
	}
	for _, p := range navamsa.Planets {
		if p.Name == "Ascendant" {
			t.Error("ascendant duplicated in planet list")
		}
	}
	if len(navamsa.Planets) != 2 {
		t.Errorf("expected 2 bodies in D-9, got %d", len(navamsa.Planets))
	}
}

func TestIngestDashas(t *testing.T) {
	store := newMemStore()
	svc := newIngestion(store)

	if _, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact()); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if len(store.dashas) != 1 {
		t.Fatalf("expected 1 system, got %d", len(store.dashas))
	}
	sys := store.dashas[0]
	if sys.System != "vimsottari" {
		t.Fatalf("unexpected system %q", sys.System)
	}
	if len(sys.Periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(sys.Periods))
	}
	for i := 1; i < len(sys.Periods); i++ {
		if sys.Periods[i].StartDate.Before(sys.Periods[i-1].StartDate) {
			t.Fatal("periods not sorted by start date")
		}
	}
	first := sys.Periods[0]
	if first.Planet != "Sun" || first.SubPlanet != "" || first.Level != 1 {
		t.Errorf("unexpected main period: %+v", first)
	}
	sub := sys.Periods[2]
	if sub.Planet != "Moon" || sub.SubPlanet != "Mars" || sub.Level != 2 {
		t.Errorf("compound label not split: %+v", sub)
	}
	want := time.Date(1992, 5, 20, 0, 0, 0, 0, time.UTC)
	if !first.StartDate.Equal(want) {
		t.Errorf("start date = %v, want %v", first.StartDate, want)
	}
}

func TestIngestConditions(t *testing.T) {
	store := newMemStore()
	svc := newIngestion(store)

	if _, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact()); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if !hasYoga(store.yogas, "Gajakesari Yoga") || !hasYoga(store.yogas, "Budha-Aditya Yoga") {
		t.Fatalf("yoga names not extracted: %+v", store.yogas)
	}
	for _, y := range store.yogas {
		if !y.IsPresent {
			t.Errorf("listed yoga %q must be present", y.Name)
		}
		if y.Name == "Gajakesari Yoga" && y.Description != "Confers fame and virtue" {
			t.Errorf("description not taken from fourth element: %q", y.Description)
		}
		if y.Name == "Budha-Aditya Yoga" && y.Description != "Sun conjunct Mercury" {
			t.Errorf("three-element entry should fall back to condition text: %q", y.Description)
		}
	}

	if present, ok := doshaPresent(store.doshas, "Manglik Dosha"); !ok || present {
		t.Error("description containing a negation must yield not-present")
	}
	if present, ok := doshaPresent(store.doshas, "Kala Sarpa Dosha"); !ok || !present {
		t.Error("affirmative description must yield present")
	}
}

func TestIngestStrengthAllowList(t *testing.T) {
	store := newMemStore()
	svc := newIngestion(store)

	raw := fixtureArtifact()
	raw.BhavaBala = nil

	if _, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), raw); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(store.strengths) != 2 {
		t.Fatalf("expected 2 strength docs, got %d", len(store.strengths))
	}
	types := map[string]bool{}
	for _, s := range store.strengths {
		types[s.Type] = true
	}
	if !types[domain.StrengthShadBala] || !types[domain.StrengthAshtakavarga] || types[domain.StrengthBhavaBala] {
		t.Errorf("unexpected strength types: %v", types)
	}
}

func TestIngestPoints(t *testing.T) {
	store := newMemStore()
	svc := newIngestion(store)

	if _, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact()); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	byType := map[string][]domain.AstrologicalPoint{}
	for _, p := range store.points {
		byType[p.Type] = append(byType[p.Type], p)
	}
	if len(byType[domain.PointSaham]) != 3 {
		t.Fatalf("expected 3 sahams, got %d", len(byType[domain.PointSaham]))
	}
	for _, p := range byType[domain.PointSaham] {
		switch p.Name {
		case "Punya":
			if p.Sign != "Libra" || p.Longitude != 12.5 {
				t.Errorf("saham value not parsed: %+v", p)
			}
		case "Samapa":
			if p.Sign != "Unknown" || p.Longitude != 0 {
				t.Errorf("unparseable saham should keep placeholder: %+v", p)
			}
		}
	}
	if len(byType[domain.PointCharaKaraka]) != 2 {
		t.Fatalf("expected 2 chara karakas, got %d", len(byType[domain.PointCharaKaraka]))
	}
	for _, p := range byType[domain.PointCharaKaraka] {
		if p.Name == "Atmakaraka" && p.PlanetName != "Saturn" {
			t.Errorf("karaka planet lost: %+v", p)
		}
	}
	if len(byType[domain.PointUpagraha]) != 1 || byType[domain.PointUpagraha][0].Sign != "Virgo" {
		t.Errorf("upagraha not stored: %+v", byType[domain.PointUpagraha])
	}
}

func TestIngestAtomicity(t *testing.T) {
	store := newMemStore()
	store.failPlanetInsert = true
	svc := newIngestion(store)

	if _, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact()); err == nil {
		t.Fatal("expected ingest to fail")
	}

	// Nothing from the failed transaction may be observable, including the
	// root written before the failing step.
	if len(store.horoscopes) != 0 || len(store.charts) != 0 || len(store.dashas) != 0 {
		t.Fatalf("partial write survived rollback: %d roots, %d charts, %d dashas",
			len(store.horoscopes), len(store.charts), len(store.dashas))
	}
}

func TestIngestDuplicateFingerprint(t *testing.T) {
	store := newMemStore()
	svc := newIngestion(store)

	if _, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact()); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	before := store.snapshot()

	_, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact())
	if !errors.Is(err, domain.ErrDuplicateFingerprint) {
		t.Fatalf("err = %v, want ErrDuplicateFingerprint", err)
	}
	if len(store.horoscopes) != len(before.horoscopes) || len(store.planets) != len(before.planets) {
		t.Fatal("losing ingest left data behind")
	}
}

func TestIngestWorkspaceIsolation(t *testing.T) {
	store := newMemStore()
	svc := newIngestion(store)

	// The same birth hash in two workspaces is two independent horoscopes.
	h1, err := svc.Ingest(context.Background(), "ws-1", "hash-1", fixtureDetails(), fixtureArtifact())
	if err != nil {
		t.Fatalf("ws-1 ingest: %v", err)
	}
	h2, err := svc.Ingest(context.Background(), "ws-2", "hash-1", fixtureDetails(), fixtureArtifact())
	if err != nil {
		t.Fatalf("ws-2 ingest: %v", err)
	}
	if h1.ID == h2.ID {
		t.Fatal("expected distinct roots per workspace")
	}

	planets, err := store.ListByHoroscope(context.Background(), "ws-1", h2.ID)
	if err != nil {
		t.Fatalf("ListByHoroscope: %v", err)
	}
	if len(planets) != 0 {
		t.Fatal("cross-workspace read returned data")
	}
}
