package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/astrovault/natalcore/internal/astro"
	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/observability/metrics"
)

// IngestionService decomposes one raw provider artifact into the
// normalized entity collections, atomically. Either every collection is
// written or none is; readers can never observe a root without its
// dependents.
type IngestionService struct {
	tx         domain.TxRunner
	horoscopes domain.HoroscopeRepository
	planets    domain.PlanetRepository
	charts     domain.ChartRepository
	dashas     domain.DashaRepository
	conditions domain.ConditionRepository
	strengths  domain.StrengthRepository
	points     domain.PointRepository
	logger     *slog.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	tx domain.TxRunner,
	horoscopes domain.HoroscopeRepository,
	planets domain.PlanetRepository,
	charts domain.ChartRepository,
	dashas domain.DashaRepository,
	conditions domain.ConditionRepository,
	strengths domain.StrengthRepository,
	points domain.PointRepository,
	logger *slog.Logger,
) *IngestionService {
	return &IngestionService{
		tx:         tx,
		horoscopes: horoscopes,
		planets:    planets,
		charts:     charts,
		dashas:     dashas,
		conditions: conditions,
		strengths:  strengths,
		points:     points,
		logger:     logger,
	}
}

// Ingest writes the root horoscope and every dependent collection in one
// transaction. A concurrent first-time ingest for the same
// (workspace, birth hash) loses at the unique index and surfaces
// domain.ErrDuplicateFingerprint; callers re-resolve by lookup instead of
// retrying the ingest.
func (s *IngestionService) Ingest(ctx context.Context, workspaceID, birthHash string, details domain.BirthDetails, raw *domain.RawArtifact) (*domain.Horoscope, error) {
	horoscope := &domain.Horoscope{
		ID:           primitive.NewObjectID(),
		WorkspaceID:  workspaceID,
		BirthHash:    birthHash,
		BirthDetails: details,
		Metadata: domain.Metadata{
			SourceAPI:     "jhora",
			APIVersion:    raw.APIVersion,
			AyanamsaValue: raw.AyanamsaValue,
			JulianDay:     raw.JulianDay,
		},
	}

	start := time.Now()
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.horoscopes.Insert(txCtx, horoscope); err != nil {
			return err
		}
		if err := s.ingestPlanets(txCtx, horoscope, raw); err != nil {
			return err
		}
		if err := s.ingestCharts(txCtx, horoscope, raw); err != nil {
			return err
		}
		if err := s.ingestDashas(txCtx, horoscope, raw); err != nil {
			return err
		}
		if err := s.ingestConditions(txCtx, horoscope, raw); err != nil {
			return err
		}
		if err := s.ingestStrengths(txCtx, horoscope, raw); err != nil {
			return err
		}
		return s.ingestPoints(txCtx, horoscope, raw)
	})
	if err != nil {
		metrics.ObserveIngest("error", time.Since(start))
		s.logger.Error("ingestion failed",
			slog.String("workspace_id", workspaceID),
			slog.String("birth_hash", birthHash),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	metrics.ObserveIngest("ok", time.Since(start))
	s.logger.Info("horoscope ingested",
		slog.String("workspace_id", workspaceID),
		slog.String("birth_hash", birthHash),
	)
	return horoscope, nil
}

// primaryChart returns the body map of the D-1 chart, whatever suffix the
// provider attached to its key ("D-1_rasi", "D-1", ...). Body names are
// canonicalized so provider spelling variants merge with the state lists.
func primaryChart(raw *domain.RawArtifact) map[string]domain.RawBody {
	for key, chart := range raw.DivisionalChart {
		if divisionCode(key) == "D-1" {
			normalized := make(map[string]domain.RawBody, len(chart))
			for name, body := range chart {
				normalized[astro.NormalizeBodyName(name)] = body
			}
			return normalized
		}
	}
	return nil
}

// divisionCode parses "D-9_navamsa" into "D-9".
func divisionCode(key string) string {
	if i := strings.Index(key, "_"); i >= 0 {
		return key[:i]
	}
	return key
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

func (s *IngestionService) ingestPlanets(ctx context.Context, h *domain.Horoscope, raw *domain.RawArtifact) error {
	chart := primaryChart(raw)
	states := raw.PlanetaryStates

	var planets []domain.Planet
	for _, name := range astro.Planets {
		body, ok := chart[name]
		if !ok {
			// Absent bodies are skipped, never zero-filled.
			continue
		}
		naks := raw.NakshatraPada[name]
		planets = append(planets, domain.Planet{
			WorkspaceID:   h.WorkspaceID,
			HoroscopeID:   h.ID,
			Name:          name,
			Longitude:     body.Longitude,
			Sign:          body.Sign,
			House:         0, // houses are computed at read time from the ascendant
			Nakshatra:     naks.Nakshatra,
			Pada:          naks.Pada,
			IsRetrograde:  contains(states.Retrograde, name),
			IsCombust:     contains(states.Combusted, name),
			Speed:         body.Speed,
			IsExalted:     contains(states.Exalted, name),
			IsDebilitated: contains(states.Debilitated, name),
			IsInOwnSign:   contains(states.OwnSign, name),
		})
	}
	return s.planets.InsertMany(ctx, planets)
}

func (s *IngestionService) ingestCharts(ctx context.Context, h *domain.Horoscope, raw *domain.RawArtifact) error {
	var charts []domain.DivisionalChart
	for key, bodies := range raw.DivisionalChart {
		asc := bodies["Ascendant"]
		var placements []domain.ChartPlanet
		for name, body := range bodies {
			if name == "Ascendant" {
				continue
			}
			placements = append(placements, domain.ChartPlanet{
				Name:      astro.NormalizeBodyName(name),
				Sign:      body.Sign,
				Longitude: body.Longitude,
				House:     body.House,
			})
		}
		sort.Slice(placements, func(i, j int) bool { return placements[i].Name < placements[j].Name })

		charts = append(charts, domain.DivisionalChart{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Division:    divisionCode(key),
			Ascendant: domain.Ascendant{
				Sign:      asc.Sign,
				Longitude: asc.Longitude,
			},
			Planets: placements,
		})
	}
	sort.Slice(charts, func(i, j int) bool { return charts[i].Division < charts[j].Division })
	return s.charts.InsertMany(ctx, charts)
}

// dashaTimeLayouts are the timestamp shapes the provider is known to emit.
var dashaTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDashaTime(value string) (time.Time, error) {
	for _, layout := range dashaTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized period timestamp %q", value)
}

func (s *IngestionService) ingestDashas(ctx context.Context, h *domain.Horoscope, raw *domain.RawArtifact) error {
	var systems []domain.DashaSystem
	for name, entries := range raw.GrahaDashas {
		periods := make([]domain.DashaPeriod, 0, len(entries))
		for _, entry := range entries {
			startDate, err := parseDashaTime(entry[1])
			if err != nil {
				return fmt.Errorf("dasha system %s: %w", name, err)
			}
			main, sub, found := strings.Cut(entry[0], "-")
			period := domain.DashaPeriod{
				Planet:    main,
				StartDate: startDate,
				Level:     1,
			}
			if found && sub != "" {
				period.SubPlanet = sub
				period.Level = 2
			}
			periods = append(periods, period)
		}
		sort.SliceStable(periods, func(i, j int) bool {
			return periods[i].StartDate.Before(periods[j].StartDate)
		})
		systems = append(systems, domain.DashaSystem{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			System:      name,
			Periods:     periods,
		})
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i].System < systems[j].System })
	return s.dashas.InsertMany(ctx, systems)
}

func (s *IngestionService) ingestConditions(ctx context.Context, h *domain.Horoscope, raw *domain.RawArtifact) error {
	var yogas []domain.Yoga
	for key, details := range raw.Yogas.YogaList {
		// details is [chart, name, condition, description]
		name := key
		if len(details) > 1 && details[1] != "" {
			name = details[1]
		}
		description := ""
		if len(details) > 3 {
			description = details[3]
		} else if len(details) > 2 {
			description = details[2]
		}
		yogas = append(yogas, domain.Yoga{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Name:        name,
			Description: description,
			IsPresent:   true,
		})
	}
	sort.Slice(yogas, func(i, j int) bool { return yogas[i].Name < yogas[j].Name })
	if err := s.conditions.InsertYogas(ctx, yogas); err != nil {
		return err
	}

	var doshas []domain.Dosha
	for name, description := range raw.Doshas {
		doshas = append(doshas, domain.Dosha{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Name:        name,
			Description: description,
			// Known-fragile negation heuristic carried over from the source
			// system; kept byte-for-byte for compatibility.
			IsPresent: !strings.Contains(strings.ToLower(description), "no"),
		})
	}
	sort.Slice(doshas, func(i, j int) bool { return doshas[i].Name < doshas[j].Name })
	return s.conditions.InsertDoshas(ctx, doshas)
}

func (s *IngestionService) ingestStrengths(ctx context.Context, h *domain.Horoscope, raw *domain.RawArtifact) error {
	// Explicit allow-list: unrecognized strength categories are dropped,
	// not stored generically.
	var strengths []domain.Strength
	for _, entry := range []struct {
		category string
		data     map[string]interface{}
	}{
		{domain.StrengthShadBala, raw.ShadBala},
		{domain.StrengthBhavaBala, raw.BhavaBala},
		{domain.StrengthAshtakavarga, raw.Ashtakavarga},
	} {
		if entry.data == nil {
			continue
		}
		strengths = append(strengths, domain.Strength{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Type:        entry.category,
			Data:        entry.data,
		})
	}
	return s.strengths.InsertMany(ctx, strengths)
}

// parseSahamValue splits values like "Libra 12.5" into sign and longitude.
// Values that do not match keep the original system's placeholder shape.
func parseSahamValue(value string) (string, float64) {
	fields := strings.Fields(value)
	if len(fields) == 2 {
		if lon, err := strconv.ParseFloat(fields[1], 64); err == nil {
			return fields[0], lon
		}
	}
	return "Unknown", 0
}

func (s *IngestionService) ingestPoints(ctx context.Context, h *domain.Horoscope, raw *domain.RawArtifact) error {
	var points []domain.AstrologicalPoint

	for name, value := range raw.Sahams {
		sign, lon := parseSahamValue(value)
		points = append(points, domain.AstrologicalPoint{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Type:        domain.PointSaham,
			Name:        name,
			Longitude:   lon,
			Sign:        sign,
		})
	}

	for name, p := range raw.SpecialLagnas {
		points = append(points, domain.AstrologicalPoint{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Type:        domain.PointSpecialLagna,
			Name:        name,
			Longitude:   p.Longitude,
			Sign:        p.Sign,
		})
	}

	for name, p := range raw.Upagrahas {
		points = append(points, domain.AstrologicalPoint{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Type:        domain.PointUpagraha,
			Name:        name,
			Longitude:   p.Longitude,
			Sign:        p.Sign,
		})
	}

	for name, p := range raw.GrahaArudhas {
		points = append(points, domain.AstrologicalPoint{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Type:        domain.PointArudha,
			Name:        name,
			Longitude:   p.Longitude,
			Sign:        p.Sign,
		})
	}

	for name, planet := range raw.CharaKarakas {
		points = append(points, domain.AstrologicalPoint{
			WorkspaceID: h.WorkspaceID,
			HoroscopeID: h.ID,
			Type:        domain.PointCharaKaraka,
			Name:        name,
			Sign:        "Unknown",
			PlanetName:  planet,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Type != points[j].Type {
			return points[i].Type < points[j].Type
		}
		return points[i].Name < points[j].Name
	})
	return s.points.InsertMany(ctx, points)
}
