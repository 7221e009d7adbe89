package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/astrovault/natalcore/internal/astro"
	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/observability/metrics"
)

// AggregationService reassembles the composite horoscope view from the
// normalized collections. Reconstruction is read-only and repeatable:
// the same stored entities always produce the same composite.
type AggregationService struct {
	horoscopes domain.HoroscopeRepository
	planets    domain.PlanetRepository
	charts     domain.ChartRepository
	dashas     domain.DashaRepository
	conditions domain.ConditionRepository
	strengths  domain.StrengthRepository
	points     domain.PointRepository
	logger     *slog.Logger
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(
	horoscopes domain.HoroscopeRepository,
	planets domain.PlanetRepository,
	charts domain.ChartRepository,
	dashas domain.DashaRepository,
	conditions domain.ConditionRepository,
	strengths domain.StrengthRepository,
	points domain.PointRepository,
	logger *slog.Logger,
) *AggregationService {
	return &AggregationService{
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

// GetByHash reconstructs the composite for a (workspace, birth hash) pair.
func (s *AggregationService) GetByHash(ctx context.Context, workspaceID, birthHash string) (*domain.Composite, error) {
	horoscope, err := s.horoscopes.FindByHash(ctx, workspaceID, birthHash)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, horoscope)
}

// GetByID reconstructs the composite for a known root ID.
func (s *AggregationService) GetByID(ctx context.Context, workspaceID string, id primitive.ObjectID) (*domain.Composite, error) {
	horoscope, err := s.horoscopes.FindByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, horoscope)
}

// assemble fans out the seven dependent reads concurrently and folds the
// results back into the artifact shape. Any single read failure fails the
// whole reconstruction; a partial composite is never returned.
func (s *AggregationService) assemble(ctx context.Context, h *domain.Horoscope) (*domain.Composite, error) {
	start := time.Now()

	var (
		planets   []domain.Planet
		charts    []domain.DivisionalChart
		dashas    []domain.DashaSystem
		yogas     []domain.Yoga
		doshas    []domain.Dosha
		strengths []domain.Strength
		points    []domain.AstrologicalPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		planets, err = s.planets.ListByHoroscope(gctx, h.WorkspaceID, h.ID)
		return err
	})
	g.Go(func() (err error) {
		charts, err = s.charts.ListByHoroscope(gctx, h.WorkspaceID, h.ID)
		return err
	})
	g.Go(func() (err error) {
		dashas, err = s.dashas.ListByHoroscope(gctx, h.WorkspaceID, h.ID)
		return err
	})
	g.Go(func() (err error) {
		yogas, err = s.conditions.ListYogas(gctx, h.WorkspaceID, h.ID)
		return err
	})
	g.Go(func() (err error) {
		doshas, err = s.conditions.ListDoshas(gctx, h.WorkspaceID, h.ID)
		return err
	})
	g.Go(func() (err error) {
		strengths, err = s.strengths.ListByHoroscope(gctx, h.WorkspaceID, h.ID)
		return err
	})
	g.Go(func() (err error) {
		points, err = s.points.ListByHoroscope(gctx, h.WorkspaceID, h.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("reconstruction failed",
			slog.String("workspace_id", h.WorkspaceID),
			slog.String("birth_hash", h.BirthHash),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	data := domain.HoroscopeData{
		AyanamsaValue:   h.Metadata.AyanamsaValue,
		JulianDay:       h.Metadata.JulianDay,
		PlanetaryStates: assembleStates(planets),
		NakshatraPada:   assembleNakshatras(planets),
		DivisionalChart: assembleCharts(charts),
		GrahaDashas:     assembleDashas(dashas),
		Yogas:           assembleYogas(yogas),
		Doshas:          assembleDoshas(doshas),
	}
	for _, st := range strengths {
		switch st.Type {
		case domain.StrengthShadBala:
			data.ShadBala = st.Data
		case domain.StrengthBhavaBala:
			data.BhavaBala = st.Data
		case domain.StrengthAshtakavarga:
			data.Ashtakavarga = st.Data
		}
	}
	assemblePoints(points, &data)

	metrics.ObserveReconstruct(time.Since(start))
	return &domain.Composite{
		BirthDetails:  h.BirthDetails,
		BirthHash:     h.BirthHash,
		Metadata:      h.Metadata,
		HoroscopeData: data,
	}, nil
}

// assembleStates rebuilds the by-state name lists in traditional body
// order so reconstruction is deterministic regardless of read order.
func assembleStates(planets []domain.Planet) domain.RawPlanetaryStates {
	byName := make(map[string]domain.Planet, len(planets))
	for _, p := range planets {
		byName[p.Name] = p
	}
	states := domain.RawPlanetaryStates{
		Retrograde: []string{},
		Combusted:  []string{},
	}
	for _, name := range astro.Planets {
		p, ok := byName[name]
		if !ok {
			continue
		}
		if p.IsRetrograde {
			states.Retrograde = append(states.Retrograde, name)
		}
		if p.IsCombust {
			states.Combusted = append(states.Combusted, name)
		}
		if p.IsExalted {
			states.Exalted = append(states.Exalted, name)
		}
		if p.IsDebilitated {
			states.Debilitated = append(states.Debilitated, name)
		}
		if p.IsInOwnSign {
			states.OwnSign = append(states.OwnSign, name)
		}
	}
	return states
}

func assembleNakshatras(planets []domain.Planet) map[string]domain.RawNakshatra {
	out := make(map[string]domain.RawNakshatra)
	for _, p := range planets {
		if p.Nakshatra == "" {
			continue
		}
		out[p.Name] = domain.RawNakshatra{Nakshatra: p.Nakshatra, Pada: p.Pada}
	}
	return out
}

func assembleCharts(charts []domain.DivisionalChart) map[string]domain.ChartView {
	out := make(map[string]domain.ChartView, len(charts))
	for _, c := range charts {
		view := make(domain.ChartView, len(c.Planets)+1)
		view["Ascendant"] = domain.ChartEntry{
			Sign:      c.Ascendant.Sign,
			Longitude: c.Ascendant.Longitude,
		}
		for _, p := range c.Planets {
			view[p.Name] = domain.ChartEntry{
				Name:      p.Name,
				Sign:      p.Sign,
				Longitude: p.Longitude,
				House:     p.House,
			}
		}
		out[c.Division] = view
	}
	return out
}

func assembleDashas(systems []domain.DashaSystem) map[string][]domain.RawDashaEntry {
	out := make(map[string][]domain.RawDashaEntry, len(systems))
	for _, sys := range systems {
		entries := make([]domain.RawDashaEntry, 0, len(sys.Periods))
		for _, p := range sys.Periods {
			entries = append(entries, domain.RawDashaEntry{
				periodLabel(p),
				p.StartDate.UTC().Format(time.RFC3339),
			})
		}
		out[sys.System] = entries
	}
	return out
}

// periodLabel restores the provider's "Main" / "Main-Sub" label form.
func periodLabel(p domain.DashaPeriod) string {
	if p.SubPlanet != "" {
		return p.Planet + "-" + p.SubPlanet
	}
	return p.Planet
}

func assembleYogas(yogas []domain.Yoga) domain.YogaView {
	list := make(map[string]string, len(yogas))
	for _, y := range yogas {
		list[y.Name] = y.Description
	}
	return domain.YogaView{YogaList: list}
}

func assembleDoshas(doshas []domain.Dosha) map[string]string {
	out := make(map[string]string, len(doshas))
	for _, d := range doshas {
		out[d.Name] = d.Description
	}
	return out
}

func assemblePoints(points []domain.AstrologicalPoint, data *domain.HoroscopeData) {
	for _, p := range points {
		switch p.Type {
		case domain.PointSaham:
			if data.Sahams == nil {
				data.Sahams = make(map[string]string)
			}
			data.Sahams[p.Name] = sahamValue(p)
		case domain.PointSpecialLagna:
			if data.SpecialLagnas == nil {
				data.SpecialLagnas = make(map[string]domain.RawPoint)
			}
			data.SpecialLagnas[p.Name] = domain.RawPoint{Sign: p.Sign, Longitude: p.Longitude}
		case domain.PointUpagraha:
			if data.Upagrahas == nil {
				data.Upagrahas = make(map[string]domain.RawPoint)
			}
			data.Upagrahas[p.Name] = domain.RawPoint{Sign: p.Sign, Longitude: p.Longitude}
		case domain.PointArudha:
			if data.GrahaArudhas == nil {
				data.GrahaArudhas = make(map[string]domain.RawPoint)
			}
			data.GrahaArudhas[p.Name] = domain.RawPoint{Sign: p.Sign, Longitude: p.Longitude}
		case domain.PointCharaKaraka:
			if data.CharaKarakas == nil {
				data.CharaKarakas = make(map[string]string)
			}
			data.CharaKarakas[p.Name] = p.PlanetName
		}
	}
}

func sahamValue(p domain.AstrologicalPoint) string {
	if p.Sign == "Unknown" {
		return "Unknown"
	}
	return p.Sign + " " + strconv.FormatFloat(p.Longitude, 'g', -1, 64)
}
