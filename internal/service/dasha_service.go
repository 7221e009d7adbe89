package service

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/astrovault/natalcore/internal/domain"
)

// ActiveDasha describes the period in effect at a reference instant.
type ActiveDasha struct {
	System        string     `json:"system"`
	Period        string     `json:"period"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	DaysRemaining *int       `json:"daysRemaining,omitempty"`
}

// DashaService answers point-in-time queries over stored period systems.
type DashaService struct {
	horoscopes domain.HoroscopeRepository
	dashas     domain.DashaRepository
	logger     *slog.Logger
}

// NewDashaService creates a new dasha service
func NewDashaService(horoscopes domain.HoroscopeRepository, dashas domain.DashaRepository, logger *slog.Logger) *DashaService {
	return &DashaService{horoscopes: horoscopes, dashas: dashas, logger: logger}
}

// Current returns the period of the named system active at asOf.
// A reference instant before the first period start is ErrNotFound.
func (s *DashaService) Current(ctx context.Context, workspaceID, birthHash, system string, asOf time.Time) (*ActiveDasha, error) {
	horoscope, err := s.horoscopes.FindByHash(ctx, workspaceID, birthHash)
	if err != nil {
		return nil, err
	}
	sys, err := s.dashas.FindSystem(ctx, workspaceID, horoscope.ID, system)
	if err != nil {
		return nil, err
	}
	return activePeriod(sys, asOf)
}

// activePeriod finds the last period starting at or before asOf. The end
// of a period is the next period's start; the last period is open-ended.
func activePeriod(sys *domain.DashaSystem, asOf time.Time) (*ActiveDasha, error) {
	periods := make([]domain.DashaPeriod, len(sys.Periods))
	copy(periods, sys.Periods)
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].StartDate.Before(periods[j].StartDate)
	})

	active := -1
	for i, p := range periods {
		if !p.StartDate.After(asOf) {
			active = i
		}
	}
	if active < 0 {
		return nil, domain.ErrNotFound
	}

	result := &ActiveDasha{
		System:    sys.System,
		Period:    periodName(periods[active]),
		StartDate: periods[active].StartDate,
	}
	if active+1 < len(periods) {
		end := periods[active+1].StartDate
		result.EndDate = &end
		// Whole-day ceiling: a fraction of a day still counts as one.
		days := int(math.Ceil(end.Sub(asOf).Hours() / 24))
		result.DaysRemaining = &days
	}
	return result, nil
}

func periodName(p domain.DashaPeriod) string {
	if p.SubPlanet != "" {
		return p.Planet + "-" + p.SubPlanet
	}
	return p.Planet
}
