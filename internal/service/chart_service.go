package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/astrovault/natalcore/internal/astro"
	"github.com/astrovault/natalcore/internal/domain"
)

// FormattedPlanet is one body prepared for display: degrees rendered as
// DMS and the whole-sign house derived from the chart's own ascendant.
type FormattedPlanet struct {
	Name      string  `json:"name"`
	Sign      string  `json:"sign"`
	Longitude float64 `json:"longitude"`
	Degree    string  `json:"degree"`
	House     int     `json:"house"`
	HouseName string  `json:"houseName,omitempty"`
}

// FormattedAscendant is the lagna prepared for display.
type FormattedAscendant struct {
	Sign      string  `json:"sign"`
	Longitude float64 `json:"longitude"`
	Degree    string  `json:"degree"`
}

// FormattedChart is a display-ready divisional chart.
type FormattedChart struct {
	Division  string             `json:"division"`
	Ascendant FormattedAscendant `json:"ascendant"`
	Planets   []FormattedPlanet  `json:"planets"`
}

// ChartService serves single divisional charts in display form.
type ChartService struct {
	horoscopes domain.HoroscopeRepository
	charts     domain.ChartRepository
	logger     *slog.Logger
}

// NewChartService creates a new chart service
func NewChartService(horoscopes domain.HoroscopeRepository, charts domain.ChartRepository, logger *slog.Logger) *ChartService {
	return &ChartService{horoscopes: horoscopes, charts: charts, logger: logger}
}

// GetFormatted returns one division of a stored horoscope with house
// placements and rendered degrees. Houses are whole-sign, counted from
// the division's own ascendant.
func (s *ChartService) GetFormatted(ctx context.Context, workspaceID, birthHash, division string) (*FormattedChart, error) {
	horoscope, err := s.horoscopes.FindByHash(ctx, workspaceID, birthHash)
	if err != nil {
		return nil, err
	}
	chart, err := s.charts.FindDivision(ctx, workspaceID, horoscope.ID, division)
	if err != nil {
		return nil, err
	}

	formatted := &FormattedChart{
		Division: chart.Division,
		Ascendant: FormattedAscendant{
			Sign:      chart.Ascendant.Sign,
			Longitude: chart.Ascendant.Longitude,
			Degree:    astro.FormatDegree(chart.Ascendant.Longitude),
		},
	}
	for _, p := range chart.Planets {
		house := p.House
		if house == 0 {
			house = astro.HouseNumber(p.Sign, chart.Ascendant.Sign)
		}
		formatted.Planets = append(formatted.Planets, FormattedPlanet{
			Name:      p.Name,
			Sign:      p.Sign,
			Longitude: p.Longitude,
			Degree:    astro.FormatDegree(p.Longitude),
			House:     house,
			HouseName: astro.Ordinal(house),
		})
	}
	sort.Slice(formatted.Planets, func(i, j int) bool {
		if formatted.Planets[i].House != formatted.Planets[j].House {
			return formatted.Planets[i].House < formatted.Planets[j].House
		}
		return formatted.Planets[i].Name < formatted.Planets[j].Name
	})
	return formatted, nil
}
