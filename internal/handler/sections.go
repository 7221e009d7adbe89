package handler

import (
	"strings"

	"github.com/astrovault/natalcore/internal/domain"
)

// Section names accepted in the ?sections= query parameter.
const (
	sectionBasic     = "basic"
	sectionCharts    = "charts"
	sectionDashas    = "dashas"
	sectionYogas     = "yogas"
	sectionDoshas    = "doshas"
	sectionStrengths = "strengths"
	sectionSpecial   = "special"
)

func parseSections(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	return sectionSet(strings.Split(raw, ","))
}

// sectionSet normalizes requested section names. A nil result means no
// filtering: "full" and "all" are accepted as aliases for the whole
// composite.
func sectionSet(names []string) map[string]bool {
	sections := make(map[string]bool)
	for _, s := range names {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "full" || s == "all" {
			return nil
		}
		if s != "" {
			sections[s] = true
		}
	}
	if len(sections) == 0 {
		return nil
	}
	return sections
}

// filterSections reduces a composite to the requested sections. Unknown
// section names are ignored; birth details and metadata are always kept.
func filterSections(composite *domain.Composite, sections map[string]bool) map[string]interface{} {
	data := composite.HoroscopeData
	out := map[string]interface{}{
		"birthDetails": composite.BirthDetails,
		"birthHash":    composite.BirthHash,
		"metadata":     composite.Metadata,
	}
	if sections[sectionBasic] {
		out["ayanamsa_value"] = data.AyanamsaValue
		out["julian_day"] = data.JulianDay
		out["planetary_states"] = data.PlanetaryStates
		out["nakshatra_pada"] = data.NakshatraPada
	}
	if sections[sectionCharts] {
		out["divisional_charts"] = data.DivisionalChart
	}
	if sections[sectionDashas] {
		out["graha_dashas"] = data.GrahaDashas
	}
	if sections[sectionYogas] {
		out["yogas"] = data.Yogas
	}
	if sections[sectionDoshas] {
		out["doshas"] = data.Doshas
	}
	if sections[sectionStrengths] {
		out["shad_bala"] = data.ShadBala
		out["bhava_bala"] = data.BhavaBala
		out["ashtakavarga"] = data.Ashtakavarga
	}
	if sections[sectionSpecial] {
		out["sahams"] = data.Sahams
		out["special_lagnas"] = data.SpecialLagnas
		out["upagrahas"] = data.Upagrahas
		out["graha_arudhas"] = data.GrahaArudhas
		out["chara_karakas"] = data.CharaKarakas
	}
	return out
}
