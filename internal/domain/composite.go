package domain

// Composite is the reconstructed view of one horoscope: the same nested
// shape the raw artifact was decomposed from, modulo fields intentionally
// not persisted (see HoroscopeData field docs).
type Composite struct {
	BirthDetails  BirthDetails  `json:"birthDetails"`
	BirthHash     string        `json:"birthHash"`
	Metadata      Metadata      `json:"metadata"`
	HoroscopeData HoroscopeData `json:"horoscopeData"`
}

// HoroscopeData mirrors the artifact's top-level computed sections.
type HoroscopeData struct {
	AyanamsaValue   float64                      `json:"ayanamsa_value"`
	JulianDay       float64                      `json:"julian_day"`
	PlanetaryStates RawPlanetaryStates           `json:"planetary_states"`
	NakshatraPada   map[string]RawNakshatra      `json:"nakshatra_pada"`
	DivisionalChart map[string]ChartView         `json:"divisional_charts"`
	GrahaDashas     map[string][]RawDashaEntry   `json:"graha_dashas"`
	Yogas           YogaView                     `json:"yogas"`
	Doshas          map[string]string            `json:"doshas"`
	ShadBala        map[string]interface{}       `json:"shad_bala,omitempty"`
	BhavaBala       map[string]interface{}       `json:"bhava_bala,omitempty"`
	Ashtakavarga    map[string]interface{}       `json:"ashtakavarga,omitempty"`
	Sahams          map[string]string            `json:"sahams,omitempty"`
	SpecialLagnas   map[string]RawPoint          `json:"special_lagnas,omitempty"`
	Upagrahas       map[string]RawPoint          `json:"upagrahas,omitempty"`
	GrahaArudhas    map[string]RawPoint          `json:"graha_arudhas,omitempty"`
	CharaKarakas    map[string]string            `json:"chara_karakas,omitempty"`
}

// ChartView is one reconstructed divisional chart: body name -> placement,
// with the ascendant hoisted back in under its "Ascendant" key.
type ChartView map[string]ChartEntry

// ChartEntry is either a body placement (Name set) or the ascendant
// pseudo-entry (Name and House omitted).
type ChartEntry struct {
	Name      string  `json:"name,omitempty"`
	Sign      string  `json:"sign"`
	Longitude float64 `json:"longitude"`
	House     int     `json:"house,omitempty"`
}

// YogaView maps yoga name -> description. Duplicate names in the source
// collapse to one entry; an accepted approximation of the original list.
type YogaView struct {
	YogaList map[string]string `json:"yoga_list"`
}
