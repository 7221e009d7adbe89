package domain

// RawArtifact is the schema-on-read payload returned by the calculation
// provider. Only recognized sections are typed; everything else in the
// payload is ignored at ingestion.
type RawArtifact struct {
	APIVersion      string                         `json:"apiVersion,omitempty"`
	AyanamsaValue   float64                        `json:"ayanamsa_value"`
	JulianDay       float64                        `json:"julian_day"`
	DivisionalChart map[string]map[string]RawBody  `json:"divisional_charts"`
	NakshatraPada   map[string]RawNakshatra        `json:"nakshatra_pada"`
	PlanetaryStates RawPlanetaryStates             `json:"planetary_states"`
	GrahaDashas     map[string][]RawDashaEntry     `json:"graha_dashas"`
	Yogas           RawYogaSection                 `json:"yogas"`
	Doshas          map[string]string              `json:"doshas"`
	ShadBala        map[string]interface{}         `json:"shad_bala,omitempty"`
	BhavaBala       map[string]interface{}         `json:"bhava_bala,omitempty"`
	Ashtakavarga    map[string]interface{}         `json:"ashtakavarga,omitempty"`
	Sahams          map[string]string              `json:"sahams,omitempty"`
	SpecialLagnas   map[string]RawPoint            `json:"special_lagnas,omitempty"`
	Upagrahas       map[string]RawPoint            `json:"upagrahas,omitempty"`
	GrahaArudhas    map[string]RawPoint            `json:"graha_arudhas,omitempty"`
	CharaKarakas    map[string]string              `json:"chara_karakas,omitempty"`
}

// RawBody is one body entry inside a divisional chart, including the
// "Ascendant" pseudo-entry.
type RawBody struct {
	Sign      string  `json:"sign"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed,omitempty"`
	House     int     `json:"house,omitempty"`
}

// RawNakshatra is the lunar-mansion placement for one body.
type RawNakshatra struct {
	Nakshatra string `json:"nakshatra"`
	Pada      int    `json:"pada"`
}

// RawPlanetaryStates enumerates body names by state.
type RawPlanetaryStates struct {
	Retrograde  []string `json:"retrograde_planets"`
	Combusted   []string `json:"combusted_planets"`
	Exalted     []string `json:"exalted_planets,omitempty"`
	Debilitated []string `json:"debilitated_planets,omitempty"`
	OwnSign     []string `json:"own_sign_planets,omitempty"`
}

// RawDashaEntry is a (label, timestamp) pair. The provider emits
// two-element arrays; any trailing elements are discarded.
type RawDashaEntry [2]string

// RawYogaSection wraps the provider's yoga list. Each value is an array
// of [chart, name, condition, description].
type RawYogaSection struct {
	YogaList map[string][]string `json:"yoga_list"`
}

// RawPoint is one named point with a position.
type RawPoint struct {
	Sign      string  `json:"sign"`
	Longitude float64 `json:"longitude"`
}
