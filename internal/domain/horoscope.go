package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BirthDetails are the raw birth parameters a horoscope is computed from.
// Callers normalize formatting upstream; these fields are hashed verbatim.
type BirthDetails struct {
	Date      string  `bson:"date" json:"date"`
	Time      string  `bson:"time" json:"time"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Timezone  string  `bson:"timezone" json:"timezone"`
	Location  string  `bson:"location,omitempty" json:"location,omitempty"`
}

// Metadata captures provenance of the computed artifact.
type Metadata struct {
	SourceAPI     string  `bson:"sourceApi" json:"sourceApi"`
	APIVersion    string  `bson:"apiVersion,omitempty" json:"apiVersion,omitempty"`
	AyanamsaValue float64 `bson:"ayanamsaValue" json:"ayanamsa_value"`
	JulianDay     float64 `bson:"julianDay" json:"julian_day"`
}

// Horoscope is the root entity: the identity anchor for one
// (workspace, birth hash) pair. It owns all normalized dependents.
// Never mutated after creation.
type Horoscope struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	WorkspaceID  string             `bson:"workspaceId"`
	BirthHash    string             `bson:"birthHash"`
	BirthDetails BirthDetails       `bson:"birthDetails"`
	Metadata     Metadata           `bson:"metadata"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

// Planet is one celestial body in the primary (D-1) chart.
// Unique per (workspaceId, horoscopeId, name).
type Planet struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	WorkspaceID   string             `bson:"workspaceId"`
	HoroscopeID   primitive.ObjectID `bson:"horoscopeId"`
	Name          string             `bson:"name"`
	Longitude     float64            `bson:"longitude"`
	Sign          string             `bson:"sign"`
	House         int                `bson:"house"`
	Nakshatra     string             `bson:"nakshatra,omitempty"`
	Pada          int                `bson:"pada,omitempty"`
	IsRetrograde  bool               `bson:"isRetrograde"`
	IsCombust     bool               `bson:"isCombust"`
	Speed         float64            `bson:"speed"`
	IsExalted     bool               `bson:"isExalted"`
	IsDebilitated bool               `bson:"isDebilitated"`
	IsInOwnSign   bool               `bson:"isInOwnSign"`
}

// Ascendant is the lagna of one divisional chart.
type Ascendant struct {
	Sign      string  `bson:"sign" json:"sign"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// ChartPlanet is one body placement inside a divisional chart.
type ChartPlanet struct {
	Name      string  `bson:"name" json:"name"`
	Sign      string  `bson:"sign" json:"sign"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	House     int     `bson:"house,omitempty" json:"house,omitempty"`
}

// DivisionalChart is one harmonic subdivision (D-1, D-9, ...).
// Unique per (workspaceId, horoscopeId, division).
type DivisionalChart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	WorkspaceID string             `bson:"workspaceId"`
	HoroscopeID primitive.ObjectID `bson:"horoscopeId"`
	Division    string             `bson:"division"`
	Ascendant   Ascendant          `bson:"ascendant"`
	Planets     []ChartPlanet      `bson:"planets"`
}

// DashaPeriod is one entry in a period system. The end of a period is
// implicit: the next period's start. The last period is open-ended.
type DashaPeriod struct {
	Planet    string    `bson:"planet"`
	SubPlanet string    `bson:"subPlanet,omitempty"`
	StartDate time.Time `bson:"startDate"`
	Level     int       `bson:"level"`
}

// DashaSystem is one named period system (vimsottari, yogini, ...).
// Periods are sorted by StartDate ascending.
// Unique per (workspaceId, horoscopeId, system).
type DashaSystem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	WorkspaceID string             `bson:"workspaceId"`
	HoroscopeID primitive.ObjectID `bson:"horoscopeId"`
	System      string             `bson:"system"`
	Periods     []DashaPeriod      `bson:"periods"`
}

// Yoga is a named favorable combination found in the chart.
// Duplicate names are permitted; the source artifact may repeat them.
type Yoga struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	WorkspaceID string             `bson:"workspaceId"`
	HoroscopeID primitive.ObjectID `bson:"horoscopeId"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	IsPresent   bool               `bson:"isPresent"`
}

// Dosha is a named affliction. IsPresent is derived from the description
// text by a best-effort negation heuristic carried over from the source
// system; it may be wrong and is intentionally not corrected here.
type Dosha struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	WorkspaceID string             `bson:"workspaceId"`
	HoroscopeID primitive.ObjectID `bson:"horoscopeId"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	IsPresent   bool               `bson:"isPresent"`
}

// Strength category tags. Unrecognized categories in the artifact are
// dropped at ingestion, not stored generically.
const (
	StrengthShadBala     = "ShadBala"
	StrengthBhavaBala    = "BhavaBala"
	StrengthAshtakavarga = "Ashtakavarga"
)

// Strength holds one opaque strength table keyed by category.
type Strength struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty"`
	WorkspaceID string                 `bson:"workspaceId"`
	HoroscopeID primitive.ObjectID     `bson:"horoscopeId"`
	Type        string                 `bson:"type"`
	Data        map[string]interface{} `bson:"data"`
}

// AstrologicalPoint categories.
const (
	PointSaham        = "Saham"
	PointUpagraha     = "Upagraha"
	PointSpecialLagna = "SpecialLagna"
	PointArudha       = "Arudha"
	PointCharaKaraka  = "CharaKaraka"
)

// AstrologicalPoint is a polymorphic point entity: sahams, upagrahas,
// special lagnas, arudhas and chara karakas share one collection with a
// discriminant Type.
type AstrologicalPoint struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	WorkspaceID string             `bson:"workspaceId"`
	HoroscopeID primitive.ObjectID `bson:"horoscopeId"`
	Type        string             `bson:"type"`
	Name        string             `bson:"name"`
	Longitude   float64            `bson:"longitude"`
	Sign        string             `bson:"sign"`
	House       int                `bson:"house,omitempty"`
	PlanetName  string             `bson:"planetName,omitempty"`
}

// HoroscopeRepository is data access for root horoscopes.
// Insert must surface ErrDuplicateFingerprint when the
// (workspaceId, birthHash) unique constraint is violated.
type HoroscopeRepository interface {
	Insert(ctx context.Context, h *Horoscope) error
	FindByHash(ctx context.Context, workspaceID, birthHash string) (*Horoscope, error)
	FindByID(ctx context.Context, workspaceID string, id primitive.ObjectID) (*Horoscope, error)
}

// PlanetRepository is data access for normalized planets.
type PlanetRepository interface {
	InsertMany(ctx context.Context, planets []Planet) error
	ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]Planet, error)
}

// ChartRepository is data access for divisional charts.
type ChartRepository interface {
	InsertMany(ctx context.Context, charts []DivisionalChart) error
	ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]DivisionalChart, error)
	FindDivision(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID, division string) (*DivisionalChart, error)
}

// DashaRepository is data access for period systems.
type DashaRepository interface {
	InsertMany(ctx context.Context, systems []DashaSystem) error
	ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]DashaSystem, error)
	FindSystem(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID, system string) (*DashaSystem, error)
}

// ConditionRepository is data access for yogas and doshas.
type ConditionRepository interface {
	InsertYogas(ctx context.Context, yogas []Yoga) error
	InsertDoshas(ctx context.Context, doshas []Dosha) error
	ListYogas(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]Yoga, error)
	ListDoshas(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]Dosha, error)
}

// StrengthRepository is data access for strength tables.
type StrengthRepository interface {
	InsertMany(ctx context.Context, strengths []Strength) error
	ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]Strength, error)
}

// PointRepository is data access for polymorphic astrological points.
type PointRepository interface {
	InsertMany(ctx context.Context, points []AstrologicalPoint) error
	ListByHoroscope(ctx context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]AstrologicalPoint, error)
}

// TxRunner executes fn inside one atomic multi-collection transaction.
// Repository calls made with the ctx passed to fn participate in it.
// If fn returns an error the transaction is aborted and nothing it wrote
// is observable.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProviderConfig is the per-workspace calculation provider configuration.
type ProviderConfig struct {
	APIURL string
}

// ConfigResolver resolves per-workspace provider configuration.
// Returns ErrNotConfigured when the workspace has no provider set up.
type ConfigResolver interface {
	Resolve(ctx context.Context, workspaceID string) (*ProviderConfig, error)
}

// ProviderClient fetches a raw computed artifact from the external
// calculation provider. Failures map to ErrProviderUnavailable or
// ErrMalformedResponse.
type ProviderClient interface {
	Fetch(ctx context.Context, details BirthDetails, cfg *ProviderConfig) (*RawArtifact, error)
}
