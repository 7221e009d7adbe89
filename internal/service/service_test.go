package service

import (
	"context"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/astrovault/natalcore/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// memStore is an in-memory stand-in for the entity store implementing
// every repository interface. It enforces the (workspaceId, birthHash)
// unique constraint the real store carries.
type memStore struct {
	mu         sync.Mutex
	horoscopes []domain.Horoscope
	planets    []domain.Planet
	charts     []domain.DivisionalChart
	dashas     []domain.DashaSystem
	yogas      []domain.Yoga
	doshas     []domain.Dosha
	strengths  []domain.Strength
	points     []domain.AstrologicalPoint

	failPlanetInsert bool
	failChartList    bool
}

func newMemStore() *memStore { return &memStore{} }

type storeSnapshot struct {
	horoscopes []domain.Horoscope
	planets    []domain.Planet
	charts     []domain.DivisionalChart
	dashas     []domain.DashaSystem
	yogas      []domain.Yoga
	doshas     []domain.Dosha
	strengths  []domain.Strength
	points     []domain.AstrologicalPoint
}

func (m *memStore) snapshot() storeSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return storeSnapshot{
		horoscopes: append([]domain.Horoscope(nil), m.horoscopes...),
		planets:    append([]domain.Planet(nil), m.planets...),
		charts:     append([]domain.DivisionalChart(nil), m.charts...),
		dashas:     append([]domain.DashaSystem(nil), m.dashas...),
		yogas:      append([]domain.Yoga(nil), m.yogas...),
		doshas:     append([]domain.Dosha(nil), m.doshas...),
		strengths:  append([]domain.Strength(nil), m.strengths...),
		points:     append([]domain.AstrologicalPoint(nil), m.points...),
	}
}

func (m *memStore) restore(s storeSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.horoscopes = s.horoscopes
	m.planets = s.planets
	m.charts = s.charts
	m.dashas = s.dashas
	m.yogas = s.yogas
	m.doshas = s.doshas
	m.strengths = s.strengths
	m.points = s.points
}

func (m *memStore) Insert(_ context.Context, h *domain.Horoscope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.horoscopes {
		if existing.WorkspaceID == h.WorkspaceID && existing.BirthHash == h.BirthHash {
			return domain.ErrDuplicateFingerprint
		}
	}
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	m.horoscopes = append(m.horoscopes, *h)
	return nil
}

func (m *memStore) FindByHash(_ context.Context, workspaceID, birthHash string) (*domain.Horoscope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.horoscopes {
		if h.WorkspaceID == workspaceID && h.BirthHash == birthHash {
			found := h
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) FindByID(_ context.Context, workspaceID string, id primitive.ObjectID) (*domain.Horoscope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.horoscopes {
		if h.WorkspaceID == workspaceID && h.ID == id {
			found := h
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) deleteHoroscope(workspaceID string, id primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.horoscopes[:0]
	for _, h := range m.horoscopes {
		if h.WorkspaceID == workspaceID && h.ID == id {
			continue
		}
		kept = append(kept, h)
	}
	m.horoscopes = kept
}

func (m *memStore) InsertMany(_ context.Context, planets []domain.Planet) error {
	if m.failPlanetInsert {
		return context.DeadlineExceeded
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planets = append(m.planets, planets...)
	return nil
}

func (m *memStore) ListByHoroscope(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Planet
	for _, p := range m.planets {
		if p.WorkspaceID == workspaceID && p.HoroscopeID == horoscopeID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Separate named views expose the per-collection interfaces that share the
// InsertMany/ListByHoroscope method names.

type chartStore struct{ *memStore }

func (m chartStore) InsertMany(_ context.Context, charts []domain.DivisionalChart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memStore.charts = append(m.memStore.charts, charts...)
	return nil
}

func (m chartStore) ListByHoroscope(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.DivisionalChart, error) {
	if m.failChartList {
		return nil, context.DeadlineExceeded
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DivisionalChart
	for _, c := range m.memStore.charts {
		if c.WorkspaceID == workspaceID && c.HoroscopeID == horoscopeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m chartStore) FindDivision(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID, division string) (*domain.DivisionalChart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.memStore.charts {
		if c.WorkspaceID == workspaceID && c.HoroscopeID == horoscopeID && c.Division == division {
			found := c
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

type dashaStore struct{ *memStore }

func (m dashaStore) InsertMany(_ context.Context, systems []domain.DashaSystem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memStore.dashas = append(m.memStore.dashas, systems...)
	return nil
}

func (m dashaStore) ListByHoroscope(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.DashaSystem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DashaSystem
	for _, s := range m.memStore.dashas {
		if s.WorkspaceID == workspaceID && s.HoroscopeID == horoscopeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m dashaStore) FindSystem(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID, system string) (*domain.DashaSystem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.memStore.dashas {
		if s.WorkspaceID == workspaceID && s.HoroscopeID == horoscopeID && s.System == system {
			found := s
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

type conditionStore struct{ *memStore }

func (m conditionStore) InsertYogas(_ context.Context, yogas []domain.Yoga) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memStore.yogas = append(m.memStore.yogas, yogas...)
	return nil
}

func (m conditionStore) InsertDoshas(_ context.Context, doshas []domain.Dosha) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memStore.doshas = append(m.memStore.doshas, doshas...)
	return nil
}

func (m conditionStore) ListYogas(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.Yoga, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Yoga
	for _, y := range m.memStore.yogas {
		if y.WorkspaceID == workspaceID && y.HoroscopeID == horoscopeID {
			out = append(out, y)
		}
	}
	return out, nil
}

func (m conditionStore) ListDoshas(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.Dosha, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Dosha
	for _, d := range m.memStore.doshas {
		if d.WorkspaceID == workspaceID && d.HoroscopeID == horoscopeID {
			out = append(out, d)
		}
	}
	return out, nil
}

type strengthStore struct{ *memStore }

func (m strengthStore) InsertMany(_ context.Context, strengths []domain.Strength) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memStore.strengths = append(m.memStore.strengths, strengths...)
	return nil
}

func (m strengthStore) ListByHoroscope(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.Strength, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Strength
	for _, s := range m.memStore.strengths {
		if s.WorkspaceID == workspaceID && s.HoroscopeID == horoscopeID {
			out = append(out, s)
		}
	}
	return out, nil
}

type pointStore struct{ *memStore }

func (m pointStore) InsertMany(_ context.Context, points []domain.AstrologicalPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memStore.points = append(m.memStore.points, points...)
	return nil
}

func (m pointStore) ListByHoroscope(_ context.Context, workspaceID string, horoscopeID primitive.ObjectID) ([]domain.AstrologicalPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AstrologicalPoint
	for _, p := range m.memStore.points {
		if p.WorkspaceID == workspaceID && p.HoroscopeID == horoscopeID {
			out = append(out, p)
		}
	}
	return out, nil
}

// memTx runs fn against the store, restoring a pre-call snapshot on error
// so failed ingests leave nothing behind.
type memTx struct{ store *memStore }

func (t *memTx) WithTransaction(_ context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(context.Background()); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func newIngestion(store *memStore) *IngestionService {
	return NewIngestionService(
		&memTx{store: store},
		store,
		store,
		chartStore{store},
		dashaStore{store},
		conditionStore{store},
		strengthStore{store},
		pointStore{store},
		testLogger(),
	)
}

func newAggregation(store *memStore) *AggregationService {
	return NewAggregationService(
		store,
		store,
		chartStore{store},
		dashaStore{store},
		conditionStore{store},
		strengthStore{store},
		pointStore{store},
		testLogger(),
	)
}

// fixtureArtifact is a representative provider payload exercising every
// recognized section.
func fixtureArtifact() *domain.RawArtifact {
	return &domain.RawArtifact{
		APIVersion:    "1.2.0",
		AyanamsaValue: 24.10223,
		JulianDay:     2448762.0104,
		DivisionalChart: map[string]map[string]domain.RawBody{
			"D-1_rasi": {
				"Ascendant": {Sign: "Aries", Longitude: 15.5},
				"Sun":       {Sign: "Taurus", Longitude: 41.25, Speed: 0.96},
				"Moon":      {Sign: "Cancer", Longitude: 102.75, Speed: 13.2},
				"Mars":      {Sign: "Capricorn", Longitude: 280.1, Speed: -0.4},
				"Saturn":    {Sign: "Aquarius", Longitude: 310.9, Speed: 0.03},
			},
			"D-9_navamsa": {
				"Ascendant": {Sign: "Libra", Longitude: 187.0},
				"Sun":       {Sign: "Aries", Longitude: 12.0},
				"Moon":      {Sign: "Cancer", Longitude: 100.0},
			},
		},
		NakshatraPada: map[string]domain.RawNakshatra{
			"Sun":  {Nakshatra: "Rohini", Pada: 1},
			"Moon": {Nakshatra: "Pushya", Pada: 3},
		},
		PlanetaryStates: domain.RawPlanetaryStates{
			Retrograde: []string{"Mars"},
			Combusted:  []string{},
			Exalted:    []string{"Mars"},
			OwnSign:    []string{"Moon", "Saturn"},
		},
		GrahaDashas: map[string][]domain.RawDashaEntry{
			"vimsottari": {
				{"Sun", "1992-05-20T00:00:00Z"},
				{"Moon", "1998-05-20T00:00:00Z"},
				{"Moon-Mars", "1999-03-20T00:00:00Z"},
				{"Mars", "2008-05-20T00:00:00Z"},
			},
		},
		Yogas: domain.RawYogaSection{
			YogaList: map[string][]string{
				"Yoga_0": {"rasi", "Gajakesari Yoga", "Jupiter in kendra from Moon", "Confers fame and virtue"},
				"Yoga_1": {"rasi", "Budha-Aditya Yoga", "Sun conjunct Mercury"},
			},
		},
		Doshas: map[string]string{
			"Manglik Dosha":    "No manglik dosha present",
			"Kala Sarpa Dosha": "Present, partial",
		},
		ShadBala:     map[string]interface{}{"Sun": 412.5, "Moon": 389.0},
		BhavaBala:    map[string]interface{}{"1": 501.2},
		Ashtakavarga: map[string]interface{}{"Sun": []interface{}{3.0, 4.0, 5.0}},
		Sahams: map[string]string{
			"Punya":  "Libra 12.5",
			"Vidya":  "Gemini 3.25",
			"Samapa": "Unknown",
		},
		SpecialLagnas: map[string]domain.RawPoint{
			"Hora Lagna": {Sign: "Gemini", Longitude: 72.4},
		},
		Upagrahas: map[string]domain.RawPoint{
			"Gulika": {Sign: "Virgo", Longitude: 160.2},
		},
		GrahaArudhas: map[string]domain.RawPoint{
			"A1": {Sign: "Scorpio", Longitude: 222.0},
		},
		CharaKarakas: map[string]string{
			"Atmakaraka":  "Saturn",
			"Amatyakaraka": "Sun",
		},
	}
}

func fixtureDetails() domain.BirthDetails {
	return domain.BirthDetails{
		Date:      "1992-05-20",
		Time:      "14:30",
		Latitude:  28.6139,
		Longitude: 77.209,
		Timezone:  "Asia/Kolkata",
		Location:  "New Delhi",
	}
}

func doshaPresent(doshas []domain.Dosha, name string) (bool, bool) {
	for _, d := range doshas {
		if d.Name == name {
			return d.IsPresent, true
		}
	}
	return false, false
}

func hasYoga(yogas []domain.Yoga, name string) bool {
	for _, y := range yogas {
		if y.Name == name {
			return true
		}
	}
	return false
}
