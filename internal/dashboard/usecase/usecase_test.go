package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
	"github.com/patrulla-360/app-cce/internal/pkg/config"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/jwt"
	"github.com/patrulla-360/app-cce/internal/pkg/validator"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fakeNumberID struct {
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type mockDB struct {
	mu      sync.Mutex
	created []entity.CheckIn

	createFunc  func(ctx context.Context, in entity.CheckIn) error
	summaryFunc func(ctx context.Context) (int64, []entity.SchoolParticipation, error)
	schoolsFunc func(ctx context.Context) ([]entity.School, error)
}

func (m *mockDB) CreateCheckIn(ctx context.Context, in entity.CheckIn) error {
	m.mu.Lock()
	m.created = append(m.created, in)
	m.mu.Unlock()

	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return nil
}

func (m *mockDB) GetCheckInSummary(ctx context.Context) (int64, []entity.SchoolParticipation, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx)
	}
	return 0, nil, nil
}

func (m *mockDB) GetSchoolList(ctx context.Context) ([]entity.School, error) {
	if m.schoolsFunc != nil {
		return m.schoolsFunc(ctx)
	}
	return nil, nil
}

type mockCache struct {
	mu       sync.Mutex
	summary  *entity.Summary
	counters map[string]int64
	deletes  int
	setTTL   time.Duration
}

func (m *mockCache) GetSummary(context.Context) (*entity.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.summary == nil {
		return nil, goerror.ErrNotFound
	}
	sum := *m.summary
	return &sum, nil
}

func (m *mockCache) SetSummary(_ context.Context, sum entity.Summary, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = &sum
	m.setTTL = ttl
	return nil
}

func (m *mockCache) DeleteSummary(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = nil
	m.deletes++
	return nil
}

func (m *mockCache) IncrementCounter(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[name]++
	return nil
}

func (m *mockCache) GetCounter(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name], nil
}

func newTestUsecase(t *testing.T) (*Usecase, *mockDB, *mockCache) {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  dashboard:
    summary_ttl_seconds: 15
`))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error: %v", err)
	}

	repo := &mockDB{}
	cch := &mockCache{}

	uc := New(Dependency{
		RepoDB:     repo,
		RepoCache:  cch,
		Validator:  v,
		Config:     cfg,
		UID:        &fakeNumberID{},
		Clock:      &fakeClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)},
		Instrument: instrument.NewNoop(),
	})

	return uc, repo, cch
}

func operatorContext() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 42, Role: "operator"})
}

func wantCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v is not a goerror", err)
	}
	if gerr.Code() != code {
		t.Fatalf("error code = %s, want %s", gerr.Code(), code)
	}
}

func TestCheckIn(t *testing.T) {
	valid := CheckInInput{NationalID: "30111222", SchoolID: 5, TableNumber: 12}

	t.Run("records the check-in and invalidates the summary", func(t *testing.T) {
		uc, repo, cch := newTestUsecase(t)
		cch.summary = &entity.Summary{TotalCheckIns: 10}

		out, err := uc.CheckIn(operatorContext(), valid)
		if err != nil {
			t.Fatalf("CheckIn() error: %v", err)
		}
		if out.ID == 0 {
			t.Fatal("CheckIn() returned zero id")
		}

		repo.mu.Lock()
		got := repo.created[0]
		repo.mu.Unlock()

		if got.CheckedBy != 42 {
			t.Errorf("checked_by = %d, want 42", got.CheckedBy)
		}
		if cch.deletes != 1 {
			t.Errorf("summary cache deletes = %d, want 1", cch.deletes)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		_, err := uc.CheckIn(context.Background(), valid)
		wantCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("rejects an invalid national id", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		_, err := uc.CheckIn(operatorContext(), CheckInInput{NationalID: "12a", SchoolID: 5, TableNumber: 12})
		wantCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("maps a duplicate to conflict", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)
		repo.createFunc = func(context.Context, entity.CheckIn) error {
			return goerror.ErrConflict
		}

		_, err := uc.CheckIn(operatorContext(), valid)
		wantCode(t, err, goerror.CodeConflict)
	})
}

func TestSummary(t *testing.T) {
	t.Run("composes storage aggregates with event counters and caches", func(t *testing.T) {
		uc, repo, cch := newTestUsecase(t)
		repo.summaryFunc = func(context.Context) (int64, []entity.SchoolParticipation, error) {
			return 120, []entity.SchoolParticipation{{SchoolID: 5, SchoolName: "Escuela 12", CheckedIn: 120}}, nil
		}
		cch.counters = map[string]int64{
			CounterVerifiedParties: 7,
			CounterReferrals:       31,
		}

		out, err := uc.Summary(operatorContext())
		if err != nil {
			t.Fatalf("Summary() error: %v", err)
		}

		if out.Cached {
			t.Error("first read should not be served from cache")
		}
		if out.Summary.TotalCheckIns != 120 || out.Summary.VerifiedParties != 7 || out.Summary.Referrals != 31 {
			t.Errorf("unexpected summary: %+v", out.Summary)
		}
		if cch.setTTL != 15*time.Second {
			t.Errorf("cache ttl = %s, want 15s", cch.setTTL)
		}
	})

	t.Run("serves a cached summary without touching storage", func(t *testing.T) {
		uc, repo, cch := newTestUsecase(t)
		cch.summary = &entity.Summary{TotalCheckIns: 99}
		repo.summaryFunc = func(context.Context) (int64, []entity.SchoolParticipation, error) {
			t.Error("storage hit on a warm cache")
			return 0, nil, nil
		}

		out, err := uc.Summary(operatorContext())
		if err != nil {
			t.Fatalf("Summary() error: %v", err)
		}
		if !out.Cached || out.Summary.TotalCheckIns != 99 {
			t.Errorf("unexpected output: %+v", out)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		_, err := uc.Summary(context.Background())
		wantCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("surfaces storage failures", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)
		repo.summaryFunc = func(context.Context) (int64, []entity.SchoolParticipation, error) {
			return 0, nil, errors.New("timeout")
		}

		_, err := uc.Summary(operatorContext())
		wantCode(t, err, goerror.CodeInternal)
	})
}

func TestSchools(t *testing.T) {
	t.Run("is public and returns coordinates", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)
		repo.schoolsFunc = func(context.Context) ([]entity.School, error) {
			return []entity.School{{ID: 5, Name: "Escuela 12", Latitude: -34.6, Longitude: -58.4, Tables: 20}}, nil
		}

		schools, err := uc.Schools(context.Background())
		if err != nil {
			t.Fatalf("Schools() error: %v", err)
		}
		if len(schools) != 1 || schools[0].Latitude == 0 {
			t.Errorf("unexpected schools: %+v", schools)
		}
	})
}

func TestConsume(t *testing.T) {
	t.Run("party verified bumps the counter and drops the cache", func(t *testing.T) {
		uc, _, cch := newTestUsecase(t)
		cch.summary = &entity.Summary{}

		err := uc.ConsumePartyVerified(context.Background(), ConsumePartyVerifiedInput{
			NationalID:  "30111222",
			ReferenceID: "ref-1",
		})
		if err != nil {
			t.Fatalf("ConsumePartyVerified() error: %v", err)
		}

		if cch.counters[CounterVerifiedParties] != 1 {
			t.Errorf("counter = %d, want 1", cch.counters[CounterVerifiedParties])
		}
		if cch.deletes != 1 {
			t.Errorf("summary cache deletes = %d, want 1", cch.deletes)
		}
	})

	t.Run("referral registered bumps its counter", func(t *testing.T) {
		uc, _, cch := newTestUsecase(t)

		err := uc.ConsumeReferralRegistered(context.Background(), ConsumeReferralRegisteredInput{
			ReferralID: 8,
			NationalID: "28900111",
		})
		if err != nil {
			t.Fatalf("ConsumeReferralRegistered() error: %v", err)
		}

		if cch.counters[CounterReferrals] != 1 {
			t.Errorf("counter = %d, want 1", cch.counters[CounterReferrals])
		}
	})
}
