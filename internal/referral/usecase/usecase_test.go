package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/patrulla-360/app-cce/internal/pkg/config"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/goroutine"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/jwt"
	"github.com/patrulla-360/app-cce/internal/pkg/validator"
	"github.com/patrulla-360/app-cce/internal/referral/entity"
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
	created []entity.Referral

	createFunc func(ctx context.Context, in entity.Referral) error
	getFunc    func(ctx context.Context, nationalID string) (*entity.Referral, error)
	listFunc   func(ctx context.Context, filter entity.ListFilter) ([]entity.Referral, int64, error)
}

func (m *mockDB) CreateReferral(ctx context.Context, in entity.Referral) error {
	m.mu.Lock()
	m.created = append(m.created, in)
	m.mu.Unlock()

	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return nil
}

func (m *mockDB) GetReferralByNationalID(ctx context.Context, nationalID string) (*entity.Referral, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, nationalID)
	}
	return nil, goerror.ErrNotFound
}

func (m *mockDB) GetReferralList(ctx context.Context, filter entity.ListFilter) ([]entity.Referral, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockMessaging struct {
	mu        sync.Mutex
	published []ReferralRegisteredEvent
}

func (m *mockMessaging) PublishReferralRegistered(_ context.Context, msg ReferralRegisteredEvent) error {
	m.mu.Lock()
	m.published = append(m.published, msg)
	m.mu.Unlock()
	return nil
}

func (m *mockMessaging) events() []ReferralRegisteredEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReferralRegisteredEvent{}, m.published...)
}

func newTestUsecase(t *testing.T) (*Usecase, *mockDB, *mockMessaging) {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", nil)
	if err != nil {
		t.Fatalf("NewViperFromBytes() error: %v", err)
	}

	repo := &mockDB{}
	msg := &mockMessaging{}

	uc := New(Dependency{
		RepoDB:        repo,
		RepoMessaging: msg,
		Validator:     v,
		Config:        cfg,
		UID:           &fakeNumberID{},
		Clock:         &fakeClock{now: time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)},
		Instrument:    instrument.NewNoop(),
		Goroutine:     goroutine.NewManager(8),
	})

	return uc, repo, msg
}

func operatorContext() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 77, Role: "operator"})
}

func validCreate() CreateInput {
	return CreateInput{
		Name:         "Luis",
		Surname:      "Paredes",
		NationalID:   "28900111",
		PhoneCountry: "54",
		PhoneArea:    "11",
		PhoneNumber:  "45002211",
		School:       "Escuela 12",
		TableNumber:  304,
	}
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

func TestCreate(t *testing.T) {
	t.Run("stores the referral with normalized phone and operator id", func(t *testing.T) {
		uc, repo, msg := newTestUsecase(t)

		out, err := uc.Create(operatorContext(), validCreate())
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if out.ID == 0 {
			t.Fatal("Create() returned zero id")
		}

		repo.mu.Lock()
		if len(repo.created) != 1 {
			repo.mu.Unlock()
			t.Fatalf("created %d referrals, want 1", len(repo.created))
		}
		got := repo.created[0]
		repo.mu.Unlock()

		if got.Phone != "541145002211" {
			t.Errorf("phone = %q, want dispatch form 541145002211", got.Phone)
		}
		if got.CreatedBy != 77 {
			t.Errorf("created_by = %d, want 77", got.CreatedBy)
		}
		if got.CreatedAt.IsZero() {
			t.Error("created_at is zero")
		}

		waitFor(t, func() bool { return len(msg.events()) == 1 })
		evt := msg.events()[0]
		if evt.ReferralID != got.ID || evt.NationalID != "28900111" {
			t.Errorf("unexpected event: %+v", evt)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)

		_, err := uc.Create(context.Background(), validCreate())
		wantCode(t, err, goerror.CodeUnauthorized)

		repo.mu.Lock()
		defer repo.mu.Unlock()
		if len(repo.created) != 0 {
			t.Error("referral was created without authentication")
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		in := validCreate()
		in.NationalID = "12ab56"

		_, err := uc.Create(operatorContext(), in)
		wantCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("rejects a malformed subscriber number", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		in := validCreate()
		in.PhoneNumber = "4500221"

		_, err := uc.Create(operatorContext(), in)
		wantCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("rejects a duplicate national id", func(t *testing.T) {
		uc, repo, msg := newTestUsecase(t)
		repo.getFunc = func(context.Context, string) (*entity.Referral, error) {
			return &entity.Referral{ID: 9, NationalID: "28900111"}, nil
		}

		_, err := uc.Create(operatorContext(), validCreate())
		wantCode(t, err, goerror.CodeConflict)

		if len(msg.events()) != 0 {
			t.Error("event published for duplicate referral")
		}
	})

	t.Run("maps a storage conflict to conflict", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)
		repo.createFunc = func(context.Context, entity.Referral) error {
			return goerror.ErrConflict
		}

		_, err := uc.Create(operatorContext(), validCreate())
		wantCode(t, err, goerror.CodeConflict)
	})

	t.Run("surfaces storage failures as server errors", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)
		repo.createFunc = func(context.Context, entity.Referral) error {
			return errors.New("connection reset")
		}

		_, err := uc.Create(operatorContext(), validCreate())
		wantCode(t, err, goerror.CodeInternal)
	})
}

func TestList(t *testing.T) {
	t.Run("applies pagination defaults", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)

		var gotFilter entity.ListFilter
		repo.listFunc = func(_ context.Context, filter entity.ListFilter) ([]entity.Referral, int64, error) {
			gotFilter = filter
			return []entity.Referral{{ID: 1}}, 1, nil
		}

		out, err := uc.List(operatorContext(), ListInput{})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}

		if gotFilter.Page != 1 || gotFilter.Size != defaultPageSize {
			t.Errorf("filter = %+v, want page 1 size %d", gotFilter, defaultPageSize)
		}
		if out.Total != 1 || len(out.Referrals) != 1 {
			t.Errorf("unexpected output: %+v", out)
		}
	})

	t.Run("passes the search term through", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)

		var gotFilter entity.ListFilter
		repo.listFunc = func(_ context.Context, filter entity.ListFilter) ([]entity.Referral, int64, error) {
			gotFilter = filter
			return nil, 0, nil
		}

		_, err := uc.List(operatorContext(), ListInput{Search: "  Paredes ", Page: 3, Size: 10})
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}

		if gotFilter.Search != "Paredes" {
			t.Errorf("search = %q, want trimmed term", gotFilter.Search)
		}
		if gotFilter.Offset() != 20 {
			t.Errorf("offset = %d, want 20", gotFilter.Offset())
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t)

		_, err := uc.List(context.Background(), ListInput{})
		wantCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("surfaces storage failures", func(t *testing.T) {
		uc, repo, _ := newTestUsecase(t)
		repo.listFunc = func(context.Context, entity.ListFilter) ([]entity.Referral, int64, error) {
			return nil, 0, errors.New("timeout")
		}

		_, err := uc.List(operatorContext(), ListInput{})
		wantCode(t, err, goerror.CodeInternal)
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
