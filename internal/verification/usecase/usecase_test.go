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
	"github.com/patrulla-360/app-cce/internal/pkg/validator"
	"github.com/patrulla-360/app-cce/internal/verification/entity"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type mockGateway struct {
	mu           sync.Mutex
	sendCalls    []SendCodeData
	confirmCalls []ConfirmCodeData
	issueCalls   []IssueCredentialsData

	sendCodeFunc         func(ctx context.Context, data SendCodeData) error
	confirmCodeFunc      func(ctx context.Context, data ConfirmCodeData) error
	issueCredentialsFunc func(ctx context.Context, data IssueCredentialsData) (string, error)
}

func (m *mockGateway) SendCode(ctx context.Context, data SendCodeData) error {
	m.mu.Lock()
	m.sendCalls = append(m.sendCalls, data)
	m.mu.Unlock()

	if m.sendCodeFunc != nil {
		return m.sendCodeFunc(ctx, data)
	}
	return nil
}

func (m *mockGateway) ConfirmCode(ctx context.Context, data ConfirmCodeData) error {
	m.mu.Lock()
	m.confirmCalls = append(m.confirmCalls, data)
	m.mu.Unlock()

	if m.confirmCodeFunc != nil {
		return m.confirmCodeFunc(ctx, data)
	}
	return nil
}

func (m *mockGateway) IssueCredentials(ctx context.Context, data IssueCredentialsData) (string, error) {
	m.mu.Lock()
	m.issueCalls = append(m.issueCalls, data)
	m.mu.Unlock()

	if m.issueCredentialsFunc != nil {
		return m.issueCredentialsFunc(ctx, data)
	}
	return "ref-1", nil
}

func (m *mockGateway) sendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sendCalls)
}

func (m *mockGateway) confirmCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.confirmCalls)
}

type mockMessaging struct {
	mu        sync.Mutex
	published []PartyVerifiedEvent

	publishFunc func(ctx context.Context, msg PartyVerifiedEvent) error
}

func (m *mockMessaging) PublishPartyVerified(ctx context.Context, msg PartyVerifiedEvent) error {
	m.mu.Lock()
	m.published = append(m.published, msg)
	m.mu.Unlock()

	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessaging) events() []PartyVerifiedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PartyVerifiedEvent{}, m.published...)
}

func newTestUsecase(t *testing.T) (*Usecase, *mockGateway, *mockMessaging, *fakeClock) {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  verification:
    code_ttl_seconds: 120
`))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error: %v", err)
	}

	clk := &fakeClock{now: time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)}
	gw := &mockGateway{}
	msg := &mockMessaging{}

	uc := New(Dependency{
		Gateway:       gw,
		RepoMessaging: msg,
		Validator:     v,
		Config:        cfg,
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     goroutine.NewManager(16),
	})

	return uc, gw, msg, clk
}

func anaRequest() RequestCodeInput {
	return RequestCodeInput{
		Name:         "Ana",
		Surname:      "Gomez",
		NationalID:   "30111222",
		PhoneCountry: "54",
		PhoneArea:    "11",
		PhoneNumber:  "40001234",
	}
}

func anaConfirm(code string) ConfirmCodeInput {
	return ConfirmCodeInput{
		NationalID:   "30111222",
		PhoneCountry: "54",
		PhoneArea:    "11",
		PhoneNumber:  "40001234",
		Code:         code,
	}
}

func anaStatus() StatusInput {
	return StatusInput{
		NationalID:   "30111222",
		PhoneCountry: "54",
		PhoneArea:    "11",
		PhoneNumber:  "40001234",
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

func TestRequestCode(t *testing.T) {
	t.Run("dispatches messaging form and opens window", func(t *testing.T) {
		uc, gw, _, _ := newTestUsecase(t)

		out, err := uc.RequestCode(context.Background(), anaRequest())
		if err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}

		if out.State != entity.SessionStatePending {
			t.Errorf("State = %s, want PENDING", out.State)
		}
		if out.MaskedPhone != "+54 11 ****-**34" {
			t.Errorf("MaskedPhone = %q", out.MaskedPhone)
		}
		if out.RemainingSeconds != 120 {
			t.Errorf("RemainingSeconds = %d, want 120", out.RemainingSeconds)
		}

		if got := gw.sendCount(); got != 1 {
			t.Fatalf("SendCode called %d times, want 1", got)
		}
		sent := gw.sendCalls[0]
		if sent.MessagingPhone != "5491140001234" {
			t.Errorf("MessagingPhone = %q, want mobile-indicator form", sent.MessagingPhone)
		}
		if sent.Name != "Ana" || sent.Surname != "Gomez" || sent.NationalID != "30111222" {
			t.Errorf("unexpected registrant payload: %+v", sent)
		}
	})

	t.Run("rejects invalid identity before any network call", func(t *testing.T) {
		uc, gw, _, _ := newTestUsecase(t)

		tests := []struct {
			name   string
			mutate func(in *RequestCodeInput)
		}{
			{"short name", func(in *RequestCodeInput) { in.Name = "A" }},
			{"short surname", func(in *RequestCodeInput) { in.Surname = "G" }},
			{"national id too short", func(in *RequestCodeInput) { in.NationalID = "123456" }},
			{"national id with letters", func(in *RequestCodeInput) { in.NationalID = "3011A222" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := anaRequest()
				tt.mutate(&in)

				_, err := uc.RequestCode(context.Background(), in)
				if err == nil {
					t.Fatal("RequestCode() expected validation error")
				}
				wantCode(t, err, goerror.CodeInvalidInput)
			})
		}

		if got := gw.sendCount(); got != 0 {
			t.Errorf("SendCode called %d times for invalid input, want 0", got)
		}
	})

	t.Run("rejects invalid phone parts", func(t *testing.T) {
		uc, gw, _, _ := newTestUsecase(t)

		in := anaRequest()
		in.PhoneNumber = "4000123"

		_, err := uc.RequestCode(context.Background(), in)
		if err == nil {
			t.Fatal("RequestCode() expected phone validation error")
		}
		wantCode(t, err, goerror.CodeInvalidInput)

		if got := gw.sendCount(); got != 0 {
			t.Errorf("SendCode called %d times, want 0", got)
		}
	})

	t.Run("is idempotent while the window is open", func(t *testing.T) {
		uc, gw, _, clk := newTestUsecase(t)

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("first RequestCode() error: %v", err)
		}

		clk.Advance(30 * time.Second)
		out, err := uc.RequestCode(context.Background(), anaRequest())
		if err != nil {
			t.Fatalf("second RequestCode() error: %v", err)
		}

		if got := gw.sendCount(); got != 1 {
			t.Errorf("SendCode called %d times, want 1 (idempotent no-op)", got)
		}
		if out.RemainingSeconds != 90 {
			t.Errorf("RemainingSeconds = %d, want 90", out.RemainingSeconds)
		}
	})

	t.Run("identity edit discards the open window and redispatches", func(t *testing.T) {
		uc, gw, _, _ := newTestUsecase(t)

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("first RequestCode() error: %v", err)
		}

		in := anaRequest()
		in.Surname = "Gomez Paz"
		out, err := uc.RequestCode(context.Background(), in)
		if err != nil {
			t.Fatalf("edited RequestCode() error: %v", err)
		}

		if got := gw.sendCount(); got != 2 {
			t.Errorf("SendCode called %d times, want 2", got)
		}
		if out.RemainingSeconds != 120 {
			t.Errorf("RemainingSeconds = %d, want fresh 120", out.RemainingSeconds)
		}
	})

	t.Run("dispatch failure surfaces as upstream error and stays idle", func(t *testing.T) {
		uc, gw, _, _ := newTestUsecase(t)
		gw.sendCodeFunc = func(context.Context, SendCodeData) error {
			return errors.New("sms provider down")
		}

		_, err := uc.RequestCode(context.Background(), anaRequest())
		if err == nil {
			t.Fatal("RequestCode() expected dispatch error")
		}
		wantCode(t, err, goerror.CodeUpstream)

		st, err := uc.Status(context.Background(), anaStatus())
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if st.State != entity.SessionStateIdle {
			t.Errorf("State after failed dispatch = %s, want IDLE", st.State)
		}
	})

	t.Run("request after confirmation is rejected", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}
		if _, err := uc.ConfirmCode(context.Background(), anaConfirm("12")); err != nil {
			t.Fatalf("ConfirmCode() error: %v", err)
		}

		_, err := uc.RequestCode(context.Background(), anaRequest())
		if err == nil {
			t.Fatal("RequestCode() after confirm expected error")
		}
		wantCode(t, err, goerror.CodeConflict)
	})
}

func TestConfirmCode(t *testing.T) {
	t.Run("wrong code leaves the session pending", func(t *testing.T) {
		uc, gw, _, clk := newTestUsecase(t)
		gw.confirmCodeFunc = func(_ context.Context, data ConfirmCodeData) error {
			if data.Code != "12" {
				return errors.New("codigo incorrecto")
			}
			return nil
		}

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}

		clk.Advance(10 * time.Second)
		_, err := uc.ConfirmCode(context.Background(), anaConfirm("00"))
		if err == nil {
			t.Fatal("ConfirmCode() with wrong code expected error")
		}
		wantCode(t, err, goerror.CodeUnauthorized)

		st, err := uc.Status(context.Background(), anaStatus())
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if st.State != entity.SessionStatePending {
			t.Errorf("State after wrong code = %s, want PENDING", st.State)
		}
		if st.RemainingSeconds != 110 {
			t.Errorf("RemainingSeconds = %d, want 110 (countdown keeps running)", st.RemainingSeconds)
		}

		// The registrant retypes the right code inside the same window.
		out, err := uc.ConfirmCode(context.Background(), anaConfirm("12"))
		if err != nil {
			t.Fatalf("ConfirmCode() retry error: %v", err)
		}
		if out.State != entity.SessionStateConfirmed {
			t.Errorf("State = %s, want CONFIRMED", out.State)
		}
	})

	t.Run("confirms with dispatch form and publishes the event", func(t *testing.T) {
		uc, gw, msg, _ := newTestUsecase(t)
		gw.issueCredentialsFunc = func(context.Context, IssueCredentialsData) (string, error) {
			return "ref-77", nil
		}

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}

		out, err := uc.ConfirmCode(context.Background(), anaConfirm("12"))
		if err != nil {
			t.Fatalf("ConfirmCode() error: %v", err)
		}
		if out.ReferenceID != "ref-77" {
			t.Errorf("ReferenceID = %q, want ref-77", out.ReferenceID)
		}

		if got := gw.confirmCount(); got != 1 {
			t.Fatalf("ConfirmCode gateway called %d times, want 1", got)
		}
		if gw.confirmCalls[0].DispatchPhone != "541140001234" {
			t.Errorf("confirm DispatchPhone = %q, want canonical form without indicator", gw.confirmCalls[0].DispatchPhone)
		}
		if gw.issueCalls[0].DispatchPhone != "541140001234" {
			t.Errorf("issue DispatchPhone = %q, want canonical form", gw.issueCalls[0].DispatchPhone)
		}

		waitFor(t, func() bool { return len(msg.events()) == 1 })
		evt := msg.events()[0]
		if evt.NationalID != "30111222" || evt.DispatchPhone != "541140001234" || evt.ReferenceID != "ref-77" {
			t.Errorf("unexpected event payload: %+v", evt)
		}
	})

	t.Run("issuance failure keeps the session pending for retry", func(t *testing.T) {
		uc, gw, _, _ := newTestUsecase(t)
		issueErr := errors.New("registration backend down")
		gw.issueCredentialsFunc = func(context.Context, IssueCredentialsData) (string, error) {
			return "", issueErr
		}

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}

		_, err := uc.ConfirmCode(context.Background(), anaConfirm("12"))
		if err == nil {
			t.Fatal("ConfirmCode() expected issuance error")
		}
		wantCode(t, err, goerror.CodeUpstream)

		st, err := uc.Status(context.Background(), anaStatus())
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if st.State != entity.SessionStatePending {
			t.Errorf("State after issuance failure = %s, want PENDING", st.State)
		}

		// Issuance recovers and the retry completes the flow.
		gw.issueCredentialsFunc = nil
		out, err := uc.ConfirmCode(context.Background(), anaConfirm("12"))
		if err != nil {
			t.Fatalf("ConfirmCode() retry error: %v", err)
		}
		if out.State != entity.SessionStateConfirmed {
			t.Errorf("State = %s, want CONFIRMED", out.State)
		}
	})

	t.Run("expired window rejects without any network call", func(t *testing.T) {
		uc, gw, _, clk := newTestUsecase(t)

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}

		clk.Advance(121 * time.Second)

		_, err := uc.ConfirmCode(context.Background(), anaConfirm("12"))
		if err == nil {
			t.Fatal("ConfirmCode() after expiry expected error")
		}
		wantCode(t, err, goerror.CodeExpired)

		if got := gw.confirmCount(); got != 0 {
			t.Errorf("ConfirmCode gateway called %d times after expiry, want 0", got)
		}

		st, err := uc.Status(context.Background(), anaStatus())
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if st.State != entity.SessionStateExpired {
			t.Errorf("State = %s, want EXPIRED", st.State)
		}
		if st.RemainingSeconds != 0 {
			t.Errorf("RemainingSeconds = %d, want 0", st.RemainingSeconds)
		}
	})

	t.Run("no session rejects", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		_, err := uc.ConfirmCode(context.Background(), anaConfirm("12"))
		if err == nil {
			t.Fatal("ConfirmCode() without session expected error")
		}
		wantCode(t, err, goerror.CodeNotFound)
	})

	t.Run("malformed code rejects before any network call", func(t *testing.T) {
		uc, gw, _, _ := newTestUsecase(t)

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}

		_, err := uc.ConfirmCode(context.Background(), anaConfirm("x1"))
		if err == nil {
			t.Fatal("ConfirmCode() with malformed code expected error")
		}
		wantCode(t, err, goerror.CodeInvalidInput)

		if got := gw.confirmCount(); got != 0 {
			t.Errorf("ConfirmCode gateway called %d times, want 0", got)
		}
	})
}

func TestStatus(t *testing.T) {
	t.Run("unknown session is idle", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		st, err := uc.Status(context.Background(), anaStatus())
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if st.State != entity.SessionStateIdle {
			t.Errorf("State = %s, want IDLE", st.State)
		}
		if st.RemainingSeconds != 0 {
			t.Errorf("RemainingSeconds = %d, want 0", st.RemainingSeconds)
		}
	})

	t.Run("remaining seconds track the wall clock", func(t *testing.T) {
		uc, _, _, clk := newTestUsecase(t)

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}

		clk.Advance(45 * time.Second)
		st, err := uc.Status(context.Background(), anaStatus())
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if st.RemainingSeconds != 75 {
			t.Errorf("RemainingSeconds = %d, want 75", st.RemainingSeconds)
		}

		clk.Advance(76 * time.Second)
		st, err = uc.Status(context.Background(), anaStatus())
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if st.State != entity.SessionStateExpired {
			t.Errorf("State = %s, want EXPIRED", st.State)
		}
	})
}

func TestReset(t *testing.T) {
	t.Run("discards a pending session back to idle", func(t *testing.T) {
		uc, gw, _, _ := newTestUsecase(t)

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}

		out, err := uc.Reset(context.Background(), ResetInput{
			NationalID:   "30111222",
			PhoneCountry: "54",
			PhoneArea:    "11",
			PhoneNumber:  "40001234",
		})
		if err != nil {
			t.Fatalf("Reset() error: %v", err)
		}
		if out.State != entity.SessionStateIdle {
			t.Errorf("State = %s, want IDLE", out.State)
		}

		st, err := uc.Status(context.Background(), anaStatus())
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if st.State != entity.SessionStateIdle {
			t.Errorf("State after reset = %s, want IDLE", st.State)
		}

		// Starting over dispatches a fresh code.
		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() after reset error: %v", err)
		}
		if got := gw.sendCount(); got != 2 {
			t.Errorf("SendCode called %d times, want 2", got)
		}
	})

	t.Run("confirmed session cannot be reset", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		if _, err := uc.RequestCode(context.Background(), anaRequest()); err != nil {
			t.Fatalf("RequestCode() error: %v", err)
		}
		if _, err := uc.ConfirmCode(context.Background(), anaConfirm("12")); err != nil {
			t.Fatalf("ConfirmCode() error: %v", err)
		}

		_, err := uc.Reset(context.Background(), ResetInput{
			NationalID:   "30111222",
			PhoneCountry: "54",
			PhoneArea:    "11",
			PhoneNumber:  "40001234",
		})
		if err == nil {
			t.Fatal("Reset() on confirmed session expected error")
		}
		wantCode(t, err, goerror.CodeConflict)
	})

	t.Run("reset of an unknown session is a no-op", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		out, err := uc.Reset(context.Background(), ResetInput{
			NationalID:   "30111222",
			PhoneCountry: "54",
			PhoneArea:    "11",
			PhoneNumber:  "40001234",
		})
		if err != nil {
			t.Fatalf("Reset() error: %v", err)
		}
		if out.State != entity.SessionStateIdle {
			t.Errorf("State = %s, want IDLE", out.State)
		}
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
