package phone

import (
	"errors"
	"strings"
	"testing"

	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		country    string
		area       string
		subscriber string
		wantErr    bool
		wantFields []string
	}{
		{
			name:       "valid",
			country:    "54",
			area:       "11",
			subscriber: "40001234",
		},
		{
			name:       "strips separators before validating",
			country:    "+54",
			area:       " 11 ",
			subscriber: "4000-1234",
		},
		{
			name:       "single digit country",
			country:    "1",
			area:       "212",
			subscriber: "55501234",
		},
		{
			name:       "country too long",
			country:    "5412",
			area:       "11",
			subscriber: "40001234",
			wantErr:    true,
			wantFields: []string{"phone_country"},
		},
		{
			name:       "area too short",
			country:    "54",
			area:       "1",
			subscriber: "40001234",
			wantErr:    true,
			wantFields: []string{"phone_area"},
		},
		{
			name:       "subscriber seven digits",
			country:    "54",
			area:       "11",
			subscriber: "4000123",
			wantErr:    true,
			wantFields: []string{"phone_number"},
		},
		{
			name:       "subscriber nine digits",
			country:    "54",
			area:       "11",
			subscriber: "400012345",
			wantErr:    true,
			wantFields: []string{"phone_number"},
		},
		{
			name:       "all parts empty",
			country:    "",
			area:       "",
			subscriber: "",
			wantErr:    true,
			wantFields: []string{"phone_country", "phone_area", "phone_number"},
		},
		{
			name:       "letters only",
			country:    "ab",
			area:       "cd",
			subscriber: "efghijkl",
			wantErr:    true,
			wantFields: []string{"phone_country", "phone_area", "phone_number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := New(tt.country, tt.area, tt.subscriber)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New() expected error, got none")
				}

				var gerr *goerror.Error
				if !errors.As(err, &gerr) {
					t.Fatalf("New() error is not a goerror: %v", err)
				}
				for _, f := range tt.wantFields {
					if _, ok := gerr.Fields()[f]; !ok {
						t.Errorf("New() missing field error %q, got %v", f, gerr.Fields())
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if n.IsZero() {
				t.Error("New() returned zero Number without error")
			}
		})
	}
}

func TestNumberRenderings(t *testing.T) {
	n, err := New("54", "11", "40001234")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got, want := n.Display(), "+54 11 4000-1234"; got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
	if got, want := n.Dispatch(), "541140001234"; got != want {
		t.Errorf("Dispatch() = %q, want %q", got, want)
	}
	if got, want := n.Messaging(), "5491140001234"; got != want {
		t.Errorf("Messaging() = %q, want %q", got, want)
	}
	if got, want := n.Masked(), "+54 11 ****-**34"; got != want {
		t.Errorf("Masked() = %q, want %q", got, want)
	}
}

func TestMessagingNeverEqualsDispatch(t *testing.T) {
	n, err := New("54", "351", "98765432")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if n.Messaging() == n.Dispatch() {
		t.Error("Messaging() must carry the mobile indicator, Dispatch() must not")
	}
	if got, want := n.Messaging(), "54"+"9"+"351"+"98765432"; got != want {
		t.Errorf("Messaging() = %q, want %q", got, want)
	}
}

func TestMaskedHidesSubscriber(t *testing.T) {
	n, err := New("54", "11", "40001234")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	masked := n.Masked()
	if masked == n.Display() {
		t.Error("Masked() must not equal Display()")
	}
	for _, forbidden := range []string{"4000", "0012"} {
		if strings.Contains(masked, forbidden) {
			t.Errorf("Masked() = %q leaks subscriber digits %q", masked, forbidden)
		}
	}
}
