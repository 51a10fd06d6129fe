package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/smokyabdulrahman/waqt/internal/cache"
	"github.com/smokyabdulrahman/waqt/internal/geo"
)

type stubDetector struct {
	loc   *geo.Location
	err   error
	calls int
}

func (s *stubDetector) Detect(context.Context) (*geo.Location, error) {
	s.calls++
	return s.loc, s.err
}

var detectedMecca = &geo.Location{Latitude: 21.4225, Longitude: 39.8262, City: "Mecca", Country: "Saudi Arabia"}

func TestResolve_Priority(t *testing.T) {
	tests := []struct {
		name      string
		want      Location
		wantLoc   Location
		wantCalls int
		wantErr   bool
	}{
		{
			name:    "coordinates",
			want:    Location{Latitude: 1, Longitude: 2, City: "Paris"},
			wantLoc: Location{Latitude: 1, Longitude: 2, City: "Paris"},
		},
		{
			name:    "city and country",
			want:    Location{City: "Paris", Country: "FR"},
			wantLoc: Location{City: "Paris", Country: "FR"},
		},
		{
			name:    "city without country",
			want:    Location{City: "Paris"},
			wantErr: true,
		},
		{
			name:      "detected",
			want:      Location{},
			wantLoc:   Location{Latitude: 21.4225, Longitude: 39.8262, City: "Mecca", Country: "Saudi Arabia", Name: "Mecca, Saudi Arabia"},
			wantCalls: 1,
		},
		{
			name:      "detected keeps configured name",
			want:      Location{Name: "Home"},
			wantLoc:   Location{Latitude: 21.4225, Longitude: 39.8262, City: "Mecca", Country: "Saudi Arabia", Name: "Home"},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &stubDetector{loc: detectedMecca}
			got, err := Resolve(context.Background(), tt.want, nil, d)
			if tt.wantErr {
				if !errors.Is(err, ErrCountryRequired) {
					t.Fatalf("error = %v, want ErrCountryRequired", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != tt.wantLoc {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.wantLoc)
			}
			if d.calls != tt.wantCalls {
				t.Errorf("detector calls = %d, want %d", d.calls, tt.wantCalls)
			}
		})
	}
}

func TestResolve_CachesDetection(t *testing.T) {
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	d := &stubDetector{loc: detectedMecca}

	for i := 0; i < 2; i++ {
		got, err := Resolve(context.Background(), Location{}, c, d)
		if err != nil {
			t.Fatalf("Resolve run %d: %v", i, err)
		}
		if got.City != "Mecca" {
			t.Errorf("run %d City = %q, want Mecca", i, got.City)
		}
	}
	if d.calls != 1 {
		t.Errorf("detector calls = %d, want 1", d.calls)
	}
}

func TestResolve_DetectionFails(t *testing.T) {
	d := &stubDetector{err: errors.New("offline")}
	if _, err := Resolve(context.Background(), Location{}, nil, d); err == nil {
		t.Error("expected error when detection fails")
	}
	if _, err := Resolve(context.Background(), Location{}, nil, nil); err == nil {
		t.Error("expected error without a detector")
	}
}
