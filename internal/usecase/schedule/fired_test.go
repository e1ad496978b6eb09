package schedule

import (
	"testing"
	"time"

	"hilal/internal/domain"
)

func TestFiredRegistryClearsAtCapacity(t *testing.T) {
	r := NewFiredRegistry(3)
	base := domain.Date{Year: 2025, Month: time.January, Day: 1}
	for i := 0; i < 3; i++ {
		if r.Insert(domain.FiredKey{Date: base.AddDays(i), Prayer: domain.Fajr}) {
			t.Fatalf("unexpected clear at %d", i)
		}
	}
	latest := domain.FiredKey{Date: base.AddDays(3), Prayer: domain.Fajr}
	if !r.Insert(latest) {
		t.Fatalf("expected clear when capacity is exceeded")
	}
	if r.Len() != 1 || !r.Contains(latest) {
		t.Fatalf("registry must keep only the latest key, len=%d", r.Len())
	}
	if r.Contains(domain.FiredKey{Date: base, Prayer: domain.Fajr}) {
		t.Fatalf("old keys must be gone")
	}
}

func TestNewFiredRegistryDefaultCapacity(t *testing.T) {
	r := NewFiredRegistry(0)
	if r.capacity != DefaultFiredCapacity {
		t.Fatalf("capacity = %d, want %d", r.capacity, DefaultFiredCapacity)
	}
}
