package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-06-02", "2000-02-29"}
	invalid := []string{"2025-13-01", "02-06-2025", "2025-06-02T10:00:00Z", ""}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	valid := []string{"10:00", "23:59", "09:30:15"}
	invalid := []string{"24:00", "10", "10:60", "ten"}
	for _, s := range valid {
		if _, ok := IsValidTimeOfDay(s); !ok {
			t.Errorf("IsValidTimeOfDay(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidTimeOfDay(s); ok {
			t.Errorf("IsValidTimeOfDay(%q) = true, want false", s)
		}
	}
}

type sample struct {
	Month int     `json:"month" validate:"required,min=1,max=12"`
	Kind  string  `json:"kind" validate:"required,oneof=holiday weekday_off"`
	Date  string  `json:"date" validate:"required,date"`
	Hours float64 `json:"hours" validate:"gt=0,lte=24"`
}

func TestStruct(t *testing.T) {
	ok := sample{Month: 6, Kind: "holiday", Date: "2025-06-02", Hours: 2}
	if errs := Struct(ok); errs != nil {
		t.Fatalf("Struct(valid) = %v, want nil", errs)
	}

	bad := sample{Month: 13, Kind: "party", Date: "06/02/2025", Hours: 0}
	errs := Struct(bad).ToMap()
	for _, field := range []string{"month", "kind", "date", "hours"} {
		if _, found := errs[field]; !found {
			t.Errorf("expected error for field %q, got %v", field, errs)
		}
	}
	if errs["kind"] != "must be one of: holiday weekday_off" {
		t.Errorf("kind message = %q", errs["kind"])
	}
}

func TestIsInSlice(t *testing.T) {
	if !IsInSlice("a", []string{"a", "b"}) {
		t.Error("IsInSlice(a) = false, want true")
	}
	if IsInSlice("c", []string{"a", "b"}) {
		t.Error("IsInSlice(c) = true, want false")
	}
}
