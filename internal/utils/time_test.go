package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone Asia/Tokyo", timezone: "Asia/Tokyo"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestInTimezone(t *testing.T) {
	in := time.Date(2024, 6, 12, 23, 30, 0, 0, time.UTC)

	got, err := InTimezone(in, "Asia/Tokyo")
	if err != nil {
		t.Fatalf("InTimezone() error = %v", err)
	}
	if !got.Equal(in) || DateString(got) != "2024-06-13" {
		t.Errorf("InTimezone() = %v, want the same instant on 2024-06-13", got)
	}

	got, err = InTimezone(in, "Nowhere/Special")
	if err == nil {
		t.Error("expected error for invalid timezone")
	}
	if !got.Equal(in) || got.Location() != time.UTC {
		t.Errorf("invalid timezone should return the input unchanged, got %v", got)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		// 2024-03-15 is a Friday
		{name: "friday", in: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), want: "2024-03-10"},
		{name: "sunday is its own start", in: time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), want: "2024-03-10"},
		{name: "saturday", in: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), want: "2024-03-10"},
		{name: "crosses month", in: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), want: "2024-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.in)
			if DateString(got) != tt.want {
				t.Errorf("StartOfWeek() = %s, want %s", DateString(got), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("StartOfWeek() not at midnight: %v", got)
			}
		})
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	got, err := ParseTimeToMinutes("09:45")
	if err != nil {
		t.Fatalf("ParseTimeToMinutes() error = %v", err)
	}
	if got != 585 {
		t.Errorf("ParseTimeToMinutes() = %d, want 585", got)
	}
	if _, err := ParseTimeToMinutes("9:45pm"); err == nil {
		t.Error("expected error for invalid time")
	}
}

func TestCombineDateAndTime(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	got, err := CombineDateAndTime("2024-03-15", "09:30", loc)
	if err != nil {
		t.Fatalf("CombineDateAndTime() error = %v", err)
	}
	want := time.Date(2024, 3, 15, 9, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("CombineDateAndTime() = %v, want %v", got, want)
	}

	if _, err := CombineDateAndTime("2024/03/15", "09:30", loc); err == nil {
		t.Error("expected error for invalid date")
	}
	if _, err := CombineDateAndTime("2024-03-15", "930", loc); err == nil {
		t.Error("expected error for invalid time")
	}
}

func TestValidateFormats(t *testing.T) {
	if !ValidateDateFormat("2024-02-29") {
		t.Error("expected leap day to be valid")
	}
	if ValidateDateFormat("2023-02-29") {
		t.Error("expected non-leap Feb 29 to be invalid")
	}
	if !ValidateTimeFormat("23:59") || ValidateTimeFormat("24:00") {
		t.Error("ValidateTimeFormat gave unexpected result")
	}
	if !ValidateTimezone("Local") || ValidateTimezone("Mars/Olympus") {
		t.Error("ValidateTimezone gave unexpected result")
	}
}
