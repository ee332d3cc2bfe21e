package classify

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		category   string
		secondary  string
		activity   ActivityType
		multiplier float64
		payType    PayType
	}{
		{name: "overtime stays on site", category: "OT 1.5x", activity: ActivitySite, multiplier: 1.5, payType: PayOvertime},
		{name: "double time", category: " ot 2x ", activity: ActivitySite, multiplier: 2.0, payType: PayOvertime},
		{name: "annual leave", category: "Annual Leave", activity: ActivityAnnualLeave, multiplier: 1.0, payType: PayBase},
		{name: "base hourly", category: "Base Hourly", activity: ActivitySite, multiplier: 1.0, payType: PayBase},
		{name: "secondary exact", category: "Hourly", secondary: "Travel", activity: ActivityTravel, multiplier: 1.0, payType: PayBase},
		{name: "category exact beats secondary", category: "Workshop", secondary: "Travel", activity: ActivityWorkshop, multiplier: 1.0, payType: PayBase},
		{name: "substring in category", category: "Workshop Repairs", activity: ActivityWorkshop, multiplier: 1.0, payType: PayBase},
		{name: "substring in secondary", category: "Hourly", secondary: "Customer training day", activity: ActivityTraining, multiplier: 1.0, payType: PayBase},
		{name: "first substring rule wins", category: "site travel", activity: ActivitySite, multiplier: 1.0, payType: PayBase},
		{name: "sick leave exact", category: "SICK LEAVE", activity: ActivitySickLeave, multiplier: 1.0, payType: PayBase},
		{name: "overtime rate label", category: "Overtime 2.0", activity: ActivitySite, multiplier: 2.0, payType: PayOvertime},
		{name: "unknown defaults to site", category: "Mystery", secondary: "Other", activity: ActivitySite, multiplier: 1.0, payType: PayBase},
		{name: "empty defaults to site", activity: ActivitySite, multiplier: 1.0, payType: PayBase},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.category, tc.secondary)
			if got.Activity != tc.activity {
				t.Fatalf("activity: want %q, got %q", tc.activity, got.Activity)
			}
			if got.RateMultiplier != tc.multiplier {
				t.Fatalf("multiplier: want %v, got %v", tc.multiplier, got.RateMultiplier)
			}
			if got.PayType != tc.payType {
				t.Fatalf("pay type: want %q, got %q", tc.payType, got.PayType)
			}
		})
	}
}

func TestUnmatched(t *testing.T) {
	t.Parallel()

	if !Unmatched("Mystery", "") {
		t.Fatalf("expected unknown category to be reported as unmatched")
	}
	if Unmatched("Mystery", "site visit") {
		t.Fatalf("expected secondary substring to count as a match")
	}
	if Unmatched("OT 1.5x", "") {
		t.Fatalf("expected overtime label to match")
	}
}

func TestIsBaseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category string
		want     bool
	}{
		{category: "Base Hourly", want: true},
		{category: "BASE", want: true},
		{category: "Base OT", want: false},
		{category: "OT 1.5x", want: false},
		{category: "Annual Leave", want: false},
		{category: "", want: false},
	}

	for _, tc := range tests {
		if got := IsBaseCategory(tc.category); got != tc.want {
			t.Fatalf("IsBaseCategory(%q): want %v, got %v", tc.category, tc.want, got)
		}
	}
}

func TestActivityTypes(t *testing.T) {
	t.Parallel()

	if len(ActivityTypes) != 13 {
		t.Fatalf("expected 13 activity types, got %d", len(ActivityTypes))
	}
	if ActivityType("Lunch").Valid() {
		t.Fatalf("expected unknown activity to be invalid")
	}
	if !ActivitySite.Chargeable() || !ActivityTravel.Chargeable() {
		t.Fatalf("expected site and travel to be chargeable")
	}
	if ActivityWorkshop.Chargeable() || ActivityAnnualLeave.Chargeable() {
		t.Fatalf("expected workshop and leave to be non-chargeable")
	}
}
