package records

import (
	"testing"
	"time"

	"github.com/anshcare/kmc-dashboard/internal/platform/store"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name      string
		in        interface{}
		wantOK    bool
		wantMiss  bool
		wantMalf  bool
		wantEpoch int64
	}{
		{name: "unix seconds", in: float64(1700000000), wantOK: true, wantEpoch: 1700000000},
		{name: "unix millis", in: float64(1700000000000), wantOK: true, wantEpoch: 1700000000},
		{name: "rfc3339 string", in: "2023-11-14T22:13:20Z", wantOK: true, wantEpoch: 1700000000},
		{name: "date string", in: "2023-11-14", wantOK: true, wantEpoch: 1699920000},
		{name: "absent", in: nil, wantMiss: true},
		{name: "zero", in: float64(0), wantMiss: true},
		{name: "empty string", in: "", wantMiss: true},
		{name: "garbage string", in: "not a date", wantMalf: true},
		{name: "wrong type", in: []interface{}{1}, wantMalf: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTime(tt.in)
			if got.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, want %v", got.OK(), tt.wantOK)
			}
			if got.Missing() != tt.wantMiss {
				t.Errorf("Missing() = %v, want %v", got.Missing(), tt.wantMiss)
			}
			if got.Malformed() != tt.wantMalf {
				t.Errorf("Malformed() = %v, want %v", got.Malformed(), tt.wantMalf)
			}
			if tt.wantOK && got.Time.Unix() != tt.wantEpoch {
				t.Errorf("Time = %v (unix %d), want unix %d", got.Time, got.Time.Unix(), tt.wantEpoch)
			}
		})
	}
}

func TestDecodeBaby(t *testing.T) {
	doc := store.Document{
		"UID":                      "KMC-001",
		"hospitalName":             "District Hospital A",
		"placeOfDelivery":          "यह अस्पताल",
		"currentLocationOfTheBaby": "KMC ward",
		"dateOfBirth":              float64(1700000000),
		"registrationDate":         float64(1700003600),
		"lastDischargeDate":        float64(1700500000),
		"lastDischargeType":        "homeDischarge",
		"deadBaby":                 false,
		"observationDay": []interface{}{
			map[string]interface{}{
				"ageDay":          float64(1),
				"totalKMCtimeDay": float64(90),
				"filledCorrectly": true,
			},
			map[string]interface{}{
				"ageDay":             float64(2),
				"totalKMCtimeDay":    float64(120),
				"unstableForKMC":     true,
				"kmcfilledcorrectly": "no, unable to verify",
			},
		},
		"followUp": []interface{}{
			map[string]interface{}{
				"followUpNumber":    float64(2),
				"totalKMCTime":      float64(300),
				"numberSkinContact": float64(4),
			},
		},
	}

	b := DecodeBaby(doc, store.CollectionBaby)
	if b.UID != "KMC-001" {
		t.Fatalf("UID = %q", b.UID)
	}
	if !b.Inborn() {
		t.Error("expected inborn for Hindi place of delivery")
	}
	if !b.Birth.OK() || !b.Registration.OK() || !b.Discharge.OK() {
		t.Fatalf("expected all timestamps valid: birth=%+v reg=%+v disch=%+v", b.Birth, b.Registration, b.Discharge)
	}
	if got := b.TotalKMCMinutes(); got != 210 {
		t.Errorf("TotalKMCMinutes = %v, want 210", got)
	}
	if len(b.Observations) != 2 {
		t.Fatalf("observations = %d, want 2", len(b.Observations))
	}
	if b.Observations[0].FilledCorrectly == nil || !*b.Observations[0].FilledCorrectly {
		t.Error("expected filledCorrectly true on day 1")
	}
	if !b.Observations[1].UnstableForKMC {
		t.Error("expected unstableForKMC on day 2")
	}
	if b.Observations[1].KMCFilledString != "no, unable to verify" {
		t.Errorf("KMCFilledString = %q", b.Observations[1].KMCFilledString)
	}
	if len(b.FollowUps) != 1 || b.FollowUps[0].Number == nil || *b.FollowUps[0].Number != 2 {
		t.Fatalf("followUps = %+v", b.FollowUps)
	}
}

func TestDecodeBabyNestedRegistration(t *testing.T) {
	doc := store.Document{
		"UID": "KMC-002",
		"registrationDataType": map[string]interface{}{
			"registrationDate": float64(1700003600),
		},
	}
	b := DecodeBaby(doc, store.CollectionBaby)
	if !b.Registration.OK() {
		t.Fatalf("expected nested registration date to parse, got %+v", b.Registration)
	}
}

func TestDecodeBabyBackupDischargeKey(t *testing.T) {
	doc := store.Document{
		"UID":           "KMC-003",
		"dischargeDate": float64(1700500000),
	}
	b := DecodeBaby(doc, store.CollectionBabyBackUp)
	if !b.Discharge.OK() {
		t.Fatalf("expected dischargeDate to parse for backup records, got %+v", b.Discharge)
	}
}

func TestMergeBabiesLiveWins(t *testing.T) {
	babies := []store.Document{
		{"UID": "A", "hospitalName": "Live"},
		{"hospitalName": "no uid"},
	}
	backups := []store.Document{
		{"UID": "A", "hospitalName": "Backup"},
		{"UID": "B", "hospitalName": "Backup"},
	}

	merged, stats := MergeBabies(babies, backups)
	if len(merged) != 2 {
		t.Fatalf("merged = %d records, want 2", len(merged))
	}
	if merged[0].Hospital != "Live" {
		t.Errorf("UID A resolved to %q, want the live record", merged[0].Hospital)
	}
	if merged[0].Source != store.CollectionBaby {
		t.Errorf("Source = %q", merged[0].Source)
	}
	if stats.MissingUID != 1 || stats.Duplicates != 1 {
		t.Errorf("stats = %+v, want 1 missing and 1 duplicate", stats)
	}
}

func TestDecodeDischargesDedup(t *testing.T) {
	docs := []store.Document{
		{"UID": "A", "dischargeStatus": "stable"},
		{"UID": "A", "dischargeStatus": "critical"},
		{"dischargeStatus": "no uid"},
	}
	out, stats := DecodeDischarges(docs)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if out[0].Status != "stable" {
		t.Errorf("first record should win, got status %q", out[0].Status)
	}
	if stats.Duplicates != 1 || stats.MissingUID != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestFilterDateBoundsExcludeUnusableTimestamps(t *testing.T) {
	from := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 11, 30, 23, 59, 59, 0, time.UTC)
	f := Filter{From: &from, To: &to}

	inRange := BabyRecord{Registration: TimeField{Time: time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC), Present: true, Valid: true}}
	atBound := BabyRecord{Registration: TimeField{Time: from, Present: true, Valid: true}}
	outside := BabyRecord{Registration: TimeField{Time: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), Present: true, Valid: true}}
	missing := BabyRecord{}

	if !f.MatchBaby(&inRange) {
		t.Error("in-range record should match")
	}
	if !f.MatchBaby(&atBound) {
		t.Error("bounds are inclusive")
	}
	if f.MatchBaby(&outside) {
		t.Error("out-of-range record should not match")
	}
	if f.MatchBaby(&missing) {
		t.Error("record without registration time must be excluded, not wildcarded")
	}
}

func TestFilterHospitalAndUID(t *testing.T) {
	f := Filter{Hospital: "H1", UID: "X"}
	match := BabyRecord{UID: "X", Hospital: "H1"}
	wrongHosp := BabyRecord{UID: "X", Hospital: "H2"}
	if !f.MatchBaby(&match) {
		t.Error("expected match")
	}
	if f.MatchBaby(&wrongHosp) {
		t.Error("hospital mismatch should not match")
	}
	if !(Filter{}).MatchBaby(&wrongHosp) {
		t.Error("zero filter matches everything")
	}
}
