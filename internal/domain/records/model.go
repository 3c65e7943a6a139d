// Package records turns the loosely-typed documents of the upstream record
// store into typed Baby and Discharge records. Decoding never drops a record
// silently: missing and malformed fields stay visible on the record so every
// metric can tally what it excluded.
package records

import "time"

// Inborn deliveries are recorded by the data-entry app in Hindi or English.
var inbornPlaceValues = map[string]bool{
	"यह अस्पताल":    true,
	"this hospital": true,
}

// TimeField is a decoded timestamp. Present reports whether the source
// document carried the field at all, Valid whether it parsed.
type TimeField struct {
	Time    time.Time
	Present bool
	Valid   bool
}

// OK reports whether the field is usable.
func (t TimeField) OK() bool { return t.Present && t.Valid }

// Missing reports whether the field was absent from the document.
func (t TimeField) Missing() bool { return !t.Present }

// Malformed reports whether the field was present but unparseable.
func (t TimeField) Malformed() bool { return t.Present && !t.Valid }

// ObservationDay is one daily ward observation for a baby.
type ObservationDay struct {
	AgeDay            *int
	KMCMinutes        float64
	UnstableForKMC    bool
	DangerSign        string
	FilledCorrectly   *bool
	KMCFilledOK       *bool
	KMCFilledString   string
	FilledIncorrectly *bool
	MNEComment        string
}

// FollowUp is one post-discharge follow-up entry.
type FollowUp struct {
	Number      *int
	KMCMinutes  *float64
	SkinContact *float64
}

// BabyRecord is one enrolled infant, from either the live `baby` collection
// or its `babyBackUp` archive (Source tells which).
type BabyRecord struct {
	UID                    string
	Hospital               string
	PlaceOfDelivery        string
	Location               string
	Birth                  TimeField
	Registration           TimeField
	Discharge              TimeField
	LastDischargeType      string
	DischargedStatusString string
	DeadBaby               bool
	Observations           []ObservationDay
	FollowUps              []FollowUp
	Source                 string
}

// Inborn reports whether the baby was born at the reporting hospital.
func (b *BabyRecord) Inborn() bool {
	return inbornPlaceValues[b.PlaceOfDelivery]
}

// HasDeliveryInfo reports whether the place of delivery was recorded at all.
func (b *BabyRecord) HasDeliveryInfo() bool {
	return b.PlaceOfDelivery != ""
}

// TotalKMCMinutes sums KMC time across all observation days.
func (b *BabyRecord) TotalKMCMinutes() float64 {
	var total float64
	for _, obs := range b.Observations {
		if obs.KMCMinutes > 0 {
			total += obs.KMCMinutes
		}
	}
	return total
}

// DischargeRecord is one discharge event from the `discharges` collection.
type DischargeRecord struct {
	UID             string
	Hospital        string
	Status          string
	Type            string
	CriticalReasons string
	Discharged      TimeField
}
