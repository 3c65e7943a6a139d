package records

import "time"

// Filter narrows the record set a metric runs over. Zero-value fields match
// everything; the date bounds are inclusive and apply to registration time.
type Filter struct {
	Hospital string     `json:"hospital,omitempty"`
	UID      string     `json:"uid,omitempty"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return f.Hospital == "" && f.UID == "" && f.From == nil && f.To == nil
}

// MatchBaby reports whether the record passes the filter. A date-bounded
// filter excludes records with no usable registration time rather than
// treating them as wildcards.
func (f Filter) MatchBaby(b *BabyRecord) bool {
	if f.Hospital != "" && b.Hospital != f.Hospital {
		return false
	}
	if f.UID != "" && b.UID != f.UID {
		return false
	}
	if f.From != nil || f.To != nil {
		if !b.Registration.OK() {
			return false
		}
		if f.From != nil && b.Registration.Time.Before(*f.From) {
			return false
		}
		if f.To != nil && b.Registration.Time.After(*f.To) {
			return false
		}
	}
	return true
}

// MatchDischarge reports whether the discharge record passes the filter.
// Date bounds apply to the discharge time.
func (f Filter) MatchDischarge(d *DischargeRecord) bool {
	if f.Hospital != "" && d.Hospital != f.Hospital {
		return false
	}
	if f.UID != "" && d.UID != f.UID {
		return false
	}
	if f.From != nil || f.To != nil {
		if !d.Discharged.OK() {
			return false
		}
		if f.From != nil && d.Discharged.Time.Before(*f.From) {
			return false
		}
		if f.To != nil && d.Discharged.Time.After(*f.To) {
			return false
		}
	}
	return true
}

// ApplyBabies returns the records matching the filter.
func (f Filter) ApplyBabies(babies []BabyRecord) []BabyRecord {
	if f.IsZero() {
		return babies
	}
	out := make([]BabyRecord, 0, len(babies))
	for i := range babies {
		if f.MatchBaby(&babies[i]) {
			out = append(out, babies[i])
		}
	}
	return out
}

// ApplyDischarges returns the discharge records matching the filter.
func (f Filter) ApplyDischarges(discharges []DischargeRecord) []DischargeRecord {
	if f.IsZero() {
		return discharges
	}
	out := make([]DischargeRecord, 0, len(discharges))
	for i := range discharges {
		if f.MatchDischarge(&discharges[i]) {
			out = append(out, discharges[i])
		}
	}
	return out
}
