package records

import (
	"time"

	"github.com/anshcare/kmc-dashboard/internal/platform/store"
)

// DecodeBaby builds a typed record from one baby document. source is the
// collection the document came from (store.CollectionBaby or BabyBackUp).
func DecodeBaby(doc store.Document, source string) BabyRecord {
	b := BabyRecord{
		UID:                    str(doc, "UID"),
		Hospital:               str(doc, "hospitalName"),
		PlaceOfDelivery:        str(doc, "placeOfDelivery"),
		Location:               str(doc, "currentLocationOfTheBaby"),
		LastDischargeType:      str(doc, "lastDischargeType"),
		DischargedStatusString: str(doc, "dischargedStatusString"),
		DeadBaby:               boolVal(doc, "deadBaby"),
		Source:                 source,
	}

	b.Birth = timeField(doc, "dateOfBirth")
	b.Registration = registrationTime(doc)
	b.Discharge = dischargeTime(doc, source)

	if raw, ok := doc["observationDay"].([]interface{}); ok {
		for _, item := range raw {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			b.Observations = append(b.Observations, decodeObservation(m))
		}
	}
	if raw, ok := doc["followUp"].([]interface{}); ok {
		for _, item := range raw {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			b.FollowUps = append(b.FollowUps, decodeFollowUp(m))
		}
	}
	return b
}

// DecodeDischarge builds a typed record from one discharges document.
func DecodeDischarge(doc store.Document) DischargeRecord {
	return DischargeRecord{
		UID:             str(doc, "UID"),
		Hospital:        str(doc, "hospitalName"),
		Status:          str(doc, "dischargeStatus"),
		Type:            str(doc, "dischargeType"),
		CriticalReasons: str(doc, "criticalReasons"),
		Discharged:      timeField(doc, "dischargeDate"),
	}
}

// registrationTime prefers the top-level field but falls back to the nested
// form older app versions wrote.
func registrationTime(doc store.Document) TimeField {
	if _, ok := doc["registrationDate"]; ok {
		return timeField(doc, "registrationDate")
	}
	if nested, ok := doc["registrationDataType"].(map[string]interface{}); ok {
		if _, ok := nested["registrationDate"]; ok {
			return parseTime(nested["registrationDate"])
		}
	}
	return TimeField{}
}

// dischargeTime reads the discharge timestamp, which the two baby collections
// store under different names. The non-preferred name is accepted as a
// fallback since a handful of documents carry only that one.
func dischargeTime(doc store.Document, source string) TimeField {
	keys := []string{"lastDischargeDate", "dischargeDate"}
	if source == store.CollectionBabyBackUp {
		keys = []string{"dischargeDate", "lastDischargeDate"}
	}
	for _, key := range keys {
		if _, ok := doc[key]; ok {
			return timeField(doc, key)
		}
	}
	return TimeField{}
}

func decodeObservation(m map[string]interface{}) ObservationDay {
	obs := ObservationDay{
		DangerSign: str(m, "dangerSign"),
		MNEComment: str(m, "mnecomment"),
	}
	if v, ok := numVal(m, "ageDay"); ok {
		day := int(v)
		obs.AgeDay = &day
	}
	if v, ok := numVal(m, "totalKMCtimeDay"); ok {
		obs.KMCMinutes = v
	}
	obs.UnstableForKMC = boolVal(m, "unstableForKMC")
	obs.FilledCorrectly = boolPtr(m, "filledCorrectly")
	obs.FilledIncorrectly = boolPtr(m, "filledincorrectly")
	obs.KMCFilledOK = boolPtr(m, "kmcfilledcorrectly")
	if obs.KMCFilledOK == nil {
		obs.KMCFilledString = str(m, "kmcfilledcorrectly")
	}
	return obs
}

func decodeFollowUp(m map[string]interface{}) FollowUp {
	fu := FollowUp{}
	if v, ok := numVal(m, "followUpNumber"); ok {
		n := int(v)
		fu.Number = &n
	}
	if v, ok := numVal(m, "totalKMCTime"); ok {
		fu.KMCMinutes = &v
	}
	if v, ok := numVal(m, "numberSkinContact"); ok {
		fu.SkinContact = &v
	}
	return fu
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime decodes the timestamp shapes the upstream documents actually
// contain: unix seconds, unix milliseconds (anything above 1e12), and a few
// string layouts. A zero or empty value counts as missing, not malformed.
func parseTime(v interface{}) TimeField {
	switch val := v.(type) {
	case nil:
		return TimeField{}
	case float64:
		return timeFromUnix(val)
	case int:
		return timeFromUnix(float64(val))
	case int64:
		return timeFromUnix(float64(val))
	case string:
		if val == "" {
			return TimeField{}
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return TimeField{Time: t.UTC(), Present: true, Valid: true}
			}
		}
		return TimeField{Present: true}
	default:
		return TimeField{Present: true}
	}
}

func timeFromUnix(v float64) TimeField {
	if v <= 0 {
		return TimeField{}
	}
	sec := int64(v)
	if v > 1e12 {
		return TimeField{Time: time.UnixMilli(sec).UTC(), Present: true, Valid: true}
	}
	return TimeField{Time: time.Unix(sec, 0).UTC(), Present: true, Valid: true}
}

func timeField(doc map[string]interface{}, key string) TimeField {
	v, ok := doc[key]
	if !ok {
		return TimeField{}
	}
	return parseTime(v)
}

func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolVal(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func boolPtr(m map[string]interface{}, key string) *bool {
	if b, ok := m[key].(bool); ok {
		return &b
	}
	return nil
}

// numVal accepts the numeric encodings JSON decoding produces. Strings that
// hold plain numbers also appear in older documents and are not accepted
// here: the few fields where that matters parse them explicitly.
func numVal(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
