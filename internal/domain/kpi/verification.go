package kpi

import (
	"strings"

	"github.com/anshcare/kmc-dashboard/internal/domain/records"
)

// KMC verification statuses for one observation day.
const (
	VerifyCorrect        = "correct"
	VerifyIncorrect      = "incorrect"
	VerifyUnableToVerify = "unable_to_verify"
	VerifyNotVerified    = "not_verified"
)

// KMCVerification tallies verification of the KMC time entries.
type KMCVerification struct {
	Correct           int `json:"correct"`
	Incorrect         int `json:"incorrect"`
	UnableToVerify    int `json:"unable_to_verify"`
	NotVerified       int `json:"not_verified"`
	TotalObservations int `json:"total_observations"`
}

// ObservationVerification tallies verification of the observation sheets,
// which only distinguishes confirmed mistakes.
type ObservationVerification struct {
	CorrectOrNotChecked int `json:"correct_or_not_checked"`
	Incorrect           int `json:"incorrect"`
	TotalObservations   int `json:"total_observations"`
}

// VerificationResult reports both monitoring views.
type VerificationResult struct {
	KMC          KMCVerification         `json:"kmc"`
	Observations ObservationVerification `json:"observations"`
	TotalBabies  int                     `json:"total_babies"`
	NoData       bool                    `json:"no_data"`
}

// VerificationMonitoring classifies every observation day by whether the
// monitoring team verified the entry.
func VerificationMonitoring(babies []records.BabyRecord) *VerificationResult {
	res := &VerificationResult{}
	for i := range babies {
		b := &babies[i]
		res.TotalBabies++
		for _, obs := range b.Observations {
			res.KMC.TotalObservations++
			switch kmcVerifyStatus(&obs) {
			case VerifyCorrect:
				res.KMC.Correct++
			case VerifyIncorrect:
				res.KMC.Incorrect++
			case VerifyUnableToVerify:
				res.KMC.UnableToVerify++
			default:
				res.KMC.NotVerified++
			}

			res.Observations.TotalObservations++
			if strings.TrimSpace(obs.MNEComment) != "" || (obs.FilledIncorrectly != nil && *obs.FilledIncorrectly) {
				res.Observations.Incorrect++
			} else {
				res.Observations.CorrectOrNotChecked++
			}
		}
	}
	res.NoData = res.KMC.TotalObservations == 0
	return res
}

// kmcVerifyStatus applies the monitoring team's precedence: a reviewer
// comment always means incorrect, then the boolean flags, then the legacy
// string values older app versions wrote.
func kmcVerifyStatus(obs *records.ObservationDay) string {
	if strings.TrimSpace(obs.MNEComment) != "" {
		return VerifyIncorrect
	}
	if obs.FilledCorrectly != nil {
		if *obs.FilledCorrectly {
			return VerifyCorrect
		}
		return VerifyIncorrect
	}
	if obs.KMCFilledOK != nil {
		if *obs.KMCFilledOK {
			return VerifyCorrect
		}
		return VerifyIncorrect
	}
	if obs.KMCFilledString != "" {
		switch lower := strings.ToLower(obs.KMCFilledString); {
		case lower == "correct" || lower == "true":
			return VerifyCorrect
		case lower == "incorrect" || lower == "false":
			return VerifyIncorrect
		case strings.Contains(lower, "unable"):
			return VerifyUnableToVerify
		}
	}
	return VerifyNotVerified
}
