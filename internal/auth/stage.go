package auth

// Stage is a step of the login flow. The flow moves strictly forward:
// START, CODE_EXCHANGED, PROFILE_FETCHED, PROFILE_NORMALIZED,
// IDENTITY_RESOLVED and finally TOKENS_ISSUED.
type Stage uint8

const (
	StageStart Stage = iota
	StageCodeExchanged
	StageProfileFetched
	StageProfileNormalized
	StageIdentityResolved
	StageTokensIssued
)

var stageNames = [...]string{
	StageStart:             "START",
	StageCodeExchanged:     "CODE_EXCHANGED",
	StageProfileFetched:    "PROFILE_FETCHED",
	StageProfileNormalized: "PROFILE_NORMALIZED",
	StageIdentityResolved:  "IDENTITY_RESOLVED",
	StageTokensIssued:      "TOKENS_ISSUED",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "UNKNOWN"
}

// spanName is the tracing span opened for the stage.
func (s Stage) spanName() string {
	switch s {
	case StageStart:
		return "auth.start"
	case StageCodeExchanged:
		return "auth.code_exchanged"
	case StageProfileFetched:
		return "auth.profile_fetched"
	case StageProfileNormalized:
		return "auth.profile_normalized"
	case StageIdentityResolved:
		return "auth.identity_resolved"
	case StageTokensIssued:
		return "auth.tokens_issued"
	default:
		return "auth.unknown"
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
