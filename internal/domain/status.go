package domain

import "strings"

// Status is one step in an application's history. Stored as-is in the table.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusTechnical Status = "technical"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
	StatusGhosted   Status = "ghosted"
	StatusWithdrawn Status = "withdrawn"

	// NoChange is the edit-prompt sentinel; it is never stored.
	NoChange Status = "none"
)

// Statuses lists the enumeration in menu order.
var Statuses = []Status{
	StatusApplied,
	StatusInterview,
	StatusTechnical,
	StatusOffer,
	StatusRejected,
	StatusGhosted,
	StatusWithdrawn,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label is the capitalised display form, e.g. "Interview".
func (s Status) Label() string {
	if s == NoChange {
		return "No change"
	}
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Tone groups statuses for display colouring.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	TonePending
	ToneOffer
	ToneClosed
)

func (s Status) Tone() Tone {
	switch s {
	case StatusApplied:
		return TonePositive
	case StatusInterview, StatusTechnical:
		return TonePending
	case StatusOffer:
		return ToneOffer
	case StatusRejected, StatusGhosted, StatusWithdrawn:
		return ToneClosed
	default:
		return ToneNeutral
	}
}
