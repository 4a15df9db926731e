// Package fraud holds the classification rule applied to every transaction
// read from the input topic.
package fraud

import "github.com/vanshika/fintrace/streaming/internal/domain"

// SuspiciousAmountThreshold is the inclusive lower bound, in USD, at which a
// transaction is flagged.
const SuspiciousAmountThreshold domain.Amount = 900_00

// Verdict is the routing decision for one transaction.
type Verdict int

const (
	VerdictLegit Verdict = iota
	VerdictFraud
)

func (v Verdict) String() string {
	switch v {
	case VerdictLegit:
		return "legit"
	case VerdictFraud:
		return "fraud"
	default:
		return "unknown"
	}
}

// IsSuspicious reports whether t meets the fraud threshold. It looks at the
// amount only.
func IsSuspicious(t domain.Transaction) bool {
	return t.Amount >= SuspiciousAmountThreshold
}

// Classify maps t to a Verdict.
func Classify(t domain.Transaction) Verdict {
	if IsSuspicious(t) {
		return VerdictFraud
	}
	return VerdictLegit
}
