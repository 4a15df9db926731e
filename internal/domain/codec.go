package domain

import (
	"encoding/json"
	"fmt"
)

// wireTransaction distinguishes absent fields from zero values on decode.
type wireTransaction struct {
	Source   *string `json:"source"`
	Target   *string `json:"target"`
	Amount   *Amount `json:"amount"`
	Currency *string `json:"currency"`
}

// Encode renders t in the canonical wire form:
// {"source":…,"target":…,"amount":123.45,"currency":"USD"}.
func Encode(t Transaction) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return payload, nil
}

// Decode parses a payload produced by Encode or by any producer using the same
// four keys. It checks structure only; range rules are the factory's concern.
func Decode(payload []byte) (Transaction, error) {
	var w wireTransaction
	if err := json.Unmarshal(payload, &w); err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}
	switch {
	case w.Source == nil || *w.Source == "":
		return Transaction{}, fmt.Errorf("%w: missing source", ErrMalformedTransaction)
	case w.Target == nil || *w.Target == "":
		return Transaction{}, fmt.Errorf("%w: missing target", ErrMalformedTransaction)
	case w.Amount == nil:
		return Transaction{}, fmt.Errorf("%w: missing amount", ErrMalformedTransaction)
	case w.Currency == nil || *w.Currency == "":
		return Transaction{}, fmt.Errorf("%w: missing currency", ErrMalformedTransaction)
	}
	return Transaction{
		Source:   *w.Source,
		Target:   *w.Target,
		Amount:   *w.Amount,
		Currency: *w.Currency,
	}, nil
}
