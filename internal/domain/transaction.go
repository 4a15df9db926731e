package domain

import (
	"errors"
	"fmt"
)

const (
	// IDLength is the fixed length of source and target identifiers.
	IDLength = 12
	// IDAlphabet holds the 62 symbols identifiers are drawn from.
	IDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// CurrencyUSD is the only currency the pipeline emits.
	CurrencyUSD = "USD"
)

var (
	// ErrInvalidTransaction marks a transaction that breaks the factory invariants.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrMalformedTransaction marks a payload that cannot be decoded into a transaction.
	ErrMalformedTransaction = errors.New("malformed transaction payload")
)

// Transaction is a transfer between two accounts. It carries no identity of
// its own; ordering and identity come from the log offset.
type Transaction struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Amount   Amount `json:"amount"`
	Currency string `json:"currency"`
}

// Validate checks every invariant a generated transaction must hold.
func (t Transaction) Validate() error {
	if err := validateID("source", t.Source); err != nil {
		return err
	}
	if err := validateID("target", t.Target); err != nil {
		return err
	}
	if t.Amount < MinAmount || t.Amount > MaxAmount {
		return fmt.Errorf("%w: amount %s outside [%s, %s]", ErrInvalidTransaction, t.Amount, MinAmount, MaxAmount)
	}
	if t.Currency != CurrencyUSD {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidTransaction, t.Currency)
	}
	return nil
}

func validateID(field, id string) error {
	if len(id) != IDLength {
		return fmt.Errorf("%w: %s %q must be %d characters", ErrInvalidTransaction, field, id, IDLength)
	}
	for i := 0; i < len(id); i++ {
		if !isAlphanumeric(id[i]) {
			return fmt.Errorf("%w: %s %q contains %q", ErrInvalidTransaction, field, id, id[i])
		}
	}
	return nil
}

func isAlphanumeric(c byte) bool {
	return ('0' <= c && c <= '9') || ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}
