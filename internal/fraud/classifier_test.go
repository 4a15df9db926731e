package fraud

import (
	"testing"

	"github.com/vanshika/fintrace/streaming/internal/domain"
	"github.com/vanshika/fintrace/streaming/internal/generator"
)

func tx(amount domain.Amount) domain.Transaction {
	return domain.Transaction{
		Source:   "AAAAAAAAAAAA",
		Target:   "BBBBBBBBBBBB",
		Amount:   amount,
		Currency: domain.CurrencyUSD,
	}
}

func TestClassify_Boundary(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		want   Verdict
	}{
		{name: "just below threshold", amount: "899.99", want: VerdictLegit},
		{name: "at threshold", amount: "900.00", want: VerdictFraud},
		{name: "just above threshold", amount: "900.01", want: VerdictFraud},
		{name: "minimum", amount: "1.00", want: VerdictLegit},
		{name: "maximum", amount: "10000.00", want: VerdictFraud},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := domain.ParseAmount(tc.amount)
			if err != nil {
				t.Fatalf("parse amount: %v", err)
			}
			if got := Classify(tx(amount)); got != tc.want {
				t.Fatalf("Classify(%s) = %s, want %s", tc.amount, got, tc.want)
			}
		})
	}
}

func TestIsSuspicious_MatchesThresholdAndIsDeterministic(t *testing.T) {
	gen := generator.New(generator.Config{Seed: 11})
	for i := 0; i < 2000; i++ {
		t1 := gen.CreateRandomTransaction()
		want := t1.Amount >= 900_00
		first := IsSuspicious(t1)
		if first != want {
			t.Fatalf("IsSuspicious(%s) = %v, want %v", t1.Amount, first, want)
		}
		if again := IsSuspicious(t1); again != first {
			t.Fatalf("IsSuspicious(%s) not deterministic", t1.Amount)
		}
	}
}

func TestVerdict_String(t *testing.T) {
	if VerdictLegit.String() != "legit" || VerdictFraud.String() != "fraud" {
		t.Fatalf("unexpected verdict names: %s %s", VerdictLegit, VerdictFraud)
	}
	if Verdict(9).String() != "unknown" {
		t.Fatalf("expected unknown for out of range verdict")
	}
}
