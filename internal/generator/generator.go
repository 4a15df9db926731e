package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/vanshika/fintrace/streaming/internal/domain"
)

// Generator produces synthetic transactions. It is not safe for concurrent
// use; each emitter owns its own instance.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Seed reports the seed in use, so a run can be reproduced.
func (g *Generator) Seed() int64 {
	return g.cfg.Seed
}

// CreateRandomTransaction draws source, target and amount independently:
// ids are uniform per character over domain.IDAlphabet and the amount is
// uniform over the integer cents in [domain.MinAmount, domain.MaxAmount].
func (g *Generator) CreateRandomTransaction() domain.Transaction {
	return domain.Transaction{
		Source:   g.randomAccountID(),
		Target:   g.randomAccountID(),
		Amount:   g.randomAmount(),
		Currency: domain.CurrencyUSD,
	}
}

// Generate synthesises n transactions. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context, n int) ([]domain.Transaction, error) {
	txs := make([]domain.Transaction, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		txs = append(txs, g.CreateRandomTransaction())
	}
	return txs, nil
}

func (g *Generator) randomAccountID() string {
	buf := make([]byte, domain.IDLength)
	for i := range buf {
		buf[i] = domain.IDAlphabet[g.rand.Intn(len(domain.IDAlphabet))]
	}
	return string(buf)
}

func (g *Generator) randomAmount() domain.Amount {
	span := int64(domain.MaxAmount - domain.MinAmount + 1)
	return domain.MinAmount + domain.Amount(g.rand.Int63n(span))
}
