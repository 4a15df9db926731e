package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/fintrace/streaming/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		count  = flag.Int("count", 1000, "number of transactions to generate")
		seed   = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation (0 = clock)")
		output = flag.String("output", "", "JSON Lines file to write; stdout when empty")
	)
	flag.Parse()

	if *count <= 0 {
		fmt.Fprintf(os.Stderr, "count must be positive, got %d\n", *count)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(generator.Config{Seed: *seed})
	txs, err := gen.Generate(ctx, *count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *output == "" {
		if err := generator.WriteJSONLines(os.Stdout, txs); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write transactions to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteFile(*output, txs); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write transactions: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Generated %d transactions into %s (seed %d)\n", len(txs), *output, gen.Seed())
}
