package generator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vanshika/fintrace/streaming/internal/domain"
)

// WriteJSONLines writes one canonical payload per line, the same bytes the
// emitter would publish.
func WriteJSONLines(w io.Writer, txs []domain.Transaction) error {
	buf := bufio.NewWriter(w)
	for i, tx := range txs {
		payload, err := domain.Encode(tx)
		if err != nil {
			return fmt.Errorf("encode transaction %d: %w", i, err)
		}
		if _, err := buf.Write(payload); err != nil {
			return err
		}
		if err := buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// WriteFile serializes txs as JSON Lines into path, creating parent directories.
func WriteFile(path string, txs []domain.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteJSONLines(file, txs); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
