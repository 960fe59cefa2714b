// internal/writers/fasta.go
package writers

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"seqfetch/internal/pipeline"
)

// Exists reports whether path already denotes content.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteFile persists sequences as one concatenated multi-record FASTA file.
// O_EXCL guards the no-overwrite precondition a second time at the syscall
// level; the caller only invokes this after the whole batch succeeded, so a
// failed run never leaves a partial sink.
func WriteFile(path string, seqs []pipeline.Sequence) error {
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("write sink: %w", err)
	}
	w := bufio.NewWriter(fh)
	for _, s := range seqs {
		if _, err := w.WriteString(s.FASTA); err != nil {
			_ = fh.Close()
			return fmt.Errorf("write sink: %w", err)
		}
		if !strings.HasSuffix(s.FASTA, "\n") {
			if err := w.WriteByte('\n'); err != nil {
				_ = fh.Close()
				return fmt.Errorf("write sink: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write sink: %w", err)
	}
	return fh.Close()
}
