package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"

	"pos-receipt/pos/types"
)

// Exporter hands a finished receipt to something outside the session
type Exporter interface {
	Export(ctx context.Context, r types.Receipt) (string, error)
}

// FileExporter writes each receipt as a text file
type FileExporter struct {
	Dir    string
	Locale language.Tag
}

// NewFileExporter writes receipts into dir, formatted for locale
func NewFileExporter(dir string, locale language.Tag) *FileExporter {
	return &FileExporter{Dir: dir, Locale: locale}
}

// Export writes the receipt and returns the file path
func (e *FileExporter) Export(ctx context.Context, r types.Receipt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}

	name := fmt.Sprintf("receipt-%s-%04d.txt", sanitize(r.SessionID), r.Number)
	path := filepath.Join(e.Dir, name)
	if err := os.WriteFile(path, []byte(Format(r, e.Locale)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}
	return path, nil
}

func sanitize(id string) string {
	if id == "" {
		return "session"
	}
	out := []rune(id)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
