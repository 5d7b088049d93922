package operations

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/petergi/cup-validator-cli/internal/logging"
)

const validXML = `<?xml version="1.0" encoding="UTF-8"?>
<record>
  <isbn>%s</isbn>
  <title>Test Title</title>
  <trim_height>234</trim_height>
  <trim_width>156</trim_width>
  <extent>64</extent>
  <paper>Clairjet 90 gsm</paper>
  <colour>Colour</colour>
  <quality>Standard</quality>
  <binding_style>Cased</binding_style>
</record>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return logging.Discard()
}
