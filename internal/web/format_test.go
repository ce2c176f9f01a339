package web

import (
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"testing"
)

func TestSourcesAreFormatted(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		got, err := format.Source(src)
		if err != nil {
			t.Errorf("format %s: %v", f, err)
			continue
		}
		if !bytes.Equal(got, src) {
			t.Errorf("Expected %s to be gofmt-formatted", f)
		}
	}
}
