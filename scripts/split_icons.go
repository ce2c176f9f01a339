// split_icons reads a sprite sheet holding one row of base part icons and
// writes one PNG per vocabulary entry to static/nechronica/icons/base/.
// Usage: go run scripts/split_icons.go <sheet.png>
// Cells are read left to right in vocabulary order: brain, eye, jaw, fist,
// arm, shoulder, spine, viscera, bone, leg.
package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"dollsheet/internal/icons"
)

func main() {
	code := run()
	if code != 0 {
		os.Exit(code)
	}
}

func run() int {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: go run scripts/split_icons.go <sheet.png>\n")
		return 1
	}
	inPath := filepath.Clean(os.Args[1])
	if strings.Contains(inPath, "..") {
		fmt.Fprintf(os.Stderr, "path must not escape current directory\n")
		return 1
	}
	f, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", inPath, err)
		return 1
	}
	defer func() {
		if cErr := f.Close(); cErr != nil {
			fmt.Fprintf(os.Stderr, "close input: %v\n", cErr)
		}
	}()
	img, _, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		return 1
	}

	cells := cellRects(img.Bounds(), len(icons.BaseParts))
	if cells == nil {
		fmt.Fprintf(os.Stderr, "sheet is narrower than %d pixels\n", len(icons.BaseParts))
		return 1
	}
	outDir := filepath.Join("static", "nechronica", "icons", "base")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", outDir, err)
		return 1
	}
	for i, bp := range icons.BaseParts {
		name := bp.Slug + ".png"
		if _, ok := icons.Lookup(icons.Root + "/icons/base/" + name); !ok {
			fmt.Fprintf(os.Stderr, "%s is not a catalogued icon\n", name)
			return 1
		}
		if err := writeCrop(img, cells[i], outDir, name); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", name, err)
			return 1
		}
		fmt.Println(filepath.Join(outDir, name))
	}
	return 0
}

// cellRects splits b into n equal columns. Leftover pixels on the right are
// dropped. Cells are square when the sheet is taller than a column is wide.
func cellRects(b image.Rectangle, n int) []image.Rectangle {
	w := b.Dx() / n
	if w == 0 {
		return nil
	}
	h := min(b.Dy(), w)
	out := make([]image.Rectangle, n)
	for i := range out {
		x := b.Min.X + i*w
		out[i] = image.Rect(x, b.Min.Y, x+w, b.Min.Y+h)
	}
	return out
}

func writeCrop(img image.Image, r image.Rectangle, outDir, baseName string) (err error) {
	dx, dy := r.Dx(), r.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, dx, dy))
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			dst.Set(x, y, img.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	path := filepath.Join(outDir, baseName)
	if filepath.Clean(path) != path || strings.Contains(path, "..") {
		return fmt.Errorf("invalid path")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()
	return png.Encode(f, dst)
}
