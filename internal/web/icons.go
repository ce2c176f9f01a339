package web

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"strconv"

	"dollsheet/internal/icons"
)

// handleIcon serves icon assets: the file under StaticDir when present,
// otherwise a generated blocky placeholder. Only paths the resolvers can
// produce are served.
func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	a, ok := icons.Lookup(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if p, ok := s.staticAssetPath(a); ok {
		if b, err := os.ReadFile(p); err == nil {
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Cache-Control", assetCacheControl)
			_, _ = w.Write(b)
			return
		}
	}

	img := generateIconImage(a)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(buf.Bytes())
}

// Muted gothic palette, one base color per asset kind.
var (
	pixelInk      = color.RGBA{0x1e, 0x14, 0x1e, 255}
	pixelPaper    = color.RGBA{0xf2, 0xee, 0xe8, 255}
	pixelBlood    = color.RGBA{0x8c, 0x14, 0x1e, 255}
	pixelRose     = color.RGBA{0xd7, 0x8c, 0x8c, 255}
	pixelBone     = color.RGBA{0xe6, 0xdc, 0xc8, 255}
	pixelViolet   = color.RGBA{0x5a, 0x3c, 0x6e, 255}
	pixelSteel    = color.RGBA{0x5a, 0x64, 0x6e, 255}
	pixelMoss     = color.RGBA{0x46, 0x5a, 0x3c, 255}
	pixelRust     = color.RGBA{0xa0, 0x5a, 0x28, 255}
	pixelMidnight = color.RGBA{0x28, 0x32, 0x50, 255}
)

var kindColors = map[icons.Kind]color.RGBA{
	icons.KindBasePart: pixelBone,
	icons.KindRegion:   pixelRose,
	icons.KindSkill:    pixelViolet,
	icons.KindUnknown:  pixelSteel,
	icons.KindPosition: pixelMidnight,
	icons.KindClass:    pixelViolet,
}

// backgroundColors is indexed by power type code.
var backgroundColors = []color.RGBA{
	pixelSteel, pixelBone, pixelBlood, pixelRust, pixelMoss, pixelViolet, pixelMidnight, pixelRose,
}

const (
	blockPx    = 8
	iconBlocks = 8
	iconPx     = iconBlocks * blockPx
	bgBlocksW  = 32
	bgBlocksH  = 12
)

// fillBlock fills one blockPx square at block coords (bx, by).
func fillBlock(img *image.RGBA, bx, by int, clr color.RGBA) {
	b := img.Bounds()
	for dy := 0; dy < blockPx; dy++ {
		for dx := 0; dx < blockPx; dx++ {
			x := bx*blockPx + dx
			y := by*blockPx + dy
			if x < b.Max.X && y < b.Max.Y {
				img.SetRGBA(x, y, clr)
			}
		}
	}
}

// generateIconImage draws a deterministic placeholder for a. Icons are a
// mirrored 8x8 block pattern seeded by the slug; backgrounds are banded
// strips in the power type's color; status markers are a cross or a dot.
func generateIconImage(a icons.Asset) image.Image {
	switch a.Kind {
	case icons.KindBackground:
		return generateBackground(a.Slug)
	case icons.KindStatus:
		return generateStatus(a.Slug)
	}

	img := image.NewRGBA(image.Rect(0, 0, iconPx, iconPx))
	fg, ok := kindColors[a.Kind]
	if !ok {
		fg = pixelSteel
	}
	for by := 0; by < iconBlocks; by++ {
		for bx := 0; bx < iconBlocks; bx++ {
			fillBlock(img, bx, by, pixelInk)
		}
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(string(a.Kind) + "/" + a.Slug))
	bits := h.Sum64()
	// Fill the inner 6x6 area, mirroring the left half onto the right.
	for by := 1; by < iconBlocks-1; by++ {
		for bx := 1; bx < iconBlocks/2; bx++ {
			if bits&1 == 1 {
				fillBlock(img, bx, by, fg)
				fillBlock(img, iconBlocks-1-bx, by, fg)
			}
			bits >>= 1
		}
	}
	return img
}

func generateBackground(slug string) image.Image {
	code, err := strconv.Atoi(slug)
	if err != nil || code < 0 || code >= len(backgroundColors) {
		code = 0
	}
	base := backgroundColors[code]
	img := image.NewRGBA(image.Rect(0, 0, bgBlocksW*blockPx, bgBlocksH*blockPx))
	for by := 0; by < bgBlocksH; by++ {
		clr := base
		if by%4 == 0 {
			clr = darken(base)
		}
		for bx := 0; bx < bgBlocksW; bx++ {
			fillBlock(img, bx, by, clr)
		}
	}
	return img
}

func generateStatus(slug string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, iconPx, iconPx))
	for by := 0; by < iconBlocks; by++ {
		for bx := 0; bx < iconBlocks; bx++ {
			fillBlock(img, bx, by, pixelPaper)
		}
	}
	if slug == "damaged" {
		for i := 1; i < iconBlocks-1; i++ {
			fillBlock(img, i, i, pixelBlood)
			fillBlock(img, iconBlocks-1-i, i, pixelBlood)
		}
		return img
	}
	for by := 2; by < iconBlocks-2; by++ {
		for bx := 2; bx < iconBlocks-2; bx++ {
			fillBlock(img, bx, by, pixelInk)
		}
	}
	return img
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{c.R / 2, c.G / 2, c.B / 2, 255}
}
