package icons

import (
	"sort"
	"strconv"
	"sync"

	"dollsheet/internal/nechronica"
)

// Kind groups assets that share a placeholder style.
type Kind string

const (
	KindBasePart   Kind = "base"
	KindRegion     Kind = "part"
	KindSkill      Kind = "skill"
	KindUnknown    Kind = "unknown"
	KindBackground Kind = "background"
	KindPosition   Kind = "position"
	KindClass      Kind = "class"
	KindStatus     Kind = "status"
)

// Asset is one path the resolvers can produce.
type Asset struct {
	Path string
	Kind Kind
	Slug string
}

var (
	catalogOnce sync.Once
	catalog     map[string]Asset
)

func buildCatalog() {
	catalog = map[string]Asset{}
	add := func(p string, k Kind, slug string) {
		catalog[p] = Asset{Path: p, Kind: k, Slug: slug}
	}
	for _, bp := range BaseParts {
		add(basePartPath(bp.Slug), KindBasePart, bp.Slug)
	}
	for _, pos := range nechronica.PositionOrder {
		add(regionPath(string(pos)), KindRegion, string(pos))
	}
	add(skillPath, KindSkill, "skill")
	add(unknownPath, KindUnknown, "unknown")
	for code := range backgroundNames {
		add(backgroundPath(code), KindBackground, strconv.Itoa(code))
	}
	for _, f := range positionFiles {
		add(Root+"/position/"+f+".png", KindPosition, f)
	}
	for _, f := range classFiles {
		add(Root+"/class/"+f+".png", KindClass, f)
	}
	add(StatusIconPath(true, false), KindStatus, "used")
	add(StatusIconPath(false, true), KindStatus, "damaged")
}

// Lookup reports whether urlPath is an asset the resolvers can emit. The
// asset handler uses it as an allowlist.
func Lookup(urlPath string) (Asset, bool) {
	catalogOnce.Do(buildCatalog)
	a, ok := catalog[urlPath]
	return a, ok
}

// Catalog returns every known asset sorted by path.
func Catalog() []Asset {
	catalogOnce.Do(buildCatalog)
	out := make([]Asset, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
