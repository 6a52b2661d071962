package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

// RegionModel holds the regions of one slide. It is built once at ingestion
// and never written afterwards: accessors hand out copies.
type RegionModel struct {
	regions []domain.Region
	index   map[string]int
}

// NewRegionModel ingests regions from an analysis result.
// Kinds are normalised, layouts are assigned from the kind, missing IDs are
// generated and duplicate IDs are suffixed so every ID is unique on the slide.
// Regions with malformed geometry are kept; the compositor skips them.
func NewRegionModel(regions []domain.Region) *RegionModel {
	m := &RegionModel{
		regions: make([]domain.Region, 0, len(regions)),
		index:   make(map[string]int, len(regions)),
	}
	for i, r := range regions {
		r = copyRegion(r)
		r.Kind = domain.ParseRegionKind(string(r.Kind))
		r.Layout = domain.LayoutForKind(r.Kind)

		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = fmt.Sprintf("%s-%d", strings.ToLower(string(r.Kind)), i+1)
		}
		base := id
		for n := 2; ; n++ {
			if _, taken := m.index[id]; !taken {
				break
			}
			id = fmt.Sprintf("%s-%d", base, n)
		}
		r.ID = id

		m.index[id] = len(m.regions)
		m.regions = append(m.regions, r)
	}
	return m
}

// Len returns the number of regions.
func (m *RegionModel) Len() int {
	return len(m.regions)
}

// Regions returns copies of every region in ingestion order.
func (m *RegionModel) Regions() []domain.Region {
	out := make([]domain.Region, len(m.regions))
	for i, r := range m.regions {
		out[i] = copyRegion(r)
	}
	return out
}

// Region returns a copy of the region with the given ID.
func (m *RegionModel) Region(id string) (domain.Region, bool) {
	i, ok := m.index[id]
	if !ok {
		return domain.Region{}, false
	}
	return copyRegion(m.regions[i]), true
}

// ByKind returns copies of every region of a kind.
func (m *RegionModel) ByKind(kind domain.RegionKind) []domain.Region {
	var out []domain.Region
	for _, r := range m.regions {
		if r.Kind == kind {
			out = append(out, copyRegion(r))
		}
	}
	return out
}

// Resolve maps a patch key to region IDs. A key naming a region ID wins;
// otherwise the key is read as a region kind and matches every region of it.
func (m *RegionModel) Resolve(key string) []string {
	if _, ok := m.index[key]; ok {
		return []string{key}
	}
	kind := domain.RegionKind(strings.ToUpper(strings.TrimSpace(key)))
	if !kind.IsValid() {
		return nil
	}
	var ids []string
	for _, r := range m.regions {
		if r.Kind == kind {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// ForType returns the content bound to a region, or its default:
// an empty string, a placeholder list of empty items for list regions,
// or nothing for regions that hold no text.
func ForType(region domain.Region, binding domain.ContentBinding) domain.Content {
	if c, ok := binding[region.ID]; ok {
		return c.AsLayout(region.Layout)
	}
	switch region.Layout {
	case domain.LayoutList:
		return domain.ListContent(make([]string, domain.PlaceholderItemCount)...)
	case domain.LayoutNone:
		return domain.Content{}
	default:
		return domain.TextContent("")
	}
}

// BudgetFor returns the region's character budget. The boolean is false for
// unbounded regions, which are not validated and show no counter.
func BudgetFor(region domain.Region) (int, bool) {
	if region.BudgetChars <= 0 {
		return 0, false
	}
	return region.BudgetChars, true
}

func copyRegion(r domain.Region) domain.Region {
	if r.Position != nil {
		p := *r.Position
		r.Position = &p
	}
	return r
}
