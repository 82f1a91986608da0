package positions

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/GeekNeuron/OpenPos/internal/domain"
)

// SortKey selects the ordering applied to the display list
type SortKey string

// Supported sort keys
const (
	SortDefault        SortKey = "default"
	SortSymbolAsc      SortKey = "symbol-asc"
	SortSymbolDesc     SortKey = "symbol-desc"
	SortEntryPriceAsc  SortKey = "entryPrice-asc"
	SortEntryPriceDesc SortKey = "entryPrice-desc"
	SortTimestampAsc   SortKey = "timestamp-asc"
	SortTimestampDesc  SortKey = "timestamp-desc"
)

// SortKeys lists every sort key in menu order
var SortKeys = []SortKey{
	SortDefault,
	SortSymbolAsc,
	SortSymbolDesc,
	SortEntryPriceAsc,
	SortEntryPriceDesc,
	SortTimestampAsc,
	SortTimestampDesc,
}

// ParseSortKey returns the matching key, or SortDefault and false for unknown input
func ParseSortKey(s string) (SortKey, bool) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, true
		}
	}
	return SortDefault, false
}

// Next cycles to the following sort key
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortDefault
}

// Sorter orders positions, comparing symbols with the collation rules of a language
type Sorter struct {
	tag language.Tag
}

// NewSorter creates a sorter for the given language tag
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{tag: tag}
}

// SorterFor parses a BCP 47 language code, falling back to English
func SorterFor(lang string) *Sorter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return NewSorter(tag)
}

// Sort orders positions using English collation. See Sorter.Sort.
func Sort(list []domain.Position, key SortKey) []domain.Position {
	return NewSorter(language.English).Sort(list, key)
}

// Sort returns a sorted copy of list. The sort is stable: ties keep their
// input order in both directions. Missing or NaN numbers sort as zero.
// Unknown keys behave like SortDefault.
func (s *Sorter) Sort(list []domain.Position, key SortKey) []domain.Position {
	out := make([]domain.Position, len(list))
	copy(out, list)

	var cmp func(a, b domain.Position) int
	desc := false

	switch key {
	case SortSymbolAsc, SortSymbolDesc:
		// collate.Collator keeps internal buffers, one per call
		c := collate.New(s.tag)
		cmp = func(a, b domain.Position) int { return c.CompareString(a.Symbol, b.Symbol) }
		desc = key == SortSymbolDesc
	case SortEntryPriceAsc, SortEntryPriceDesc:
		cmp = func(a, b domain.Position) int { return compareFloat(numeric(a.EntryPrice), numeric(b.EntryPrice)) }
		desc = key == SortEntryPriceDesc
	case SortTimestampAsc, SortTimestampDesc:
		cmp = func(a, b domain.Position) int { return compareFloat(timestamp(a), timestamp(b)) }
		desc = key == SortTimestampDesc
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return cmp(out[j], out[i]) < 0
		}
		return cmp(out[i], out[j]) < 0
	})
	return out
}

func numeric(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func timestamp(p domain.Position) float64 {
	if p.Timestamp == nil {
		return 0
	}
	return numeric(*p.Timestamp)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
