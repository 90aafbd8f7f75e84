package entities

// Rarity tiers, ordered from most to least common.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// RarityOrder lists tiers from common to legendary. Reward tables and
// adjacency shifts index into this slice.
var RarityOrder = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
}

// Index returns the tier's position in RarityOrder, or -1 for an unknown
// value.
func (r Rarity) Index() int {
	for i, tier := range RarityOrder {
		if tier == r {
			return i
		}
	}
	return -1
}

// IsValid reports whether r is one of the five known tiers.
func (r Rarity) IsValid() bool {
	return r.Index() >= 0
}

// Up returns the next tier above r, clamped at legendary.
func (r Rarity) Up() Rarity {
	idx := r.Index()
	if idx < 0 {
		return r
	}
	if idx+1 >= len(RarityOrder) {
		return RarityOrder[len(RarityOrder)-1]
	}
	return RarityOrder[idx+1]
}

// Down returns the next tier below r, clamped at common.
func (r Rarity) Down() Rarity {
	idx := r.Index()
	if idx <= 0 {
		return RarityOrder[0]
	}
	return RarityOrder[idx-1]
}
