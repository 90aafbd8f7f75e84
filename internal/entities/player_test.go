package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/heroes-api/internal/entities"
)

func TestBag_CaseInsensitiveMerge(t *testing.T) {
	p := &entities.PlayerRecord{}

	p.BagAdd("Potion", 3)
	p.BagAdd("potion", 2)

	assert.Equal(t, 5, p.BagCount("POTION"))
	assert.Len(t, p.Bag, 1)
}

func TestBagRemove(t *testing.T) {
	p := &entities.PlayerRecord{Bag: map[string]int{"Contract": 2}}

	assert.False(t, p.BagRemove("contract", 3))
	assert.Equal(t, 2, p.BagCount("Contract"))

	assert.True(t, p.BagRemove("contract", 2))
	assert.Equal(t, 0, p.BagCount("Contract"))
	assert.NotContains(t, p.Bag, "Contract")
}

func TestFindEntity_PrefixMatch(t *testing.T) {
	p := &entities.PlayerRecord{
		Roster: []*entities.Entity{
			{InstanceID: "h3f92c1d04", Name: "Damon"},
			{InstanceID: "h3a11b2c33", Name: "Ivy"},
		},
	}

	assert.Equal(t, "Damon", p.FindEntity("h3f92c1d04").Name)
	assert.Equal(t, "Damon", p.FindEntity("h3f9").Name)
	assert.Equal(t, "Ivy", p.FindEntity("h3a").Name)

	// ambiguous prefix resolves to nothing
	assert.Nil(t, p.FindEntity("h3"))
	assert.Nil(t, p.FindEntity("zzz"))
}

func TestTeam_SkipsStaleIDs(t *testing.T) {
	p := &entities.PlayerRecord{
		Roster:     []*entities.Entity{{InstanceID: "haaaa00000", Name: "Rilon"}},
		ActiveTeam: []string{"haaaa00000", "hgone11111"},
	}

	team := p.Team()
	assert.Len(t, team, 1)
	assert.Equal(t, "Rilon", team[0].Name)
}

func TestEntity_MovesFallback(t *testing.T) {
	e := &entities.Entity{}

	moves := e.Moves()
	assert.Len(t, moves, 1)
	assert.Equal(t, "Strike", moves[0].Name)
	assert.Equal(t, 40, moves[0].Power)

	_, ok := e.FindMove("strike")
	assert.True(t, ok)
}

func TestRarity_Adjacency(t *testing.T) {
	assert.Equal(t, entities.RarityUncommon, entities.RarityCommon.Up())
	assert.Equal(t, entities.RarityCommon, entities.RarityCommon.Down())
	assert.Equal(t, entities.RarityLegendary, entities.RarityLegendary.Up())
	assert.Equal(t, entities.RarityEpic, entities.RarityLegendary.Down())
	assert.Equal(t, 2, entities.RarityRare.Index())
	assert.False(t, entities.Rarity("mythic").IsValid())
}
