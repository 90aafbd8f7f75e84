// Package catalog holds the immutable static game data: hero and monster
// templates, consumable items, chest keys, and crafting materials. A Catalog
// is loaded once at startup and injected wherever template or item lookups
// are needed.
package catalog

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
)

// Skill is one raw skill row on a template. Power and accuracy come from
// authored data as strings and may be non numeric ("-" marks a support
// move), so parsing lives on the accessors.
type Skill struct {
	Name     string `json:"skill"`
	Type     string `json:"type"`
	Power    string `json:"power"`
	Accuracy string `json:"acc."`
	Unlock   string `json:"lv."`
}

// PowerValue returns the parsed power and whether the skill has one at all.
// Non numeric power marks a support move.
func (s Skill) PowerValue() (int, bool) {
	v, ok := parseInt(s.Power)
	return v, ok
}

// AccuracyValue returns the parsed accuracy percentage, defaulting to 100.
// A trailing percent sign is tolerated.
func (s Skill) AccuracyValue() int {
	raw := strings.TrimSuffix(strings.TrimSpace(s.Accuracy), "%")
	if v, ok := parseInt(raw); ok {
		return v
	}
	return 100
}

// UnlockLevel returns the level at which the skill becomes usable,
// defaulting to 1 when unparseable.
func (s Skill) UnlockLevel() int {
	if v, ok := parseInt(s.Unlock); ok {
		return v
	}
	return 1
}

// Move converts the skill into a usable combat move.
func (s Skill) Move() entities.Move {
	power, hasPower := s.PowerValue()
	dmgType := entities.DamagePhysical
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "magical", "magic":
		dmgType = entities.DamageMagical
	case "support", "status":
		dmgType = entities.DamageSupport
	}
	if !hasPower {
		dmgType = entities.DamageSupport
	}
	return entities.Move{
		Name:     s.Name,
		Type:     dmgType,
		Power:    power,
		HasPower: hasPower,
		Accuracy: s.AccuracyValue(),
	}
}

// Template is one hero or monster base definition.
type Template struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Class   string          `json:"class,omitempty"`
	Element string          `json:"element"`
	Rarity  entities.Rarity `json:"rarity"`
	Stats   entities.Stats  `json:"stats"`
	Skills  []Skill         `json:"skills"`
	Sprite  string          `json:"sprite,omitempty"`
	Types   []string        `json:"types,omitempty"`
}

// HasType reports whether the template carries a domain tag, matched
// case-insensitively. Boss teams are assembled from domain-tagged monsters.
func (t *Template) HasType(tag string) bool {
	for _, typ := range t.Types {
		if strings.EqualFold(typ, tag) {
			return true
		}
	}
	return false
}

// Item is one purchasable or droppable non-material item.
type Item struct {
	Name    string `json:"name"`
	Price   int    `json:"price,omitempty"`
	Sell    int    `json:"sell,omitempty"`
	Special string `json:"special,omitempty"`
}

// Material is one element-and-tier-indexed crafting drop.
type Material struct {
	Name string `json:"name"`
	Sell int    `json:"sell,omitempty"`
}

// Catalog is the loaded, indexed game data. All maps are built once by New
// and never mutated afterward.
type Catalog struct {
	heroes   []*Template
	monsters []*Template
	byID     map[string]*Template

	heroesByRarity   map[entities.Rarity][]*Template
	monstersByRarity map[entities.Rarity][]*Template

	consumables    map[string]Item
	consumableList []Item
	keys           map[string]Item
	keyList        []Item

	// materials indexes element (lowercase) -> rarity -> names
	materials map[string]map[entities.Rarity][]Material
	elements  []string
}

// New builds an indexed catalog from already-decoded data. Load is the file
// based entry point; tests call New directly.
func New(heroes, monsters []*Template, consumables, keys []Item, materials map[string]map[entities.Rarity][]Material) (*Catalog, error) {
	c := &Catalog{
		heroes:           heroes,
		monsters:         monsters,
		byID:             make(map[string]*Template),
		heroesByRarity:   make(map[entities.Rarity][]*Template),
		monstersByRarity: make(map[entities.Rarity][]*Template),
		consumables:      make(map[string]Item),
		keys:             make(map[string]Item),
		materials:        make(map[string]map[entities.Rarity][]Material),
	}

	for _, t := range heroes {
		if t.ID == "" {
			return nil, errors.InvalidArgumentf("hero template %q has no id", t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, errors.InvalidArgumentf("duplicate template id %q", t.ID)
		}
		c.byID[t.ID] = t
		c.heroesByRarity[t.Rarity] = append(c.heroesByRarity[t.Rarity], t)
	}
	for _, t := range monsters {
		if t.ID == "" {
			return nil, errors.InvalidArgumentf("monster template %q has no id", t.Name)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, errors.InvalidArgumentf("duplicate template id %q", t.ID)
		}
		c.byID[t.ID] = t
		c.monstersByRarity[t.Rarity] = append(c.monstersByRarity[t.Rarity], t)
	}

	for _, item := range consumables {
		c.consumables[strings.ToLower(item.Name)] = item
		c.consumableList = append(c.consumableList, item)
	}
	for _, item := range keys {
		c.keys[strings.ToLower(item.Name)] = item
		c.keyList = append(c.keyList, item)
	}

	for elem, tiers := range materials {
		key := strings.ToLower(elem)
		c.materials[key] = tiers
		c.elements = append(c.elements, key)
	}
	sort.Strings(c.elements)

	return c, nil
}

// Template returns a template by id.
func (c *Catalog) Template(id string) (*Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// HeroByName looks a hero template up by display name, case-insensitively.
func (c *Catalog) HeroByName(name string) (*Template, bool) {
	for _, t := range c.heroes {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

// Pool returns the templates of one kind and rarity. The returned slice is
// shared and must not be mutated.
func (c *Catalog) Pool(kind entities.Kind, rarity entities.Rarity) []*Template {
	if kind == entities.KindMonster {
		return c.monstersByRarity[rarity]
	}
	return c.heroesByRarity[rarity]
}

// MonstersTagged returns all monsters carrying the given domain tag.
func (c *Catalog) MonstersTagged(tag string) []*Template {
	var out []*Template
	for _, t := range c.monsters {
		if t.HasType(tag) {
			out = append(out, t)
		}
	}
	return out
}

// Consumables returns all shop consumables in load order.
func (c *Catalog) Consumables() []Item {
	return c.consumableList
}

// Consumable looks up a shop consumable by name.
func (c *Catalog) Consumable(name string) (Item, bool) {
	item, ok := c.consumables[strings.ToLower(name)]
	return item, ok
}

// Key looks up a chest key by name.
func (c *Catalog) Key(name string) (Item, bool) {
	item, ok := c.keys[strings.ToLower(name)]
	return item, ok
}

// ChestKeys returns all purchasable chest keys in load order.
func (c *Catalog) ChestKeys() []Item {
	return c.keyList
}

// SearchMaterials returns every material whose name contains the query,
// case-insensitively, ordered by element then tier.
func (c *Catalog) SearchMaterials(query string) []Material {
	q := strings.ToLower(query)
	var out []Material
	for _, elem := range c.elements {
		for _, tier := range entities.RarityOrder {
			for _, m := range c.materials[elem][tier] {
				if strings.Contains(strings.ToLower(m.Name), q) {
					out = append(out, m)
				}
			}
		}
	}
	return out
}

// Materials returns the material pool for an element and tier. When the
// element is unknown it falls back to the first loaded element table, and
// when the tier is empty it falls back to every tier of that element.
func (c *Catalog) Materials(element string, rarity entities.Rarity) []Material {
	table, ok := c.materials[strings.ToLower(element)]
	if !ok {
		if len(c.elements) == 0 {
			return nil
		}
		table = c.materials[c.elements[0]]
	}

	if pool := table[rarity]; len(pool) > 0 {
		return pool
	}

	var all []Material
	for _, tier := range entities.RarityOrder {
		all = append(all, table[tier]...)
	}
	return all
}

// MaterialSellPrice returns the sell value of a material by name, across
// all elements and tiers.
func (c *Catalog) MaterialSellPrice(name string) (int, bool) {
	for _, tiers := range c.materials {
		for _, pool := range tiers {
			for _, m := range pool {
				if strings.EqualFold(m.Name, name) {
					return m.Sell, true
				}
			}
		}
	}
	return 0, false
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
