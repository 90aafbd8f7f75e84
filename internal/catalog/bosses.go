package catalog

import "strings"

// BossLeader is the named champion of one boss domain.
type BossLeader struct {
	Domain string
	Name   string
	Emoji  string
}

// BossLeaders lists every challengeable boss domain. Badge keys and
// cooldown keys on the player record use the Domain field.
var BossLeaders = []BossLeader{
	{Domain: "undead", Name: "Necrolord Vorath", Emoji: "💀"},
	{Domain: "fire", Name: "Ignar the Flame Titan", Emoji: "🔥"},
	{Domain: "ice", Name: "Frost Queen Lyria", Emoji: "❄️"},
	{Domain: "earth", Name: "Thoran the Mountain King", Emoji: "🌋"},
	{Domain: "holy", Name: "Seraphine the Radiant", Emoji: "🌟"},
	{Domain: "shadow", Name: "Umbra, Mistress of Night", Emoji: "🌑"},
	{Domain: "lightning", Name: "Tempest the Sky Tyrant", Emoji: "⚡"},
	{Domain: "air", Name: "Zephyra, Storm Sovereign", Emoji: "🌪️"},
	{Domain: "water", Name: "Tidebreaker Kael'nar", Emoji: "💧"},
	{Domain: "nature", Name: "Eldros, Guardian of the Wilds", Emoji: "🌿"},
	{Domain: "arcane", Name: "Magus Eternis", Emoji: "🔮"},
}

// BossLeaderFor resolves a domain name to its leader.
func BossLeaderFor(domain string) (BossLeader, bool) {
	for _, leader := range BossLeaders {
		if strings.EqualFold(leader.Domain, domain) {
			return leader, true
		}
	}
	return BossLeader{}, false
}

var relicsByHero = map[string]string{
	"Aurelia":   "Relic of Radiant Souls",
	"Umbra":     "Relic of Abyssal Souls",
	"Ignis":     "Relic of Infernal Souls",
	"Frostbane": "Relic of Frozen Souls",
	"Zephyra":   "Relic of Skybound Souls",
}

// RelicFor returns the relic item dropped by a legendary hero, if any.
func RelicFor(heroName string) (string, bool) {
	for hero, relic := range relicsByHero {
		if strings.EqualFold(hero, heroName) {
			return relic, true
		}
	}
	return "", false
}

// HeroForRelic returns the legendary hero a relic summons. It accepts the
// bare relic name or its "Filled " form.
func HeroForRelic(item string) (string, bool) {
	name := strings.TrimSpace(item)
	name = strings.TrimPrefix(name, "Filled ")
	for hero, relic := range relicsByHero {
		if strings.EqualFold(relic, name) {
			return hero, true
		}
	}
	return "", false
}

// FilledRelicName returns the bag name of a relic once its charge completes.
func FilledRelicName(relic string) string {
	return "Filled " + relic
}
