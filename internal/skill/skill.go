// ABOUTME: Skill identifiers that trackers measure and level prefixes are read from
// ABOUTME: Includes display colours and text (un)marshalling for config files

package skill

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSkill is returned when a skill name cannot be parsed.
var ErrUnknownSkill = errors.New("unknown skill")

// Skill identifies an in-game skill, the overall total, or a custom
// user-defined quantity.
type Skill int

const (
	Overall Skill = iota
	Attack
	Defence
	Strength
	Hitpoints
	Ranged
	Prayer
	Magic
	Cooking
	Woodcutting
	Fletching
	Fishing
	Firemaking
	Crafting
	Smithing
	Mining
	Herblore
	Agility
	Thieving
	Slayer
	Farming
	Runecraft
	Hunter
	Construction
	Custom
)

var names = [...]string{
	Overall:      "overall",
	Attack:       "attack",
	Defence:      "defence",
	Strength:     "strength",
	Hitpoints:    "hitpoints",
	Ranged:       "ranged",
	Prayer:       "prayer",
	Magic:        "magic",
	Cooking:      "cooking",
	Woodcutting:  "woodcutting",
	Fletching:    "fletching",
	Fishing:      "fishing",
	Firemaking:   "firemaking",
	Crafting:     "crafting",
	Smithing:     "smithing",
	Mining:       "mining",
	Herblore:     "herblore",
	Agility:      "agility",
	Thieving:     "thieving",
	Slayer:       "slayer",
	Farming:      "farming",
	Runecraft:    "runecraft",
	Hunter:       "hunter",
	Construction: "construction",
	Custom:       "custom",
}

// Hex display colours, matching the in-game skill icon palette.
var colors = [...]string{
	Overall:      "#D0CE62",
	Attack:       "#9B2020",
	Defence:      "#6277BE",
	Strength:     "#04955A",
	Hitpoints:    "#AAAAAA",
	Ranged:       "#6D9017",
	Prayer:       "#9F9F9F",
	Magic:        "#3231B2",
	Cooking:      "#703281",
	Woodcutting:  "#348C25",
	Fletching:    "#038D7D",
	Fishing:      "#6A84A4",
	Firemaking:   "#BD781E",
	Crafting:     "#976E4D",
	Smithing:     "#6C6C5C",
	Mining:       "#5D8FA7",
	Herblore:     "#078509",
	Agility:      "#3A3C89",
	Thieving:     "#6C3457",
	Slayer:       "#646464",
	Farming:      "#65983F",
	Runecraft:    "#AA8D1A",
	Hunter:       "#5C5941",
	Construction: "#827E6D",
	Custom:       "#FF0000",
}

// All returns every skill in display order.
func All() []Skill {
	out := make([]Skill, 0, len(names))
	for s := Overall; s <= Custom; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is a known skill.
func (s Skill) Valid() bool {
	return s >= Overall && s <= Custom
}

// String returns the lowercase skill name.
func (s Skill) String() string {
	if !s.Valid() {
		return fmt.Sprintf("skill(%d)", int(s))
	}
	return names[s]
}

// DisplayName returns the capitalised skill name.
func (s Skill) DisplayName() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Color returns the skill's hex display colour.
func (s Skill) Color() string {
	if !s.Valid() {
		return colors[Custom]
	}
	return colors[s]
}

// UsesTotalLevel reports whether levels for s come from the total level
// rather than a single skill.
func (s Skill) UsesTotalLevel() bool {
	return s == Overall || s == Custom
}

// Parse converts a case-insensitive skill name.
func Parse(name string) (Skill, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range names {
		if candidate == n {
			return Skill(i), nil
		}
	}
	return Overall, fmt.Errorf("%w: %q", ErrUnknownSkill, name)
}

// MarshalText implements encoding.TextMarshaler so skills read naturally in
// YAML and TOML files.
func (s Skill) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSkill, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Skill) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
