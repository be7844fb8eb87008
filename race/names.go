package race

import (
	"fmt"
	"math/rand"
)

var namePrefixes = []string{
	"Midnight", "Thunder", "Silver", "Lucky", "Copper", "Northern",
	"Velvet", "Rolling", "Iron", "Golden", "Whiskey", "Stormy",
	"Crimson", "Dusty", "Wild", "Noble",
}

var nameSuffixes = []string{
	"Arrow", "Dancer", "Comet", "Charm", "Gallop", "Breeze",
	"Strider", "Fortune", "Blaze", "Runner", "Spirit", "Drifter",
}

var silkColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff",
}

// randomName draws a two-part horse name. Uniqueness is not enforced;
// duplicates are rare and harmless.
func randomName(rng *rand.Rand) string {
	prefix := namePrefixes[rng.Intn(len(namePrefixes))]
	suffix := nameSuffixes[rng.Intn(len(nameSuffixes))]
	return fmt.Sprintf("%s %s", prefix, suffix)
}

// silkColor returns the silk color for a lane, cycling when the field
// outgrows the palette.
func silkColor(lane int) string {
	return silkColors[lane%len(silkColors)]
}
