package catalog

import (
	"strings"
)

type CategoryName string

const (
	CategoryPlanet          CategoryName = "Planet"
	CategoryMoon            CategoryName = "Moon"
	CategoryGalaxy          CategoryName = "Galaxy"
	CategoryNebula          CategoryName = "Nebula"
	CategoryAsteroid        CategoryName = "Asteroid"
	CategoryGlobularCluster CategoryName = "Globular Cluster"
	CategoryOuterPlanet     CategoryName = "Outer Planet"
)

// Categories is the fixed category set, in seed order
var Categories = []CategoryName{
	CategoryPlanet,
	CategoryMoon,
	CategoryGalaxy,
	CategoryNebula,
	CategoryAsteroid,
	CategoryGlobularCluster,
	CategoryOuterPlanet,
}

// DefaultKeyword is used for items that come without keywords
const DefaultKeyword = "Objet Céleste"

var (
	planetNames = nameSet(
		"mercury", "mercure", "venus", "vénus", "earth", "terre", "mars",
		"jupiter", "saturn", "saturne", "uranus", "neptune", "pluto", "pluton",
	)
	moonNames = nameSet(
		"moon", "lune", "io", "europa", "europe", "ganymede", "ganymède",
		"callisto", "titan", "enceladus", "encelade", "triton", "phobos", "deimos",
	)
	smallBodyNames = nameSet(
		"ceres", "cérès", "vesta", "eris", "éris", "pallas", "hygiea", "bennu",
		"ryugu", "halley", "eros", "ida",
	)
)

func nameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Classify maps a display name and a type keyword to a catalog category.
// Matching is case-insensitive and the result is always one of Categories:
// stars and anything unrecognised fall into Planet.
func Classify(displayName, typeKeyword string) CategoryName {
	name := strings.ToLower(strings.TrimSpace(displayName))
	keyword := strings.ToLower(typeKeyword)

	switch {
	case strings.Contains(keyword, "planet") || inSet(planetNames, name):
		return CategoryPlanet
	case strings.Contains(keyword, "moon") || strings.Contains(keyword, "satellite") || inSet(moonNames, name):
		return CategoryMoon
	case strings.Contains(keyword, "star"):
		return CategoryPlanet
	case strings.Contains(keyword, "asteroid") || strings.Contains(keyword, "comet") || inSet(smallBodyNames, name):
		return CategoryAsteroid
	default:
		return CategoryPlanet
	}
}

func inSet(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}
