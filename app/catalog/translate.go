package catalog

var frenchNames = map[string]string{
	"Sun":       "Soleil",
	"Mercury":   "Mercure",
	"Venus":     "Vénus",
	"Earth":     "Terre",
	"Mars":      "Mars",
	"Jupiter":   "Jupiter",
	"Saturn":    "Saturne",
	"Uranus":    "Uranus",
	"Neptune":   "Neptune",
	"Pluto":     "Pluton",
	"Moon":      "Lune",
	"Ceres":     "Cérès",
	"Eris":      "Éris",
	"Titan":     "Titan",
	"Io":        "Io",
	"Europa":    "Europe",
	"Ganymede":  "Ganymède",
	"Callisto":  "Callisto",
	"Enceladus": "Encelade",
	"Triton":    "Triton",
	"Phobos":    "Phobos",
	"Deimos":    "Deimos",
	"Vesta":     "Vesta",
}

// TranslateName returns the French name of a well-known body, or the English
// name unchanged when there is no translation.
func TranslateName(english string) string {
	if french, ok := frenchNames[english]; ok {
		return french
	}
	return english
}
