package format

// Bullet is returned for icon keys outside the known set.
const Bullet = "•"

var icons = map[string]string{
	"bed":    "🛏️",
	"bath":   "🛁",
	"area":   "📐",
	"park":   "🚗",
	"pin":    "📍",
	"bolt":   "⚡",
	"shield": "🛡️",
	"doc":    "📄",
	"phone":  "📞",
	"mail":   "✉️",
}

// IconFor maps a semantic key to its glyph.
func IconFor(key string) string {
	if glyph, ok := icons[key]; ok {
		return glyph
	}
	return Bullet
}
