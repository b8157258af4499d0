package markup

// knownIcons is the set of icon names the renderer ships glyphs for. Tokens
// naming anything else get the Missing flag and render as a fallback marker.
var knownIcons = map[string]struct{}{
	// Basic
	"gift": {}, "check": {}, "check-green": {}, "check-circle": {},
	"star": {}, "download": {}, "play": {}, "heart": {}, "zap": {},
	"shield": {}, "crown": {}, "sparkles": {}, "trophy": {}, "target": {},
	"rocket": {}, "fire": {}, "diamond": {}, "gem": {}, "award": {},
	"medal": {}, "flag": {},

	// Security and access
	"lock": {}, "unlock": {}, "eye": {},

	// Time and calendar
	"clock": {}, "calendar": {},

	// Communication
	"mail": {}, "phone": {}, "globe": {}, "message": {}, "send": {},

	// Users
	"user": {}, "users": {},

	// Interface
	"settings": {}, "info": {}, "alert": {}, "alert-circle": {},
	"x-circle": {}, "plus": {}, "minus": {},

	// Arrows
	"arrow-right": {}, "arrow-left": {}, "arrow-up": {}, "arrow-down": {},

	// Links and sharing
	"external-link": {}, "link": {}, "copy": {}, "share": {}, "bookmark": {},

	// Social
	"thumbs-up": {}, "thumbs-down": {},

	// Search and filter
	"search": {}, "filter": {}, "sort": {}, "grid": {}, "list": {},

	// Media
	"image": {}, "video": {}, "music": {}, "camera": {}, "mic": {},

	// Files
	"file-text": {}, "file": {}, "folder": {}, "save": {}, "edit": {},
	"trash": {},

	// System
	"refresh": {}, "power": {}, "wifi": {}, "battery": {}, "volume": {},

	// Location
	"map-pin": {}, "navigation": {}, "compass": {},

	// Buildings and transport
	"home": {}, "building": {}, "car": {}, "plane": {}, "ship": {},
	"train": {}, "bike": {},

	// Food and shopping
	"coffee": {}, "pizza": {}, "shopping-cart": {}, "cart": {},

	// Finance
	"credit-card": {}, "card": {}, "dollar": {}, "money": {},
	"trending-up": {}, "trending-down": {}, "bar-chart": {}, "pie-chart": {},
	"activity": {},

	// Technology
	"cpu": {}, "hard-drive": {}, "smartphone": {}, "laptop": {},
	"monitor": {}, "printer": {}, "headphones": {}, "gamepad": {},

	// Education and work
	"book": {}, "book-open": {}, "graduation-cap": {}, "briefcase": {},

	// Tools
	"tool": {}, "wrench": {}, "hammer": {}, "scissors": {},

	// Art and design
	"paintbrush": {}, "palette": {}, "brush": {}, "pen": {}, "pencil": {},
	"eraser": {}, "ruler": {}, "calculator": {},

	// Light and weather
	"lightbulb": {}, "bulb": {}, "sun": {}, "moon": {}, "cloud": {},
	"cloud-rain": {}, "rain": {}, "snowflake": {}, "snow": {}, "umbrella": {},

	// Nature
	"tree": {}, "flower": {}, "leaf": {},

	// Animals
	"bug": {}, "fish": {}, "bird": {}, "cat": {}, "dog": {}, "rabbit": {},
	"bear": {}, "lion": {}, "elephant": {}, "turtle": {}, "butterfly": {},
	"bee": {}, "spider": {}, "ant": {},
}

// IsKnownIcon reports whether name has a glyph in the renderer's icon set.
func IsKnownIcon(name string) bool {
	_, ok := knownIcons[name]
	return ok
}
