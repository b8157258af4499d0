package markup

// headingStyles maps heading level to its presentation class. Levels 7 and 8
// are extra subdued tiers beyond what HTML headings offer; HeadingTag caps
// the structural element at h6 while the class keeps the finer tier.
var headingStyles = map[int]string{
	1: "text-4xl font-bold mb-6 text-white glow-text",
	2: "text-3xl font-bold mb-5 text-white",
	3: "text-2xl font-semibold mb-4 text-white",
	4: "text-xl font-semibold mb-3 text-white",
	5: "text-lg font-medium mb-3 text-white",
	6: "text-base font-medium mb-2 text-white",
	7: "text-sm font-medium mb-2 text-gray-300",
	8: "text-xs font-medium mb-2 text-gray-400",
}

// buttonVariants maps a button style variant key to its presentation class.
var buttonVariants = map[string]string{
	"primary":   "bg-blue-600 hover:bg-blue-700 text-white",
	"secondary": "bg-gray-600 hover:bg-gray-700 text-white",
	"success":   "bg-green-600 hover:bg-green-700 text-white",
	"danger":    "bg-red-600 hover:bg-red-700 text-white",
	"warning":   "bg-yellow-600 hover:bg-yellow-700 text-white",
	"info":      "bg-cyan-600 hover:bg-cyan-700 text-white",
	"light":     "bg-gray-100 hover:bg-gray-200 text-gray-900",
	"dark":      "bg-gray-900 hover:bg-gray-800 text-white",

	"gradient":        "bg-gradient-to-r from-purple-600 to-blue-600 hover:from-purple-700 hover:to-blue-700 text-white",
	"gradient-green":  "bg-gradient-to-r from-green-500 to-green-600 hover:from-green-600 hover:to-green-700 text-white",
	"gradient-orange": "bg-gradient-to-r from-orange-500 to-red-600 hover:from-orange-600 hover:to-red-700 text-white",
	"gradient-purple": "bg-gradient-to-r from-purple-500 to-pink-600 hover:from-purple-600 hover:to-pink-700 text-white",

	"outline":         "border-2 border-gray-300 hover:border-gray-400 text-gray-700 hover:bg-gray-50",
	"outline-primary": "border-2 border-blue-600 text-blue-600 hover:bg-blue-600 hover:text-white",
	"outline-success": "border-2 border-green-600 text-green-600 hover:bg-green-600 hover:text-white",
	"outline-danger":  "border-2 border-red-600 text-red-600 hover:bg-red-600 hover:text-white",
}

// buttonSizes maps a button size variant key to its presentation class.
var buttonSizes = map[string]string{
	"sm": "px-3 py-1.5 text-sm",
	"md": "px-4 py-2 text-base",
	"lg": "px-6 py-3 text-lg",
	"xl": "px-8 py-4 text-xl",
}

// HeadingStyle returns the presentation class for a heading level, falling
// back to the level 6 tier for out-of-range values.
func HeadingStyle(level int) string {
	if s, ok := headingStyles[level]; ok {
		return s
	}
	return headingStyles[6]
}

// HeadingTag returns the structural heading level, capped at 6.
func HeadingTag(level int) int {
	if level > 6 {
		return 6
	}
	if level < 1 {
		return 1
	}
	return level
}

// ButtonVariantStyle returns the presentation class for a style variant key,
// falling back to primary for unknown keys.
func ButtonVariantStyle(variant string) string {
	if s, ok := buttonVariants[variant]; ok {
		return s
	}
	return buttonVariants["primary"]
}

// ButtonSizeStyle returns the presentation class for a size variant key,
// falling back to md for unknown keys.
func ButtonSizeStyle(size string) string {
	if s, ok := buttonSizes[size]; ok {
		return s
	}
	return buttonSizes["md"]
}
