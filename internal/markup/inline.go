package markup

import (
	"regexp"
	"strconv"
	"strings"
)

// SpanType identifies the kind of an inline span.
type SpanType string

const (
	SpanText   SpanType = "text"
	SpanLink   SpanType = "link"
	SpanIcon   SpanType = "icon"
	SpanButton SpanType = "button"
)

// Span is one run of text or an embedded widget within a block, in
// left-to-right order.
type Span struct {
	Type SpanType `json:"type"`

	// Text span fields.
	Text   string `json:"text,omitempty"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Code   bool   `json:"code,omitempty"`

	// Link span fields.
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`

	Icon   *IconSpan   `json:"icon,omitempty"`
	Button *ButtonSpan `json:"button,omitempty"`
}

// IconSpan is an inline icon widget. Missing is set when the icon name is
// not in the recognized set; renderers show a fallback marker instead.
type IconSpan struct {
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	SizeUnits int    `json:"size_units"`
	Missing   bool   `json:"missing,omitempty"`
}

// defaultIconSize is the icon size in layout units when no size key is given.
const defaultIconSize = 5

// ButtonSpan is an inline action button widget. Variant and Size hold the
// raw keys from the token; style lookup falls back to primary/md for
// unknown values.
type ButtonSpan struct {
	Label    string `json:"label"`
	Variant  string `json:"variant"`
	Size     string `json:"size"`
	URL      string `json:"url,omitempty"`
	NewTab   bool   `json:"new_tab,omitempty"`
	IconName string `json:"icon_name,omitempty"`
}

var (
	iconTokenRe   = regexp.MustCompile(`\{icon:([^}]+)\}`)
	buttonTokenRe = regexp.MustCompile(`\{button:([^}]+)\}`)
)

// parseInline scans a line's text left to right, splitting out icon and
// button tokens and applying the formatting passes to the plain text between
// them. Icon tokens are matched before button tokens; a token with no
// closing brace never matches and stays literal text.
func parseInline(text string) []Span {
	var spans []Span
	remaining := text

	for len(remaining) > 0 {
		if loc := iconTokenRe.FindStringSubmatchIndex(remaining); loc != nil {
			if before := remaining[:loc[0]]; before != "" {
				spans = append(spans, formatText(before)...)
			}
			spans = append(spans, parseIconToken(remaining[loc[2]:loc[3]]))
			remaining = remaining[loc[1]:]
			continue
		}

		if loc := buttonTokenRe.FindStringSubmatchIndex(remaining); loc != nil {
			if before := remaining[:loc[0]]; before != "" {
				spans = append(spans, formatText(before)...)
			}
			spans = append(spans, parseButtonToken(remaining[loc[2]:loc[3]]))
			remaining = remaining[loc[1]:]
			continue
		}

		spans = append(spans, formatText(remaining)...)
		break
	}

	return spans
}

// parseIconToken parses the body of an {icon:...} token: a name followed by
// optional comma-separated key=value pairs. Only color and size keys are
// recognized; anything else is ignored.
func parseIconToken(body string) Span {
	params := strings.Split(body, ",")
	name := strings.TrimSpace(params[0])

	icon := &IconSpan{Name: name, SizeUnits: defaultIconSize}

	for _, param := range params[1:] {
		param = strings.TrimSpace(param)
		switch {
		case strings.HasPrefix(param, "color="):
			icon.Color = strings.TrimPrefix(param, "color=")
		case strings.HasPrefix(param, "size="):
			if n, err := strconv.Atoi(strings.TrimPrefix(param, "size=")); err == nil {
				icon.SizeUnits = n
			}
		}
	}

	if !IsKnownIcon(name) {
		icon.Missing = true
	}

	return Span{Type: SpanIcon, Icon: icon}
}

// parseButtonToken parses the body of a {button:...} token: comma-separated
// key=value pairs. Unrecognized keys are ignored; missing keys take their
// documented defaults. A color key overrides type as the style variant.
func parseButtonToken(body string) Span {
	btn := &ButtonSpan{
		Label:   "Button",
		Variant: "primary",
		Size:    "md",
	}

	variantFromColor := false
	for _, param := range strings.Split(body, ",") {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}

		switch key {
		case "text":
			btn.Label = value
		case "color":
			btn.Variant = value
			variantFromColor = true
		case "type":
			if !variantFromColor {
				btn.Variant = value
			}
		case "size":
			btn.Size = value
		case "link":
			btn.URL = value
		case "icon":
			btn.IconName = value
		case "target":
			btn.NewTab = value == "_blank"
		}
	}

	return Span{Type: SpanButton, Button: btn}
}

// The formatting passes run in fixed order over text not yet claimed by an
// earlier pass: bold, italic, code, link. They are independent non-nesting
// substitutions, so a bold run containing markers of a later pass keeps them
// as literal characters.
var (
	boldStarRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnderRe   = regexp.MustCompile(`__(.*?)__`)
	italicStarRe  = regexp.MustCompile(`\*(.*?)\*`)
	italicUnderRe = regexp.MustCompile(`_(.*?)_`)
	codeRe        = regexp.MustCompile("`(.*?)`")
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// formatText applies the ordered formatting passes to a plain-text run and
// returns the resulting span sequence.
func formatText(text string) []Span {
	spans := []Span{{Type: SpanText, Text: text}}

	spans = applyPass(spans, boldStarRe, func(m []string) Span {
		return Span{Type: SpanText, Text: m[1], Bold: true}
	})
	spans = applyPass(spans, boldUnderRe, func(m []string) Span {
		return Span{Type: SpanText, Text: m[1], Bold: true}
	})
	spans = applyPass(spans, italicStarRe, func(m []string) Span {
		return Span{Type: SpanText, Text: m[1], Italic: true}
	})
	spans = applyPass(spans, italicUnderRe, func(m []string) Span {
		return Span{Type: SpanText, Text: m[1], Italic: true}
	})
	spans = applyPass(spans, codeRe, func(m []string) Span {
		return Span{Type: SpanText, Text: m[1], Code: true}
	})
	spans = applyPass(spans, linkRe, func(m []string) Span {
		return Span{Type: SpanLink, Label: m[1], URL: m[2]}
	})

	return spans
}

// applyPass splits every still-plain text span on the given pattern,
// replacing each match with the span built by mk. Spans claimed by earlier
// passes are left untouched.
func applyPass(spans []Span, re *regexp.Regexp, mk func(match []string) Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Type != SpanText || s.Bold || s.Italic || s.Code {
			out = append(out, s)
			continue
		}

		text := s.Text
		for {
			loc := re.FindStringSubmatchIndex(text)
			if loc == nil {
				break
			}
			if before := text[:loc[0]]; before != "" {
				out = append(out, Span{Type: SpanText, Text: before})
			}

			match := make([]string, 0, len(loc)/2)
			for i := 0; i < len(loc); i += 2 {
				if loc[i] < 0 {
					match = append(match, "")
					continue
				}
				match = append(match, text[loc[i]:loc[i+1]])
			}
			out = append(out, mk(match))

			text = text[loc[1]:]
		}
		if text != "" {
			out = append(out, Span{Type: SpanText, Text: text})
		}
	}
	return out
}
