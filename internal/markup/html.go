package markup

import (
	"fmt"
	"html"
	"strings"
)

// HTML renders a parsed block sequence as an HTML fragment. All user text
// and attribute values are escaped on the way out, so stored descriptions
// cannot inject markup.
func HTML(blocks []Block) string {
	var b strings.Builder

	for _, block := range blocks {
		switch block.Type {
		case BlockBreak:
			b.WriteString("<br/>")
		case BlockHeading:
			tag := fmt.Sprintf("h%d", HeadingTag(block.Level))
			fmt.Fprintf(&b, `<%s class=%q>`, tag, HeadingStyle(block.Level))
			writeSpans(&b, block.Spans)
			fmt.Fprintf(&b, "</%s>", tag)
		case BlockQuote:
			b.WriteString(`<p class="text-gray-400 italic mb-4 pl-4 border-l-2 border-gray-600">`)
			writeSpans(&b, block.Spans)
			b.WriteString("</p>")
		case BlockBullet:
			b.WriteString(`<div class="flex items-start space-x-3 mb-3">` +
				`<div class="w-2 h-2 bg-white rounded-full mt-2 flex-shrink-0"></div>` +
				`<p class="text-gray-300 leading-relaxed">`)
			writeSpans(&b, block.Spans)
			b.WriteString("</p></div>")
		case BlockParagraph:
			b.WriteString(`<p class="text-gray-300 mb-4 leading-relaxed text-lg">`)
			writeSpans(&b, block.Spans)
			b.WriteString("</p>")
		}
	}

	return b.String()
}

func writeSpans(b *strings.Builder, spans []Span) {
	for _, s := range spans {
		switch s.Type {
		case SpanText:
			writeText(b, s)
		case SpanLink:
			fmt.Fprintf(b,
				`<a href=%q class="text-blue-400 hover:text-blue-300 underline" target="_blank" rel="noopener noreferrer">%s</a>`,
				html.EscapeString(s.URL), html.EscapeString(s.Label))
		case SpanIcon:
			writeIcon(b, s.Icon)
		case SpanButton:
			writeButton(b, s.Button)
		}
	}
}

func writeText(b *strings.Builder, s Span) {
	text := html.EscapeString(s.Text)
	switch {
	case s.Bold:
		fmt.Fprintf(b, "<strong>%s</strong>", text)
	case s.Italic:
		fmt.Fprintf(b, "<em>%s</em>", text)
	case s.Code:
		fmt.Fprintf(b, `<code class="bg-gray-800 px-2 py-1 rounded text-sm font-mono text-green-400">%s</code>`, text)
	default:
		b.WriteString(text)
	}
}

func writeIcon(b *strings.Builder, icon *IconSpan) {
	if icon == nil {
		return
	}
	if icon.Missing {
		b.WriteString(`<span class="text-red-400">&#10067;</span>`)
		return
	}

	class := fmt.Sprintf("inline w-%d h-%d mx-1", icon.SizeUnits, icon.SizeUnits)
	if icon.Color != "" {
		class += fmt.Sprintf(" text-%s-400", icon.Color)
	}
	fmt.Fprintf(b, `<i data-icon=%q class=%q></i>`,
		html.EscapeString(icon.Name), html.EscapeString(class))
}

func writeButton(b *strings.Builder, btn *ButtonSpan) {
	if btn == nil {
		return
	}

	class := ButtonVariantStyle(btn.Variant) + " " + ButtonSizeStyle(btn.Size) +
		" mx-2 my-1 inline-flex items-center gap-2"

	b.WriteString(`<button class="` + html.EscapeString(class) + `"`)
	if btn.URL != "" {
		fmt.Fprintf(b, ` data-link=%q`, html.EscapeString(btn.URL))
		if btn.NewTab {
			b.WriteString(` data-target="_blank"`)
		}
	}
	b.WriteString(">")

	// A button naming an unknown icon just drops the glyph.
	if btn.IconName != "" && IsKnownIcon(btn.IconName) {
		fmt.Fprintf(b, `<i data-icon=%q class="w-4 h-4"></i>`, html.EscapeString(btn.IconName))
	}
	b.WriteString(html.EscapeString(btn.Label))
	b.WriteString("</button>")
}
