// Package markup parses the storefront's rich description format: a small
// line-oriented markup with headings, quotes, bullets, and inline icon and
// button widget tokens. Parsing never fails; malformed input degrades to
// literal text or a missing-icon marker.
package markup

import (
	"regexp"
	"strings"
)

// BlockType identifies the structural kind of a parsed block.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockQuote     BlockType = "quote"
	BlockBullet    BlockType = "bullet"
	BlockParagraph BlockType = "paragraph"
	BlockBreak     BlockType = "break"
)

// Block is one structural unit of a parsed description, in source-line order.
type Block struct {
	Type BlockType `json:"type"`

	// Level is the heading level (1-8) when Type is BlockHeading. Levels 7
	// and 8 keep their own presentation tier but are structurally capped at
	// 6 (see HeadingTag).
	Level int `json:"level,omitempty"`

	Spans []Span `json:"spans,omitempty"`
}

// maxHeadingLevel is the deepest heading the markup accepts.
const maxHeadingLevel = 8

var headingRe = regexp.MustCompile(`^(#{1,8})\s+(.+)$`)

// Render parses a description document into an ordered sequence of blocks.
// It never returns an error: empty input yields an empty sequence and
// malformed tokens degrade per the inline parsing rules.
func Render(text string) []Block {
	lines := strings.Split(text, "\n")

	// A trailing newline (or empty input) produces a final empty element
	// that is an artifact of the split, not a blank source line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			blocks = append(blocks, Block{Type: BlockBreak})
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			blocks = append(blocks, Block{
				Type:  BlockHeading,
				Level: len(m[1]),
				Spans: parseInline(m[2]),
			})
			continue
		}

		if strings.HasPrefix(trimmed, ">") {
			rest := strings.TrimSpace(trimmed[1:])
			blocks = append(blocks, Block{Type: BlockQuote, Spans: parseInline(rest)})
			continue
		}

		if strings.HasPrefix(trimmed, "•") || strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			_, size := firstRune(trimmed)
			rest := strings.TrimSpace(trimmed[size:])
			blocks = append(blocks, Block{Type: BlockBullet, Spans: parseInline(rest)})
			continue
		}

		blocks = append(blocks, Block{Type: BlockParagraph, Spans: parseInline(trimmed)})
	}

	return blocks
}

// firstRune returns the first rune of s and its byte length. The bullet
// marker "•" is multi-byte, so a plain s[1:] would split it.
func firstRune(s string) (rune, int) {
	for _, r := range s {
		return r, len(string(r))
	}
	return 0, 0
}
