package services

import (
	"strings"

	"secularai/internal/models"
)

const (
	verseOpen     = `[VERSE title="`
	verseTitleEnd = `"]`
	verseClose    = `[/VERSE]`
)

// ExtractVerses walks the raw reply with a two-state scan (outside a
// tag / inside a tag), collecting every [VERSE title="..."]...[/VERSE]
// pair and removing the markup from the visible reply. Malformed tags
// are left in the prose untouched.
func ExtractVerses(raw string) (string, []models.Verse) {
	var (
		prose  strings.Builder
		verses []models.Verse
	)
	rest := raw
	for {
		i := strings.Index(rest, verseOpen)
		if i < 0 {
			prose.WriteString(rest)
			break
		}
		prose.WriteString(rest[:i])
		rest = rest[i+len(verseOpen):]

		j := strings.Index(rest, verseTitleEnd)
		if j < 0 {
			// unterminated title: emit the marker literally and stop scanning
			prose.WriteString(verseOpen)
			prose.WriteString(rest)
			break
		}
		reference := rest[:j]
		rest = rest[j+len(verseTitleEnd):]

		k := strings.Index(rest, verseClose)
		if k < 0 {
			// unterminated body: treat the remainder as the verse text
			verses = append(verses, models.Verse{Reference: reference, Text: strings.TrimSpace(rest)})
			break
		}
		verses = append(verses, models.Verse{Reference: reference, Text: strings.TrimSpace(rest[:k])})
		rest = rest[k+len(verseClose):]
	}
	return strings.TrimSpace(prose.String()), verses
}
