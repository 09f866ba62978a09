package roster

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tbryce/muster/internal/models"
)

// ParseResult holds the outcome of parsing one pasted list export.
type ParseResult struct {
	ArmyName string
	Entries  []DraftEntry
}

// Line shapes from the list-builder export format. Tried in order; anything
// that matches nothing is dropped.
var (
	// ++ Core Units [1200 pts] ++
	sectionPattern = regexp.MustCompile(`^\+\+\s*(.+?)\s*\[\d+\s*pts\]\s*\+\+$`)
	// 20 Spearmen [180 pts]
	countedEntryPattern = regexp.MustCompile(`^(\d+)\s+(.+?)\s*\[\d+\s*pts\]$`)
	// Captain of the Empire [95 pts] (also the army-name line shape)
	namedEntryPattern = regexp.MustCompile(`^(.+?)\s*\[\d+\s*pts\]$`)
)

// upgradePatterns maps detail-line keywords to the command slot they mark.
// Presence sets the slot to 1; repeats never accumulate.
var upgradePatterns = []struct {
	re  *regexp.Regexp
	set func(*CommandComposition)
}{
	{regexp.MustCompile(`(?i)\bmusician\b`), func(c *CommandComposition) { c.Musician = 1 }},
	{regexp.MustCompile(`(?i)\b(?:battle\s+standard\s+bearer|standard\s+bearer|banner\s+bearer|banner)\b`), func(c *CommandComposition) { c.BannerBearer = 1 }},
	{regexp.MustCompile(`(?i)\b(?:champion|preceptor|sergeant)\b`), func(c *CommandComposition) { c.Champion = 1 }},
}

// ParseList scans a pasted army-list export line by line and extracts the
// army name plus one draft entry per unit or character. Lines that match no
// known shape are skipped; malformed input never fails, it just yields
// fewer entries.
func ParseList(raw string) ParseResult {
	var res ParseResult

	category := models.CategoryUnit
	sectionSeen := false
	var cur *DraftEntry

	flush := func() {
		if cur == nil {
			return
		}
		// Characters never carry a command group, whatever their detail
		// lines claimed.
		if cur.Category == models.CategoryCharacter {
			cur.Command = CommandComposition{}
		}
		res.Entries = append(res.Entries, *cur)
		cur = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := sectionPattern.FindStringSubmatch(line); m != nil {
			flush()
			if strings.Contains(strings.ToLower(m[1]), "character") {
				category = models.CategoryCharacter
			} else {
				category = models.CategoryUnit
			}
			sectionSeen = true
			continue
		}

		// Roster sub-group separators.
		if strings.HasPrefix(line, "===") || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "-- ") {
			flush()
			continue
		}

		if m := countedEntryPattern.FindStringSubmatch(line); m != nil {
			flush()
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 {
				n = 1
			}
			cur = &DraftEntry{
				Category:   category,
				Name:       m[2],
				ModelCount: n,
				Command:    DefaultParsedCommand(),
			}
			continue
		}

		if m := namedEntryPattern.FindStringSubmatch(line); m != nil && !strings.HasPrefix(line, "[") {
			// The export opens with "<army name> [<total> pts]" before any
			// section header; that line names the army and is not an entry.
			if res.ArmyName == "" && !sectionSeen && cur == nil && len(res.Entries) == 0 {
				res.ArmyName = m[1]
				continue
			}
			flush()
			cur = &DraftEntry{
				Category:   category,
				Name:       m[1],
				ModelCount: 1,
				Command:    DefaultParsedCommand(),
			}
			continue
		}

		if strings.HasPrefix(line, "-") {
			if cur == nil {
				continue
			}
			detail := strings.TrimSpace(strings.TrimPrefix(line, "-"))
			if cur.Details == "" {
				cur.Details = detail
			} else {
				cur.Details += "\n" + detail
			}
			if cur.Category != models.CategoryCharacter {
				for _, up := range upgradePatterns {
					if up.re.MatchString(line) {
						up.set(&cur.Command)
					}
				}
			}
			continue
		}

		// Unrecognized line; drop it.
	}

	flush()
	return res
}
