package update

import (
	"regexp"
	"strings"
	"time"
)

// Region labels used in persisted documents and notification links.
const (
	RegionGlobal = "global"
	RegionIndia  = "india"
	RegionEurope = "europe"
	RegionRussia = "russia"
)

// versionPattern matches the vendor's build-string grammar, e.g.
// "RMX2020_11.A.38". Kept permissive on the separators to match every
// variant the site has shipped.
var versionPattern = regexp.MustCompile(`([A-Z0-9+]+_[0-9]+(?:.|_)[A-Z]+(?:.|_)[0-9]+)`)

// localizedBrand is the CJK brand glyph sequence some regional pages use in
// device titles.
const localizedBrand = "真我"

// Positions of the labeled fields within a software item block.
const (
	fieldVersion = iota
	fieldDate
	fieldSize
	fieldMD5
)

// Normalizer converts raw scraped items into canonical UpdateRecords and
// feeds the device registry as a side channel.
type Normalizer struct {
	registry *DeviceRegistry
}

// NewNormalizer returns a Normalizer feeding the given registry. A nil
// registry disables the side channel.
func NewNormalizer(registry *DeviceRegistry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Normalize builds an UpdateRecord from one raw item. When region is empty it
// is inferred from the item's title link. Every field is independently
// fallible: a missing field yields the Unknown sentinel (or an empty download
// link) without failing the record.
func (n *Normalizer) Normalize(item RawItem, region string) UpdateRecord {
	if region == "" {
		region = RegionFromLink(item.TitleLink)
	}

	version := ExtractVersion(fieldAt(item.Fields, fieldVersion))
	codename := CodenameFromVersion(version)

	record := UpdateRecord{
		Device:    NormalizeTitle(item.Title),
		Codename:  codename,
		Region:    region,
		System:    CleanText(item.System),
		Version:   version,
		Date:      NormalizeDate(fieldValue(fieldAt(item.Fields, fieldDate))),
		Size:      NormalizeSize(fieldAt(item.Fields, fieldSize)),
		MD5:       normalizeMD5(fieldAt(item.Fields, fieldMD5)),
		Download:  item.Download,
		Changelog: ReflowChangelog(item.Changelog),
	}

	if n.registry != nil {
		n.registry.Register(record.Codename, record.Device)
	}
	return record
}

// CleanText trims a scraped fragment and collapses doubled interior spaces.
func CleanText(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "  ", " ")
}

// NormalizeTitle cleans a device title and substitutes the canonical Latin
// brand string for the localized glyph sequence.
func NormalizeTitle(title string) string {
	title = CleanText(title)
	if strings.Contains(title, localizedBrand) {
		title = strings.ReplaceAll(title, localizedBrand, "realme ")
	}
	return title
}

// RegionFromLink infers the region label from an item link. The match is a
// case-sensitive substring check, first match wins, and ambiguous URLs fall
// through to the global label. Known limitation carried from the site's URL
// scheme: "in" also matches inside longer host names.
func RegionFromLink(link string) string {
	switch {
	case strings.Contains(link, "in"):
		return RegionIndia
	case strings.Contains(link, "eu"):
		return RegionEurope
	case strings.Contains(link, "ru"):
		return RegionRussia
	default:
		return RegionGlobal
	}
}

// ExtractVersion pulls the build-version string out of the version field
// text, or Unknown when the field is absent or does not match the grammar.
func ExtractVersion(fieldText string) string {
	if fieldText == "" {
		return Unknown
	}
	match := versionPattern.FindStringSubmatch(fieldText)
	if match == nil {
		return Unknown
	}
	return match[1]
}

// NormalizeDate rewrites a year-first date (YYYY/MM/DD) into day-first form
// (DD/MM/YYYY). Day-first input passes through verbatim, as does anything
// that fails to parse. An empty value yields Unknown.
func NormalizeDate(value string) string {
	if value == "" {
		return Unknown
	}
	tokens := strings.Split(value, "/")
	if len(tokens[0]) != 4 {
		return value
	}
	parsed, err := time.Parse("2006/01/02", value)
	if err != nil {
		return value
	}
	return parsed.Format("02/01/2006")
}

// NormalizeSize trims the size text and expands the bare gigabyte suffix
// ("G") to the full unit abbreviation ("GB"). A missing field yields the
// Unknown sentinel; anything else is unchanged.
func NormalizeSize(text string) string {
	size := CleanText(text)
	if size == "" {
		return Unknown
	}
	if strings.HasSuffix(size, "G") {
		size = size[:len(size)-1] + "GB"
	}
	return size
}

func normalizeMD5(fieldText string) string {
	value := fieldValue(fieldText)
	if value == "" {
		return Unknown
	}
	return value
}

// ReflowChangelog rewrites free-text release notes line by line: bullet lines
// (leading "●" or "*") pass through, every other non-structured line becomes
// a bold "header:" line. The source has no changelog grammar, so leading
// characters are all there is to go on.
func ReflowChangelog(changelog string) string {
	if changelog == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(changelog, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "●") || strings.HasPrefix(line, "*") {
			b.WriteString(line)
			b.WriteString("\n")
			continue
		}
		b.WriteString("**")
		b.WriteString(line)
		b.WriteString("**:\n")
	}
	return b.String()
}

// fieldAt returns the field text at index i, or "" when the trailing field is
// absent. Absence of trailing fields is an expected page state, not an error.
func fieldAt(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

// fieldValue extracts the value from a ": "-delimited key/value field text.
func fieldValue(fieldText string) string {
	if fieldText == "" {
		return ""
	}
	parts := strings.SplitN(fieldText, ": ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
