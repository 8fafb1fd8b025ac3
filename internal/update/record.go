// Package update defines the core types and normalization logic for tracking
// firmware releases: turning scraped page fragments into canonical records,
// deciding which records are new between runs, and deriving device codenames.
package update

// Unknown is the sentinel stored for fields the source page did not provide.
// It is part of the persisted format, so downstream consumers match on the
// literal string.
const Unknown = "Unknown"

// RawItem is one semi-structured software item block as selected from a
// region's support page, before normalization.
type RawItem struct {
	// Title is the device display name as rendered on the page.
	Title string
	// TitleLink is the href attached to the item title, used for region
	// inference when no region is supplied explicitly.
	TitleLink string
	// System is the OS version label (e.g. "realme UI 4.0").
	System string
	// Fields holds the labeled field texts in page order: version, date,
	// size, md5. Trailing fields may be absent.
	Fields []string
	// Download is the data-href attribute of the download button. Empty when
	// the page offered no direct link.
	Download string
	// Changelog is the release-note text, one source line per newline.
	Changelog string
}

// UpdateRecord is one announced firmware build for one device in one region.
// Field names and the "Unknown" sentinel mirror the published YAML documents.
type UpdateRecord struct {
	Device    string `yaml:"device"`
	Codename  string `yaml:"codename"`
	Region    string `yaml:"region"`
	System    string `yaml:"system"`
	Version   string `yaml:"version"`
	Date      string `yaml:"date"`
	Size      string `yaml:"size"`
	MD5       string `yaml:"md5"`
	Download  string `yaml:"download"`
	Changelog string `yaml:"changelog"`
}
