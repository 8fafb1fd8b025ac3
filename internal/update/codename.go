package update

import (
	"strings"
)

// signMarker appears in download URLs for signed builds, where the firmware
// file name carries a leading prefix before the codename segment.
const signMarker = "sign"

// regionalSKUSuffix marks export SKUs in build-version prefixes.
const regionalSKUSuffix = "EX"

// CodenameFromVersion derives the device codename from a build-version string:
// the text up to the first underscore, with the regional-SKU suffix stripped.
// It returns Unknown for the Unknown sentinel or an empty version.
//
// Note this derivation is independent of CodenameFromLink and the two are not
// guaranteed to agree for signed-build URLs; the archive keys by the link
// form, the normalizer by this one.
func CodenameFromVersion(version string) string {
	if version == "" || version == Unknown {
		return Unknown
	}
	name := version
	if i := strings.Index(name, "_"); i >= 0 {
		name = name[:i]
	}
	if len(name) > len(regionalSKUSuffix) {
		name = strings.TrimSuffix(name, regionalSKUSuffix)
	}
	return name
}

// CodenameFromLink derives the device codename from a download URL: the first
// underscore segment of the last path element, or the second segment when the
// URL contains the signed-build marker.
func CodenameFromLink(link string) string {
	if link == "" {
		return Unknown
	}
	last := link
	if i := strings.LastIndex(last, "/"); i >= 0 {
		last = last[i+1:]
	}
	segments := strings.Split(last, "_")
	if strings.Contains(link, signMarker) && len(segments) > 1 {
		return segments[1]
	}
	return segments[0]
}
