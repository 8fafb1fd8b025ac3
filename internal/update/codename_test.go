package update_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

func TestCodenameFromVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"Plain", "RMX2020_11.A.38", "RMX2020"},
		{"RegionalSKUStripped", "RMX1921EX_11.C.05", "RMX1921"},
		{"Unknown", update.Unknown, update.Unknown},
		{"Empty", "", update.Unknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, update.CodenameFromVersion(tc.version))
		})
	}
}

func TestCodenameFromLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		link string
		want string
	}{
		{
			"Plain",
			"https://download.c.realme.com/flash/RMX2020_11.A.38.ozip",
			"RMX2020",
		},
		{
			"SignedBuild",
			"https://download.c.realme.com/flash/sign/prefix_RMX3370_11.C.08.ozip",
			"RMX3370",
		},
		{"Empty", "", update.Unknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, update.CodenameFromLink(tc.link))
		})
	}
}
