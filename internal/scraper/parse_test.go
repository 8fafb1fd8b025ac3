package scraper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmeupdater/realme-updates-tracker/internal/scraper"
)

const pageHTML = `<html><body>
<div class="software-items">
  <div class="software-item">
    <h3 class="software-mobile-title">
      <a href="https://www.realme.com/in/support/software-update">realme GT NEO 2</a>
    </h3>
    <div class="software-system">realme UI 2.0</div>
    <div class="software-field">Version: RMX3370_11.C.08</div>
    <div class="software-field">Date: 2021/12/24</div>
    <div class="software-field">Size: <span>4.26G</span></div>
    <div class="software-field">MD5: 0f40a3efa4f5b0a4443f17aa05d2e267</div>
    <div class="software-download">
      <a class="software-button" data-href="https://download.c.realme.com/flash/RMX3370_11.C.08.ozip">Download</a>
    </div>
    <div class="software-log">Security
● Android security patch: December 2021</div>
  </div>
  <div class="software-item">
    <h3 class="software-mobile-title">realme C11</h3>
    <div class="software-system">realme UI 1.0</div>
    <div class="software-field">Version: RMX2185_11.A.38</div>
    <div class="software-download">
      <a class="software-button">Download</a>
    </div>
  </div>
</div>
</body></html>`

func TestParseItems(t *testing.T) {
	t.Parallel()

	items, err := scraper.ParseItems([]byte(pageHTML))
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "realme GT NEO 2", first.Title)
	assert.Equal(t, "https://www.realme.com/in/support/software-update", first.TitleLink)
	assert.Equal(t, "realme UI 2.0", first.System)
	require.Len(t, first.Fields, 4)
	assert.Equal(t, "Version: RMX3370_11.C.08", first.Fields[0])
	assert.Equal(t, "Date: 2021/12/24", first.Fields[1])
	assert.Equal(t, "4.26G", first.Fields[2])
	assert.Equal(t, "MD5: 0f40a3efa4f5b0a4443f17aa05d2e267", first.Fields[3])
	assert.Equal(t, "https://download.c.realme.com/flash/RMX3370_11.C.08.ozip", first.Download)
	assert.Equal(t, "Security\n● Android security patch: December 2021", first.Changelog)

	second := items[1]
	assert.Equal(t, "realme C11", second.Title)
	assert.Empty(t, second.TitleLink)
	require.Len(t, second.Fields, 1)
	assert.Empty(t, second.Download)
	assert.Empty(t, second.Changelog)
}

func TestParseItemsNoSoftwareList(t *testing.T) {
	t.Parallel()

	_, err := scraper.ParseItems([]byte(`<html><body><p>maintenance</p></body></html>`))
	assert.Error(t, err)
}
