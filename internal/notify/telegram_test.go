package notify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/realmeupdater/realme-updates-tracker/internal/notify"
	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	notifier := notify.New(notify.Config{SiteURL: "https://realmeupdater.com"}, zaptest.NewLogger(t))
	record := update.UpdateRecord{
		Device:    "realme GT NEO 2",
		Codename:  "RMX3370",
		Region:    "india",
		System:    "realme UI 2.0",
		Version:   "RMX3370_11.C.08",
		Date:      "24/12/2021",
		Size:      "4.26GB",
		MD5:       "0f40a3efa4f5b0a4443f17aa05d2e267",
		Download:  "https://download.c.realme.com/flash/RMX3370_11.C.08.ozip",
		Changelog: "**Security**:\n● Android security patch: December 2021\n",
	}

	message := notifier.Message(record)

	assert.Contains(t, message, "New update available!")
	assert.Contains(t, message, "*Device:* realme GT NEO 2")
	assert.Contains(t, message, "*Codename:* #RMX3370")
	assert.Contains(t, message, "[india](https://realmeupdater.com/downloads/latest/india)")
	assert.Contains(t, message, "*Version:* `RMX3370_11.C.08`")
	assert.Contains(t, message, "[Here](https://download.c.realme.com/flash/RMX3370_11.C.08.ozip)")
	assert.Contains(t, message, "[All Updates](https://realmeupdater.com/downloads/archive/RMX3370/)")
	assert.Contains(t, message, "@RealmeUpdatesTracker")
}

func TestSendStatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
		want notify.Status
	}{
		{"Delivered", http.StatusOK, notify.StatusDelivered},
		{"BadRequest", http.StatusBadRequest, notify.StatusBadRequest},
		{"Unauthorized", http.StatusUnauthorized, notify.StatusUnauthorized},
		{"Unknown", http.StatusBadGateway, notify.StatusUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotChat string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				gotChat = r.FormValue("chat_id")
				w.WriteHeader(tc.code)
			}))
			t.Cleanup(server.Close)

			notifier := notify.New(notify.Config{
				BotToken: "token",
				Chat:     "@RealmeUpdatesTracker",
				APIBase:  server.URL,
			}, zaptest.NewLogger(t))

			status, err := notifier.Send(context.Background(), "hello")
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
			assert.Equal(t, "@RealmeUpdatesTracker", gotChat)
		})
	}
}

func TestSendDryRun(t *testing.T) {
	t.Parallel()

	notifier := notify.New(notify.Config{DryRun: true}, zaptest.NewLogger(t))

	status, err := notifier.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, notify.StatusDelivered, status)
}
