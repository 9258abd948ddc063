package services

import (
	"testing"

	"github.com/lumichat/videobridge/pkg/internal/models"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingIDRoundTrip(t *testing.T) {
	cfg := MeetingConfig{InstallationID: "inst-"}
	channel := models.Channel{Alias: "R1"}

	meetingID := BuildMeetingID(cfg, channel)
	assert.Equal(t, "inst-R1", meetingID)
	assert.Equal(t, "R1", ChannelAliasOfMeeting(cfg, meetingID))

	for _, alias := range []string{"general", "a", "room-with-dashes", "R1R1"} {
		id := BuildMeetingID(cfg, models.Channel{Alias: alias})
		assert.Equal(t, alias, ChannelAliasOfMeeting(cfg, id))
	}
}

func TestGetMeetingConfig(t *testing.T) {
	viper.Set("meeting.enabled", true)
	viper.Set("meeting.server", "https://bbb.example.com")
	viper.Set("meeting.shared_secret", "supersecret")
	viper.Set("meeting.start_notification", "Meeting_started")
	viper.Set("meeting.start_notification_enabled", true)
	viper.Set("meeting.userdata", `{"userdata-bbb-foo":"x"}`)
	viper.Set("meeting.fullname_field", "nick")
	viper.Set("meeting.id_prefix", "inst-")

	viper.Set("base_url", "https://chat.example.com")

	cfg := GetMeetingConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "https://bbb.example.com", cfg.ServerURL)
	assert.Equal(t, "supersecret", cfg.SharedSecret)
	assert.Equal(t, "Meeting_started", cfg.NotificationKey)
	assert.True(t, cfg.NotificationEnabled)
	assert.Equal(t, `{"userdata-bbb-foo":"x"}`, cfg.UserdataTemplate)
	assert.Equal(t, "nick", cfg.FullnameField)
	assert.Equal(t, "inst-", cfg.InstallationID)
	assert.Equal(t, "https://chat.example.com", cfg.BaseURL)
}

func TestParseUserdataTemplate(t *testing.T) {
	parsed, err := parseUserdataTemplate(`{"userdata-bbb-foo":"x","other":"y"}`)
	require.NoError(t, err)
	assert.Equal(t, "x", parsed["userdata-bbb-foo"])

	parsed, err = parseUserdataTemplate("   ")
	require.NoError(t, err)
	assert.Empty(t, parsed)

	_, err = parseUserdataTemplate(`{"unterminated`)
	assert.Error(t, err)
}

func TestJoinURLParamsUserdataFilter(t *testing.T) {
	cfg := MeetingConfig{BaseURL: "https://chat.example.com"}
	account := models.Account{Name: "alice", Nick: "Alice"}
	account.ID = 7

	params := joinURLParams(cfg, "inst-R1", account, map[string]any{
		"userdata-bbb-foo": "x",
		"other":            "y",
	})

	assert.Equal(t, "x", params.Get("custom_userdata-bbb-foo"))
	assert.Empty(t, params.Get("other"))
	assert.Empty(t, params.Get("custom_other"))
	assert.Equal(t, "inst-R1", params.Get("meetingID"))
	assert.Equal(t, ModeratorPassword, params.Get("password"))
	assert.Equal(t, "7", params.Get("userID"))
	assert.Equal(t, "true", params.Get("joinViaHtml5"))
	assert.Equal(t, "alice", params.Get("fullName"))
	assert.Equal(t, "https://chat.example.com/avatar/alice", params.Get("avatarURL"))
}

func TestJoinURLParamsDisplayName(t *testing.T) {
	cfg := MeetingConfig{FullnameField: "nick"}
	account := models.Account{Name: "alice", Nick: "Alice in Wonderland"}

	params := joinURLParams(cfg, "inst-R1", account, nil)
	assert.Equal(t, "Alice in Wonderland", params.Get("fullName"))

	// Unknown or empty attributes fall back to the username.
	params = joinURLParams(cfg, "inst-R1", models.Account{Name: "bob"}, nil)
	assert.Equal(t, "bob", params.Get("fullName"))
	params = joinURLParams(MeetingConfig{FullnameField: "no_such_field"}, "inst-R1", account, nil)
	assert.Equal(t, "alice", params.Get("fullName"))
}

func TestParseLifecycleEvent(t *testing.T) {
	payload := `[{"data":{"type":"event","id":"meeting-ended","attributes":{"meeting":{"internal-meeting-id":"abc123","external-meeting-id":"inst-R1"}},"event":{"ts":1531155809613}}}]`

	event, err := ParseLifecycleEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, EventMeetingEnded, event.Type)
	assert.Equal(t, "inst-R1", event.ExternalMeetingID)
}

func TestParseLifecycleEventOnlyFirstElement(t *testing.T) {
	payload := `[{"data":{"id":"user-left","attributes":{"meeting":{"external-meeting-id":"inst-R1"}}}},{"data":{"id":"meeting-ended","attributes":{"meeting":{"external-meeting-id":"inst-R2"}}}}]`

	event, err := ParseLifecycleEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "user-left", event.Type)
	assert.Equal(t, "inst-R1", event.ExternalMeetingID)
}

func TestParseLifecycleEventInvalid(t *testing.T) {
	for _, payload := range []string{"", "{}", "[]", "not json"} {
		_, err := ParseLifecycleEvent(payload)
		assert.Error(t, err, "payload %q should not parse", payload)
	}
}
