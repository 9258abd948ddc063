package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/lumichat/videobridge/pkg/internal/bigbluebutton"
	"github.com/lumichat/videobridge/pkg/internal/database"
	"github.com/lumichat/videobridge/pkg/internal/i18n"
	"github.com/lumichat/videobridge/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const (
	// Fixed role passwords of the remote meeting; the bridge always joins
	// everyone as moderator, matching the chat-side access check.
	ModeratorPassword = "mp"
	AttendeePassword  = "ap"

	welcomeTemplate = "<br>Welcome to <b>%%CONFNAME%%</b>!"

	// Only template keys with this prefix are forwarded into join URLs.
	userdataPrefix = "userdata-bbb"

	EventMeetingEnded = "meeting-ended"
)

var (
	ErrInvalidUser       = errors.New("invalid user")
	ErrNotAllowed        = errors.New("conferencing is not enabled")
	ErrRemoteRefused     = errors.New("remote server refused the meeting request")
	ErrCallbackFailed    = errors.New("unable to register the meeting lifecycle callback")
	ErrUserdataInvalid   = errors.New("custom userdata template is not valid json")
	ErrResponseMalformed = errors.New("unable to decode the remote server response")
)

// RemoteError reports a non-2xx reply from the conferencing server,
// carrying the raw response for the caller.
type RemoteError struct {
	Status int
	Body   []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote conferencing server responded with status %d", e.Status)
}

// MeetingConfig is the snapshot of every setting the bridge consumes,
// taken once per operation so handlers and tests can pass it explicitly.
type MeetingConfig struct {
	ServerURL           string
	SharedSecret        string
	Enabled             bool
	NotificationKey     string
	NotificationEnabled bool
	UserdataTemplate    string
	FullnameField       string
	InstallationID      string
	BaseURL             string
}

func GetMeetingConfig() MeetingConfig {
	return MeetingConfig{
		ServerURL:           viper.GetString("meeting.server"),
		SharedSecret:        viper.GetString("meeting.shared_secret"),
		Enabled:             viper.GetBool("meeting.enabled"),
		NotificationKey:     viper.GetString("meeting.start_notification"),
		NotificationEnabled: viper.GetBool("meeting.start_notification_enabled"),
		UserdataTemplate:    viper.GetString("meeting.userdata"),
		FullnameField:       viper.GetString("meeting.fullname_field"),
		InstallationID:      viper.GetString("meeting.id_prefix"),
		BaseURL:             viper.GetString("base_url"),
	}
}

func (cfg MeetingConfig) Client() *bigbluebutton.Client {
	return bigbluebutton.New(cfg.ServerURL, cfg.SharedSecret)
}

// BuildMeetingID derives the external meeting ID for a channel. The
// inverse is ChannelAliasOfMeeting; no mapping table exists.
func BuildMeetingID(cfg MeetingConfig, channel models.Channel) string {
	return cfg.InstallationID + channel.Alias
}

func ChannelAliasOfMeeting(cfg MeetingConfig, meetingID string) string {
	return strings.TrimPrefix(meetingID, cfg.InstallationID)
}

type JoinTicket struct {
	URL string `json:"url"`
}

// JoinMeeting creates (or rejoins) the channel's meeting on the remote
// server, wires the lifecycle callback, posts the start notification,
// flips the channel's session state and returns a personal join URL.
// Preconditions (authentication, channel access, feature flag) are the
// caller's responsibility.
func JoinMeeting(cfg MeetingConfig, channel models.Channel, founder models.Account) (JoinTicket, error) {
	var ticket JoinTicket
	client := cfg.Client()
	meetingID := BuildMeetingID(cfg, channel)

	createURL := client.BuildURL("create", url.Values{
		"name":                       {channel.MeetingName()},
		"meetingID":                  {meetingID},
		"attendeePW":                 {AttendeePassword},
		"moderatorPW":                {ModeratorPassword},
		"welcome":                    {welcomeTemplate},
		"meta_html5chat":             {"false"},
		"meta_html5navbar":           {"false"},
		"meta_html5autoswaplayout":   {"true"},
		"meta_html5autosharewebcam":  {"false"},
		"meta_html5hidepresentation": {"true"},
	})

	created, err := client.Do(context.Background(), createURL)
	if err != nil {
		return ticket, err
	} else if created.Status != 200 {
		return ticket, &RemoteError{Status: created.Status, Body: created.Body}
	}

	document, err := bigbluebutton.DecodeResponse(created.Body)
	if err != nil {
		return ticket, fmt.Errorf("%w: %v", ErrResponseMalformed, err)
	}
	if !document.Success() {
		return ticket, fmt.Errorf("%w: %s", ErrRemoteRefused, document.First("messageKey"))
	}

	hookURL := client.BuildURL("hooks/create", url.Values{
		"meetingID":   {meetingID},
		"callbackURL": {cfg.absoluteURL("api/webhooks/meeting/" + meetingID)},
	})
	if registered, err := client.Do(context.Background(), hookURL); err != nil {
		return ticket, err
	} else if registered.Status != 200 {
		// Degraded on purpose: the meeting stays alive remotely, but with
		// no callback the session state would never clear, so the join is
		// aborted instead of handing out a URL.
		log.Error().
			Int("status", registered.Status).
			Str("meeting", meetingID).
			Msg("Unable to register the meeting lifecycle callback...")
		return ticket, ErrCallbackFailed
	}

	isRejoin := document.First("messageKey") == "duplicateWarning"

	if cfg.NotificationEnabled && !isRejoin {
		if notification := i18n.Localize(cfg.NotificationKey, founder.Language); len(notification) > 0 {
			if _, err := NewMessage(channel, founder, notification); err != nil {
				log.Warn().Err(err).Msg("An error occurred when posting the meeting start notification...")
			}
		}
	}

	if err := SaveStreamingOptions(channel, map[string]any{"type": "call"}); err != nil {
		return ticket, err
	}

	if !isRejoin {
		meeting := models.Meeting{
			ExternalID: meetingID,
			FounderID:  founder.ID,
			ChannelID:  channel.ID,
		}
		if err := database.C.Save(&meeting).Error; err != nil {
			log.Warn().Err(err).Msg("An error occurred when recording the meeting history...")
		}
	}

	userdata, err := parseUserdataTemplate(cfg.UserdataTemplate)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to parse the custom userdata template...")
		return ticket, ErrUserdataInvalid
	}

	ticket.URL = client.BuildURL("join", joinURLParams(cfg, meetingID, founder, userdata))
	return ticket, nil
}

// EndMeeting asks the remote server to end the channel's meeting and
// clears the session state. Ending an already-ended or never-started
// meeting is not an error at this layer.
func EndMeeting(cfg MeetingConfig, channel models.Channel) error {
	client := cfg.Client()
	meetingID := BuildMeetingID(cfg, channel)

	endURL := client.BuildURL("end", url.Values{
		"meetingID": {meetingID},
		"password":  {ModeratorPassword},
	})

	ended, err := client.Do(context.Background(), endURL)
	if err != nil {
		return err
	}
	if ended.Status != 200 {
		// The remote state is unknown at this point; clear the local flag
		// so the channel is not stuck showing a call forever.
		if err := SaveStreamingOptions(channel, map[string]any{}); err != nil {
			log.Error().Err(err).Uint("channel", channel.ID).Msg("Unable to clear the streaming options...")
		}
		return &RemoteError{Status: ended.Status, Body: ended.Body}
	}

	document, err := bigbluebutton.DecodeResponse(ended.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResponseMalformed, err)
	}

	if lo.Contains([]string{"SUCCESS", "FAILED"}, document.Returncode()) {
		if err := SaveStreamingOptions(channel, map[string]any{}); err != nil {
			return err
		}
		closeOngoingMeeting(channel)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRemoteRefused, document.First("messageKey"))
}

type LifecycleEvent struct {
	Type              string
	ExternalMeetingID string
}

// ParseLifecycleEvent unpacks the webhook payload's event field, a
// JSON-encoded array of which only the first element is consulted.
func ParseLifecycleEvent(event string) (LifecycleEvent, error) {
	var parsed LifecycleEvent
	var entries []struct {
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				Meeting struct {
					ExternalMeetingID string `json:"external-meeting-id"`
				} `json:"meeting"`
			} `json:"attributes"`
		} `json:"data"`
	}

	if err := jsoniter.UnmarshalFromString(event, &entries); err != nil {
		return parsed, fmt.Errorf("unable to decode lifecycle event: %w", err)
	}
	if len(entries) == 0 {
		return parsed, fmt.Errorf("lifecycle event payload is empty")
	}

	parsed.Type = entries[0].Data.ID
	parsed.ExternalMeetingID = entries[0].Data.Attributes.Meeting.ExternalMeetingID
	return parsed, nil
}

// HandleLifecycleEvent applies a pushed lifecycle event to the local
// session state. Only meeting-ended acts; everything else is ignored.
// Repeated identical events are harmless.
func HandleLifecycleEvent(cfg MeetingConfig, event LifecycleEvent) error {
	alias := ChannelAliasOfMeeting(cfg, event.ExternalMeetingID)
	log.Debug().Str("event", event.Type).Str("channel", alias).Msg("Received a meeting lifecycle event...")

	if event.Type != EventMeetingEnded {
		return nil
	}

	channel, err := GetChannelWithAlias(alias)
	if err != nil {
		return fmt.Errorf("unable to find channel %s: %w", alias, err)
	}
	if err := SaveStreamingOptions(channel, map[string]any{}); err != nil {
		return err
	}
	closeOngoingMeeting(channel)
	return nil
}

func ListMeeting(channel models.Channel, take, offset int) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := database.C.
		Where(models.Meeting{ChannelID: channel.ID}).
		Limit(take).
		Offset(offset).
		Preload("Founder").
		Order("created_at DESC").
		Find(&meetings).Error; err != nil {
		return meetings, err
	}
	return meetings, nil
}

func GetOngoingMeeting(channel models.Channel) (models.Meeting, error) {
	var meeting models.Meeting
	if err := database.C.
		Where(models.Meeting{ChannelID: channel.ID}).
		Where("ended_at IS NULL").
		Preload("Founder").
		Order("created_at DESC").
		First(&meeting).Error; err != nil {
		return meeting, err
	}
	return meeting, nil
}

func closeOngoingMeeting(channel models.Channel) {
	meeting, err := GetOngoingMeeting(channel)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	} else if err != nil {
		log.Warn().Err(err).Uint("channel", channel.ID).Msg("Unable to look up the ongoing meeting record...")
		return
	}

	meeting.EndedAt = lo.ToPtr(time.Now())
	if err := database.C.Save(&meeting).Error; err != nil {
		log.Warn().Err(err).Uint("channel", channel.ID).Msg("Unable to close the meeting record...")
	}
}

func parseUserdataTemplate(template string) (map[string]any, error) {
	template = strings.TrimSpace(template)
	if len(template) == 0 {
		return map[string]any{}, nil
	}

	var parsed map[string]any
	if err := jsoniter.UnmarshalFromString(template, &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func joinURLParams(cfg MeetingConfig, meetingID string, account models.Account, userdata map[string]any) url.Values {
	params := url.Values{
		"password":     {ModeratorPassword},
		"meetingID":    {meetingID},
		"fullName":     {ResolveDisplayName(account, cfg.FullnameField)},
		"userID":       {strconv.Itoa(int(account.ID))},
		"joinViaHtml5": {"true"},
		"avatarURL":    {cfg.absoluteURL("avatar/" + account.Name)},
	}

	for key, value := range userdata {
		if !strings.HasPrefix(key, userdataPrefix) {
			continue
		}
		params.Set("custom_"+key, fmt.Sprintf("%v", value))
	}

	return params
}

func (cfg MeetingConfig) absoluteURL(path string) string {
	return strings.TrimSuffix(cfg.BaseURL, "/") + "/" + path
}
