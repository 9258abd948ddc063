package bigbluebutton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCreateResponse = `<response>
  <returncode>SUCCESS</returncode>
  <meetingID>inst-R1</meetingID>
  <attendeePW>ap</attendeePW>
  <moderatorPW>mp</moderatorPW>
  <createTime>1531155809613</createTime>
  <hasBeenForciblyEnded>false</hasBeenForciblyEnded>
  <messageKey>duplicateWarning</messageKey>
  <message>This conference was already in existence and may currently be in progress.</message>
</response>`

func TestDecodeResponse(t *testing.T) {
	document, err := DecodeResponse([]byte(sampleCreateResponse))
	require.NoError(t, err)

	assert.True(t, document.Success())
	assert.Equal(t, "SUCCESS", document.Returncode())
	assert.Equal(t, "duplicateWarning", document.First("messageKey"))
	assert.Equal(t, []string{"inst-R1"}, document["meetingID"])
}

func TestDecodeResponseFailedReturncode(t *testing.T) {
	document, err := DecodeResponse([]byte(`<response><returncode>FAILED</returncode><messageKey>checksumError</messageKey></response>`))
	require.NoError(t, err)

	assert.False(t, document.Success())
	assert.Equal(t, "checksumError", document.First("messageKey"))
}

func TestDecodeResponseRepeatedFields(t *testing.T) {
	document, err := DecodeResponse([]byte(`<response><returncode>SUCCESS</returncode><participantCount>3</participantCount><participantCount>4</participantCount></response>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "4"}, document["participantCount"])
	assert.Equal(t, "3", document.First("participantCount"))
}

func TestDecodeResponseMissingField(t *testing.T) {
	document, err := DecodeResponse([]byte(`<response><returncode>SUCCESS</returncode></response>`))
	require.NoError(t, err)

	assert.Empty(t, document.First("messageKey"))
}

func TestDecodeResponseMalformed(t *testing.T) {
	for _, payload := range []string{
		"",
		"not xml at all",
		"<response><returncode>SUCCESS</returncode>",
		"<error>boo</error>",
	} {
		_, err := DecodeResponse([]byte(payload))
		assert.Error(t, err, "payload %q should not decode", payload)
	}
}
