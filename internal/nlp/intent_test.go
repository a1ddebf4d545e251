package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGreeting(t *testing.T) {
	for _, input := range []string{"hi", "Hello!", "hey there", "Good morning", "greetings"} {
		assert.True(t, IsGreeting(input), "input %q", input)
	}
	for _, input := range []string{"say hi to anna", "high noon", "schedule a meeting"} {
		assert.False(t, IsGreeting(input), "input %q", input)
	}
}

func TestIsHowAreYou(t *testing.T) {
	for _, input := range []string{"how are you?", "How's it going", "whats up", "how r u"} {
		assert.True(t, IsHowAreYou(input), "input %q", input)
	}
	assert.False(t, IsHowAreYou("tell me how are you supposed to work"))
}

func TestIsMeetingIntent(t *testing.T) {
	for _, input := range []string{
		"schedule a meeting",
		"can you book something",
		"set up a call with anna",
		"I need to cancel my appointment",
		"plan a sync",
		"reschedule it",
	} {
		assert.True(t, IsMeetingIntent(input), "input %q", input)
	}
	for _, input := range []string{"hello", "what's the weather", "show my meetings"} {
		assert.False(t, IsMeetingIntent(input), "input %q", input)
	}
}

func TestIsCancelMeeting(t *testing.T) {
	assert.True(t, IsCancelMeeting("cancel my meeting"))
	assert.True(t, IsCancelMeeting("remove that event"))
	assert.False(t, IsCancelMeeting("cancel"))
	assert.False(t, IsCancelMeeting("my meeting went well"))
}

func TestIsListMeetings(t *testing.T) {
	assert.True(t, IsListMeetings("show my meetings"))
	assert.True(t, IsListMeetings("check my calendar"))
	assert.True(t, IsListMeetings("list my schedule"))
	assert.False(t, IsListMeetings("show me"))
	assert.False(t, IsListMeetings("my calendar is full"))
}

func TestIsUpdateMeeting(t *testing.T) {
	assert.True(t, IsUpdateMeeting("move it to thursday"))
	assert.True(t, IsUpdateMeeting("postpone that"))
	assert.False(t, IsUpdateMeeting("nothing to see"))
}
