package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
)

func TestSubscribeDeliversConnectedEvent(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("job-1")
	defer b.Unsubscribe(sub)

	event := <-sub.C
	assert.Equal(t, constants.StageConnected, event.Stage)
	assert.Zero(t, event.Progress)
}

func TestPublishFansOutInOrder(t *testing.T) {
	b := NewBroadcaster()
	s1 := b.Subscribe("job-1")
	s2 := b.Subscribe("job-1")
	defer b.Unsubscribe(s1)
	defer b.Unsubscribe(s2)
	<-s1.C // drain connected
	<-s2.C

	b.Publish("job-1", Event{Stage: constants.StageUpload, Progress: 10})
	b.Publish("job-1", Event{Stage: constants.StageOCR, Progress: 40})

	for _, sub := range []*Subscription{s1, s2} {
		first := <-sub.C
		second := <-sub.C
		assert.Equal(t, constants.StageUpload, first.Stage)
		assert.Equal(t, constants.StageOCR, second.Stage)
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	b := NewBroadcaster()
	b.Publish("job-1", Event{Stage: constants.StageUpload, Progress: 10})

	sub := b.Subscribe("job-1")
	defer b.Unsubscribe(sub)
	<-sub.C // connected

	b.Publish("job-1", Event{Stage: constants.StageComplete, Progress: 100})
	event := <-sub.C
	assert.Equal(t, constants.StageComplete, event.Stage, "no replay of pre-subscription events")
}

func TestEventsAreScopedToJobID(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("job-1")
	defer b.Unsubscribe(sub)
	<-sub.C

	b.Publish("job-2", Event{Stage: constants.StageError})
	b.Publish("job-1", Event{Stage: constants.StageComplete, Progress: 100})

	event := <-sub.C
	assert.Equal(t, constants.StageComplete, event.Stage)
}

func TestUnsubscribeRemovesListenerAndClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("job-1")
	require.Equal(t, 1, b.ListenerCount("job-1"))

	b.Unsubscribe(sub)
	assert.Zero(t, b.ListenerCount("job-1"))

	_, open := <-sub.C // connected event still buffered
	require.True(t, open)
	for range sub.C {
	}

	// double unsubscribe is a no-op
	b.Unsubscribe(sub)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("job-1")
	defer b.Unsubscribe(sub)

	// overflow the buffer without draining; Publish must not block
	for i := 0; i < subscriberBuffer*2; i++ {
		b.Publish("job-1", Event{Stage: constants.StageOCR, Progress: i})
	}
}
