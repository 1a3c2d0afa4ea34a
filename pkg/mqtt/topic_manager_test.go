package mqtt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopicManager_Subscriptions(t *testing.T) {
	var subscribed, unsubscribed []string

	mgr := newTopicManager(
		func(topic []byte) { subscribed = append(subscribed, string(topic)) },
		func(topic []byte) { unsubscribed = append(unsubscribed, string(topic)) },
		2,
	)

	const topic = "polls/1/vote_cast"

	require.False(t, mgr.hasSubscribers(topic))

	_, err := mgr.Subscribe([]byte(topic), 0, "client-a")
	require.NoError(t, err)
	_, err = mgr.Subscribe([]byte(topic), 0, "client-b")
	require.NoError(t, err)
	require.True(t, mgr.hasSubscribers(topic))
	require.Equal(t, 1, mgr.Size())

	_ = mgr.Unsubscribe([]byte(topic), "client-a")
	require.True(t, mgr.hasSubscribers(topic))

	_ = mgr.Unsubscribe([]byte(topic), "client-b")
	require.False(t, mgr.hasSubscribers(topic))
	require.Equal(t, 0, mgr.Size())

	require.Equal(t, []string{topic, topic}, subscribed)
	require.Equal(t, []string{topic, topic}, unsubscribed)
}
