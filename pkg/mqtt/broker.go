package mqtt

import (
	"fmt"
	"net"

	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/fhmq/hmq/broker"
)

const (
	workerNumber = 4096
)

// Broker is a simple mqtt publisher abstraction.
type Broker struct {
	broker       *broker.Broker
	config       *broker.Config
	topicManager *topicManager
}

// NewBroker creates a new broker.
// A wsPort of zero disables the websocket listener.
func NewBroker(bindAddress string, wsPort int, wsPath string, workerCount int, onSubscribe OnSubscribeHandler, onUnsubscribe OnUnsubscribeHandler, topicCleanupThreshold int) (*Broker, error) {

	host, port, err := net.SplitHostPort(bindAddress)
	if err != nil {
		return nil, fmt.Errorf("configure broker config error: %w", err)
	}

	if workerCount <= 0 {
		workerCount = workerNumber
	}

	args := []string{
		fmt.Sprintf("--worker=%d", workerCount),
		fmt.Sprintf("--host=%s", host),
		fmt.Sprintf("--port=%s", port),
	}
	if wsPort > 0 {
		args = append(args,
			fmt.Sprintf("--wsport=%d", wsPort),
			fmt.Sprintf("--wspath=%s", wsPath),
		)
	}

	c, err := broker.ConfigureConfig(args)
	if err != nil {
		return nil, fmt.Errorf("configure broker config error: %w", err)
	}

	t := newTopicManager(onSubscribe, onUnsubscribe, topicCleanupThreshold)

	b, err := broker.NewBroker(c)
	if err != nil {
		return nil, fmt.Errorf("create new broker error: %w", err)
	}

	return &Broker{
		broker:       b,
		config:       c,
		topicManager: t,
	}, nil
}

// Start the broker.
func (b *Broker) Start() {
	b.broker.Start()
}

// Config returns the broker config instance.
func (b *Broker) Config() *broker.Config {
	return b.config
}

// HasSubscribers returns whether a client subscribed to the exact topic.
func (b *Broker) HasSubscribers(topic string) bool {
	return b.topicManager.hasSubscribers(topic)
}

// TopicsCount returns the number of topics with subscribers.
func (b *Broker) TopicsCount() int {
	return b.topicManager.Size()
}

// Send publishes a message.
func (b *Broker) Send(topic string, payload []byte) {

	packet := packets.NewControlPacket(packets.Publish).(*packets.PublishPacket)
	packet.TopicName = topic
	packet.Qos = 0
	packet.Payload = payload

	b.broker.PublishMessage(packet)
}
