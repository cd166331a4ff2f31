package mqtt

import (
	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/msgs"
)

// FramesTopic is the topic suffix frame events are published on.
const FramesTopic = "frames"

// EventsTopic gets the topic of frame events from a bench.
func EventsTopic(id string) string {
	return id + "/" + FramesTopic
}

// Publisher publishes frame events. Events are published without waiting
// for the broker, so the bench loop never blocks.
type Publisher struct {
	Queue *Queue
	Topic string
}

// NewPublisher creates a Publisher for the bench with the ID.
func NewPublisher(q *Queue, id string) *Publisher {
	return &Publisher{Queue: q, Topic: EventsTopic(id)}
}

// FrameReceived implements sim.FrameListener.
func (p *Publisher) FrameReceived(e *msgs.FrameEvent) {
	payload, err := e.Encode()
	if err != nil {
		glog.Errorf("encode event: %v", err)
		return
	}
	glog.V(3).Infof("PUB %q %v", p.Topic, e)
	p.Queue.Pub(p.Topic, payload)
}

// SubscribeEvents subscribes frame events from the benches matching id,
// which may be "+" for all benches.
func SubscribeEvents(q *Queue, id string, fn func(*msgs.FrameEvent)) *Subscription {
	return q.Sub(EventsTopic(id), func(topic string, payload []byte) {
		e, err := msgs.DecodeFrameEvent(payload)
		if err != nil {
			glog.Warningf("drop event on %q: %v", topic, err)
			return
		}
		fn(e)
	})
}
