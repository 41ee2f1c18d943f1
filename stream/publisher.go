package stream

import (
	"errors"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/chartling/tween"
)

// Publisher is a tween.Sink that sends binary frames to <frames>/<handle>.
type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// NewPublisher creates a Publisher for the configured frames topic.
func NewPublisher(client mqtt.Client, config Config) (*Publisher, error) {
	if config.Topics.Frames == "" {
		return nil, errors.New("mqtt: frames topic is required")
	}
	p := new(Publisher)
	p.client = client
	p.topic = config.Topics.Frames
	p.qos = config.Qos
	return p, nil
}

// Render publishes f and waits for the publish to complete.
func (p *Publisher) Render(handle string, f *tween.Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic+"/"+handle, p.qos, false, b)
	token.Wait()
	return token.Error()
}
