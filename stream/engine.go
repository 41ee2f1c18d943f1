// Package stream connects chartlings to a renderer over MQTT.
//
// Engine forwards whole transitions to a remote renderer and waits for its
// acknowledgements. Publisher streams locally rendered frames instead.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/chartling/chartling"
	"github.com/matt-g-everett/chartling/dom"
	"go.uber.org/zap"
)

// Engine is a chartling.Engine backed by a remote renderer.
type Engine struct {
	client    mqtt.Client
	config    Config
	logger    *zap.Logger
	container *dom.Element
	ready     *chartling.CompletionToken

	mu      sync.Mutex
	nextAck uint64
	pending map[uint64]*chartling.CompletionToken
}

// NewEngine subscribes to the status topic and returns an Engine that becomes
// ready when the renderer announces itself.
func NewEngine(client mqtt.Client, container *dom.Element, config Config, logger *zap.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := new(Engine)
	e.client = client
	e.config = config
	e.logger = logger
	e.container = container
	e.ready = chartling.NewToken()
	e.pending = make(map[uint64]*chartling.CompletionToken)

	if token := client.Subscribe(config.Topics.Status, config.Qos, e.handleStatus); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("subscribe %s: %w", config.Topics.Status, token.Error())
	}

	return e, nil
}

// NewFactory returns a chartling.Factory that builds an Engine on client.
func NewFactory(client mqtt.Client, config Config, logger *zap.Logger) chartling.Factory {
	return func(container *dom.Element) (chartling.Engine, error) {
		return NewEngine(client, container, config, logger)
	}
}

// Container returns the off-document element the engine is bound to.
func (e *Engine) Container() *dom.Element {
	return e.container
}

func (e *Engine) Ready() chartling.Token {
	return e.ready
}

// Animate publishes req and returns a token resolved by the renderer's ack.
func (e *Engine) Animate(req chartling.Request) chartling.Token {
	tok := chartling.NewToken()

	e.mu.Lock()
	e.nextAck++
	ackID := e.nextAck
	e.pending[ackID] = tok
	e.mu.Unlock()

	data, err := json.Marshal(AnimateMessage{AckID: ackID, Request: req})
	if err != nil {
		e.resolve(ackID, err)
		return tok
	}

	pub := e.client.Publish(e.config.Topics.Animate, e.config.Qos, false, data)
	go func() {
		if pub.Wait() && pub.Error() != nil {
			e.resolve(ackID, fmt.Errorf("publish %s: %w", e.config.Topics.Animate, pub.Error()))
		}
	}()

	return tok
}

// Pending returns the number of unacknowledged transitions.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Close stops listening for status messages.
func (e *Engine) Close() error {
	token := e.client.Unsubscribe(e.config.Topics.Status)
	token.Wait()
	return token.Error()
}

func (e *Engine) handleStatus(client mqtt.Client, msg mqtt.Message) {
	var status StatusMessage
	if err := json.Unmarshal(msg.Payload(), &status); err != nil {
		e.logger.Warn("bad status message", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	switch status.Type {
	case StatusReady:
		e.ready.Complete(nil)
	case StatusAck:
		e.resolve(status.AckID, nil)
	case StatusError:
		err := errors.New(status.Error)
		if status.AckID == 0 {
			// Renderer failed before it became ready.
			e.ready.Complete(err)
			return
		}
		e.resolve(status.AckID, err)
	default:
		e.logger.Debug("ignoring status message", zap.String("type", status.Type))
	}
}

func (e *Engine) resolve(ackID uint64, err error) {
	e.mu.Lock()
	tok, ok := e.pending[ackID]
	delete(e.pending, ackID)
	e.mu.Unlock()

	if !ok {
		e.logger.Debug("ack for unknown transition", zap.Uint64("ackID", ackID))
		return
	}
	tok.Complete(err)
}
