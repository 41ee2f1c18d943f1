package stream

import (
	"errors"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
)

// Config holds the MQTT connection and topics.
type Config struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	ClientID string `yaml:"clientId"`
	Qos      byte   `yaml:"qos"`
	Topics   struct {
		Animate string `yaml:"animate"`
		Status  string `yaml:"status"`
		Frames  string `yaml:"frames"`
	} `yaml:"topics"`
}

// Validate checks the fields the remote engine needs.
func (c Config) Validate() error {
	if c.Qos > 2 {
		return errors.New("mqtt: qos must be 0, 1 or 2")
	}
	if c.Topics.Animate == "" || c.Topics.Status == "" {
		return errors.New("mqtt: animate and status topics are required")
	}
	return nil
}

// ClientOptions builds client options for the configured broker.
func (c Config) ClientOptions() *mqtt.ClientOptions {
	clientID := c.ClientID
	if clientID == "" {
		clientID = "chartling"
	}
	return mqtt.NewClientOptions().
		AddBroker(c.URL).
		SetClientID(clientID).
		SetUsername(c.Username).
		SetPassword(c.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second)
}
