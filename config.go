package main

import (
	"fmt"
	"os"

	"github.com/matt-g-everett/chartling/chartling"
	"github.com/matt-g-everett/chartling/stream"
	"github.com/matt-g-everett/chartling/tween"
	"gopkg.in/yaml.v2"
)

// Config is the host configuration read from YAML.
type Config struct {
	// Engine selects the chart engine: "tween" renders locally, "mqtt"
	// forwards transitions to a remote renderer.
	Engine string `yaml:"engine"`
	// Publish streams tween frames over MQTT instead of logging them.
	Publish bool          `yaml:"publish"`
	Mqtt    stream.Config `yaml:"mqtt"`
	Tween   tween.Config  `yaml:"tween"`

	// Page is an optional HTML page the containers are resolved in. Listed
	// containers are appended to its body.
	Page string `yaml:"page"`

	Containers []ContainerConfig `yaml:"containers"`
	Chartlings []ChartlingConfig `yaml:"chartlings"`
	Script     []Step            `yaml:"script"`
}

// ContainerConfig describes an element added to the document body.
type ContainerConfig struct {
	ID      string   `yaml:"id"`
	Tag     string   `yaml:"tag"`
	Classes []string `yaml:"classes"`
}

// ChartlingConfig describes a chartling to create, in order.
type ChartlingConfig struct {
	ID        string `yaml:"id"`
	Container string `yaml:"container"`
	Base      string `yaml:"base"`
}

// Step is one submission in the script.
type Step struct {
	Chartling         string `yaml:"chartling"`
	chartling.Payload `yaml:",inline"`
}

func (c *Config) validate() error {
	switch c.Engine {
	case "", "tween":
		c.Engine = "tween"
	case "mqtt":
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	if c.Engine == "mqtt" {
		if err := c.Mqtt.Validate(); err != nil {
			return err
		}
	}
	if c.Publish && c.Mqtt.Topics.Frames == "" {
		return fmt.Errorf("publish needs mqtt.topics.frames")
	}
	for i, ch := range c.Chartlings {
		if ch.Container == "" {
			return fmt.Errorf("chartling %d: container is required", i)
		}
	}
	return nil
}

func (c *Config) needsMqtt() bool {
	return c.Engine == "mqtt" || c.Publish
}

func readConfig(configPath string) (Config, error) {
	var config Config
	f, err := os.Open(configPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.SetStrict(true)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("parse %s: %w", configPath, err)
	}
	if err := config.validate(); err != nil {
		return config, fmt.Errorf("%s: %w", configPath, err)
	}
	return config, nil
}
