package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/chartling/chartling"
	"github.com/matt-g-everett/chartling/dom"
	"github.com/matt-g-everett/chartling/stream"
	"github.com/matt-g-everett/chartling/tween"
	"go.uber.org/zap"
)

type app struct {
	Config     Config
	Logger     *zap.Logger
	Client     mqtt.Client
	Doc        *dom.Document
	Controller *chartling.Controller
	Chartlings map[string]*chartling.Chartling

	// sink overrides where tween frames go.
	sink tween.Sink
}

func newApp(config Config, logger *zap.Logger) *app {
	a := new(app)
	a.Config = config
	a.Logger = logger
	a.Chartlings = make(map[string]*chartling.Chartling)
	return a
}

func (a *app) buildDocument() error {
	a.Doc = dom.NewDocument()
	if a.Config.Page != "" {
		doc, err := dom.ParseDocument(strings.NewReader(a.Config.Page))
		if err != nil {
			return err
		}
		a.Doc = doc
	}
	a.Controller = chartling.NewController(a.Doc, chartling.WithLogger(a.Logger))

	for _, c := range a.Config.Containers {
		tag := c.Tag
		if tag == "" {
			tag = "div"
		}
		el := a.Doc.CreateElement(tag)
		el.SetID(c.ID)
		el.SetClasses(c.Classes...)
		if err := a.Doc.Append(a.Doc.Body(), el); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) connect() error {
	if !a.Config.needsMqtt() || a.Client != nil {
		return nil
	}
	options := a.Config.Mqtt.ClientOptions().
		SetOnConnectHandler(func(mqtt.Client) { a.Logger.Info("connected", zap.String("broker", a.Config.Mqtt.URL)) })
	client := mqtt.NewClient(options)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	a.Client = client
	return nil
}

func (a *app) factory() (chartling.Factory, error) {
	if a.Config.Engine == "mqtt" {
		return stream.NewFactory(a.Client, a.Config.Mqtt, a.Logger), nil
	}

	sink := a.sink
	if sink == nil && a.Config.Publish {
		publisher, err := stream.NewPublisher(a.Client, a.Config.Mqtt)
		if err != nil {
			return nil, err
		}
		sink = publisher
	}
	if sink == nil {
		sink = tween.SinkFunc(func(handle string, f *tween.Frame) error {
			a.Logger.Debug("frame", zap.String("handle", handle), zap.Float64s("values", f.Values))
			return nil
		})
	}
	return tween.NewFactory(a.Config.Tween, sink, a.Logger), nil
}

func (a *app) createChartlings() error {
	for _, c := range a.Config.Chartlings {
		var opts []chartling.Option
		if c.ID != "" {
			opts = append(opts, chartling.WithID(c.ID))
		}
		if c.Base != "" {
			opts = append(opts, chartling.WithBase(chartling.BaseID(c.Base)))
		}
		h, err := chartling.New(a.Controller, dom.Selector(c.Container), opts...)
		if err != nil {
			return err
		}
		a.Chartlings[h.ID()] = h
		a.Logger.Info("chartling ready",
			zap.String("id", h.ID()),
			zap.String("container", c.Container),
			zap.String("base", h.BaseID()))
	}
	return nil
}

func (a *app) play(ctx context.Context) error {
	// Check the whole script first so a bad step queues nothing.
	for i, step := range a.Config.Script {
		if _, ok := a.Chartlings[step.Chartling]; !ok {
			return fmt.Errorf("script step %d: unknown chartling %q", i, step.Chartling)
		}
	}
	for _, step := range a.Config.Script {
		a.Chartlings[step.Chartling].Animate(step.Payload)
	}
	return a.Controller.WaitIdle(ctx)
}

func (a *app) run(ctx context.Context) error {
	if err := a.buildDocument(); err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		return err
	}
	factory, err := a.factory()
	if err != nil {
		return err
	}
	a.Controller.Bind(factory)

	if err := a.createChartlings(); err != nil {
		return err
	}
	return a.play(ctx)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(configPath string, logger *zap.Logger) error {
	config, err := readConfig(configPath)
	if err != nil {
		return err
	}
	logger.Info("config loaded",
		zap.String("engine", config.Engine),
		zap.Int("chartlings", len(config.Chartlings)),
		zap.Int("steps", len(config.Script)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(config, logger)
	defer func() {
		if a.Client != nil {
			a.Client.Disconnect(250)
		}
	}()
	if err := a.run(ctx); err != nil {
		return err
	}
	logger.Info("script finished")
	return nil
}

func main() {
	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	debug := flag.Bool("debug", false, "Log every frame and queue change.")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	mqtt.ERROR = zap.NewStdLog(logger.Named("mqtt"))

	err = run(*configPath, logger)
	if err != nil {
		logger.Error("run", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
