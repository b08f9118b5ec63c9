package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/ywitter/backend/internal/webhookprocessor"
	"github.com/ywitter/backend/pkg/kafka"
	"github.com/ywitter/backend/pkg/prometheus"
	"github.com/ywitter/backend/pkg/xcontext"
)

func (s *srv) startWebhook(*cli.Context) error {
	s.loadDatabase()
	s.loadRepos()

	cfg := xcontext.Configs(s.ctx)
	handler := webhookprocessor.NewSubscribeHandler(s.webhookRepo, &http.Client{Timeout: cfg.Webhook.Timeout})

	subscriber, err := kafka.NewSubscriber(
		cfg.Kafka.ConsumerGroup,
		[]string{cfg.Kafka.Addr},
		[]string{cfg.Webhook.Topic},
		handler.Subscribe,
		xcontext.Logger(s.ctx),
	)
	if err != nil {
		return err
	}
	defer subscriber.Close()

	go func() {
		httpSrv := &http.Server{
			Addr:    cfg.Prometheus.Address(),
			Handler: prometheus.NewHandler("webhook"),
		}

		xcontext.Logger(s.ctx).Infof("Starting prometheus on %s", cfg.Prometheus.Address())
		if err := httpSrv.ListenAndServe(); err != nil {
			xcontext.Logger(s.ctx).Errorf("Prometheus server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	xcontext.Logger(ctx).Infof("Started webhook worker on topic %s", cfg.Webhook.Topic)
	return subscriber.Subscribe(ctx)
}
