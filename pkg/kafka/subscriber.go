package kafka

import (
	"context"
	"errors"

	"github.com/Shopify/sarama"
	"github.com/ywitter/backend/pkg/logger"
	"github.com/ywitter/backend/pkg/pubsub"
)

type subscriber struct {
	topics  []string
	client  sarama.ConsumerGroup
	handler pubsub.SubscribeHandler
	logger  logger.Logger
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
	logger logger.Logger,
) (*subscriber, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		topics:  topics,
		client:  client,
		handler: handler,
		logger:  logger,
	}, nil
}

func (s *subscriber) Subscribe(ctx context.Context) error {
	h := &consumerGroupHandler{fn: s.handler, logger: s.logger}
	for {
		// Consume returns on every server-side rebalance, the session must be
		// recreated to get the new claims.
		if err := s.client.Consume(ctx, s.topics, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}

			return err
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *subscriber) Close() error {
	return s.client.Close()
}

type consumerGroupHandler struct {
	fn     pubsub.SubscribeHandler
	logger logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim,
) error {
	for message := range claim.Messages() {
		pack := &pubsub.Pack{Key: message.Key, Msg: message.Value}
		if err := h.fn(session.Context(), message.Topic, pack, message.Timestamp); err != nil {
			h.logger.Errorf("Cannot handle message at offset %d of %s: %v",
				message.Offset, message.Topic, err)
			continue
		}

		session.MarkMessage(message, "")
	}

	return nil
}
