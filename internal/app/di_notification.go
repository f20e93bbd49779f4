package app

import (
	"fmt"

	"github.com/allisson/barter/internal/broker/kafka"
	"github.com/allisson/barter/internal/broker/rabbitmq"
	"github.com/allisson/barter/internal/notification/channel"
	"github.com/allisson/barter/internal/notification/consumer"
	"github.com/allisson/barter/internal/notification/publisher"
	"github.com/allisson/barter/internal/notification/template"
)

const (
	brokerKafka    = "kafka"
	brokerRabbitMQ = "rabbitmq"

	channelLog  = "log"
	channelSMTP = "smtp"
)

// EventProducer returns the broker-side producer for the configured broker driver.
func (c *Container) EventProducer() (publisher.Producer, error) {
	c.producerInit.Do(func() {
		var err error
		c.producer, err = c.initEventProducer()
		if err != nil {
			c.setInitError("producer", err)
		}
	})
	if err := c.initError("producer"); err != nil {
		return nil, err
	}
	return c.producer, nil
}

// EventSubscriber returns the broker-side subscriber for the configured broker driver.
func (c *Container) EventSubscriber() (consumer.Subscriber, error) {
	c.subscriberInit.Do(func() {
		var err error
		c.subscriber, err = c.initEventSubscriber()
		if err != nil {
			c.setInitError("subscriber", err)
		}
	})
	if err := c.initError("subscriber"); err != nil {
		return nil, err
	}
	return c.subscriber, nil
}

// EventPublisher returns the asynchronous publisher. Its shard workers start on first access
// and are drained by Shutdown.
func (c *Container) EventPublisher() (*publisher.AsyncPublisher, error) {
	c.publisherInit.Do(func() {
		eventPublisher, err := c.initEventPublisher()
		if err != nil {
			c.setInitError("publisher", err)
			return
		}
		c.mu.Lock()
		c.publisher = eventPublisher
		c.mu.Unlock()
	})
	if err := c.initError("publisher"); err != nil {
		return nil, err
	}
	return c.publisher, nil
}

// TemplateCatalog returns the notification template catalog.
func (c *Container) TemplateCatalog() *template.Catalog {
	c.catalogInit.Do(func() {
		c.catalog = template.DefaultCatalog()
	})
	return c.catalog
}

// DeliveryChannel returns the channel notifications are delivered through.
func (c *Container) DeliveryChannel() (consumer.Channel, error) {
	c.channelInit.Do(func() {
		switch c.config.NotificationChannel {
		case channelLog:
			c.channel = channel.NewLogChannel(c.Logger())
		case channelSMTP:
			c.channel = channel.NewSMTPChannel(channel.SMTPConfig{
				Host:     c.config.SMTPHost,
				Port:     c.config.SMTPPort,
				Username: c.config.SMTPUsername,
				Password: c.config.SMTPPassword,
				From:     c.config.SMTPFrom,
			})
		default:
			c.setInitError(
				"channel",
				fmt.Errorf("unsupported notification channel: %s", c.config.NotificationChannel),
			)
		}
	})
	if err := c.initError("channel"); err != nil {
		return nil, err
	}
	return c.channel, nil
}

// NotificationConsumer returns the consumer that renders and delivers notification events.
func (c *Container) NotificationConsumer() (*consumer.Consumer, error) {
	c.consumerInit.Do(func() {
		var err error
		c.consumer, err = c.initNotificationConsumer()
		if err != nil {
			c.setInitError("consumer", err)
		}
	})
	if err := c.initError("consumer"); err != nil {
		return nil, err
	}
	return c.consumer, nil
}

// rabbitMQClient dials RabbitMQ once per process; the connection serves both directions.
func (c *Container) rabbitMQClient() (*rabbitmq.Client, error) {
	c.rabbitClientInit.Do(func() {
		client, err := rabbitmq.Dial(rabbitmq.Config{
			URL:        c.config.RabbitMQURL,
			Exchange:   c.config.RabbitMQExchange,
			Queue:      c.config.RabbitMQQueue,
			RoutingKey: c.config.RabbitMQRoutingKey,
		}, c.Logger())
		if err != nil {
			c.setInitError("rabbitClient", fmt.Errorf("failed to connect to rabbitmq: %w", err))
			return
		}
		c.mu.Lock()
		c.rabbitClient = client
		c.brokerClosers = append(c.brokerClosers, client.Close)
		c.mu.Unlock()
	})
	if err := c.initError("rabbitClient"); err != nil {
		return nil, err
	}
	return c.rabbitClient, nil
}

func (c *Container) kafkaConfig() kafka.Config {
	return kafka.Config{
		Brokers: c.config.KafkaBrokers,
		Topic:   c.config.KafkaTopic,
		GroupID: c.config.KafkaGroupID,
	}
}

func (c *Container) initEventProducer() (publisher.Producer, error) {
	switch c.config.BrokerDriver {
	case brokerKafka:
		producer := kafka.NewProducer(c.kafkaConfig())
		c.mu.Lock()
		c.brokerClosers = append(c.brokerClosers, producer.Close)
		c.mu.Unlock()
		return producer, nil
	case brokerRabbitMQ:
		return c.rabbitMQClient()
	default:
		return nil, fmt.Errorf("unsupported broker driver: %s", c.config.BrokerDriver)
	}
}

func (c *Container) initEventSubscriber() (consumer.Subscriber, error) {
	switch c.config.BrokerDriver {
	case brokerKafka:
		subscriber := kafka.NewSubscriber(c.kafkaConfig(), c.Logger())
		c.mu.Lock()
		c.brokerClosers = append(c.brokerClosers, subscriber.Close)
		c.mu.Unlock()
		return subscriber, nil
	case brokerRabbitMQ:
		return c.rabbitMQClient()
	default:
		return nil, fmt.Errorf("unsupported broker driver: %s", c.config.BrokerDriver)
	}
}

func (c *Container) initEventPublisher() (*publisher.AsyncPublisher, error) {
	producer, err := c.EventProducer()
	if err != nil {
		return nil, fmt.Errorf("failed to get event producer for event publisher: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for event publisher: %w", err)
	}

	return publisher.New(producer, publisher.Config{
		Workers:        c.config.PublisherWorkers,
		QueueSize:      c.config.PublisherQueueSize,
		MaxAttempts:    c.config.PublisherMaxAttempts,
		InitialBackoff: c.config.PublisherInitialBackoff,
		MaxBackoff:     c.config.PublisherMaxBackoff,
	}, c.Logger(), businessMetrics), nil
}

func (c *Container) initNotificationConsumer() (*consumer.Consumer, error) {
	subscriber, err := c.EventSubscriber()
	if err != nil {
		return nil, fmt.Errorf("failed to get event subscriber for notification consumer: %w", err)
	}

	deliveryChannel, err := c.DeliveryChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery channel for notification consumer: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for notification consumer: %w", err)
	}

	return consumer.New(
		subscriber,
		c.TemplateCatalog(),
		deliveryChannel,
		c.config.NotificationSignature,
		c.Logger(),
		businessMetrics,
	), nil
}
