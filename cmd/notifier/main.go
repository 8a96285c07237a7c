package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"usersvc/internal/notifier"
	"usersvc/pkg/config"
	"usersvc/pkg/events"
	"usersvc/pkg/kafka"
	"usersvc/pkg/logger"
	"usersvc/pkg/rabbitmq"
)

func main() {
	// Load configuration
	cfg := config.LoadForService("notification-service")

	// Initialize logger
	log := logger.New("notification-service", cfg.LogLevel)
	defer log.Sync()

	log.Info("starting notification service")

	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
		log.Fatal("Mailgun is not configured (MAILGUN_DOMAIN, MAILGUN_API_KEY)")
	}

	sender := notifier.NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailSender)
	emails := notifier.NewEmailService(sender, log)
	consumer := notifier.NewUserEventConsumer(emails, log)

	// Cancel the consume context on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down notification service")
		cancel()
	}()

	switch cfg.EventBus {
	case config.BusRabbitMQ:
		runAMQP(ctx, cfg, consumer, log)
	default:
		runKafka(ctx, cfg, consumer, log)
	}

	log.Info("notification service stopped")
}

func runKafka(ctx context.Context, cfg *config.Config, consumer *notifier.UserEventConsumer, log *logger.Logger) {
	reader := kafka.NewReader(kafka.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Group:   cfg.KafkaGroup,
	})

	kc := notifier.NewKafkaConsumer(reader, consumer, log)
	defer kc.Close()

	if err := kc.Run(ctx); err != nil {
		log.Error("consumer stopped with error: " + err.Error())
	}
}

func runAMQP(ctx context.Context, cfg *config.Config, consumer *notifier.UserEventConsumer, log *logger.Logger) {
	conn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ: " + err.Error())
	}
	defer conn.Close()

	amqpConsumer, err := rabbitmq.NewConsumer(
		conn,
		events.QueueNotifications,
		events.ExchangeUsers,
		[]string{events.RoutingKeyUserCreated, events.RoutingKeyUserDeleted},
		log,
	)
	if err != nil {
		log.Fatal("failed to create consumer: " + err.Error())
	}

	if err := amqpConsumer.Consume(ctx, consumer.HandleMessage); err != nil {
		log.Fatal("failed to start consuming: " + err.Error())
	}

	<-ctx.Done()
}
