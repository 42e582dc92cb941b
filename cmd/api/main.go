package main

import (
	bookingshandler "nomadhub/internal/bookings/handler"
	bookingsrepo "nomadhub/internal/bookings/repository"
	bookingsservice "nomadhub/internal/bookings/service"
	bookingsvalidator "nomadhub/internal/bookings/validator"
	"nomadhub/internal/events"
	"nomadhub/internal/payments"
	roomshandler "nomadhub/internal/rooms/handler"
	roomsrepo "nomadhub/internal/rooms/repository"
	roomsservice "nomadhub/internal/rooms/service"
	roomsvalidator "nomadhub/internal/rooms/validator"
	statshandler "nomadhub/internal/stats/handler"
	statsservice "nomadhub/internal/stats/service"
	usershandler "nomadhub/internal/users/handler"
	usersrepo "nomadhub/internal/users/repository"
	usersservice "nomadhub/internal/users/service"
	"nomadhub/pkg/app"
	"nomadhub/pkg/config"
	"nomadhub/pkg/kafka"
)

const ServiceName = "nomadhub-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	cfg.Log.Info("Starting NomadHub API")

	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	userRepo := usersrepo.NewMongoUserRepository(cfg)

	authorizer := payments.NewStripeAuthorizer(
		cfg.StripeSecretKey,
		cfg.PaymentCurrency,
		cfg.PaymentTimeout,
		cfg.Log,
	)
	publisher := events.NewBookingPublisher(producer, cfg.Log)

	roomService := roomsservice.NewRoomService(roomRepo, roomsvalidator.NewRoomValidator(), cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		roomRepo,
		bookingsvalidator.NewBookingValidator(),
		authorizer,
		publisher,
		cfg,
	)
	userService := usersservice.NewUserService(userRepo, cfg)
	statsService := statsservice.NewStatsService(bookingRepo, roomRepo, userRepo, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		roomshandler.NewRoomHandler(roomService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		usershandler.NewUserHandler(userService, cfg.Log),
		statshandler.NewStatsHandler(statsService, cfg.Log),
	)
	serverApp.Run()
}

// initProducer is optional wiring: without brokers the service runs and
// simply publishes no events.
func initProducer(cfg *config.Config) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, event publishing disabled")
		return nil
	}

	producer, err := kafka.NewProducer(kafka.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaBookingTopic,
	})
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaBookingTopic)
	return producer
}
