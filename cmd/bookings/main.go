package main

import (
	"time"

	"communityportal/internal/bookings/events"
	bookinghandler "communityportal/internal/bookings/handler"
	"communityportal/internal/bookings/repository"
	"communityportal/internal/bookings/service"
	"communityportal/internal/bookings/validator"
	"communityportal/internal/resources"
	resourcehandler "communityportal/internal/resources/handler"
	"communityportal/pkg/app"
	"communityportal/pkg/config"
	"communityportal/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	catalog, err := resources.Load(cfg.CatalogPath)
	if err != nil {
		cfg.Log.Fatal("Failed to load resource catalog", "error", err)
	}
	cfg.Log.Info("Resource catalog loaded", "resources", len(catalog.List()))

	publisher, producer := initPublisher(cfg)
	bookingService := initBookingService(cfg, catalog, publisher)

	sweeper := service.NewSweeper(bookingService, cfg.SweepInterval, cfg.Log)
	sweeper.Start()

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(sweeper.Stop)
	if producer != nil {
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
	}
	serverApp.SetApp(
		bookinghandler.NewBookingHandler(bookingService, cfg.Location(), cfg.Log),
		resourcehandler.NewResourceHandler(catalog, cfg.Log),
	)
	serverApp.Run()
}

func initBookingService(cfg *config.Config, catalog *resources.Catalog, publisher events.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewSlotLockRepository(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		catalog,
		bookingValidator,
		publisher,
		cfg,
		time.Now,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config) (events.Publisher, *kafka.Producer) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking events disabled")
		return events.NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Booking event publisher initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaBookingTopic,
	)
	return events.NewKafkaPublisher(producer, cfg.Log), producer
}
