package main

import (
	"snaplink/internal/availability/events"
	"snaplink/internal/availability/handler"
	"snaplink/internal/availability/repository"
	"snaplink/internal/availability/service"
	"snaplink/internal/availability/validator"
	"snaplink/pkg/app"
	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	"snaplink/pkg/kafka"
	kafka_config "snaplink/pkg/kafka/config"
	kafkamiddleware "snaplink/pkg/kafka/middleware"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Availability service")
	slotService, bookedRepo := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSlotHandler(slotService, cfg.Log))

	consumer := initProjectionConsumer(cfg, bookedRepo)
	serverApp.AddWorker(consumer)
	serverApp.OnShutdown(consumer.Close)

	serverApp.Run()
}

func initServices(cfg *config.Config) (service.SlotService, repository.BookedIntervalRepository) {
	slotValidator := validator.NewSlotValidator(cfg.Log)
	slotRepo := repository.NewMongoSlotRepository(cfg)
	bookedRepo := repository.NewMongoBookedIntervalRepository(cfg)
	locker := mongotx.NewLocker(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.LockTTL)

	slotService := service.NewSlotService(
		slotRepo,
		bookedRepo,
		locker,
		slotValidator,
		cfg,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return slotService, bookedRepo
}

func initProjectionConsumer(cfg *config.Config, bookedRepo repository.BookedIntervalRepository) *kafka.Consumer {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	projection := events.NewProjectionHandler(bookedRepo, cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.BookingEventsTopic,
		kafkaCfg.AvailabilityGroup,
		kafkaCfg.DLQTopic,
		projection.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking events consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafkamiddleware.MetricsConsumerMiddleware())
	return consumer
}
