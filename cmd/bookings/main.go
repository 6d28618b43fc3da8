package main

import (
	"github.com/hibiken/asynq"

	"snaplink/internal/bookings/events"
	"snaplink/internal/bookings/handler"
	"snaplink/internal/bookings/repository"
	"snaplink/internal/bookings/service"
	"snaplink/internal/bookings/validator"
	"snaplink/internal/bookings/worker"
	"snaplink/pkg/app"
	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	"snaplink/pkg/geo"
	"snaplink/pkg/kafka"
	kafka_config "snaplink/pkg/kafka/config"
	kafkamiddleware "snaplink/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	publisher := initPublisher(cfg, serverApp)
	bookingService := initServices(cfg, publisher)

	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.AddWorker(worker.NewCleanupWorker(bookingService, asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.CleanupInterval, cfg.Location, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher *events.Publisher) service.BookingService {
	distance, err := geo.NewCachedProvider(geo.NewHaversineProvider(cfg.AverageTravelSpeedKmh), cfg.GeoCacheSize, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create distance cache", "error", err)
	}

	bookingService := service.NewBookingService(service.Dependencies{
		Bookings:  repository.NewMongoBookingRepository(cfg),
		Locations: repository.NewMongoLocationRepository(cfg),
		Rates:     repository.NewMongoRateRepository(cfg),
		Slots:     repository.NewMongoSlotReader(cfg),
		Cleanup:   repository.NewRedisCleanupStateStore(cfg.Client.Redis),
		Locker:    mongotx.NewLocker(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.LockTTL),
		Distance:  distance,
		Hook:      publisher,
		Publisher: publisher,
		Validator: validator.NewBookingValidator(cfg.Log),
	}, cfg)

	cfg.Log.Info("Bookings service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config, serverApp *app.Application) *events.Publisher {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	bookingsProducer := newProducer(cfg, kafkaCfg, kafkaCfg.BookingEventsTopic)
	walletProducer := newProducer(cfg, kafkaCfg, kafkaCfg.WalletEventsTopic)
	serverApp.OnShutdown(bookingsProducer.Close)
	serverApp.OnShutdown(walletProducer.Close)

	return events.NewPublisher(bookingsProducer, walletProducer, cfg.Log)
}

func newProducer(cfg *config.Config, kafkaCfg *kafka_config.Config, topic string) *kafka.Producer {
	producer, err := kafka.NewProducer(kafkaCfg, topic, kafkaCfg.DLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "topic", topic, "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware())
	return producer
}
