// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/theruads/fleet-backend/internal/auth"
	"github.com/theruads/fleet-backend/internal/config"
	"github.com/theruads/fleet-backend/internal/controller"
	"github.com/theruads/fleet-backend/internal/db"
	"github.com/theruads/fleet-backend/internal/queue"
	"github.com/theruads/fleet-backend/internal/repository"
	"github.com/theruads/fleet-backend/internal/service"
	"github.com/theruads/fleet-backend/internal/storage"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.NewR2Store(cfg)
	if err != nil {
		log.Fatal("failed to init object store:", err)
	}

	var q queue.Queue
	if amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL); err != nil {
		log.Println("⚠️ RabbitMQ unavailable, impression events stay in-process:", err)
		q = queue.NewInMemoryQueue()
	} else {
		q = amqpQueue
	}

	deviceRepo := &repository.DeviceRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	adRepo := &repository.AdRepository{DB: conn}
	impressionRepo := &repository.ImpressionRepository{DB: conn}
	clientRepo := &repository.ClientRepository{DB: conn}
	driverRepo := &repository.DriverRepository{DB: conn}

	deviceService := &service.DeviceService{
		DeviceRepo:       deviceRepo,
		PollingInterval:  cfg.DevicePollingInterval,
		OfflineThreshold: cfg.OfflineThreshold,
	}
	adsService := &service.AdsService{
		CampaignRepo: campaignRepo,
		AdRepo:       adRepo,
		Store:        store,
	}
	impressionService := &service.ImpressionService{
		ImpressionRepo: impressionRepo,
		Queue:          q,
	}
	analyticsService := &service.AnalyticsService{
		DeviceRepo:       deviceRepo,
		CampaignRepo:     campaignRepo,
		ClientRepo:       clientRepo,
		ImpressionRepo:   impressionRepo,
		OfflineThreshold: cfg.OfflineThreshold,
	}

	deviceController := &controller.DeviceController{
		DeviceService:     deviceService,
		AdsService:        adsService,
		ImpressionService: impressionService,
	}
	adminDeviceController := &controller.AdminDeviceController{DeviceService: deviceService}
	campaignController := &controller.CampaignController{
		CampaignRepo: campaignRepo,
		AdsService:   adsService,
	}
	clientController := &controller.ClientController{ClientRepo: clientRepo}
	driverController := &controller.DriverController{DriverRepo: driverRepo}
	analyticsController := &controller.AnalyticsController{AnalyticsService: analyticsService}
	systemController := &controller.SystemController{
		DB:      conn,
		Name:    "Theru Fleet Ad Network API",
		Version: "2.0.0",
	}

	deviceAuth := &auth.DeviceAuthenticator{Service: deviceService}
	adminAuth := auth.NewAdminAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/", systemController.Root)
		r.Get("/health", systemController.Health)

		// Device surface (bootstrap + credential-authenticated)
		r.Post("/device/register", deviceController.Register)
		r.Group(func(r chi.Router) {
			r.Use(deviceAuth.Middleware)
			r.Post("/device/heartbeat", deviceController.Heartbeat)
			r.Get("/device/ads", deviceController.GetAds)
			r.Post("/device/impression", deviceController.RecordImpression)
		})

		// Admin surface (bearer-token, role-gated)
		r.Group(func(r chi.Router) {
			r.Use(adminAuth.Middleware)

			r.Get("/devices", adminDeviceController.ListDevices)
			r.Get("/devices/{id}", adminDeviceController.GetDevice)
			r.Put("/devices/{id}", adminDeviceController.UpdateDevice)
			r.Delete("/devices/{id}", adminDeviceController.DeleteDevice)
			r.Post("/admin/mark-offline", adminDeviceController.MarkOffline)

			r.Post("/drivers", driverController.CreateDriver)
			r.Get("/drivers", driverController.ListDrivers)
			r.Put("/drivers/{id}", driverController.UpdateDriver)
			r.Delete("/drivers/{id}", driverController.DeleteDriver)

			r.Post("/clients", clientController.CreateClient)
			r.Get("/clients", clientController.ListClients)
			r.Put("/clients/{id}", clientController.UpdateClient)

			r.Post("/campaigns", campaignController.CreateCampaign)
			r.Get("/campaigns", campaignController.ListCampaigns)
			r.Get("/campaigns/{id}", campaignController.GetCampaign)
			r.Put("/campaigns/{id}", campaignController.UpdateCampaign)
			r.Post("/campaigns/{id}/ads", campaignController.UploadAd)
			r.Get("/campaigns/{id}/ads", campaignController.ListAds)
			r.Delete("/ads/{id}", campaignController.DeleteAd)

			r.Get("/analytics/overview", analyticsController.Overview)
			r.Get("/analytics/campaigns", analyticsController.Campaigns)
			r.Get("/analytics/impressions", analyticsController.Impressions)
		})
	})

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
