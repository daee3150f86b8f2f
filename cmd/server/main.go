package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/napatsri/sugartrack-server/internal/api"
	"github.com/napatsri/sugartrack-server/internal/config"
	"github.com/napatsri/sugartrack-server/internal/reminder"
	"github.com/napatsri/sugartrack-server/internal/repository"
	"github.com/napatsri/sugartrack-server/internal/service"
	"github.com/napatsri/sugartrack-server/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	loc, err := cfg.Reminder.Location()
	if err != nil {
		log.Fatalf("Failed to resolve timezone: %v", err)
	}

	// Set up the row store client
	sheetsSvc, err := config.SetupSheets(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to set up sheets client: %v", err)
	}
	log.Printf("Google Sheets API connected successfully")

	// Set up the messaging client
	bot, err := linebot.New(cfg.Line.ChannelSecret, cfg.Line.ChannelAccessToken)
	if err != nil {
		log.Fatalf("Failed to set up LINE client: %v", err)
	}

	// Create repository
	repo := repository.NewSheetsRepository(sheetsSvc, cfg.Sheets.SpreadsheetID)

	// Create service
	svc := service.NewDefaultService(repo, loc)

	// Create and start the reminder scheduler
	scheduler := reminder.NewScheduler(
		repo,
		reminder.NewLineSender(bot),
		utils.NewComponentLogger("reminder"),
		loc,
		cfg.Reminder.Pause(),
	)
	cronRunner, err := scheduler.Start(cfg.Reminder.Schedule)
	if err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}
	defer cronRunner.Stop()

	// Create API handler
	handler := api.NewHandler(svc, scheduler, cfg.Sheets.SpreadsheetID, utils.NewLogger())

	// Set up Gin router
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(api.RequestLogger(utils.NewComponentLogger("http")))

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on port %d", cfg.Server.Port)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
