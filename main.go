package main

import (
	"log"
	"os"

	"InspectionPro/CronJobs"
	"InspectionPro/FiberConfig"
	"InspectionPro/Models"
)

func main() {
	setupLogging()

	Models.Connect()

	syncer := CronJobs.NewJobSyncer(Models.DB, os.Getenv("HCP_SYNC_ON_START") == "true")
	if err := syncer.Start(); err != nil {
		log.Printf("Failed to start job sync scheduler: %v", err)
	}

	FiberConfig.FiberConfig()
}

func setupLogging() {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime)
}
