package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Nidish2/Climate-Platform/internal/app"
	"github.com/Nidish2/Climate-Platform/internal/platform/envutil"
)

func main() {
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("Startup failed", "error", err)
		os.Exit(1)
	}

	port := envutil.GetEnv("PORT", "8080", application.Log)
	application.Log.Info("Server listening", "port", port)
	if err := application.Run(":" + port); err != nil {
		application.Log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
