package main

import (
	"log"

	"github.com/ashonting/promptiv/app"
	"github.com/ashonting/promptiv/app/config"
)

func main() {
	app.MustInitStore()
	app.MustInitLLM()

	router, err := app.NewRouter()
	if err != nil {
		log.Fatalf("failed to initialize router: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	router.Run("0.0.0.0:" + cfg.Port)
}
