package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/okoshkin/filesmanager/internal/server/config"
	"github.com/okoshkin/filesmanager/internal/worker"
)

func main() {

	// optional local overrides; absence is fine
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := worker.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
