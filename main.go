package main

import (
	"log"

	"idoldraft/config"
	_ "idoldraft/docs"
	"idoldraft/middleware"
	"idoldraft/routes"
	"idoldraft/services/broadcast"
	"idoldraft/services/catalog"
	"idoldraft/services/socket_io"
	"idoldraft/services/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Idol Draft API
// @version 1.0
// @description Gin-Gonic server for the idol draft party game API
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	cat, err := catalog.New()
	if err != nil {
		log.Fatalf("Error loading card catalog: %v", err)
	}
	log.Printf("Catalog loaded: %d cards, deck of %d", len(cat.Cards()), len(cat.DeckTemplate()))

	hub := broadcast.NewHub()
	gameStore := store.New(cat, hub)

	r := gin.Default()

	middleware.SetUpMiddleware(r, cfg)

	routes.SetupRoutes(r, gameStore, hub)

	sio := socket_io.New(gameStore, hub)
	sio.Start(r)

	if cfg.UseHTTPS {
		if err := r.RunTLS(":"+cfg.Port, cfg.CertFile, cfg.KeyFile); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}
}
