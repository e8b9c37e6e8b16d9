package main

import (
	"log"
	"os"

	"github.com/ecovilla/exchange-api/config"
	"github.com/ecovilla/exchange-api/routes"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	db := config.InitDB()
	rdb := config.ConnectRedis()

	r := gin.Default()
	routes.SetupRoutes(r, db, rdb)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
