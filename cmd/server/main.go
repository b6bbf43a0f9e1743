package main

import (
	"log"
	"net/http"
	"time"

	"operateurs-bio-api/config"
	"operateurs-bio-api/internal/db"
	"operateurs-bio-api/internal/ingestion"
	"operateurs-bio-api/internal/logs"
	"operateurs-bio-api/internal/operator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const banner = `<h1>Opérateurs BIO</h1>
<p>Ce site est le prototype d’une API mettant à disposition des données sur les opérateurs BIO en France.</p>`

func main() {
	cfg := config.LoadConfig()

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(banner))
	})

	logService := &logs.LogService{DB: gdb}

	operatorService := &operator.OperatorService{DB: gdb}
	operator.RegisterRoutes(r, operatorService)

	feed := &ingestion.FeedClient{
		URL: cfg.FeedURL,
		HTTPClient: &http.Client{
			Timeout: time.Duration(cfg.FeedTimeoutSeconds) * time.Second,
		},
	}
	ingestionService := &ingestion.IngestionService{DB: gdb, Feed: feed, Logs: logService}
	ingestion.RegisterRoutes(r, ingestionService)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}
