package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nutrikeep/product-db/internal/config"
	httpAPI "github.com/nutrikeep/product-db/internal/http"
	"github.com/nutrikeep/product-db/internal/http/controller"
	"github.com/nutrikeep/product-db/internal/logger"
	"github.com/nutrikeep/product-db/internal/metrics"
	"github.com/nutrikeep/product-db/internal/repository/sql"
)

func main() {
	logger.InitJSONLogger()

	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	ctx := context.Background()
	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)

	backend := sql.NewStore(db)

	ctr := httpAPI.Controllers{
		Base:            controller.New(conf, backend),
		MissingProducts: controller.NewMissingProductController(backend),
		ProductRequests: controller.NewProductRequestController(backend),
		Products:        controller.NewProductController(backend),
	}

	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := httpAPI.InitRouter(gin.New(), ctr)

	go func() {
		err = httpServer.Run(":" + conf.HTTPServer.Port)
		if err != nil {
			handleErr("listening to HTTP requests", err)
		}
	}()

	// Start metrics server
	metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down gracefully...")
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
