package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tattoola/api/handlers"
	"tattoola/api/routes"
	"tattoola/config"
	"tattoola/db"
	"tattoola/kvstore"
	"tattoola/services"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

func setupLogging(conf *config.ConfigSchema) {
	if conf.Logs.File == "" {
		return
	}
	out := io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   conf.Logs.File,
		MaxSize:    conf.Logs.MaxSizeMB,
		MaxBackups: conf.Logs.MaxBackups,
		Compress:   true,
	})
	log.SetOutput(out)
	gin.DefaultWriter = out
	gin.DefaultErrorWriter = out
}

// draftStore - Redis если он есть, иначе файлы на диске
func draftStore(conf *config.ConfigSchema) kvstore.Store {
	if services.RedisClient != nil {
		return kvstore.NewRedis(services.RedisClient, conf.Drafts.KeyPrefix, conf.Drafts.RedisTTL)
	}
	if conf.Drafts.Dir != "" {
		store, err := kvstore.NewOSFile(conf.Drafts.Dir)
		if err == nil {
			return store
		}
		log.Printf("ERROR: failed to open drafts dir %s: %v", conf.Drafts.Dir, err)
	}
	return kvstore.NewMemory()
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	conf := config.AppConfig
	setupLogging(conf)
	log.Printf("Starting server %s...", conf.Backend.Service)
	if conf.Logs.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	err = db.ConnectDB()
	if err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis и RabbitMQ необязательны: без них лента читается из БД, а события идут напрямую в WebSocket
	if err := services.InitRedis(); err != nil {
		log.Printf("ERROR: Redis is not available, feed cache disabled: %v", err)
	} else {
		defer services.CloseRedis()
		services.QueueServiceInstance.StartWorkers(ctx)
	}

	if err := services.InitRabbitMQ(conf.RabbitMQ.URL, conf.RabbitMQ.Exchange); err != nil {
		log.Printf("ERROR: RabbitMQ is not available, pushing feed events directly: %v", err)
	} else {
		defer services.CloseRabbitMQ()
		queue := conf.RabbitMQ.Queue
		if queue == "" {
			queue = "feed_push"
		}
		if err := services.StartFeedEventConsumer(ctx, queue); err != nil {
			log.Printf("ERROR: failed to start feed event consumer: %v", err)
		}
	}

	handlers.DraftStore = draftStore(conf)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	routes.PublicApi(router, routes.Options{
		ServiceName:     conf.Backend.Service,
		AdminToken:      conf.Backend.AdminToken,
		TrustUserHeader: conf.Backend.TrustUserHeader,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.Backend.Host, conf.Backend.Port),
		Handler: router,
	}
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: server shutdown: %v", err)
	}
	if services.QueueServiceInstance != nil {
		services.QueueServiceInstance.Wait()
	}
}
