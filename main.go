package main

import (
	"log"
	"net/http"

	"nextvision/account"
	"nextvision/bizerror"
	"nextvision/client/es"
	"nextvision/config"
	"nextvision/content"
	"nextvision/domain"
	"nextvision/domain/project/projectrest"
	"nextvision/infra/tracing"
	"nextvision/persistence"
	"nextvision/servehttp"
	"nextvision/session"
	"nextvision/sessions"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	log.Println("service start")

	if err := config.Load(); err != nil {
		log.Fatalf("load service config failed %v\n", err)
	}

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&domain.Project{}, &account.User{},
		&content.Testimonial{}, &content.ContactSubmission{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.SeedAdminUser(config.Service.AdminName, config.Service.AdminSecret); err != nil {
		log.Fatalf("seed admin user failed %v\n", err)
	}

	if closer, err := tracing.Bootstrap(); err != nil {
		log.Printf("tracing bootstrap failed %v\n", err)
	} else {
		defer closer.Close()
	}

	if config.Service.ElasticsearchURL != "" {
		es.CreateClientFromEnv()
	}

	engine := gin.Default()
	engine.Use(servehttp.Cors(config.Service.CorsOrigins), bizerror.ErrorHandling(), tracing.TracingIngress(),
		servehttp.RateLimit(rate.NewLimiter(rate.Limit(config.Service.RateLimitPerSecond), config.Service.RateLimitBurst)))

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "nextvision")
	})

	sessions.RegisterSessionsHandler(engine)
	projectrest.RegisterProjectsHandler(engine, session.SimpleAuthFilter())
	content.RegisterContentHandler(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine, config.Service.Port)
}
