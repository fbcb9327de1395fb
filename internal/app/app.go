package app

import (
	"os"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/middleware"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func BuildApp(router *gin.Engine) error {
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	// approved leave forms and personnel photos are served from here
	fileRoot := os.Getenv("FILE_STORE_ROOT")
	if fileRoot == "" {
		fileRoot = "data/files"
	}
	router.Static("/files", fileRoot)

	return registerModules(router, db, gormDB, redisClient, fileRoot)
}
