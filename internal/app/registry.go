package app

import (
	"database/sql"
	"path/filepath"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/accrual"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/document"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/holiday"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leaverequest"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/messaging/kafka"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/personnel"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/rbac"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	fileRoot string,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	personnelRepo := personnel.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	leaveRepo := leaverequest.NewRepository(gormDB)
	accrualRepo := accrual.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService(
		filepath.Join("internal", "rbac", "model.conf"),
		filepath.Join("internal", "rbac", "policy.csv"),
	)
	if err != nil {
		return err
	}

	// --- Infrastructure ---
	docStore := document.NewFSStore(fileRoot, "/files")
	holidaySource := holiday.NewClient(rdb)

	manila, err := time.LoadLocation(accrual.DefaultRunLocation)
	if err != nil {
		return err
	}

	// --- Services ---
	personnelService := personnel.NewService(db, personnelRepo, counterRepo, outboxRepo, docStore)
	balanceService := leavebalance.NewService(db, balanceRepo)
	leaveService := leaverequest.NewService(db, leaveRepo, balanceRepo, holidaySource, outboxRepo, docStore)
	accrualService := accrual.NewService(db, accrualRepo, personnelRepo, balanceRepo, manila)

	// --- Handlers ---
	personnelHandler := personnel.NewHandler(personnelService)
	balanceHandler := leavebalance.NewHandler(balanceService)
	leaveHandler := leaverequest.NewHandler(leaveService)
	accrualHandler := accrual.NewHandler(accrualService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		personnel.RegisterRoutes(api, personnelHandler, rbacService)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService)
		leaverequest.RegisterRoutes(api, leaveHandler, rbacService)
		accrual.RegisterRoutes(api, accrualHandler, rbacService, rdb)
	}

	return nil
}
