package route

import (
	"database/sql"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	httpHandler "github.com/codedpool/ReWear-Odoo/internal/delivery/http/handler"
	"github.com/codedpool/ReWear-Odoo/internal/delivery/http/middleware"
	mongorepo "github.com/codedpool/ReWear-Odoo/internal/repository/mongodb"
	repo "github.com/codedpool/ReWear-Odoo/internal/repository/postgresql"
	"github.com/codedpool/ReWear-Odoo/internal/service"
)

func SetupRoute(app *gin.Engine, db *sql.DB, mongoDB *mongo.Database) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	signupBonus := 0
	if v := os.Getenv("SIGNUP_BONUS_POINTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Printf("warning: ignoring invalid SIGNUP_BONUS_POINTS %q", v)
		} else {
			signupBonus = n
		}
	}

	// Repositories, services, handlers.
	userRepo := repo.NewUserRepository(db)
	itemRepo := repo.NewItemRepository(db)
	exchangeStore := repo.NewExchangeStore(db)
	logRepo := mongorepo.NewLogRepository(mongoDB)

	ledgerService := service.NewLedgerService(userRepo)
	authService := service.NewAuthService(userRepo, ledgerService, jwtSecret, signupBonus)
	itemService := service.NewItemService(itemRepo)
	moderationService := service.NewModerationService(itemRepo, logRepo)
	exchangeService := service.NewExchangeService(exchangeStore, itemRepo, userRepo, logRepo)

	authHandler := httpHandler.NewAuthHandler(authService)
	itemHandler := httpHandler.NewItemHandler(itemService)
	exchangeHandler := httpHandler.NewExchangeHandler(exchangeService)
	adminHandler := httpHandler.NewAdminHandler(moderationService, authService, ledgerService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", middleware.AuthRequired(jwtSecret), authHandler.Profile)

	items := api.Group("/items")
	items.GET("", itemHandler.ListCatalog)
	items.GET("/:id", middleware.AuthOptional(jwtSecret), itemHandler.GetItem)
	items.POST("", middleware.AuthRequired(jwtSecret), itemHandler.CreateItem)
	items.GET("/mine", middleware.AuthRequired(jwtSecret), itemHandler.ListMine)
	items.PATCH("/:id/withdraw", middleware.AuthRequired(jwtSecret), itemHandler.Withdraw)
	items.PATCH("/:id/relist", middleware.AuthRequired(jwtSecret), itemHandler.Relist)

	swaps := api.Group("/swaps", middleware.AuthRequired(jwtSecret))
	swaps.POST("", exchangeHandler.CreateProposal)
	swaps.PATCH("/:id", exchangeHandler.ResolveProposal)
	swaps.DELETE("/:id", exchangeHandler.CancelProposal)
	swaps.GET("/outgoing", exchangeHandler.ListOutgoing)
	swaps.GET("/incoming", exchangeHandler.ListIncoming)

	admin := api.Group("/admin", middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	admin.GET("/items/pending", adminHandler.ListPendingItems)
	admin.PATCH("/items/:id/approve", adminHandler.ApproveItem)
	admin.PATCH("/items/:id/reject", adminHandler.RejectItem)
	admin.DELETE("/items/:id", adminHandler.RemoveItem)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/points", adminHandler.AdjustPoints)
}
