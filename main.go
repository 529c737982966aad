package main

import (
	"log"

	"github.com/codedpool/ReWear-Odoo/internal/config"
	"github.com/codedpool/ReWear-Odoo/internal/delivery/http/route"
	repository "github.com/codedpool/ReWear-Odoo/internal/repository/postgresql"
)

// @title           ReWear API
// @version         1.0
// @description     Peer-to-peer clothing exchange: list garments, browse the
// @description     catalog and negotiate swaps or point redemptions.
// @host      localhost:8080
// @BasePath  /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	config.LoadEnv()

	config.ConnectPostgres()
	defer config.PostgresDB.Close()

	if err := repository.EnsureSchema(config.PostgresDB); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	config.ConnectMongo()

	app := config.SetupGin()
	route.SetupRoute(app, config.PostgresDB, config.MongoDB)

	config.SetupServer(app)
}
