package main

import (
	"fmt"
	"os"

	"github.com/codedpool/ReWear-Odoo/internal/config"
)

// Connectivity smoke check: loads the environment and pings both databases.
func main() {
	config.LoadEnv()

	if os.Getenv("DB_HOST") == "" {
		fmt.Println(".env not loaded or DB_HOST not set")
		os.Exit(1)
	}

	config.ConnectPostgres()
	defer config.PostgresDB.Close()

	config.ConnectMongo()

	fmt.Println("All connections OK")
}
