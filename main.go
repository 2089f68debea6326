package main

import (
	"fmt"
	"log"
	"os"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/routes"
	"fleetlease-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Owner{},
		&models.Vehicle{},
		&models.Customer{},
		&models.Project{},
		&models.ProjectVehicleRate{},
		&models.Assignment{},
		&models.Attendance{},
		&models.Maintenance{},
		&models.Payment{},
		&models.PaymentTransaction{},
		&models.CustomerInvoice{},
		&models.CustomerInvoiceItem{},
		&models.CustomerInvoicePayment{},
		&models.ReminderLog{},
	)
}

func main() {
	reminderService := services.NewReminderService(config.DB)
	reminderService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
