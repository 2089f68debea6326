package routes

import (
	"os"
	"strings"

	"fleetlease-backend/config"
	"fleetlease-backend/controllers"
	"fleetlease-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ALLOWED_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Owner routes
		owners := api.Group("/owners")
		{
			owners.POST("", controllers.CreateOwner)
			owners.GET("", controllers.GetOwners)
			owners.GET("/:id", controllers.GetOwner)
			owners.PUT("/:id", controllers.UpdateOwner)
			owners.DELETE("/:id", controllers.DeleteOwner)
		}

		// Vehicle routes
		vehicles := api.Group("/vehicles")
		{
			vehicles.POST("", controllers.CreateVehicle)
			vehicles.GET("", controllers.GetVehicles)
			vehicles.GET("/:id", controllers.GetVehicle)
			vehicles.PUT("/:id", controllers.UpdateVehicle)
			vehicles.POST("/:id/transfer-ownership", controllers.TransferOwnership)
			vehicles.DELETE("/:id", controllers.DeleteVehicle)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Project routes
		projects := api.Group("/projects")
		{
			projects.POST("", controllers.CreateProject)
			projects.GET("", controllers.GetProjects)
			projects.GET("/:id", controllers.GetProject)
			projects.PUT("/:id", controllers.UpdateProject)
			projects.PUT("/:id/rates", controllers.SetVehicleRates)
			projects.DELETE("/:id", controllers.DeleteProject)
		}

		// Assignment routes
		assignments := api.Group("/assignments")
		{
			assignments.POST("", controllers.CreateAssignment)
			assignments.GET("", controllers.GetAssignments)
			assignments.GET("/:id", controllers.GetAssignment)
			assignments.PUT("/:id", controllers.UpdateAssignment)
			assignments.DELETE("/:id", controllers.DeleteAssignment)
		}

		// Attendance routes
		attendance := api.Group("/attendance")
		{
			attendance.POST("", controllers.UpsertAttendance)
			attendance.POST("/batch", controllers.BatchUpsertAttendance)
			attendance.POST("/batch-delete", controllers.BatchDeleteAttendance)
			attendance.GET("", controllers.GetAttendance)
		}

		// Maintenance routes
		maintenance := api.Group("/maintenance")
		{
			maintenance.POST("", controllers.CreateMaintenance)
			maintenance.GET("", controllers.GetMaintenances)
			maintenance.GET("/:id", controllers.GetMaintenance)
			maintenance.PUT("/:id", controllers.UpdateMaintenance)
			maintenance.DELETE("/:id", controllers.DeleteMaintenance)
		}

		// Owner payment routes. Payments have no update or delete; corrections
		// go through new transactions.
		payments := api.Group("/payments")
		{
			payments.POST("/calculate", controllers.CalculateOwnerPayment)
			payments.POST("", controllers.CreatePayment)
			payments.GET("", controllers.GetPayments)
			payments.GET("/:id", controllers.GetPayment)
			payments.POST("/:id/transactions", controllers.CreatePaymentTransaction)
		}

		// Customer invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("/calculate", controllers.CalculateCustomerInvoice)
			invoices.POST("", controllers.CreateCustomerInvoice)
			invoices.GET("", controllers.GetCustomerInvoices)
			invoices.GET("/:id", controllers.GetCustomerInvoice)
			invoices.POST("/:id/payments", controllers.RecordInvoicePayment)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports/billing", reportController.GetBillingReport)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
