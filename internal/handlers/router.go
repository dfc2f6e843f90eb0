package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/middleware"
	"github.com/skyline/air-reservation/internal/models"
)

// Handlers groups every page handler of the site
type Handlers struct {
	Auth     *AuthHandler
	Search   *SearchHandler
	Customer *CustomerHandler
	Agent    *AgentHandler
	Staff    *StaffHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the public, customer, agent and staff pages
func RegisterRoutes(router *gin.Engine, h Handlers, auth middleware.SessionAuthenticator, logger *logrus.Logger) {
	if h.Health != nil {
		router.GET("/health", h.Health.Health)
	}

	// Public
	router.GET("/", h.Auth.Home)
	router.GET("/search", h.Search.PublicSearch)
	router.POST("/search", h.Search.PublicSearch)
	router.GET("/register", h.Auth.RegisterOptions)
	router.POST("/register/customer", h.Auth.RegisterCustomer)
	router.POST("/register/agent", h.Auth.RegisterAgent)
	router.GET("/register/staff", h.Auth.StaffRegistrationForm)
	router.POST("/register/staff", h.Auth.RegisterStaff)
	router.POST("/login", h.Auth.Login)
	router.GET("/logout", h.Auth.Logout)
	router.POST("/logout", h.Auth.Logout)

	requireSession := middleware.AuthMiddleware(auth, logger)

	customer := router.Group("/customer")
	customer.Use(requireSession, middleware.RequirePrincipal(models.PrincipalCustomer))
	{
		customer.GET("", h.Customer.Dashboard)
		customer.POST("", h.Customer.Dashboard)
		customer.POST("/search_flights", h.Search.PublicSearch)
		customer.GET("/purchase/:airline/:flight_num", h.Customer.PurchasePage)
		customer.POST("/purchase/:airline/:flight_num", h.Customer.Purchase)
		customer.GET("/purchased_flights", h.Customer.PurchasedFlights)
		customer.GET("/tickets/:ticket_id/boarding_pass", h.Customer.BoardingPass)
	}

	agent := router.Group("/agent")
	agent.Use(requireSession, middleware.RequirePrincipal(models.PrincipalAgent))
	{
		agent.GET("", h.Agent.Dashboard)
		agent.GET("/search", h.Search.AgentSearch)
		agent.POST("/search", h.Search.AgentSearch)
		agent.GET("/purchase/:airline/:flight_num", h.Agent.PurchasePage)
		agent.POST("/purchase/:airline/:flight_num", h.Agent.Purchase)
		agent.GET("/bookings", h.Agent.Bookings)
		agent.POST("/bookings", h.Agent.Bookings)
	}

	staff := router.Group("/staff")
	staff.Use(requireSession, middleware.RequirePrincipal(models.PrincipalStaff))
	{
		staff.GET("", h.Staff.Dashboard)
		staff.GET("/passengers/:airline/:flight_num", h.Staff.Passengers)
		staff.POST("/customer_history", h.Staff.CustomerHistory)
		staff.GET("/analytics", h.Staff.Analytics)
		staff.POST("/create_flight", h.Staff.CreateFlight)
		staff.POST("/update_status", h.Staff.UpdateStatus)
		staff.POST("/add_airplane", h.Staff.AddAirplane)
		staff.POST("/add_airport", h.Staff.AddAirport)
		staff.POST("/add_agent_auth", h.Staff.AddAgentAuth)
	}
}
