// Package server wires services, handlers and middleware into a gin router.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"budgetmaster/internal/cache"
	"budgetmaster/internal/classifier"
	"budgetmaster/internal/handlers"
	"budgetmaster/internal/middleware"
	"budgetmaster/internal/models"
	"budgetmaster/internal/queue"
	"budgetmaster/internal/services"
	"budgetmaster/internal/storage"

	_ "budgetmaster/internal/docs" // Import swagger docs
)

// Options configures the application.
type Options struct {
	JWTSecret          string
	JWTAudience        string
	PipelineAPIKey     string
	CORSAllowedOrigins []string

	Classifier        *classifier.Classifier
	DefaultFoodBudget decimal.Decimal
	InvalidateSeries  bool

	// Publisher sends reconcile requests to the worker. When nil,
	// reconciliation runs inline after each transaction change.
	Publisher queue.Publisher

	// ChangePublisher announces budget changes to other processes. The
	// reconcile worker sets it so API instances refresh their caches.
	ChangePublisher queue.ChangePublisher
}

// App is the assembled application.
type App struct {
	Router       *gin.Engine
	Budgets      services.BudgetServicer
	Transactions services.TransactionServicer
	Reconciler   services.Reconciler
	WS           *handlers.WSHandler
}

// New builds the service graph on db and returns the application.
func New(db *gorm.DB, opts Options) *App {
	ws := handlers.NewWSHandler()

	var notifier services.BudgetNotifier = ws
	if opts.ChangePublisher != nil {
		notifier = services.Notifiers{ws, queue.NewChangeNotifier(opts.ChangePublisher)}
	}

	budgetService := services.NewBudgetService(
		storage.NewGormBudgetStore(db),
		cache.NewMonthCache[[]models.Budget](),
		services.BudgetOptions{
			Classifier:         opts.Classifier,
			DefaultFoodPlanned: opts.DefaultFoodBudget,
			InvalidateSeries:   opts.InvalidateSeries,
			Notifier:           notifier,
		},
	)
	reconciler := services.NewReconciler(db, budgetService)

	var trigger services.SyncTrigger
	if opts.Publisher != nil {
		trigger = queue.NewSyncTrigger(opts.Publisher)
	} else {
		trigger = services.NewInlineSyncTrigger(reconciler)
	}

	transactionService := services.NewTransactionService(db, opts.Classifier, trigger)
	savingsGoalService := services.NewSavingsGoalService(db)
	auditService := services.NewAuditService(db)

	app := &App{
		Budgets:      budgetService,
		Transactions: transactionService,
		Reconciler:   reconciler,
		WS:           ws,
	}
	app.Router = newRouter(opts, routes{
		budgets:      handlers.NewBudgetHandler(budgetService, reconciler, auditService),
		transactions: handlers.NewTransactionHandler(transactionService, auditService),
		savingsGoals: handlers.NewSavingsGoalHandler(savingsGoalService, auditService),
		ws:           ws,
	})
	return app
}

// corsConfig allows the given origins with credentials. An empty list or "*"
// allows any origin without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-API-Key", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

type routes struct {
	budgets      *handlers.BudgetHandler
	transactions *handlers.TransactionHandler
	savingsGoals *handlers.SavingsGoalHandler
	ws           *handlers.WSHandler
}

func newRouter(opts Options, h routes) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.Use(cors.New(corsConfig(opts.CORSAllowedOrigins)))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Bank statement pipeline
	pipeline := v1.Group("/pipeline/users/:userID")
	pipeline.Use(middleware.PipelineAuthMiddleware(opts.PipelineAPIKey))
	pipeline.POST("/transactions", h.transactions.ImportTransactions)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(opts.JWTSecret, opts.JWTAudience))

	protected.GET("/ws", h.ws.HandleWS)

	budgets := protected.Group("/budgets")
	budgets.POST("", h.budgets.CreateBudget)
	budgets.GET("", h.budgets.GetBudgets)
	budgets.POST("/food/sync", h.budgets.SyncFoodBudget)
	budgets.GET("/:id", h.budgets.GetBudget)
	budgets.PUT("/:id", h.budgets.UpdateBudget)
	budgets.DELETE("/:id", h.budgets.DeleteBudget)

	transactions := protected.Group("/transactions")
	transactions.POST("", h.transactions.CreateTransaction)
	transactions.POST("/import", h.transactions.ImportTransactions)
	transactions.GET("", h.transactions.GetTransactions)
	transactions.GET("/summary", h.transactions.GetMonthlySummary)
	transactions.GET("/:id", h.transactions.GetTransaction)
	transactions.PUT("/:id", h.transactions.UpdateTransaction)
	transactions.DELETE("/:id", h.transactions.DeleteTransaction)

	goals := protected.Group("/savings-goals")
	goals.POST("", h.savingsGoals.CreateSavingsGoal)
	goals.GET("", h.savingsGoals.GetSavingsGoals)
	goals.GET("/:id", h.savingsGoals.GetSavingsGoal)
	goals.PUT("/:id", h.savingsGoals.UpdateSavingsGoal)
	goals.DELETE("/:id", h.savingsGoals.DeleteSavingsGoal)
	goals.POST("/:id/funds", h.savingsGoals.AddFunds)

	return router
}
