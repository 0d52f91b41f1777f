package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/ledger"
	"bitbucket.org/mmdatafocus/closures_backend/middlewares"
	"bitbucket.org/mmdatafocus/closures_backend/models"
	"bitbucket.org/mmdatafocus/closures_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func main() {
	logger := config.GetLogger()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(customErrorLogger(logger))

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	// Gate app endpoints on dependency readiness; the health probe always
	// answers so the platform keeps the container alive during connects.
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	if strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), "production") {
		allowed := utils.SplitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS"))
		if len(allowed) == 0 {
			logger.WithFields(logrus.Fields{"field": "cors"}).Warn("CORS_ALLOWED_ORIGINS empty in production; browser clients will be blocked")
		}
		corsConfig.AllowOrigins = allowed
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.AuthMiddleware())

	r.POST("/auth/login", loginHandler())
	r.POST("/auth/logout", middlewares.RequireAuth(), logoutHandler())
	r.POST("/auth/logout-all", middlewares.RequireAuth(), logoutAllHandler())

	api := r.Group("/api", middlewares.RequireAuth())
	{
		api.GET("/branches", branchesHandler())
		api.POST("/branches", requireAdmin(), createBranchHandler())
		api.DELETE("/branches/:id", requireAdmin(), deleteBranchHandler())
		api.GET("/users", requireAdmin(), usersHandler())
		api.POST("/users", requireAdmin(), createUserHandler())
		api.GET("/ledger", ledgerHandler())
		api.POST("/ledger/close", closeDayHandler())
		api.GET("/ledger/export", exportHandler())
		api.GET("/changelog", changelogHandler())
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{"info": "Connection Established"}).Info("listening on :", port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

func loginHandler() gin.HandlerFunc {
	type loginInput struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	return func(c *gin.Context) {
		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		info, err := models.Login(c.Request.Context(), input.Username, input.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": ok})
	}
}

func logoutAllHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := models.LogoutAll(c.Request.Context())
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"revoked": n})
	}
}

func branchesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var name *string
		if q := c.Query("name"); q != "" {
			name = &q
		}
		branches, err := models.GetBranches(c.Request.Context(), name)
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, branches)
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := utils.GetRoleFromContext(c.Request.Context())
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func createBranchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBranch
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		branch, err := models.CreateBranch(c.Request.Context(), &input)
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, branch)
	}
}

func deleteBranchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "branch id is required"})
			return
		}
		branch, err := models.DeleteBranch(c.Request.Context(), id)
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, branch)
	}
}

func usersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := models.GetAllUsers(c.Request.Context())
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func ledgerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchId, period, ok := branchPeriodQuery(c)
		if !ok {
			return
		}
		rows, err := models.FetchLedger(c.Request.Context(), branchId, period)
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func closeDayHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.CloseDayInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		result, err := models.SaveDayClosure(c.Request.Context(), &input)
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func changelogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchId, period, ok := branchPeriodQuery(c)
		if !ok {
			return
		}
		logs, err := models.GetChangeLogs(c.Request.Context(), branchId, period)
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

func exportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchId, period, ok := branchPeriodQuery(c)
		if !ok {
			return
		}
		f, err := models.ExportLedgerXLSX(c.Request.Context(), branchId, period)
		if err != nil {
			abortWithModelError(c, err)
			return
		}
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+models.ExportFilename(branchId, period))
		if err := f.Write(c.Writer); err != nil {
			config.LogError(config.GetLogger(), "server.go", "exportHandler", "f.Write", nil, err)
		}
	}
}

func branchPeriodQuery(c *gin.Context) (int, string, bool) {
	branchId, err := strconv.Atoi(c.Query("branch_id"))
	if err != nil || branchId <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch_id is required"})
		return 0, "", false
	}
	period := c.Query("period")
	if err := models.ValidatePeriod(period); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, "", false
	}
	return branchId, period, true
}

// abortWithModelError maps workflow errors onto HTTP statuses: bad cell
// values and unknown fields are the operator's problem, a busy ledger is a
// retry, everything else is a 500.
func abortWithModelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnknownField):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrOutOfOrder):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrLedgerBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		config.LogError(config.GetLogger(), "server.go", "abortWithModelError", c.FullPath(), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}
