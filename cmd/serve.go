package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpHdlr "nextdocs/handler/http"
	"nextdocs/src/core/search"
	"nextdocs/src/core/search/rediscache"
	"nextdocs/src/log"
	"nextdocs/src/postgres/searchctrl"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the search API server",
	Long:  `The serve command starts an HTTP server that provides unified search across portal content.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	// Initialize PostgreSQL connection
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"))
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Error(err, "Failed to connect to database")
		return
	}

	// Initialize Redis-backed response cache
	cache, err := rediscache.NewCache(viper.GetString("redis.url"))
	if err != nil {
		log.Error(err, "Failed to create redis cache")
		return
	}

	// Parse fan-out timeout
	searchTimeout, err := time.ParseDuration(viper.GetString("search.timeout"))
	if err != nil {
		log.Error(err, "Invalid search timeout, using default 10s")
		searchTimeout = 10 * time.Second
	}

	// Per-type store adapters
	documents := searchctrl.NewDocumentStrategy(db)
	blogPosts := searchctrl.NewBlogStrategy(db)
	apiSpecs := searchctrl.NewAPISpecStrategy(db)
	features := searchctrl.NewFeatureStrategy(db)

	searchService := search.NewSearchService(
		map[search.ContentType]search.Strategy{
			search.TypeDocument: documents,
			search.TypeBlog:     blogPosts,
			search.TypeAPISpec:  apiSpecs,
			search.TypeFeature:  features,
		},
		[]search.TitleSource{documents, blogPosts, features},
		cache,
		searchTimeout,
	)

	// Initialize HTTP handler
	handler := httpHdlr.NewHandler(
		searchService,
		search.NewSystemService(searchctrl.NewPinger(db), cache),
	)

	// Setup gin router
	r := gin.New()
	r.Use(gin.Recovery(), httpHdlr.RequestLogger())

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err != nil {
		log.Error(err, "Failed to get underlying *sql.DB")
	} else if err := sqlDB.Close(); err != nil {
		log.Error(err, "Error closing database connection")
	}

	// Close cache connection
	if err := cache.Close(); err != nil {
		log.Error(err, "Error closing cache connection")
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
