package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"            // .env loader for local development
	"github.com/labstack/echo/v4"         // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo built-in middleware (logger, recover)

	"github.com/iliyamo/movie-catalog/internal/config"     // Internal config loader
	"github.com/iliyamo/movie-catalog/internal/database"   // MySQL connection pool
	"github.com/iliyamo/movie-catalog/internal/handler"    // HTTP handlers
	"github.com/iliyamo/movie-catalog/internal/middleware" // Redis cache and rate limiting
	"github.com/iliyamo/movie-catalog/internal/queue"      // rating event consumer
	"github.com/iliyamo/movie-catalog/internal/repository" // DB repositories
	"github.com/iliyamo/movie-catalog/internal/router"     // Internal router setup
	"github.com/iliyamo/movie-catalog/internal/storage"    // file storage backend
	"github.com/iliyamo/movie-catalog/internal/validation" // request validation
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Poster and picture files live on local disk and are served back under
	// /uploads by the static route.
	files, err := storage.NewDiskStorage(cfg.StorageRoot, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	// Redis is optional: with no client both the response cache and the
	// rate limiter turn into pass-through middleware.
	rdb := config.NewRedisClient()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	actors := repository.NewActorRepo(db)
	genres := repository.NewGenreRepo(db)
	theaters := repository.NewTheaterRepo(db)
	movies := repository.NewMovieRepo(db)
	ratings := repository.NewRatingRepo(db)

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	actorH := handler.NewActorHandler(cfg, actors, files)
	genreH := handler.NewGenreHandler(cfg, genres)
	theaterH := handler.NewTheaterHandler(cfg, theaters)
	movieH := handler.NewMovieHandler(cfg, movies, genres, theaters, files)
	ratingH := handler.NewRatingHandler(ratings, movies)

	e := echo.New() // Create Echo instance
	e.Validator = validation.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	// Identity is resolved before the limiter runs so the user and ip_user
	// key strategies bucket authenticated callers per account instead of
	// lumping them together as anonymous.
	e.Use(middleware.OptionalJWTAuth(cfg.JWTSecret))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, cfg) // health check and static uploads
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, actorH, genreH, theaterH, movieH, ratingH, cfg.JWTSecret, cacheMW)

	// The rating consumer drains rating.submitted events into the audit
	// log.  It reconnects on its own; a missing broker only logs.
	go func() {
		if err := queue.StartRatingConsumer(); err != nil {
			log.Printf("rating consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
