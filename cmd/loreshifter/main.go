package main

import (
	"os"

	"github.com/2n4a/loreshifter/internal/api"
	"github.com/2n4a/loreshifter/internal/bossfight"
	"github.com/2n4a/loreshifter/internal/config"
	"github.com/2n4a/loreshifter/internal/constants"
	"github.com/2n4a/loreshifter/internal/logging"
	"github.com/2n4a/loreshifter/internal/mode"
	"github.com/2n4a/loreshifter/internal/registry"
	"github.com/2n4a/loreshifter/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	// Config path may be provided via LORESHIFTER_CONFIG or defaults to
	// ./loreshifter_config.json; the default file is optional.
	configPath := os.Getenv(constants.EnvConfigPath)
	explicit := configPath != ""
	if configPath == "" {
		configPath = "./loreshifter_config.json"
	}
	cfg, err := config.LoadConfig(configPath, explicit)
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": configPath})
	}

	// Allow the DB path to be overridden via LORESHIFTER_DB.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)

	catalog := mode.NewCatalog(bossfight.New(nil))
	reg := registry.New(catalog, nil)

	playHandler := api.NewPlayHandler(reg)
	worldHandler := api.NewWorldHandler(repo)
	userHandler := api.NewUserHandler(repo)
	gameHandler := api.NewGameRecordHandler(repo)
	authHandler := api.NewAuthHandler(repo)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteVersion, api.Version)

		// Live play endpoints are public; players identify by uuid.
		apiRoutes.POST(constants.RoutePlay, playHandler.CreateSession)
		apiRoutes.GET(constants.RoutePlaySession, playHandler.GetSession)
		apiRoutes.POST(constants.RoutePlayJoin, playHandler.Join)
		apiRoutes.POST(constants.RoutePlaySetup, playHandler.UpdateSetup)
		apiRoutes.POST(constants.RoutePlayReady, playHandler.SetReady)
		apiRoutes.POST(constants.RoutePlayActions, playHandler.SubmitAction)
		apiRoutes.POST(constants.RoutePlayQuestions, playHandler.SubmitQuestion)
		apiRoutes.POST(constants.RoutePlayChat, playHandler.SubmitChat)

		// World and game directories are readable by anyone; a valid
		// session cookie adds identity for private listings.
		apiRoutes.GET(constants.RouteWorlds, api.OptionalAuth(), worldHandler.ListWorlds)
		apiRoutes.GET(constants.RouteWorldByID, worldHandler.GetWorld)
		apiRoutes.GET(constants.RouteUserByID, api.OptionalAuth(), userHandler.GetUser)
		apiRoutes.GET(constants.RouteGames, gameHandler.ListGames)
		apiRoutes.GET(constants.RouteGameByRef, gameHandler.GetGame)

		// Mutations require authentication.
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())
		protected.POST(constants.RouteWorlds, worldHandler.CreateWorld)
		protected.PUT(constants.RouteWorldByID, worldHandler.UpdateWorld)
		protected.DELETE(constants.RouteWorldByID, worldHandler.DeleteWorld)
		protected.POST(constants.RouteWorldCopy, worldHandler.CopyWorld)
		protected.PUT(constants.RouteUserByID, userHandler.UpdateUser)
		protected.POST(constants.RouteGames, gameHandler.CreateGame)
	}

	router.POST(constants.RouteAuthGoogleCallback, authHandler.GoogleOAuthCallback)
	router.POST(constants.RouteLogout, authHandler.Logout)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
