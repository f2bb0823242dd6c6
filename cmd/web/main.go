package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agri-tools/fruit-atlas/pkg/export"
	"github.com/agri-tools/fruit-atlas/pkg/export/assets"
	"github.com/agri-tools/fruit-atlas/pkg/export/csvenc"
	"github.com/agri-tools/fruit-atlas/pkg/export/htmlpdf"
	"github.com/agri-tools/fruit-atlas/pkg/export/vectorpdf"
	"github.com/agri-tools/fruit-atlas/pkg/server"
	"github.com/agri-tools/fruit-atlas/pkg/services/config"
	"github.com/agri-tools/fruit-atlas/pkg/store/scanlog"
)

var (
	cfgPath     string
	profileName string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Fruit Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", defaultConfigPath(),
		"Path to the .fruitatlascfg file (default is $HOME/.fruitatlascfg)")
	rootCmd.Flags().StringVarP(&profileName, "profile", "p", "default",
		"Institution profile to serve reports for")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	registry, err := config.NewRegistry(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to create config registry: %w", err)
	}

	profile, err := registry.GetProfile(ctx, profileName)
	if err != nil {
		return fmt.Errorf("failed to load profile %q: %w", profileName, err)
	}

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	profiles, _ := registry.GetProfiles(ctx)
	for _, name := range profiles {
		logger.Info().Msgf("Found profile `%s`", name)
	}

	dbPath := profile.DBPath
	if dbPath == "" {
		dbPath = "fruit-atlas.db"
	}
	db, err := scanlog.NewDB(scanlog.Settings{DbPath: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open scan log: %w", err)
	}
	store, err := scanlog.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create scan store: %w", err)
	}

	exporter, err := buildExporter(profile, logger)
	if err != nil {
		return err
	}

	webAPI := server.NewWebAPI(server.Config{
		Addr: serverAddr(&logger),
		Dependencies: server.Dependencies{
			Store:    store,
			Exporter: exporter,
			Logger:   logger,
		},
	})

	return webAPI.Start()
}

// buildExporter registers the CSV encoder plus whichever PDF backend the
// profile selects: the vector paginator by default, the HTML conversion
// fallback when a converter config is present.
func buildExporter(profile *config.Profile, logger zerolog.Logger) (*export.Service, error) {
	var cache *assets.Cache
	if profile.LogoPath != "" {
		cache = assets.NewCache(assets.FileLoader(profile.LogoPath), logger)
	}

	if profile.ConverterConfig != "" {
		converterCfg, err := htmlpdf.LoadConfig(profile.ConverterConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load converter config: %w", err)
		}
		fallback := htmlpdf.NewRenderer(htmlpdf.Options{
			ConverterURL: converterCfg.URL,
			HeaderLines:  profile.InstitutionLines,
			FooterLabel:  profile.FooterLabel,
			Timeout:      converterCfg.Timeout(),
		}, cache, logger)
		return export.NewService(csvenc.NewEncoder(), fallback), nil
	}

	vector := vectorpdf.NewRenderer(vectorpdf.Options{
		HeaderLines: profile.InstitutionLines,
		FooterLabel: profile.FooterLabel,
	}, cache, logger)
	return export.NewService(csvenc.NewEncoder(), vector), nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fruitatlascfg"
	}
	return home + "/.fruitatlascfg"
}

func serverAddr(logger *zerolog.Logger) string {
	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	return net.JoinHostPort(host, port)
}
