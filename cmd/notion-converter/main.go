// Package main is the entry point for the notion-converter service and CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Conversly/notion-converter/internal/api/conversion"
	"github.com/Conversly/notion-converter/internal/config"
	"github.com/Conversly/notion-converter/internal/markdown"
	"github.com/Conversly/notion-converter/internal/notion"
	"github.com/Conversly/notion-converter/internal/processors"
	"github.com/Conversly/notion-converter/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded once by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "notion-converter",
	Short: "Convert Notion pages to Markdown",
	Long: `notion-converter fetches a Notion page's blocks through the Notion API and
renders them as Markdown. Run "serve" for the HTTP endpoint or "convert" for a
one-shot conversion from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()

		c, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c

		if err := utils.InitLogger(cfg.LogLevel, cfg.Environment); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if !strings.EqualFold(cfg.Environment, "development") && !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		utils.Sync()
	},
}

// newService builds the conversion pipeline shared by serve and convert.
// notifier may be nil.
func newService(cfg *config.Config, notifier conversion.NotificationQueue) *conversion.Service {
	client := notion.NewClient(notion.Options{
		Token:    cfg.NotionToken,
		Version:  cfg.NotionVersion,
		BaseURL:  cfg.NotionBaseURL,
		Timeout:  cfg.UpstreamTimeout,
		MaxDepth: cfg.MaxBlockDepth,
	})
	return conversion.NewService(
		conversion.ServiceConfig{Token: cfg.NotionToken, UpstreamTimeout: cfg.UpstreamTimeout},
		client,
		markdown.NewRenderer(),
		processors.NewFactory(nil),
		notifier,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
