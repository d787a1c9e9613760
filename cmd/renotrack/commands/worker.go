package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/renotrack/renovation-tracker/internal/config"
	"github.com/renotrack/renovation-tracker/internal/database"
	"github.com/renotrack/renovation-tracker/internal/inference"
	"github.com/renotrack/renovation-tracker/internal/middleware"
	"github.com/renotrack/renovation-tracker/internal/queue"
	"github.com/renotrack/renovation-tracker/internal/repository"
	"github.com/renotrack/renovation-tracker/internal/service"
)

// workerCmd consumes listing.imported events in the foreground
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Label imported photos from the listing.imported queue",
	Long: `Worker consumes listing.imported events and runs room classification on
each photo that has no room type yet. It stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		classifier := inference.NewRoomClassifier(config.LoadInferenceConfig())
		if classifier == nil {
			return errors.New("ROOM_CLASSIFIER_URL is not set")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := database.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		logger := newLogger()
		inf := service.NewPhotoInference(repository.NewPhotoRepo(db), classifier, logger)
		// Labels written here never pass through the cache middleware.
		rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
		if err != nil {
			logger.Warnf("redis unavailable, cached responses will expire on their own: %v", err)
		} else if rdb != nil {
			defer rdb.Close()
			if purger := middleware.NewCachePurger(config.LoadCacheConfig(), rdb); purger != nil {
				inf.PurgeCacheWith(purger)
			}
		}
		err = queue.NewConsumer(config.LoadQueueConfig(), inf.HandleListingImported, logger).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
