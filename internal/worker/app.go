// Package worker initializes and runs the thumbnail worker process. It
// consumes generation jobs from the queue and renders the fixed-width
// variants next to the original content.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/okoshkin/filesmanager/internal/logging"
	"github.com/okoshkin/filesmanager/internal/server/config"
	"github.com/okoshkin/filesmanager/internal/server/content"
	"github.com/okoshkin/filesmanager/internal/server/files"
	"github.com/okoshkin/filesmanager/internal/server/storage"
	"github.com/okoshkin/filesmanager/internal/server/thumbs"
)

type App struct {
	logger logging.Logger
	server *asynq.Server
	mux    *asynq.ServeMux
	close  []func() error
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.Default()

	mongoClient, err := storage.NewMongoClient(ctx, cfg.MongoURI())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db := mongoClient.Database(cfg.DBDatabase)

	store, err := content.NewFSStore(cfg.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("content store init error: %w", err)
	}

	processor := thumbs.NewWorker(files.NewMongoRepository(db), store, logger)

	mux := asynq.NewServeMux()
	mux.HandleFunc(thumbs.TypeThumbnail, processor.ProcessTask)

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr()},
		asynq.Config{Concurrency: cfg.WorkerConcurrency},
	)

	return &App{
		logger: logger,
		server: server,
		mux:    mux,
		close: []func() error{
			func() error { return mongoClient.Disconnect(context.Background()) },
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting worker...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Start(app.mux); err != nil {
		app.logger.Error(ctx, err.Error())
		return
	}

	<-ctx.Done()
	app.server.Shutdown()

	for _, closeFn := range app.close {
		if err := closeFn(); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}
}
