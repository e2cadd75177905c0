// Package server initializes and runs the files manager API. It connects
// the document and key-value stores, wires the services and the upload
// pipeline, and serves HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/okoshkin/filesmanager/internal/logging"
	"github.com/okoshkin/filesmanager/internal/server/config"
	"github.com/okoshkin/filesmanager/internal/server/content"
	"github.com/okoshkin/filesmanager/internal/server/files"
	"github.com/okoshkin/filesmanager/internal/server/httpapi"
	"github.com/okoshkin/filesmanager/internal/server/sessions"
	"github.com/okoshkin/filesmanager/internal/server/storage"
	"github.com/okoshkin/filesmanager/internal/server/thumbs"
	"github.com/okoshkin/filesmanager/internal/server/upload"
	"github.com/okoshkin/filesmanager/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.Server
	close  []func() error
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.Default()

	mongoClient, err := storage.NewMongoClient(ctx, cfg.MongoURI())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db := mongoClient.Database(cfg.DBDatabase)

	redisClient, err := storage.NewRedisClient(ctx, cfg.RedisAddr())
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	store, err := content.NewFSStore(cfg.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("content store init error: %w", err)
	}

	usersRepo := users.NewMongoRepository(db)
	filesRepo := files.NewMongoRepository(db)

	usersSvc := users.NewService(usersRepo)
	sessionsSvc := sessions.NewService(usersRepo, storage.NewRedisKV(redisClient), cfg.TokenTTL)
	filesSvc := files.NewService(filesRepo)

	queueClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr()})
	pipeline := upload.NewPipeline(filesSvc, store, thumbs.NewAsynqQueue(queueClient), logger)

	pingDB := func(ctx context.Context) error {
		return mongoClient.Ping(ctx, readpref.Primary())
	}
	pingCache := func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}

	api := httpapi.NewServer(usersSvc, sessionsSvc, filesSvc, pipeline, pingDB, pingCache, logger)

	return &App{
		config: cfg,
		logger: logger,
		api:    api,
		close: []func() error{
			queueClient.Close,
			redisClient.Close,
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

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.api.Run(ctx, app.config.EndpointAddr); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	for _, closeFn := range app.close {
		if err := closeFn(); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}
}
