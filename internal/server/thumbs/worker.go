package thumbs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/logging"
	"github.com/okoshkin/filesmanager/internal/server/content"
	"github.com/okoshkin/filesmanager/internal/server/files"
)

// widths are the thumbnail variants rendered for every image, written at
// <contentRef>_<width>.
var widths = []int{100, 250, 500}

// Worker consumes thumbnail jobs one at a time; the queue provides
// concurrency by running multiple handlers, not the worker itself.
type Worker struct {
	files   files.Repository
	content content.Store
	log     logging.Logger
}

func NewWorker(filesRepo files.Repository, store content.Store, log logging.Logger) *Worker {
	return &Worker{files: filesRepo, content: store, log: log.With("module", "thumbnail_worker")}
}

// fatal marks an error as permanently failed so the queue never redelivers
// the job.
func fatal(err error) error {
	return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
}

// ProcessTask renders all thumbnail variants for one job. Malformed jobs
// and jobs whose record is gone fail permanently; per-width failures are
// collected and reported together while successful variants stay on disk.
// Re-running the whole job is safe: variant writes are deterministic
// overwrites.
func (w *Worker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var job Job
	if err := json.Unmarshal(task.Payload(), &job); err != nil {
		return fatal(common.Validation("Malformed job payload"))
	}

	if job.FileID == "" {
		return fatal(common.Validation("Missing fileId"))
	}
	if job.UserID == "" {
		return fatal(common.Validation("Missing userId"))
	}

	fileID, err := primitive.ObjectIDFromHex(job.FileID)
	if err != nil {
		return fatal(common.Validation("Missing fileId"))
	}
	userID, err := primitive.ObjectIDFromHex(job.UserID)
	if err != nil {
		return fatal(common.Validation("Missing userId"))
	}

	file, err := w.files.GetByIDAndOwner(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fatal(common.NotFound("File not found"))
		}
		return fmt.Errorf("resolving file: %w", err)
	}

	w.log.Info(ctx, "processing thumbnail job", "fileId", job.FileID)

	var failed []string
	for _, width := range widths {
		if err := w.generate(ctx, file.LocalPath, width); err != nil {
			w.log.Error(ctx, "thumbnail generation failed",
				"fileId", job.FileID, "width", width, "error", err.Error())
			failed = append(failed, strconv.Itoa(width))
		}
	}

	if len(failed) > 0 {
		return common.Processing("Failed to generate thumbnails for sizes: " + strings.Join(failed, ", "))
	}

	w.log.Info(ctx, "thumbnail job done", "fileId", job.FileID)
	return nil
}

// generate renders a single width. Each width reads the source
// independently so one bad read cannot poison the others.
func (w *Worker) generate(ctx context.Context, ref string, width int) error {
	data, err := w.content.Read(ctx, ref)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	thumb, err := resizeImage(data, width)
	if err != nil {
		return err
	}

	variant := fmt.Sprintf("%s_%d", ref, width)
	if err := w.content.WriteRef(ctx, variant, thumb); err != nil {
		return fmt.Errorf("writing variant: %w", err)
	}

	return nil
}
