package thumbs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/logging"
	"github.com/okoshkin/filesmanager/internal/server/content"
	"github.com/okoshkin/filesmanager/internal/server/files"
	"github.com/okoshkin/filesmanager/internal/server/models"
)

// pngBytes renders a solid test image of the given size.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type workerFixture struct {
	worker *Worker
	repo   *files.MemRepository
	store  *content.FSStore
	owner  primitive.ObjectID
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()
	store, err := content.NewFSStore(t.TempDir())
	require.NoError(t, err)
	repo := files.NewMemRepository()
	return &workerFixture{
		worker: NewWorker(repo, store, logging.Noop{}),
		repo:   repo,
		store:  store,
		owner:  primitive.NewObjectID(),
	}
}

// addImage stores source bytes and the matching image record.
func (f *workerFixture) addImage(t *testing.T, data []byte) *models.File {
	t.Helper()
	ctx := context.Background()
	ref, err := f.store.Write(ctx, data)
	require.NoError(t, err)

	file, err := f.repo.Insert(ctx, &models.File{
		UserID:    f.owner,
		Name:      "pic.png",
		Type:      models.TypeImage,
		ParentID:  models.RootParentID,
		LocalPath: ref,
	})
	require.NoError(t, err)
	return file
}

func taskFor(t *testing.T, job Job) *asynq.Task {
	t.Helper()
	task, err := NewTask(job)
	require.NoError(t, err)
	return task
}

func TestProcessTask_GeneratesAllVariants(t *testing.T) {
	f := newWorkerFixture(t)
	ctx := context.Background()
	file := f.addImage(t, pngBytes(t, 800, 600))

	err := f.worker.ProcessTask(ctx, taskFor(t, Job{UserID: f.owner.Hex(), FileID: file.ID.Hex()}))
	require.NoError(t, err)

	for _, width := range []int{100, 250, 500} {
		data, err := f.store.Read(ctx, fmt.Sprintf("%s_%d", file.LocalPath, width))
		require.NoError(t, err, "variant %d missing", width)

		img, format, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, width, img.Bounds().Dx())
	}
}

func TestProcessTask_Idempotent(t *testing.T) {
	f := newWorkerFixture(t)
	ctx := context.Background()
	file := f.addImage(t, pngBytes(t, 640, 480))
	task := taskFor(t, Job{UserID: f.owner.Hex(), FileID: file.ID.Hex()})

	require.NoError(t, f.worker.ProcessTask(ctx, task))
	// queue redelivery re-runs the whole job; overwrites must be safe
	require.NoError(t, f.worker.ProcessTask(ctx, task))

	data, err := f.store.Read(ctx, file.LocalPath+"_100")
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestProcessTask_MalformedJobsNeverRetry(t *testing.T) {
	f := newWorkerFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		job  Job
		msg  string
	}{
		{"missing fileId", Job{UserID: f.owner.Hex()}, "Missing fileId"},
		{"missing userId", Job{FileID: primitive.NewObjectID().Hex()}, "Missing userId"},
		{"malformed fileId", Job{UserID: f.owner.Hex(), FileID: "zzz"}, "Missing fileId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.worker.ProcessTask(ctx, taskFor(t, tt.job))
			require.Error(t, err)
			assert.ErrorIs(t, err, asynq.SkipRetry)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestProcessTask_UnparsablePayloadNeverRetries(t *testing.T) {
	f := newWorkerFixture(t)

	err := f.worker.ProcessTask(context.Background(), asynq.NewTask(TypeThumbnail, []byte("{not json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTask_MissingRecordNeverRetries(t *testing.T) {
	f := newWorkerFixture(t)

	job := Job{UserID: f.owner.Hex(), FileID: primitive.NewObjectID().Hex()}
	err := f.worker.ProcessTask(context.Background(), taskFor(t, job))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "File not found")
}

func TestProcessTask_PartialFailureKeepsExistingVariants(t *testing.T) {
	f := newWorkerFixture(t)
	ctx := context.Background()

	// not an image at all: every width fails
	file := f.addImage(t, []byte("this is not image data"))

	// a variant from an earlier run must survive the failed re-run
	sentinel := []byte("previous thumbnail")
	require.NoError(t, f.store.WriteRef(ctx, file.LocalPath+"_100", sentinel))

	err := f.worker.ProcessTask(ctx, taskFor(t, Job{UserID: f.owner.Hex(), FileID: file.ID.Hex()}))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrProcessing)
	assert.Contains(t, err.Error(), "100, 250, 500")
	// left to the queue's redelivery policy
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	kept, err := f.store.Read(ctx, file.LocalPath+"_100")
	require.NoError(t, err)
	assert.Equal(t, sentinel, kept)
}

func TestResizeImage_PreservesFormatAndAspect(t *testing.T) {
	data := pngBytes(t, 400, 200)

	out, err := resizeImage(data, 100)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestNewTask_Payload(t *testing.T) {
	job := Job{UserID: "u1", FileID: "f1"}
	task, err := NewTask(job)
	require.NoError(t, err)
	assert.Equal(t, TypeThumbnail, task.Type())

	var decoded Job
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, job, decoded)
}
