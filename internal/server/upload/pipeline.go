// Package upload orchestrates one upload request end to end: session
// already resolved by the transport layer, then validation, content write,
// metadata commit and thumbnail job enqueue, in that fixed order.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/okoshkin/filesmanager/internal/common"
	"github.com/okoshkin/filesmanager/internal/logging"
	"github.com/okoshkin/filesmanager/internal/server/content"
	"github.com/okoshkin/filesmanager/internal/server/files"
	"github.com/okoshkin/filesmanager/internal/server/models"
	"github.com/okoshkin/filesmanager/internal/server/thumbs"
)

// thumbnail widths a data request may ask for via the size parameter
var variantSizes = map[string]bool{"100": true, "250": true, "500": true}

// Request is the validated upload input. Data is the base64-encoded
// payload, required for every kind except folder.
type Request struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}

type Pipeline struct {
	files   *files.Service
	content content.Store
	queue   thumbs.Queue
	log     logging.Logger
}

func NewPipeline(filesSvc *files.Service, store content.Store, queue thumbs.Queue, log logging.Logger) *Pipeline {
	return &Pipeline{
		files:   filesSvc,
		content: store,
		queue:   queue,
		log:     log.With("module", "upload_pipeline"),
	}
}

// Upload realizes one upload as an all-or-nothing logical operation.
// Validation order is fixed for deterministic error precedence: name,
// type, data, then parent. All validation, the parent check included,
// precedes the content write, so a rejected upload leaves no bytes
// behind. The content write precedes the record commit, so a commit
// failure can orphan bytes but never produces a record referencing
// unwritten content. The thumbnail job for an image is enqueued only
// after the record exists.
func (p *Pipeline) Upload(ctx context.Context, ownerHex string, req Request) (*models.File, error) {
	if req.Name == "" {
		return nil, common.Validation("Missing name")
	}
	if !models.ValidType(req.Type) {
		return nil, common.Validation("Missing type")
	}

	if req.Type == models.TypeFolder {
		return p.files.Create(ctx, ownerHex, req.Name, req.Type, req.ParentID, req.IsPublic, "")
	}

	if req.Data == "" {
		return nil, common.Validation("Missing data")
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, common.Validation("Invalid data")
	}

	if err := p.files.ValidateParent(ctx, req.ParentID); err != nil {
		return nil, err
	}

	ref, err := p.content.Write(ctx, data)
	if err != nil {
		p.log.Error(ctx, "content write failed", "error", err.Error())
		return nil, common.Storage()
	}

	file, err := p.files.Create(ctx, ownerHex, req.Name, req.Type, req.ParentID, req.IsPublic, ref)
	if err != nil {
		// the written bytes become unreferenced garbage, never visible state
		return nil, err
	}

	if file.Type == models.TypeImage {
		job := thumbs.Job{UserID: ownerHex, FileID: file.ID.Hex()}
		if err := p.queue.Enqueue(ctx, job); err != nil {
			// the upload already committed; losing the job only delays
			// thumbnails, it must not fail the request
			p.log.Error(ctx, "thumbnail enqueue failed", "fileId", job.FileID, "error", err.Error())
		}
	}

	return file, nil
}

// FetchContent returns the bytes and MIME type for a data request.
// Requester may be empty (anonymous): private records and records of
// other owners answer Not found rather than revealing their existence.
// A size names a thumbnail variant instead of the original.
func (p *Pipeline) FetchContent(ctx context.Context, fileID, requesterHex, size string) ([]byte, string, error) {
	file, err := p.files.GetAny(ctx, fileID)
	if err != nil {
		return nil, "", err
	}

	if !file.IsPublic && (requesterHex == "" || requesterHex != file.UserID.Hex()) {
		return nil, "", common.NotFound("Not found")
	}

	if file.Type == models.TypeFolder {
		return nil, "", common.Validation("A folder doesn't have content")
	}

	ref := file.LocalPath
	if size != "" {
		if !variantSizes[size] {
			return nil, "", common.Validation("Invalid size")
		}
		ref = fmt.Sprintf("%s_%s", ref, size)
	}

	data, err := p.content.Read(ctx, ref)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.NotFound("Not found")
		}
		p.log.Error(ctx, "content read failed", "fileId", fileID, "error", err.Error())
		return nil, "", common.Storage()
	}

	return data, contentType(file.Name), nil
}

// contentType resolves the response MIME type from the record name's
// extension.
func contentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
