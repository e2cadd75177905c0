package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// File kinds. The set is closed; anything else is rejected at validation.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// RootParentID is the sentinel parent of top-level records.
const RootParentID = "0"

// ValidType reports whether t belongs to the closed kind set.
func ValidType(t string) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// File is a metadata document in the "files" collection. ParentID is either
// RootParentID or the hex id of an existing folder. LocalPath is the opaque
// content reference; it is set for files and images, absent for folders,
// and never exposed to clients.
type File struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	IsPublic  bool               `bson:"isPublic"`
	ParentID  string             `bson:"parentId"`
	LocalPath string             `bson:"localPath,omitempty"`
}

// PublicFile is the client-facing projection of a File. The content
// reference is deliberately omitted.
type PublicFile struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// Public returns the projection safe to return to clients.
func (f *File) Public() PublicFile {
	return PublicFile{
		ID:       f.ID.Hex(),
		UserID:   f.UserID.Hex(),
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: f.ParentID,
	}
}
