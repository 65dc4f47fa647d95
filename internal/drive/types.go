package drive

import (
	"strconv"

	drive "google.golang.org/api/drive/v3"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// FileMimeType is the MIME type of every file created by the client.
	FileMimeType = "text/plain"
)

// FileItem is the projection of a Drive file or folder returned to tool
// callers. ParentCount is the number of parent folders, as decimal text.
type FileItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	ParentCount string `json:"parentCount"`
}

// toFileItem converts a Google Drive file to a FileItem
func toFileItem(f *drive.File) FileItem {
	if f == nil {
		return FileItem{ParentCount: "0"}
	}
	return FileItem{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		ParentCount: strconv.Itoa(len(f.Parents)),
	}
}
