package drive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/bkscholar/scholar/internal/logging"
	"github.com/bkscholar/scholar/internal/result"
	"github.com/bkscholar/scholar/internal/toolerrors"
)

// Operation names carried by ExternalServiceError.
const (
	OpListFiles    = "list_files"
	OpCreateFolder = "create_folder"
	OpCreateFile   = "create_file"
	OpFindByName   = "find_by_name"
	OpDeleteFile   = "delete_file"
)

const (
	listFields    = "nextPageToken, files(id, name, mimeType, parents)"
	findFields    = "nextPageToken, files(id, name, mimeType)"
	createdFields = "id, name"
)

// Client wraps the Google Drive API service. It holds no per-call state and
// is safe for concurrent use.
type Client struct {
	service *drive.Service
	logger  *slog.Logger
}

// NewClient creates a Drive client that authenticates through httpClient.
// Extra options are applied after the HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	clientOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	driveService, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: driveService,
		logger:  logging.WithService(slog.Default(), "drive"),
	}, nil
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logging.WithService(logger, "drive")
	}
}

// ListChildren lists the non-trashed files and folders directly inside
// folderID, in service order, following every result page. An empty folder yields an empty, non-nil slice.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]FileItem, error) {
	if folderID == "" {
		return nil, toolerrors.NewValidationError("folderId", folderID, nil)
	}

	items := []FileItem{}
	err := c.service.Files.List().
		Q(childrenQuery(folderID)).
		Fields(listFields).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				items = append(items, toFileItem(f))
			}
			return nil
		})
	if err != nil {
		return nil, toolerrors.NewExternalServiceError(OpListFiles, folderID, err)
	}
	return items, nil
}

// CreateFolder creates a folder named name inside parentID.
func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (result.ToolResult, error) {
	if err := validateParentAndName("parentFolderId", parentID, "folderName", name); err != nil {
		return result.ToolResult{}, err
	}

	folder := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  []string{parentID},
	}

	created, err := c.service.Files.Create(folder).
		Context(ctx).
		Fields(createdFields).
		Do()
	if err != nil {
		return result.ToolResult{}, toolerrors.NewExternalServiceError(OpCreateFolder, parentID, err)
	}

	c.logger.Debug("folder created", logging.Operation(OpCreateFolder), logging.Target(created.Id))
	return result.New(created.Id, created.Name, result.MessageFolderCreated), nil
}

// CreateFile uploads content as a plain-text file named name inside parentID.
func (c *Client) CreateFile(ctx context.Context, parentID, name, content string) (result.ToolResult, error) {
	if err := validateParentAndName("parentFolderId", parentID, "fileName", name); err != nil {
		return result.ToolResult{}, err
	}

	file := &drive.File{
		Name:    name,
		Parents: []string{parentID},
	}

	created, err := c.service.Files.Create(file).
		Context(ctx).
		Media(strings.NewReader(content), googleapi.ContentType(FileMimeType)).
		Fields(createdFields).
		Do()
	if err != nil {
		return result.ToolResult{}, toolerrors.NewExternalServiceError(OpCreateFile, parentID, err)
	}

	c.logger.Debug("file created",
		logging.Operation(OpCreateFile),
		logging.Target(created.Id),
		slog.Int("bytes", len(content)))
	return result.New(created.Id, created.Name, result.MessageFileCreated), nil
}

// DeleteByName deletes the non-trashed item named name inside parentID.
// When several items share the name, the one with the smallest id is
// deleted. No match is reported as MessageItemNotFound with an empty
// subject id, not as an error.
func (c *Client) DeleteByName(ctx context.Context, parentID, name string) (result.ToolResult, error) {
	if err := validateParentAndName("parentId", parentID, "itemName", name); err != nil {
		return result.ToolResult{}, err
	}

	var matches []*drive.File
	err := c.service.Files.List().
		Q(namedChildQuery(parentID, name)).
		Fields(findFields).
		Pages(ctx, func(page *drive.FileList) error {
			matches = append(matches, page.Files...)
			return nil
		})
	if err != nil {
		return result.ToolResult{}, toolerrors.NewExternalServiceError(OpFindByName, parentID, err)
	}

	target := smallestID(matches)
	if target == "" {
		return result.New("", name, result.MessageItemNotFound), nil
	}

	if err := c.service.Files.Delete(target).Context(ctx).Do(); err != nil {
		return result.ToolResult{}, toolerrors.NewExternalServiceError(OpDeleteFile, target, err)
	}

	c.logger.Info("item deleted",
		logging.Operation(OpDeleteFile),
		logging.Target(target),
		slog.Int("matches", len(matches)))
	return result.New(target, name, result.MessageItemDeleted), nil
}

// smallestID returns the lexicographically smallest id among files, or ""
// when there are none.
func smallestID(files []*drive.File) string {
	var id string
	for _, f := range files {
		if f == nil || f.Id == "" {
			continue
		}
		if id == "" || f.Id < id {
			id = f.Id
		}
	}
	return id
}

func validateParentAndName(parentField, parentID, nameField, name string) error {
	if parentID == "" {
		return toolerrors.NewValidationError(parentField, parentID, nil)
	}
	if name == "" {
		return toolerrors.NewValidationError(nameField, name, nil)
	}
	return nil
}
