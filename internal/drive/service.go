// Package drive uploads expense receipt images to Google Drive.
//
// Receipts are grouped into one sub-folder per financial year below a
// configured parent folder (GOOGLE_DRIVE_FOLDER_ID). Folders are created on
// first use.
package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"society/internal/googleauth"
	"society/internal/logger"
)

const folderMimeType = "application/vnd.google-apps.folder"

// UploadedFile describes a stored receipt.
type UploadedFile struct {
	ID   string
	URL  string
	Name string
}

// Service uploads files below a parent Drive folder.
type Service struct {
	driveService   *drive.Service
	parentFolderID string

	mu          sync.Mutex
	folderCache map[string]string

	log zerolog.Logger
}

// NewDriveService creates a Drive uploader rooted at parentFolderID
func NewDriveService(ctx context.Context, parentFolderID string) (*Service, error) {
	const op = "NewDriveService"

	if parentFolderID == "" {
		return nil, fmt.Errorf("%s: parent folder ID is required", op)
	}

	client, err := googleauth.Client(ctx, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create drive service: %w", op, err)
	}

	return &Service{
		driveService:   driveService,
		parentFolderID: parentFolderID,
		folderCache:    make(map[string]string),
		log:            logger.WithComponent("drive"),
	}, nil
}

// UploadReceipt stores content as fileName inside the named sub-folder
func (s *Service) UploadReceipt(ctx context.Context, folderName, fileName string, content io.Reader) (*UploadedFile, error) {
	const op = "UploadReceipt"

	folderID, err := s.folder(ctx, folderName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	file, err := s.driveService.Files.Create(&drive.File{
		Name:    fileName,
		Parents: []string{folderID},
	}).Media(content).Fields("id", "name", "webViewLink").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to upload %s: %w", op, fileName, err)
	}

	s.log.Info().
		Str("folder", folderName).
		Str("file", file.Name).
		Str("file_id", file.Id).
		Msg("Uploaded receipt")

	return &UploadedFile{ID: file.Id, URL: file.WebViewLink, Name: file.Name}, nil
}

// folder finds or creates a sub-folder of the parent folder
func (s *Service) folder(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.folderCache[name]; ok {
		return id, nil
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and '%s' in parents and trashed = false",
		escapeQuery(name), folderMimeType, s.parentFolderID)
	list, err := s.driveService.Files.List().Q(query).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up folder %s: %w", name, err)
	}
	if len(list.Files) > 0 {
		s.folderCache[name] = list.Files[0].Id
		return list.Files[0].Id, nil
	}

	created, err := s.driveService.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{s.parentFolderID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", name, err)
	}

	s.log.Info().Str("folder", name).Str("folder_id", created.Id).Msg("Created receipt folder")
	s.folderCache[name] = created.Id
	return created.Id, nil
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
