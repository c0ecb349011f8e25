package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"
	"cabinet/internal/domain/repositories"
	"cabinet/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	shareRepo  repositories.ShareRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	shareRepo repositories.ShareRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		shareRepo:  shareRepo,
		txManager:  txManager,
		authorizer: authorizer,
		logger:     logger,
	}
}

// CreateFolder creates a top-level folder owned by the caller
func (s *folderService) CreateFolder(ctx context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	// The name is stored exactly as sent
	name := req.Name
	if err := validateFolderName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	folder := &models.Folder{
		Name:      name,
		OwnerID:   userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", userID,
	)

	return folder, nil
}

// ListFolders returns the caller's own folders and the folders referenced by
// shares addressed to the caller. Shared folders are not filtered against
// owned ones.
func (s *folderService) ListFolders(ctx context.Context, userID string) (*models.FolderListing, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	owned, err := s.folderRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned folders: %w", err)
	}

	shares, err := s.shareRepo.ListBySharedWith(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}

	sharedIDs := sharedFolderIDs(shares)

	shared := []models.Folder{}
	if len(sharedIDs) > 0 {
		found, err := s.folderRepo.ListByIDs(ctx, sharedIDs)
		if err != nil {
			return nil, fmt.Errorf("load shared folders: %w", err)
		}

		byID := make(map[string]models.Folder, len(found))
		for _, f := range found {
			byID[f.ID] = f
		}

		// Shares whose folder is gone are dropped
		for _, id := range sharedIDs {
			if f, ok := byID[id]; ok {
				shared = append(shared, f)
			}
		}
	}

	if owned == nil {
		owned = []models.Folder{}
	}

	return &models.FolderListing{
		UserFolders:   owned,
		SharedFolders: shared,
	}, nil
}

// GetFolderWithFiles returns a folder owned by the caller and its files.
// Shares are not honored here.
func (s *folderService) GetFolderWithFiles(ctx context.Context, userID, folderID string) (*models.FolderWithFiles, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	folder, err := s.loadFolder(ctx, folderID, s.folderRepo.GetByID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanModifyFolder(ctx, userID, folder); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByFolderIDs(ctx, []string{folder.ID})
	if err != nil {
		return nil, fmt.Errorf("list folder files: %w", err)
	}
	if files == nil {
		files = []models.File{}
	}

	return &models.FolderWithFiles{Folder: folder, Files: files}, nil
}

// GetFolderWithSharedFiles returns a folder and the files in it that were
// shared with the caller, either one by one or through a folder share.
//
// The folder's ownership is not checked and a caller with no matching share
// receives the folder with an empty file list.
func (s *folderService) GetFolderWithSharedFiles(ctx context.Context, userID, folderID string) (*models.FolderWithSharedFiles, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	folder, err := s.loadFolder(ctx, folderID, s.folderRepo.GetByID)
	if err != nil {
		return nil, err
	}

	shares, err := s.shareRepo.ListByFolderAndSharedWith(ctx, folder.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("list folder shares: %w", err)
	}

	var folderIDs, fileIDs []string
	for _, share := range shares {
		switch share.ResourceType {
		case models.ResourceTypeFolder:
			if share.FolderID != nil {
				folderIDs = append(folderIDs, *share.FolderID)
			}
		case models.ResourceTypeFile:
			if share.ResourceID != nil && *share.ResourceID != "" {
				fileIDs = append(fileIDs, *share.ResourceID)
			}
		default:
			s.logger.Warn("share has unknown resource type",
				"share_id", share.ID,
				"resource_type", share.ResourceType,
			)
		}
	}

	var direct, viaFolders []models.File
	if len(fileIDs) > 0 {
		direct, err = s.fileRepo.ListByIDs(ctx, uniqueIDs(fileIDs))
		if err != nil {
			return nil, fmt.Errorf("load shared files: %w", err)
		}
	}
	if len(folderIDs) > 0 {
		viaFolders, err = s.fileRepo.ListByFolderIDs(ctx, uniqueIDs(folderIDs))
		if err != nil {
			return nil, fmt.Errorf("load shared folder files: %w", err)
		}
	}

	return &models.FolderWithSharedFiles{
		Folder:      folder,
		SharedFiles: mergeFiles(direct, viaFolders),
	}, nil
}

// UpdateFolder renames and/or moves a folder owned by the caller.
// The folder row stays locked from the read until the write commits.
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	var updated *models.Folder
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folder, err := s.loadFolder(ctx, folderID, s.folderRepo.GetByIDForUpdate)
		if err != nil {
			return err
		}

		if err := s.authorizer.CanModifyFolder(ctx, userID, folder); err != nil {
			return err
		}

		// Tri-state: only touch the parent if the field was present
		switch {
		case req.ParentFolderID.IsClear():
			folder.ParentFolderID = nil
		case req.ParentFolderID.Present:
			parent, err := s.resolveParent(ctx, userID, folder, *req.ParentFolderID.Value)
			if err != nil {
				return err
			}
			folder.ParentFolderID = &parent.ID
		}

		if req.Name != nil {
			if strings.TrimSpace(*req.Name) != "" {
				folder.Name = *req.Name
			}
		}

		folder.UpdatedAt = time.Now().UTC()

		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}

		updated = folder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", updated.ID,
		"name", updated.Name,
		"parent_folder_id", updated.ParentFolderID,
	)

	return updated, nil
}

// DeleteFolder deletes a folder owned by the caller. Files stored in it and
// shares pointing at it are left in place.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	if err := requireCaller(userID); err != nil {
		return err
	}

	folder, err := s.loadFolder(ctx, folderID, s.folderRepo.GetByID)
	if err != nil {
		return err
	}

	if err := s.authorizer.CanModifyFolder(ctx, userID, folder); err != nil {
		return err
	}

	if err := s.folderRepo.Delete(ctx, folder.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NotFoundError{Message: "folder not found"}
		}
		return err
	}

	s.logger.Info("folder deleted",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
	)

	return nil
}

// loadFolder fetches a folder and turns a missing row into a NotFoundError.
func (s *folderService) loadFolder(
	ctx context.Context,
	id string,
	get func(context.Context, string) (*models.Folder, error),
) (*models.Folder, error) {
	folder, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: "folder not found"}
		}
		return nil, err
	}
	return folder, nil
}

// resolveParent loads the requested parent and checks it can hold folder.
func (s *folderService) resolveParent(ctx context.Context, userID string, folder *models.Folder, parentID string) (*models.Folder, error) {
	parent, err := s.folderRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ValidationError{Message: "invalid parent folder ID"}
		}
		return nil, err
	}

	if err := s.authorizer.CanUseAsParent(ctx, userID, parent); err != nil {
		return nil, err
	}

	if err := s.validateNoCircularReference(ctx, folder.ID, parent); err != nil {
		return nil, err
	}

	s.logger.Debug("moving folder to new parent",
		"folder_id", folder.ID,
		"parent_folder_id", parent.ID,
	)

	return parent, nil
}

// validateNoCircularReference ensures folderID is neither parent itself nor
// one of parent's ancestors.
func (s *folderService) validateNoCircularReference(ctx context.Context, folderID string, parent *models.Folder) error {
	if parent.ID == folderID {
		return &domain.ValidationError{Message: "cannot move folder to be its own parent"}
	}

	seen := map[string]struct{}{parent.ID: {}}
	current := parent
	for current.ParentFolderID != nil {
		nextID := *current.ParentFolderID
		if nextID == folderID {
			return &domain.ValidationError{Message: "cannot move folder to be a child of its own descendant"}
		}
		if _, loop := seen[nextID]; loop {
			return fmt.Errorf("folder %s has a cyclic ancestry", parent.ID)
		}
		seen[nextID] = struct{}{}

		next, err := s.folderRepo.GetByID(ctx, nextID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Dangling ancestor: the chain ends here
				return nil
			}
			return err
		}
		current = next
	}

	return nil
}

func requireCaller(userID string) error {
	if userID == "" {
		return &domain.UnauthorizedError{Message: "user not authenticated"}
	}
	return nil
}

// validateFolderName rejects only blank names. Length and characters are
// not restricted.
func validateFolderName(name string) error {
	err := validation.Validate(strings.TrimSpace(name),
		validation.Required.Error("must not be blank"),
	)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("folder name %v", err)}
	}
	return nil
}

// sharedFolderIDs returns the distinct folder IDs referenced by shares, in
// order of first appearance.
func sharedFolderIDs(shares []models.Share) []string {
	ids := make([]string, 0, len(shares))
	for _, share := range shares {
		if share.FolderID != nil && *share.FolderID != "" {
			ids = append(ids, *share.FolderID)
		}
	}
	return uniqueIDs(ids)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// mergeFiles concatenates the lists and drops repeated file IDs, keeping the
// first occurrence. Never returns nil.
func mergeFiles(lists ...[]models.File) []models.File {
	seen := make(map[string]struct{})
	out := []models.File{}
	for _, list := range lists {
		for _, f := range list {
			if _, ok := seen[f.ID]; ok {
				continue
			}
			seen[f.ID] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
