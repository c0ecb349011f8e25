package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"
	"cabinet/internal/domain/services"
	"cabinet/internal/httputil"
	"cabinet/internal/repository/sqlite"
	"cabinet/internal/service"
	"cabinet/internal/service/auth"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "cabinet.db"))
	assert.NilError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cabinet.db")

	db, err := sqlite.Open(context.Background(), path)
	assert.NilError(t, err)
	assert.NilError(t, db.Close())

	db, err = sqlite.Open(context.Background(), path)
	assert.NilError(t, err)
	defer db.Close()

	assert.NilError(t, db.Ping(context.Background()))
	assert.Equal(t, db.Path(), path)
}

func TestFolderRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewFolderRepository(openTestDB(t))

	now := time.Now().UTC()
	parent := &models.Folder{Name: "Parent", OwnerID: "user-a", CreatedAt: now, UpdatedAt: now}
	assert.NilError(t, repo.Create(ctx, parent))
	assert.Assert(t, parent.ID != "")

	child := &models.Folder{Name: "Child", OwnerID: "user-a", ParentFolderID: &parent.ID, CreatedAt: now.Add(time.Second), UpdatedAt: now}
	assert.NilError(t, repo.Create(ctx, child))

	got, err := repo.GetByID(ctx, child.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.Name, "Child")
	assert.Equal(t, *got.ParentFolderID, parent.ID)
	assert.Assert(t, got.CreatedAt.Equal(child.CreatedAt))

	owned, err := repo.ListByOwner(ctx, "user-a")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(owned, 2))
	assert.Equal(t, owned[0].ID, parent.ID)

	got.ParentFolderID = nil
	got.Name = "Renamed"
	assert.NilError(t, repo.Update(ctx, got))

	got, err = repo.GetByIDForUpdate(ctx, child.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.Name, "Renamed")
	assert.Assert(t, got.ParentFolderID == nil)

	byIDs, err := repo.ListByIDs(ctx, []string{child.ID, "missing"})
	assert.NilError(t, err)
	assert.Assert(t, is.Len(byIDs, 1))

	assert.NilError(t, repo.Delete(ctx, child.ID))
	_, err = repo.GetByID(ctx, child.ID)
	assert.Assert(t, errors.Is(err, domain.ErrNotFound))
	assert.Assert(t, errors.Is(repo.Delete(ctx, child.ID), domain.ErrNotFound))
}

func TestShareAndFileRepositories(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	files := sqlite.NewFileRepository(db)
	shares := sqlite.NewShareRepository(db)

	folderID := "9b0d3f5e-1111-4c2a-8a55-000000000001"
	file := &models.File{FolderID: folderID, OwnerID: "user-a", Name: "a.txt", Size: 12, MimeType: "text/plain", CreatedAt: time.Now()}
	assert.NilError(t, files.Create(ctx, file))

	byFolder, err := files.ListByFolderIDs(ctx, []string{folderID})
	assert.NilError(t, err)
	assert.Assert(t, is.Len(byFolder, 1))
	assert.Equal(t, byFolder[0].Size, int64(12))

	empty, err := files.ListByIDs(ctx, nil)
	assert.NilError(t, err)
	assert.Assert(t, empty != nil)
	assert.Assert(t, is.Len(empty, 0))

	share := &models.Share{ResourceType: models.ResourceTypeFile, ResourceID: &file.ID, FolderID: &folderID, SharedWith: "user-b", OwnerID: "user-a", CreatedAt: time.Now()}
	assert.NilError(t, shares.Create(ctx, share))

	err = shares.Create(ctx, &models.Share{ResourceType: "album", SharedWith: "user-b", OwnerID: "user-a"})
	assert.ErrorContains(t, err, "unknown resource type")

	got, err := shares.ListByFolderAndSharedWith(ctx, folderID, "user-b")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(got, 1))
	assert.Equal(t, got[0].ResourceType, models.ResourceTypeFile)
	assert.Equal(t, *got[0].ResourceID, file.ID)

	got, err = shares.ListBySharedWith(ctx, "user-c")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(got, 0))
}

// TestListByIDs_LargeIDSets passes more ids than SQLite accepts as bound
// variables in one statement.
func TestListByIDs_LargeIDSets(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	folders := sqlite.NewFolderRepository(db)
	files := sqlite.NewFileRepository(db)

	now := time.Now()
	folder := &models.Folder{Name: "Big", OwnerID: "user-a", CreatedAt: now, UpdatedAt: now}
	assert.NilError(t, folders.Create(ctx, folder))

	first := &models.File{FolderID: folder.ID, OwnerID: "user-a", Name: "first", CreatedAt: now}
	last := &models.File{FolderID: folder.ID, OwnerID: "user-a", Name: "last", CreatedAt: now.Add(time.Minute)}
	assert.NilError(t, files.Create(ctx, last))
	assert.NilError(t, files.Create(ctx, first))

	ids := make([]string, 0, 40000)
	for i := 0; i < 40000; i++ {
		ids = append(ids, fmt.Sprintf("missing-%d", i))
	}
	ids = append(ids, last.ID)
	ids = append([]string{folder.ID, first.ID}, ids...)

	gotFolders, err := folders.ListByIDs(ctx, ids)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(gotFolders, 1))

	gotFiles, err := files.ListByIDs(ctx, ids)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(gotFiles, 2))
	assert.Equal(t, gotFiles[0].Name, "first")
	assert.Equal(t, gotFiles[1].Name, "last")

	byFolder, err := files.ListByFolderIDs(ctx, ids)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(byFolder, 2))
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	folders := sqlite.NewFolderRepository(db)

	boom := errors.New("boom")
	err := db.TransactionManager().ExecTx(ctx, func(ctx context.Context) error {
		now := time.Now()
		if err := folders.Create(ctx, &models.Folder{Name: "tmp", OwnerID: "user-a", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return boom
	})
	assert.Assert(t, errors.Is(err, boom))

	owned, err := folders.ListByOwner(ctx, "user-a")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(owned, 0))
}

// TestFolderService_SharingOnSQLite runs the folder service against a real store:
// A creates a folder and shares it with B; each sees the folder in the right list.
func TestFolderService_SharingOnSQLite(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	folders := sqlite.NewFolderRepository(db)
	files := sqlite.NewFileRepository(db)
	shares := sqlite.NewShareRepository(db)
	svc := service.NewFolderService(folders, files, shares, db.TransactionManager(),
		auth.NewOwnerBasedAuthorizer(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	folder, err := svc.CreateFolder(ctx, "user-a", &services.CreateFolderRequest{Name: "  Reports  "})
	assert.NilError(t, err)
	assert.Equal(t, folder.Name, "  Reports  ")

	assert.NilError(t, files.Create(ctx, &models.File{FolderID: folder.ID, OwnerID: "user-a", Name: "q1.pdf", CreatedAt: time.Now()}))
	assert.NilError(t, shares.Create(ctx, &models.Share{
		ResourceType: models.ResourceTypeFolder,
		FolderID:     &folder.ID,
		SharedWith:   "user-b",
		OwnerID:      "user-a",
		CreatedAt:    time.Now(),
	}))

	listA, err := svc.ListFolders(ctx, "user-a")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(listA.UserFolders, 1))
	assert.Assert(t, is.Len(listA.SharedFolders, 0))

	listB, err := svc.ListFolders(ctx, "user-b")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(listB.UserFolders, 0))
	assert.Assert(t, is.Len(listB.SharedFolders, 1))
	assert.Equal(t, listB.SharedFolders[0].ID, folder.ID)

	shared, err := svc.GetFolderWithSharedFiles(ctx, "user-b", folder.ID)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(shared.SharedFiles, 1))

	_, err = svc.GetFolderWithFiles(ctx, "user-b", folder.ID)
	assert.Assert(t, errors.Is(err, domain.ErrForbidden))

	moved, err := svc.UpdateFolder(ctx, "user-a", folder.ID, &services.UpdateFolderRequest{
		ParentFolderID: httputil.OptionalString{Present: true, Value: &folder.ID},
	})
	assert.Assert(t, moved == nil)
	assert.Assert(t, errors.Is(err, domain.ErrValidation))

	assert.NilError(t, svc.DeleteFolder(ctx, "user-a", folder.ID))
	assert.Assert(t, errors.Is(svc.DeleteFolder(ctx, "user-a", folder.ID), domain.ErrNotFound))

	listB, err = svc.ListFolders(ctx, "user-b")
	assert.NilError(t, err)
	assert.Assert(t, is.Len(listB.SharedFolders, 0))
}
