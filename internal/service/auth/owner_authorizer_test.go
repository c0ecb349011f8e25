package auth

import (
	"context"
	"errors"
	"testing"

	"cabinet/internal/domain"
	"cabinet/internal/domain/models"
)

func TestOwnerBasedAuthorizer(t *testing.T) {
	a := NewOwnerBasedAuthorizer()
	ctx := context.Background()
	folder := &models.Folder{ID: "f1", OwnerID: "owner"}

	tests := []struct {
		name    string
		check   func() error
		wantErr bool
	}{
		{"owner may modify", func() error { return a.CanModifyFolder(ctx, "owner", folder) }, false},
		{"stranger may not modify", func() error { return a.CanModifyFolder(ctx, "stranger", folder) }, true},
		{"owner may nest under own folder", func() error { return a.CanUseAsParent(ctx, "owner", folder) }, false},
		{"stranger may not nest under it", func() error { return a.CanUseAsParent(ctx, "stranger", folder) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr {
				if !errors.Is(err, domain.ErrForbidden) {
					t.Fatalf("err = %v, want ErrForbidden", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
