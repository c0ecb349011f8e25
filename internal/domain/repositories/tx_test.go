package repositories

import (
	"context"
	"testing"
)

func TestGetTx_AbsentOutsideTransaction(t *testing.T) {
	if tx := GetTx(context.Background()); tx != nil {
		t.Fatalf("GetTx() = %v, want nil", tx)
	}

	// A nil transaction stored in the context still reads back as nil
	if tx := GetTx(SetTx(context.Background(), nil)); tx != nil {
		t.Fatalf("GetTx() = %v, want nil", tx)
	}
}
