package services

import (
	"context"
	"testing"

	"github.com/plumbline/plumbline-backend/internal/logger"
	"github.com/plumbline/plumbline-backend/internal/types"
)

func newScopeServiceForGuards(t *testing.T) ScopeService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewScopeService(nil, log, nil, nil, nil, nil, nil, nil)
}

func TestCreateSubcontractorRequiresCompanyName(t *testing.T) {
	svc := newScopeServiceForGuards(t)
	ctx := context.Background()

	if _, err := svc.CreateSubcontractor(ctx, nil); err == nil {
		t.Fatal("expected error for nil subcontractor")
	}
	if _, err := svc.CreateSubcontractor(ctx, &types.Subcontractor{TradeFocus: "electrical"}); err == nil {
		t.Fatal("expected error for missing company name")
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	svc := newScopeServiceForGuards(t)
	ctx := context.Background()

	if _, err := svc.CreateProject(ctx, nil); err == nil {
		t.Fatal("expected error for nil project")
	}
	if _, err := svc.CreateProject(ctx, &types.Project{ClientName: "Ridgeway Dev"}); err == nil {
		t.Fatal("expected error for missing project name")
	}
}
