package plan

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/adaptlearn/adaptlearn-backend/internal/data/repos/testutil"
	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
)

func TestPlanRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewRepo(db, testutil.Logger(t))
	profile := testutil.SeedProfile(t, ctx, tx, "planrepo-tester")

	latest, err := repo.GetLatest(dbc, profile.ID)
	if err != nil {
		t.Fatalf("GetLatest (none): %v", err)
	}
	if latest != nil {
		t.Fatalf("GetLatest (none): expected nil, got revision %d", latest.Revision)
	}

	for rev := int64(1); rev <= 3; rev++ {
		row := &types.LearningPlan{
			UserID:          profile.ID,
			Revision:        rev,
			StrategySummary: "focus on weak areas",
			DiffSummary:     "initial plan",
		}
		if err := row.SetMilestones([]types.Milestone{
			{Description: "Diagnostic Test 1", EstimatedEffortMinutes: 40},
		}); err != nil {
			t.Fatalf("SetMilestones: %v", err)
		}
		if _, err := repo.Create(dbc, row); err != nil {
			t.Fatalf("Create revision %d: %v", rev, err)
		}
	}

	latest, err = repo.GetLatest(dbc, profile.ID)
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest == nil || latest.Revision != 3 {
		t.Fatalf("GetLatest: expected revision 3, got %+v", latest)
	}
	if ms := latest.MilestoneList(); len(ms) != 1 || ms[0].Description != "Diagnostic Test 1" {
		t.Fatalf("MilestoneList: unexpected milestones %+v", ms)
	}

	revs, err := repo.ListRevisions(dbc, profile.ID, 10)
	if err != nil {
		t.Fatalf("ListRevisions: %v", err)
	}
	if len(revs) != 3 || revs[0].Revision != 3 || revs[2].Revision != 1 {
		t.Fatalf("ListRevisions: unexpected order %+v", revs)
	}

	other, err := repo.GetLatest(dbc, uuid.New())
	if err != nil {
		t.Fatalf("GetLatest (other user): %v", err)
	}
	if other != nil {
		t.Fatalf("GetLatest (other user): expected nil")
	}

	// Revision numbers are unique per user. Last statement in the tx: the
	// violation aborts it.
	if _, err := repo.Create(dbc, &types.LearningPlan{
		UserID:          profile.ID,
		Revision:        3,
		StrategySummary: "dup",
	}); err == nil {
		t.Fatalf("Create: expected unique (user_id, revision) violation")
	}
}
