package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

type recordingMessageRepo struct {
	lastLimit int
	rows      []*types.ChatMessage
}

func (r *recordingMessageRepo) Create(dbc dbctx.Context, rows []*types.ChatMessage) ([]*types.ChatMessage, error) {
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *recordingMessageRepo) GetMaxSeq(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var maxSeq int64
	for _, row := range r.rows {
		if row.UserID == userID && row.Seq > maxSeq {
			maxSeq = row.Seq
		}
	}
	return maxSeq, nil
}

func (r *recordingMessageRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *recordingMessageRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, row := range r.rows {
		if row.UserID == userID {
			n++
		}
	}
	return n, nil
}

func TestRecentClampsLimitToContextWindow(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	repo := &recordingMessageRepo{}
	svc := NewConversationService(nil, log, repo)
	dbc := dbctx.Context{}
	userID := uuid.New()

	cases := []struct {
		requested int
		want      int
	}{
		{requested: 50, want: 50},
		{requested: ContextWindow, want: ContextWindow},
		{requested: ContextWindow + 50, want: ContextWindow},
		{requested: 0, want: ContextWindow},
		{requested: -3, want: ContextWindow},
	}
	for _, tc := range cases {
		if _, err := svc.Recent(dbc, userID, tc.requested); err != nil {
			t.Fatalf("Recent(%d): %v", tc.requested, err)
		}
		if repo.lastLimit != tc.want {
			t.Fatalf("Recent(%d): repo saw limit %d, want %d", tc.requested, repo.lastLimit, tc.want)
		}
	}
}

func TestAppendTurnAssignsConsecutiveSeqs(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	repo := &recordingMessageRepo{}
	svc := NewConversationService(nil, log, repo)
	dbc := dbctx.Context{}
	userID := uuid.New()

	userMsg, agentMsg, err := svc.AppendTurn(dbc, userID, "generate my plan", "plan_generation", "Here is your plan.")
	if err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if userMsg.Seq != 1 || agentMsg.Seq != 2 {
		t.Fatalf("expected seqs 1/2, got %d/%d", userMsg.Seq, agentMsg.Seq)
	}

	userMsg2, err := svc.AppendUser(dbc, userID, "thanks")
	if err != nil {
		t.Fatalf("AppendUser: %v", err)
	}
	if userMsg2.Seq != 3 {
		t.Fatalf("expected seq 3, got %d", userMsg2.Seq)
	}

	total, err := svc.Count(dbc, userID)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 stored messages, got %d", total)
	}
}

func TestValidateText(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewConversationService(nil, log, &recordingMessageRepo{})

	if err := svc.ValidateText("hello"); err != nil {
		t.Fatalf("expected valid text, got %v", err)
	}
	if err := svc.ValidateText("   \n\t "); err == nil {
		t.Fatalf("expected whitespace-only text to be rejected")
	}
	if err := svc.ValidateText(strings.Repeat("x", MaxMessageRunes+1)); err == nil {
		t.Fatalf("expected oversized text to be rejected")
	}
}
