package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adaptlearn/adaptlearn-backend/internal/agents"
	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/services"
)

type stubTurns struct {
	result *services.TurnResult
	err    error
}

func (s stubTurns) HandleTurn(ctx context.Context, userID uuid.UUID, text string) (*services.TurnResult, error) {
	return s.result, s.err
}

type stubConversation struct {
	messages []*types.ChatMessage
}

func (s stubConversation) ValidateText(text string) error { return nil }
func (s stubConversation) AppendUser(dbc dbctx.Context, userID uuid.UUID, text string) (*types.ChatMessage, error) {
	return nil, nil
}
func (s stubConversation) AppendTurn(dbc dbctx.Context, userID uuid.UUID, userText, agentID, agentText string) (*types.ChatMessage, *types.ChatMessage, error) {
	return nil, nil, nil
}
func (s stubConversation) Recent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	return s.messages, nil
}
func (s stubConversation) Count(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	return int64(len(s.messages)), nil
}

func chatRouter(turns services.TurnService, conv services.ConversationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(turns, conv)
	r.POST("/api/chat", h.SendMessage)
	r.GET("/api/chat/history", h.History)
	return r
}

func TestSendMessageOK(t *testing.T) {
	turns := stubTurns{result: &services.TurnResult{
		AgentID:   agents.QA,
		ReplyText: "A syllogism is a two-premise argument.",
		UserSeq:   7,
		AgentSeq:  8,
	}}
	r := chatRouter(turns, stubConversation{})

	body := fmt.Sprintf(`{"user_id":%q,"text":"what is a syllogism?"}`, uuid.New())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Turn services.TurnResult `json:"turn"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Turn.AgentID != agents.QA || resp.Turn.AgentSeq != 8 {
		t.Fatalf("unexpected turn payload: %+v", resp.Turn)
	}
}

func TestSendMessageMapsServiceErrors(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{apierr.GenerationUnavailable(fmt.Errorf("upstream down")), http.StatusServiceUnavailable, apierr.CodeGenerationUnavailable},
		{apierr.UnknownUser(fmt.Errorf("no such user")), http.StatusNotFound, apierr.CodeUnknownUser},
		{apierr.InvalidMessage(fmt.Errorf("empty")), http.StatusBadRequest, apierr.CodeInvalidMessage},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		r := chatRouter(stubTurns{err: tc.err}, stubConversation{})
		body := fmt.Sprintf(`{"user_id":%q,"text":"hello"}`, uuid.New())
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != tc.wantStatus {
			t.Fatalf("error %v: status %d, want %d", tc.err, w.Code, tc.wantStatus)
		}
		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Error.Code != tc.wantCode {
			t.Fatalf("error %v: code %q, want %q", tc.err, resp.Error.Code, tc.wantCode)
		}
	}
}

func TestSendMessageRejectsMissingUserID(t *testing.T) {
	r := chatRouter(stubTurns{}, stubConversation{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
}

func TestHistoryReturnsMessages(t *testing.T) {
	userID := uuid.New()
	conv := stubConversation{messages: []*types.ChatMessage{
		{ID: uuid.New(), UserID: userID, Seq: 1, Role: types.RoleUser, Content: "hi"},
		{ID: uuid.New(), UserID: userID, Seq: 2, Role: types.RoleAgent, AgentID: "welcome", Content: "hello"},
	}}
	r := chatRouter(stubTurns{}, conv)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/history?user_id="+userID.String(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Messages []*types.ChatMessage `json:"messages"`
		Total    int64                `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Messages) != 2 || resp.Messages[1].AgentID != "welcome" {
		t.Fatalf("unexpected history: %+v", resp.Messages)
	}
	if resp.Total != 2 {
		t.Fatalf("expected total 2, got %d", resp.Total)
	}
}
