package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaptlearn/adaptlearn-backend/internal/agents"
	"github.com/adaptlearn/adaptlearn-backend/internal/allocation"
	chatrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/chat"
	planrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/plan"
	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	plansynth "github.com/adaptlearn/adaptlearn-backend/internal/plan"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/openai"
)

// TurnResult is what one accepted turn produced.
type TurnResult struct {
	AgentID   agents.ID           `json:"agent_id"`
	ReplyText string              `json:"reply_text"`
	UserSeq   int64               `json:"user_seq"`
	AgentSeq  int64               `json:"agent_seq"`
	Plan      *types.LearningPlan `json:"plan,omitempty"`
}

type TurnService interface {
	// HandleTurn runs one full conversation turn: route to an agent,
	// generate a reply, and persist the user/agent message pair
	// atomically. On a generation failure only the user message is
	// recorded and a generation_unavailable error is returned.
	HandleTurn(ctx context.Context, userID uuid.UUID, text string) (*TurnResult, error)
}

type turnService struct {
	db           *gorm.DB
	log          *logger.Logger
	ai           openai.Client
	conversation ConversationService
	profiles     ProfileService
	sessions     chatrepo.SessionRepo
	plans        planrepo.Repo
	stats        StatsService
	notify       TurnNotifier
	locks        *turnLocks
	timeout      time.Duration
}

func NewTurnService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ai openai.Client,
	conversation ConversationService,
	profiles ProfileService,
	sessions chatrepo.SessionRepo,
	plans planrepo.Repo,
	stats StatsService,
	notify TurnNotifier,
	generationTimeout time.Duration,
) TurnService {
	if generationTimeout <= 0 {
		generationTimeout = 30 * time.Second
	}
	return &turnService{
		db:           db,
		log:          baseLog.With("service", "TurnService"),
		ai:           ai,
		conversation: conversation,
		profiles:     profiles,
		sessions:     sessions,
		plans:        plans,
		stats:        stats,
		notify:       notify,
		locks:        newTurnLocks(),
		timeout:      generationTimeout,
	}
}

func (s *turnService) HandleTurn(ctx context.Context, userID uuid.UUID, text string) (*TurnResult, error) {
	if err := s.conversation.ValidateText(text); err != nil {
		return nil, err
	}

	// One turn at a time per user; seq assignment and plan revisions
	// depend on it.
	release := s.locks.Acquire(userID)
	defer release()

	dbc := dbctx.Context{Ctx: ctx}

	profile, err := s.profiles.Get(dbc, userID)
	if err != nil {
		return nil, err
	}
	previous, err := s.plans.GetLatest(dbc, userID)
	if err != nil {
		return nil, err
	}

	current := agents.Welcome
	if session, err := s.sessions.Get(dbc, userID); err != nil {
		return nil, err
	} else if session != nil && agents.ID(session.ActiveAgent).Valid() {
		current = agents.ID(session.ActiveAgent)
	}

	next := agents.Select(current, text, previous != nil)
	contract, err := agents.For(next)
	if err != nil {
		return nil, err
	}

	window, err := s.conversation.Recent(dbc, userID, ContextWindow)
	if err != nil {
		return nil, err
	}

	in := agents.PromptInput{
		Profile: profile,
		Window:  window,
		Plan:    previous,
		Text:    text,
	}
	switch next {
	case agents.Statistics:
		in.MetricsJSON, err = s.stats.MetricsJSON(dbc, profile.PackName)
		if err != nil {
			return nil, err
		}
	case agents.PlanGeneration:
		in.MetricsJSON = s.allocationJSON(dbc, profile)
	}

	replyText, newPlan, err := s.produceReply(ctx, contract, in, previous, userID)
	if err != nil {
		return s.recordFailedTurn(dbc, userID, text, err)
	}

	result := &TurnResult{AgentID: next, ReplyText: replyText, Plan: newPlan}
	err = runInTx(s.db, dbctx.Context{Ctx: ctx}, func(inner dbctx.Context) error {
		userMsg, agentMsg, err := s.conversation.AppendTurn(inner, userID, text, string(next), replyText)
		if err != nil {
			return err
		}
		result.UserSeq = userMsg.Seq
		result.AgentSeq = agentMsg.Seq
		if _, err := s.sessions.SetActiveAgent(inner, userID, string(next)); err != nil {
			return err
		}
		if newPlan != nil {
			if _, err := s.plans.Create(inner, newPlan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("persist turn failed", "user_id", userID.String(), "agent", string(next), "error", err)
		return nil, err
	}

	var rev int64
	if newPlan != nil {
		rev = newPlan.Revision
	}
	if s.notify != nil {
		s.notify.TurnCompleted(userID, string(next), result.AgentSeq, rev)
	}

	s.log.Info("turn completed",
		"user_id", userID.String(),
		"agent", string(next),
		"seq", result.AgentSeq,
		"plan_revision", rev,
	)
	return result, nil
}

// produceReply runs the generation side of the turn. The database is not
// touched here; on error the caller records only the user message.
func (s *turnService) produceReply(
	ctx context.Context,
	contract agents.Contract,
	in agents.PromptInput,
	previous *types.LearningPlan,
	userID uuid.UUID,
) (string, *types.LearningPlan, error) {
	// Workloads far from the 8-hour base are scaled deterministically;
	// no generation call is involved.
	if contract.ID() == agents.PlanGeneration {
		days := agents.PlanDays(in.Profile, time.Now().UTC())
		hoursPerDay := 1
		if in.Profile != nil && in.Profile.DailyStudyHours > 0 {
			hoursPerDay = in.Profile.DailyStudyHours
		}
		factor := plansynth.ScalingFactor(plansynth.TotalHours(days, hoursPerDay))
		if plansynth.UseDirectScaling(factor) {
			scaled, diff, err := plansynth.Scaled(in.Profile, days, previous, time.Now().UTC())
			if err != nil {
				return "", nil, err
			}
			return renderPlanReply(scaled, diff), scaled, nil
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	prompt := contract.BuildPrompt(in)

	switch contract.Output() {
	case agents.OutputText:
		reply, err := s.ai.GenerateText(genCtx, prompt.System, prompt.User)
		if err != nil {
			return "", nil, err
		}
		return strings.TrimSpace(reply), nil, nil

	case agents.OutputPlan:
		raw, err := s.generateStructured(genCtx, contract, prompt)
		if err != nil {
			return "", nil, err
		}
		next, diff, serr := plansynth.Synthesize(raw, previous, userID)
		if serr != nil {
			// One corrective retry before giving up on this output. The
			// instruction must change the prompt, or a deterministic model
			// just reproduces the unusable output.
			retry := prompt
			retry.User += "\n\nYour previous response contained no usable milestones. " +
				"Return JSON matching the schema with at least one milestone."
			raw, err = s.generateStructured(genCtx, contract, retry)
			if err == nil {
				next, diff, serr = plansynth.Synthesize(raw, previous, userID)
			}
		}
		if serr != nil && previous == nil {
			// First plan must not fail outright; fall back to the
			// canned base template.
			next, diff, serr = plansynth.Synthesize(plansynth.DefaultText(), nil, userID)
		}
		if serr != nil {
			s.log.Warn("plan output unusable, keeping current plan",
				"user_id", userID.String(), "agent", string(contract.ID()), "error", serr)
			return "I couldn't apply that change to your plan, so it stays as it is. " +
				"Try describing the change differently.", nil, nil
		}
		return renderPlanReply(next, diff), next, nil

	case agents.OutputMetrics:
		raw, err := s.generateStructured(genCtx, contract, prompt)
		if err != nil {
			return "", nil, err
		}
		return metricsReply(raw), nil, nil
	}

	return "", nil, fmt.Errorf("agent %q has no output contract", contract.ID())
}

func (s *turnService) generateStructured(ctx context.Context, contract agents.Contract, prompt agents.Prompt) (string, error) {
	schemaed, ok := contract.(agents.Schemaed)
	if !ok {
		return "", fmt.Errorf("agent %q declares structured output without a schema", contract.ID())
	}
	name, schema := schemaed.Schema()
	out, err := s.ai.GenerateJSON(ctx, prompt.System, prompt.User, name, schema)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// allocationJSON computes adaptive per-category time allocation for plan
// generation. Best effort: a plan turn proceeds without it.
func (s *turnService) allocationJSON(dbc dbctx.Context, profile *types.UserProfile) string {
	if profile == nil {
		return ""
	}
	scores, err := s.stats.DiagnosticScores(dbc, profile.PackName)
	if err != nil {
		s.log.Warn("diagnostic scores unavailable", "pack_name", profile.PackName, "error", err)
		return ""
	}
	days := agents.PlanDays(profile, time.Now().UTC())
	hoursPerDay := profile.DailyStudyHours
	if hoursPerDay <= 0 {
		hoursPerDay = 1
	}
	totalMinutes := plansynth.TotalHours(days, hoursPerDay) * 60
	allocs, err := allocation.Allocate(allocation.DefaultWeights(profile.PackName), scores, totalMinutes)
	if err != nil {
		s.log.Warn("time allocation failed", "pack_name", profile.PackName, "error", err)
		return ""
	}
	raw, err := json.Marshal(allocs)
	if err != nil {
		return ""
	}
	return string(raw)
}

// recordFailedTurn persists the user message alone, then surfaces the
// generation failure. The conversation log stays truthful: the tester
// said something and got no reply.
func (s *turnService) recordFailedTurn(dbc dbctx.Context, userID uuid.UUID, text string, genErr error) (*TurnResult, error) {
	if _, err := s.conversation.AppendUser(dbc, userID, text); err != nil {
		s.log.Error("record user message after generation failure",
			"user_id", userID.String(), "error", err)
	}
	if apierr.From(genErr) != nil {
		return nil, genErr
	}
	if errors.Is(genErr, context.DeadlineExceeded) {
		genErr = fmt.Errorf("generation timed out: %w", genErr)
	}
	return nil, apierr.GenerationUnavailable(genErr)
}

func renderPlanReply(p *types.LearningPlan, diff string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.StrategySummary))
	b.WriteString("\n")
	for i, m := range p.MilestoneList() {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, m.Description))
		if m.TargetDate != "" {
			b.WriteString(" - " + m.TargetDate)
		}
		if m.EstimatedEffortMinutes > 0 {
			b.WriteString(fmt.Sprintf(" (%d min)", m.EstimatedEffortMinutes))
		}
	}
	if diff != "" && p.Revision > 1 {
		b.WriteString("\n\nChanges: " + diff)
	}
	return b.String()
}

func metricsReply(raw string) string {
	var payload struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		if s := strings.TrimSpace(payload.Summary); s != "" {
			return s
		}
	}
	return "No usable statistics are available yet. Answer a few practice questions first."
}
