package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaptlearn/adaptlearn-backend/internal/allocation"
	statsrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/stats"
	types "github.com/adaptlearn/adaptlearn-backend/internal/domain"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

// AnswerInput is one answer event from the practice surface.
type AnswerInput struct {
	PackName      string `json:"pack_name"`
	QuestionID    string `json:"question_id"`
	Category      string `json:"category"`
	Difficulty    int    `json:"difficulty"`
	AttemptNumber int    `json:"attempt_number"`
	Correct       bool   `json:"correct"`
	LatencyMS     int64  `json:"latency_ms"`
	HintUsed      bool   `json:"hint_used"`
}

// CategorySummary is the per-category aggregation handed to the
// statistics agent and, as diagnostic scores, to time allocation.
type CategorySummary struct {
	Category     string  `json:"category"`
	Exposures    int64   `json:"exposures"`
	CorrectRate  float64 `json:"correct_rate"`
	HintRate     float64 `json:"hint_rate"`
	AvgLatencyMS int64   `json:"avg_latency_ms"`
}

type StatsService interface {
	// RecordAnswer folds one answer event into the question's stat row.
	// Exposure, correctness, and latency count first attempts only;
	// hints count on every attempt.
	RecordAnswer(dbc dbctx.Context, in AnswerInput) (*types.QuestionStat, error)

	// Summarize aggregates a pack's stat rows per category.
	Summarize(dbc dbctx.Context, packName string) ([]CategorySummary, error)

	// MetricsJSON renders the pack summary for prompt embedding.
	MetricsJSON(dbc dbctx.Context, packName string) (string, error)

	// DiagnosticScores maps per-category correct rates into allocation
	// inputs. Categories with no exposures are omitted so allocation
	// falls back to its default score.
	DiagnosticScores(dbc dbctx.Context, packName string) ([]allocation.DiagnosticScore, error)
}

type statsService struct {
	db    *gorm.DB
	log   *logger.Logger
	stats statsrepo.Repo
}

func NewStatsService(db *gorm.DB, baseLog *logger.Logger, stats statsrepo.Repo) StatsService {
	return &statsService{
		db:    db,
		log:   baseLog.With("service", "StatsService"),
		stats: stats,
	}
}

func (s *statsService) RecordAnswer(dbc dbctx.Context, in AnswerInput) (*types.QuestionStat, error) {
	if strings.TrimSpace(in.PackName) == "" || strings.TrimSpace(in.QuestionID) == "" {
		return nil, apierr.InvalidMessage(fmt.Errorf("pack_name and question_id are required"))
	}
	if in.AttemptNumber <= 0 {
		in.AttemptNumber = 1
	}
	if in.LatencyMS < 0 {
		return nil, apierr.InvalidMessage(fmt.Errorf("latency_ms must be non-negative"))
	}

	var saved *types.QuestionStat
	err := runInTx(s.db, dbc, func(inner dbctx.Context) error {
		row, err := s.stats.Get(inner, in.PackName, in.QuestionID)
		if err != nil {
			return err
		}
		if row == nil {
			row = &types.QuestionStat{
				ID:         uuid.New(),
				PackName:   strings.TrimSpace(in.PackName),
				QuestionID: strings.TrimSpace(in.QuestionID),
				Category:   strings.TrimSpace(in.Category),
				Difficulty: in.Difficulty,
			}
			if row.Difficulty <= 0 {
				row.Difficulty = 5
			}
		}

		if in.AttemptNumber == 1 {
			prev := row.TotalAttempts
			row.TotalAttempts++
			if in.Correct {
				row.TotalCorrect++
			} else {
				row.TotalIncorrect++
			}
			// Running average over first attempts.
			row.AvgLatencyMS = (row.AvgLatencyMS*prev + in.LatencyMS) / row.TotalAttempts
		}
		if in.HintUsed {
			row.HintCount++
		}
		row.UpdatedAt = time.Now().UTC()

		saved, err = s.stats.Save(inner, row)
		return err
	})
	if err != nil {
		s.log.Error("record answer failed", "pack_name", in.PackName, "question_id", in.QuestionID, "error", err)
		return nil, err
	}
	return saved, nil
}

func (s *statsService) Summarize(dbc dbctx.Context, packName string) ([]CategorySummary, error) {
	rows, err := s.stats.ListByPack(dbc, packName)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		exposures  int64
		correct    int64
		hints      int64
		latencySum int64
	}
	buckets := map[string]*bucket{}
	for _, r := range rows {
		cat := r.Category
		if cat == "" {
			cat = "General"
		}
		b, ok := buckets[cat]
		if !ok {
			b = &bucket{}
			buckets[cat] = b
		}
		b.exposures += r.TotalAttempts
		b.correct += r.TotalCorrect
		b.hints += r.HintCount
		b.latencySum += r.AvgLatencyMS * r.TotalAttempts
	}

	out := make([]CategorySummary, 0, len(buckets))
	for cat, b := range buckets {
		cs := CategorySummary{Category: cat, Exposures: b.exposures}
		if b.exposures > 0 {
			cs.CorrectRate = round2(float64(b.correct) / float64(b.exposures))
			cs.HintRate = round2(float64(b.hints) / float64(b.exposures))
			cs.AvgLatencyMS = b.latencySum / b.exposures
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *statsService) MetricsJSON(dbc dbctx.Context, packName string) (string, error) {
	summary, err := s.Summarize(dbc, packName)
	if err != nil {
		return "", err
	}
	payload := map[string]any{
		"pack_name":  packName,
		"categories": summary,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *statsService) DiagnosticScores(dbc dbctx.Context, packName string) ([]allocation.DiagnosticScore, error) {
	summary, err := s.Summarize(dbc, packName)
	if err != nil {
		return nil, err
	}
	scores := make([]allocation.DiagnosticScore, 0, len(summary))
	for _, cs := range summary {
		if cs.Exposures == 0 {
			continue
		}
		scores = append(scores, allocation.DiagnosticScore{Category: cs.Category, Score: cs.CorrectRate})
	}
	return scores, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
