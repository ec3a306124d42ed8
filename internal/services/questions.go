package services

import (
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	statsrepo "github.com/adaptlearn/adaptlearn-backend/internal/data/repos/stats"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/apierr"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
	"github.com/adaptlearn/adaptlearn-backend/internal/questionbank"
)

// warmupDifficulty is the target for categories with no recorded
// performance yet.
const warmupDifficulty = 4

// ServedQuestion is the practice-surface view of a bank question.
type ServedQuestion struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Stem         string   `json:"stem"`
	Stimuli      string   `json:"stimuli,omitempty"`
	Choices      []string `json:"choices"`
	Difficulty   int      `json:"difficulty"`
	CorrectIndex int      `json:"correct_index"`
}

type QuestionService interface {
	// NextQuestions picks up to n unseen questions per category, with the
	// difficulty target derived from the pack's recorded performance:
	// unexposed categories get warm-up questions, exposed ones get
	// questions near the level their correct rate maps onto. An empty
	// category serves every bank category.
	NextQuestions(dbc dbctx.Context, packName, category string, n int) ([]ServedQuestion, error)
}

type questionService struct {
	db    *gorm.DB
	log   *logger.Logger
	bank  *questionbank.Bank
	stats statsrepo.Repo
}

func NewQuestionService(db *gorm.DB, baseLog *logger.Logger, bank *questionbank.Bank, stats statsrepo.Repo) QuestionService {
	return &questionService{
		db:    db,
		log:   baseLog.With("service", "QuestionService"),
		bank:  bank,
		stats: stats,
	}
}

func (s *questionService) NextQuestions(dbc dbctx.Context, packName, category string, n int) ([]ServedQuestion, error) {
	if strings.TrimSpace(packName) == "" {
		return nil, apierr.InvalidMessage(fmt.Errorf("pack is required"))
	}
	if s.bank == nil || s.bank.Len() == 0 {
		return nil, fmt.Errorf("question bank not loaded")
	}
	if n <= 0 || n > 10 {
		n = 3
	}

	rows, err := s.stats.ListByPack(dbc, packName)
	if err != nil {
		return nil, err
	}

	type perf struct {
		attempts int64
		correct  int64
	}
	exclude := make(map[string]bool, len(rows))
	perCategory := map[string]*perf{}
	for _, r := range rows {
		exclude[r.QuestionID] = true
		cat := questionbank.CanonicalCategory(r.Category)
		p, ok := perCategory[cat]
		if !ok {
			p = &perf{}
			perCategory[cat] = p
		}
		p.attempts += r.TotalAttempts
		p.correct += r.TotalCorrect
	}

	categories := s.bank.Categories()
	if strings.TrimSpace(category) != "" {
		categories = []string{questionbank.CanonicalCategory(category)}
	}

	out := make([]ServedQuestion, 0, n*len(categories))
	for _, cat := range categories {
		target := warmupDifficulty
		if p := perCategory[cat]; p != nil && p.attempts > 0 {
			rate := float64(p.correct) / float64(p.attempts)
			target = int(math.Round(rate * 10))
			if target < 1 {
				target = 1
			}
			if target > 10 {
				target = 10
			}
		}
		qs := s.bank.SuggestNext(cat, target, n, exclude)
		if len(qs) == 0 {
			// The target band is exhausted; fall back to any unseen
			// question in the category.
			qs = s.bank.List(cat, 1, 10, n, exclude)
		}
		for _, q := range qs {
			out = append(out, ServedQuestion{
				ID:           q.ID,
				Category:     q.Category,
				Stem:         q.Stem,
				Stimuli:      q.Stimuli,
				Choices:      q.Choices,
				Difficulty:   q.Difficulty,
				CorrectIndex: q.CorrectIndex(),
			})
		}
	}
	return out, nil
}
