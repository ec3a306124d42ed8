// Package questionbank serves practice questions from a pack's bank file,
// filtered by category and difficulty band.
package questionbank

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Question is one bank entry. Difficulty runs 1 (easiest) to 10.
type Question struct {
	ID          string
	Category    string
	Stem        string
	Stimuli     string
	Choices     []string
	Correct     string
	Explanation string
	Difficulty  int
}

// CorrectIndex is the 0-based position of the correct answer within
// Choices, or -1 when it cannot be matched.
func (q Question) CorrectIndex() int {
	want := strings.TrimSpace(q.Correct)
	for i, c := range q.Choices {
		if strings.TrimSpace(c) == want {
			return i
		}
	}
	return -1
}

// categoryAliases folds noisy bank labels onto the canonical
// Watson-Glaser categories.
var categoryAliases = map[string]string{
	"logic":   "Deduction",
	"logical": "Deduction",
}

// CanonicalCategory normalizes a bank or client category label.
func CanonicalCategory(raw string) string {
	raw = strings.TrimSpace(raw)
	if c, ok := categoryAliases[strings.ToLower(raw)]; ok {
		return c
	}
	if raw == "" {
		return "Deduction"
	}
	return raw
}

// Bank is an immutable in-memory question bank. Listing order is the
// bank's load order, so selection is deterministic.
type Bank struct {
	byID  map[string]Question
	order []string
}

// New builds a bank from already-shaped questions, normalizing categories
// and defaulting difficulty to 5.
func New(questions []Question) *Bank {
	b := &Bank{byID: make(map[string]Question, len(questions))}
	for i, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			q.ID = fmt.Sprintf("q-%d", i+1)
		}
		q.Category = CanonicalCategory(q.Category)
		if q.Difficulty < 1 || q.Difficulty > 10 {
			q.Difficulty = 5
		}
		if _, dup := b.byID[q.ID]; dup {
			continue
		}
		b.byID[q.ID] = q
		b.order = append(b.order, q.ID)
	}
	return b
}

// Load reads a bank file. Both a flat question list and the wrapped
// {metadata, questions, statistics} shape are accepted.
func Load(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Bank, error) {
	var wrapped struct {
		Questions []map[string]any `json:"questions"`
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Questions != nil {
		records = wrapped.Questions
	} else if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	questions := make([]Question, 0, len(records))
	for _, r := range records {
		questions = append(questions, fromRecord(r))
	}
	return New(questions), nil
}

// fromRecord tolerates the field-name variants the bank files use.
func fromRecord(r map[string]any) Question {
	return Question{
		ID:          firstString(r, "id", "question_id", "Question ID"),
		Category:    firstString(r, "Subject", "subject", "category"),
		Stem:        firstString(r, "question content", "question_content", "question", "stem"),
		Stimuli:     firstString(r, "question stimuli", "question_stimuli", "stimuli"),
		Choices:     recordChoices(r),
		Correct:     firstString(r, "correct answer", "correct_answer", "answer", "correct"),
		Explanation: firstString(r, "explanation"),
		Difficulty:  recordDifficulty(r),
	}
}

func firstString(r map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

var choiceKeySets = [][]string{
	{"answer 1", "answer 2", "answer 3", "answer 4", "answer 5"},
	{"answer_1", "answer_2", "answer_3", "answer_4", "answer_5"},
	{"option_1", "option_2", "option_3", "option_4", "option_5"},
}

func recordChoices(r map[string]any) []string {
	if m, ok := r["answers"].(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			if m[k] == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(m[k])); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	for _, keys := range choiceKeySets {
		var out []string
		for _, k := range keys {
			if v, ok := r[k]; ok && v != nil {
				if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func recordDifficulty(r map[string]any) int {
	raw := firstString(r, "Difficulty level", "difficulty_level", "difficulty")
	if raw == "" {
		return 5
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			n = int(f)
		} else {
			return 5
		}
	}
	if n < 1 || n > 10 {
		return 5
	}
	return n
}

func (b *Bank) Len() int { return len(b.order) }

func (b *Bank) Get(id string) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Categories returns the distinct categories in the bank, sorted.
func (b *Bank) Categories() []string {
	seen := map[string]bool{}
	for _, id := range b.order {
		seen[b.byID[id].Category] = true
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// List returns up to n unseen questions in the category within the
// inclusive difficulty band, in bank order.
func (b *Bank) List(category string, diffMin, diffMax, n int, exclude map[string]bool) []Question {
	category = CanonicalCategory(category)
	out := make([]Question, 0, n)
	for _, id := range b.order {
		if len(out) >= n {
			break
		}
		q := b.byID[id]
		if q.Category != category || exclude[q.ID] {
			continue
		}
		if q.Difficulty < diffMin || q.Difficulty > diffMax {
			continue
		}
		out = append(out, q)
	}
	return out
}

// SuggestNext returns up to n unseen questions near the target
// difficulty (a band of target±1, clamped to 1..10).
func (b *Bank) SuggestNext(category string, targetDiff, n int, exclude map[string]bool) []Question {
	lo := targetDiff - 1
	if lo < 1 {
		lo = 1
	}
	hi := targetDiff + 1
	if hi > 10 {
		hi = 10
	}
	return b.List(category, lo, hi, n, exclude)
}
