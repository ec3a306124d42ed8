package questionbank

import "testing"

const wrappedBank = `{
	"metadata": {"pack": "Watson Glaser"},
	"questions": [
		{
			"Question ID": "wg-1",
			"Subject": "Inference",
			"question content": "A survey of 200 employees...",
			"answers": {"answer_1": "True", "answer_2": "False", "answer_3": "Insufficient data"},
			"correct answer": "Insufficient data",
			"Difficulty level": 4
		},
		{
			"question_id": "wg-2",
			"subject": "Logic",
			"question_content": "All managers attend the briefing...",
			"answer_1": "Conclusion follows",
			"answer_2": "Conclusion does not follow",
			"correct_answer": "Conclusion follows",
			"difficulty_level": "7"
		},
		{
			"id": "wg-3",
			"category": "Deduction",
			"stem": "No clerks are supervisors...",
			"option_1": "Follows",
			"option_2": "Does not follow",
			"correct": "Does not follow"
		}
	],
	"statistics": {"count": 3}
}`

func TestParseWrappedBank(t *testing.T) {
	b, err := Parse([]byte(wrappedBank))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.Len() != 3 {
		t.Fatalf("expected 3 questions, got %d", b.Len())
	}

	q, ok := b.Get("wg-1")
	if !ok {
		t.Fatal("wg-1 missing")
	}
	if q.Category != "Inference" || q.Difficulty != 4 {
		t.Fatalf("wg-1 mis-parsed: %+v", q)
	}
	if len(q.Choices) != 3 || q.CorrectIndex() != 2 {
		t.Fatalf("wg-1 choices mis-parsed: %+v, correct index %d", q.Choices, q.CorrectIndex())
	}

	// "Logic" folds onto the canonical Deduction category; string
	// difficulty still parses.
	q, _ = b.Get("wg-2")
	if q.Category != "Deduction" || q.Difficulty != 7 {
		t.Fatalf("wg-2 mis-parsed: %+v", q)
	}

	// Missing difficulty defaults to 5.
	q, _ = b.Get("wg-3")
	if q.Difficulty != 5 {
		t.Fatalf("wg-3 default difficulty: %+v", q)
	}

	cats := b.Categories()
	if len(cats) != 2 || cats[0] != "Deduction" || cats[1] != "Inference" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}

func TestParseFlatList(t *testing.T) {
	flat := `[{"id": "f-1", "category": "Assumptions", "stem": "It is assumed that...", "option_1": "Made", "option_2": "Not made", "correct": "Made", "difficulty": 3}]`
	b, err := Parse([]byte(flat))
	if err != nil {
		t.Fatalf("parse flat: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 question, got %d", b.Len())
	}
	if q, _ := b.Get("f-1"); q.Category != "Assumptions" || q.Difficulty != 3 {
		t.Fatalf("flat record mis-parsed: %+v", q)
	}
}

func TestSuggestNextBandAndExclusion(t *testing.T) {
	b := New([]Question{
		{ID: "d-2", Category: "Deduction", Stem: "s", Difficulty: 2},
		{ID: "d-4", Category: "Deduction", Stem: "s", Difficulty: 4},
		{ID: "d-5", Category: "Deduction", Stem: "s", Difficulty: 5},
		{ID: "d-8", Category: "Deduction", Stem: "s", Difficulty: 8},
		{ID: "i-5", Category: "Inference", Stem: "s", Difficulty: 5},
	})

	got := b.SuggestNext("Deduction", 4, 10, nil)
	if len(got) != 2 || got[0].ID != "d-4" || got[1].ID != "d-5" {
		t.Fatalf("band 3..5 should match d-4 and d-5: %+v", got)
	}

	got = b.SuggestNext("Deduction", 4, 10, map[string]bool{"d-4": true})
	if len(got) != 1 || got[0].ID != "d-5" {
		t.Fatalf("exclusion not honored: %+v", got)
	}

	// Band clamps at the scale edges.
	if got = b.SuggestNext("Deduction", 1, 10, nil); len(got) != 1 || got[0].ID != "d-2" {
		t.Fatalf("low clamp: %+v", got)
	}
	if got = b.SuggestNext("Deduction", 10, 10, nil); len(got) != 0 {
		t.Fatalf("band 9..10 should be empty: %+v", got)
	}

	if got = b.SuggestNext("Deduction", 4, 1, nil); len(got) != 1 {
		t.Fatalf("n limit not honored: %+v", got)
	}
}
