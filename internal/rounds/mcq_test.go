package rounds

import (
	"context"
	"errors"
	"math"
	"testing"
)

func seedMCQRound(t *testing.T, svc *Service) Round {
	t.Helper()
	round, err := svc.Create(context.Background(), CreateInput{
		JobID: "job-1",
		Name:  "Screening MCQ",
		Type:  TypeMCQ,
		Questions: []MCQQuestion{
			{Question: "Q1", Options: []string{"a", "b", "c"}, CorrectAnswer: 1},
			{Question: "Q2", Options: []string{"a", "b", "c"}, CorrectAnswer: 0},
			{Question: "Q3", Options: []string{"a", "b", "c"}, CorrectAnswer: 2},
		},
	})
	if err != nil {
		t.Fatalf("seed round: %v", err)
	}
	return round
}

func TestSubmitMCQScoring(t *testing.T) {
	svc := newTestService(t)
	round := seedMCQRound(t, svc)

	resp, err := svc.SubmitMCQ(context.Background(), round.ID, "app-1", "cand-1", []int{1, 0, 1})
	if err != nil {
		t.Fatalf("SubmitMCQ: %v", err)
	}

	want := 100 * 2.0 / 3.0
	if math.Abs(resp.Score-want) > 1e-9 {
		t.Errorf("score = %v, want %v", resp.Score, want)
	}
	wantCorrect := []bool{true, true, false}
	for i, got := range resp.IsCorrect {
		if got != wantCorrect[i] {
			t.Errorf("isCorrect[%d] = %v, want %v", i, got, wantCorrect[i])
		}
	}
}

func TestSubmitMCQSecondSubmissionConflicts(t *testing.T) {
	svc := newTestService(t)
	round := seedMCQRound(t, svc)
	ctx := context.Background()

	if _, err := svc.SubmitMCQ(ctx, round.ID, "app-1", "cand-1", []int{1, 0, 2}); err != nil {
		t.Fatalf("SubmitMCQ: %v", err)
	}
	if _, err := svc.SubmitMCQ(ctx, round.ID, "app-1", "cand-1", []int{0, 0, 0}); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// A different application on the same round is still allowed.
	if _, err := svc.SubmitMCQ(ctx, round.ID, "app-2", "cand-2", []int{1, 0, 2}); err != nil {
		t.Fatalf("SubmitMCQ for second application: %v", err)
	}
}

func TestSubmitMCQAnswerCountMismatch(t *testing.T) {
	svc := newTestService(t)
	round := seedMCQRound(t, svc)

	if _, err := svc.SubmitMCQ(context.Background(), round.ID, "app-1", "cand-1", []int{1, 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSubmitMCQNonMCQRound(t *testing.T) {
	svc := newTestService(t)
	round, err := svc.Create(context.Background(), CreateInput{JobID: "job-1", Name: "Tech", Type: TypeTechnical})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.SubmitMCQ(context.Background(), round.ID, "app-1", "cand-1", []int{0}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for non-mcq round", err)
	}
}

func TestSubmitMCQRoundWithoutKey(t *testing.T) {
	svc := newTestService(t)
	round, err := svc.Create(context.Background(), CreateInput{JobID: "job-1", Name: "Screen", Type: TypeMCQ})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.SubmitMCQ(context.Background(), round.ID, "app-1", "cand-1", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for round with no scoring key", err)
	}
}

func TestSubmitMCQPerfectScore(t *testing.T) {
	svc := newTestService(t)
	round := seedMCQRound(t, svc)

	resp, err := svc.SubmitMCQ(context.Background(), round.ID, "app-1", "cand-1", []int{1, 0, 2})
	if err != nil {
		t.Fatalf("SubmitMCQ: %v", err)
	}
	if resp.Score != 100 {
		t.Errorf("score = %v, want 100", resp.Score)
	}
}
