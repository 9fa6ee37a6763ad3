package worker

import (
	"testing"

	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/google/uuid"
)

func resultFor(userID, xp int) *model.QuizResult {
	return &model.QuizResult{
		ID:        uuid.New(),
		SessionID: uuid.New(),
		UserID:    userID,
		XP:        xp,
	}
}

func markInserted(results ...*model.QuizResult) map[string]bool {
	inserted := make(map[string]bool, len(results))
	for _, p := range results {
		inserted[p.SessionID.String()] = true
	}
	return inserted
}

func TestAggregateUserDeltasSumsRepeatUser(t *testing.T) {
	first := resultFor(7, 60)
	second := resultFor(7, 90)
	batch := []*model.QuizResult{first, second}

	userIDs, xpSums, counts := aggregateUserDeltas(batch, markInserted(first, second))

	if len(userIDs) != 1 {
		t.Fatalf("expected one row for user 7, got %d", len(userIDs))
	}
	if userIDs[0] != 7 {
		t.Errorf("user_id: got %d, want 7", userIDs[0])
	}
	if xpSums[0] != 150 {
		t.Errorf("xp sum: got %d, want 150", xpSums[0])
	}
	if counts[0] != 2 {
		t.Errorf("completion count: got %d, want 2", counts[0])
	}
}

func TestAggregateUserDeltasSkipsConflictedRows(t *testing.T) {
	kept := resultFor(7, 60)
	replayed := resultFor(7, 90)
	batch := []*model.QuizResult{kept, replayed}

	// Only the first insert took effect; the replay hit ON CONFLICT.
	userIDs, xpSums, counts := aggregateUserDeltas(batch, markInserted(kept))

	if len(userIDs) != 1 || xpSums[0] != 60 || counts[0] != 1 {
		t.Fatalf("got users=%v xp=%v counts=%v, want one row (7, 60, 1)", userIDs, xpSums, counts)
	}
}

func TestAggregateUserDeltasKeepsUsersSeparate(t *testing.T) {
	a := resultFor(1, 30)
	b := resultFor(2, 90)
	c := resultFor(1, 60)
	batch := []*model.QuizResult{a, b, c}

	userIDs, xpSums, counts := aggregateUserDeltas(batch, markInserted(a, b, c))

	if len(userIDs) != 2 {
		t.Fatalf("expected two rows, got %d", len(userIDs))
	}
	// First-seen order.
	if userIDs[0] != 1 || xpSums[0] != 90 || counts[0] != 2 {
		t.Errorf("user 1: got (%d, %d, %d), want (1, 90, 2)", userIDs[0], xpSums[0], counts[0])
	}
	if userIDs[1] != 2 || xpSums[1] != 90 || counts[1] != 1 {
		t.Errorf("user 2: got (%d, %d, %d), want (2, 90, 1)", userIDs[1], xpSums[1], counts[1])
	}
}

func TestAggregateUserDeltasEmptyBatch(t *testing.T) {
	userIDs, xpSums, counts := aggregateUserDeltas(nil, map[string]bool{})
	if len(userIDs) != 0 || len(xpSums) != 0 || len(counts) != 0 {
		t.Fatalf("expected empty deltas, got users=%v xp=%v counts=%v", userIDs, xpSums, counts)
	}
}
