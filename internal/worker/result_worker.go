package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// ResultWorker drains the result queue into PostgreSQL: one insert per
// completed attempt plus the XP and completion counters on the student row.
// The session_id unique constraint makes replayed payloads no-ops, so a
// requeue after a partial failure can never double-award XP.
type ResultWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewResultWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "result_worker").Logger(),
	}
}

func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*model.QuizResult, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p model.QuizResult
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*model.QuizResult) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkPersist(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Bulk persist failed, using fallback")

		persisted := make([]*model.QuizResult, 0, len(batch))
		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Str("session_id", p.SessionID.String()).Msg("persistSingle failed, requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
				continue
			}
			persisted = append(persisted, p)
		}
		w.invalidateHistory(ctx, persisted)
		return
	}

	w.invalidateHistory(ctx, batch)
}

// bulkPersist inserts the whole batch in one transaction and bumps the user
// counters with an UNNEST update. Duplicate session IDs fall out on the
// insert's ON CONFLICT and must not count toward XP, so the counter update
// only covers rows the insert actually created.
func (w *ResultWorker) bulkPersist(ctx context.Context, batch []*model.QuizResult) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	inserted := make(map[string]bool, len(batch))
	for _, p := range batch {
		tag, err := tx.Exec(ctx,
			`INSERT INTO quiz_results
			   (id, session_id, user_id, quiz_id, quiz_title, subject,
			    score, total, percentage, passed, xp, finished_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (session_id) DO NOTHING`,
			p.ID, p.SessionID, p.UserID, p.QuizID, p.QuizTitle, p.Subject,
			p.Score, p.Total, p.Percentage, p.Passed, p.XP, p.FinishedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			inserted[p.SessionID.String()] = true
		}
	}

	userIDs, xpSums, counts := aggregateUserDeltas(batch, inserted)

	if len(userIDs) > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE users AS u
			SET xp = u.xp + t.xp,
			    quizzes_completed = u.quizzes_completed + t.cnt
			FROM (
				SELECT a.user_id, a.xp, a.cnt
				FROM UNNEST($1::int[], $2::int[], $3::int[]) AS a (user_id, xp, cnt)
			) AS t
			WHERE u.id = t.user_id`,
			userIDs, xpSums, counts,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// aggregateUserDeltas collapses the inserted rows of a batch into one
// (xp sum, completion count) delta per user. UPDATE ... FROM applies a
// single join row per target row, so a user with two results in the same
// batch must arrive as one pre-summed row or one of the awards is lost.
// Rows skipped by the insert's ON CONFLICT contribute nothing.
func aggregateUserDeltas(batch []*model.QuizResult, inserted map[string]bool) (userIDs, xpSums, counts []int) {
	index := make(map[int]int, len(batch))
	for _, p := range batch {
		if !inserted[p.SessionID.String()] {
			continue
		}
		i, ok := index[p.UserID]
		if !ok {
			i = len(userIDs)
			index[p.UserID] = i
			userIDs = append(userIDs, p.UserID)
			xpSums = append(xpSums, 0)
			counts = append(counts, 0)
		}
		xpSums[i] += p.XP
		counts[i]++
	}
	return userIDs, xpSums, counts
}

func (w *ResultWorker) persistSingle(ctx context.Context, p *model.QuizResult) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO quiz_results
		   (id, session_id, user_id, quiz_id, quiz_title, subject,
		    score, total, percentage, passed, xp, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (session_id) DO NOTHING`,
		p.ID, p.SessionID, p.UserID, p.QuizID, p.QuizTitle, p.Subject,
		p.Score, p.Total, p.Percentage, p.Passed, p.XP, p.FinishedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE users
			 SET xp = xp + $1, quizzes_completed = quizzes_completed + 1
			 WHERE id = $2`,
			p.XP, p.UserID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// invalidateHistory drops the cached history of every student in the batch
// so the next read sees the freshly persisted rows.
func (w *ResultWorker) invalidateHistory(ctx context.Context, batch []*model.QuizResult) {
	pipe := w.rdb.Pipeline()
	for _, p := range batch {
		pipe.Del(ctx, config.CacheKey.StudentHistoryKey(p.UserID))
	}
	_, _ = pipe.Exec(ctx)
}
