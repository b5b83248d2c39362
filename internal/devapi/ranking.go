package devapi

import (
	"context"
	"math"
	"sync"
	"time"

	"devflow/internal/logger"
	"devflow/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Hot score weights. Views are left out: their magnitude swamps the log.
const (
	gravity        = 1.5
	weightSave     = 3.0
	weightAnswer   = 2.0
	weightUpvote   = 1.0
	weightDownvote = 1.5
	scoreScale     = 100.0

	rankQueueSize = 1000
	rankBatchSize = 50
	rankInterval  = 500 * time.Millisecond
)

// hotScore decays log-smoothed engagement by the question's age in hours.
func hotScore(age time.Duration, up, down, answers, saves int64) float64 {
	weighted := float64(up)*weightUpvote +
		float64(answers)*weightAnswer +
		float64(saves)*weightSave -
		float64(down)*weightDownvote
	if weighted < 0 {
		weighted = 0
	}
	return math.Log10(weighted+1) * scoreScale / math.Pow(age.Hours()+2, gravity)
}

// Ranker recomputes question scores off the request path. Schedule is cheap and
// never blocks; Run drains the queue in batches.
type Ranker struct {
	db      *gorm.DB
	queue   chan int64
	mu      sync.Mutex
	pending map[int64]bool
	now     func() time.Time
}

func NewRanker(db *gorm.DB) *Ranker {
	return &Ranker{
		db:      db,
		queue:   make(chan int64, rankQueueSize),
		pending: map[int64]bool{},
		now:     time.Now,
	}
}

// Schedule queues a question for rescoring. Ids already queued are skipped, and a
// full queue drops the request.
func (r *Ranker) Schedule(questionID int64) {
	r.mu.Lock()
	if r.pending[questionID] {
		r.mu.Unlock()
		return
	}
	r.pending[questionID] = true
	r.mu.Unlock()

	select {
	case r.queue <- questionID:
	default:
		r.mu.Lock()
		delete(r.pending, questionID)
		r.mu.Unlock()
		logger.L().Warn("ranking queue full", zap.Int64("question_id", questionID))
	}
}

// Run processes scheduled ids until ctx is done.
func (r *Ranker) Run(ctx context.Context) {
	batch := make([]int64, 0, rankBatchSize)
	ticker := time.NewTicker(rankInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case id := <-r.queue:
			batch = append(batch, id)
			if len(batch) >= rankBatchSize {
				r.process(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.process(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (r *Ranker) process(ctx context.Context, ids []int64) {
	for _, id := range ids {
		r.mu.Lock()
		delete(r.pending, id)
		r.mu.Unlock()

		if err := r.Refresh(ctx, id); err != nil {
			logger.L().Warn("rescore question failed", zap.Int64("question_id", id), zap.Error(err))
		}
	}
}

// Refresh recomputes one question's score synchronously.
func (r *Ranker) Refresh(ctx context.Context, questionID int64) error {
	db := r.db.WithContext(ctx)
	var q models.Question
	if err := db.Select("id", "created_at", "upvotes", "downvotes").First(&q, questionID).Error; err != nil {
		return err
	}
	var answers, saves int64
	if err := db.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&answers).Error; err != nil {
		return err
	}
	if err := db.Model(&models.UserCollection{}).Where("question_id = ?", questionID).Count(&saves).Error; err != nil {
		return err
	}
	score := hotScore(r.now().Sub(q.CreatedAt), q.Upvotes, q.Downvotes, answers, saves)
	return db.Model(&models.Question{}).Where("id = ?", questionID).UpdateColumn("score", score).Error
}

// RefreshRecent rescores questions from the last week plus the current top 30.
func (r *Ranker) RefreshRecent(ctx context.Context) (int, error) {
	db := r.db.WithContext(ctx)
	var recent, top []int64
	if err := db.Model(&models.Question{}).Where("created_at >= ?", r.now().AddDate(0, 0, -7)).
		Pluck("id", &recent).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&models.Question{}).Order("score DESC").Limit(30).Pluck("id", &top).Error; err != nil {
		return 0, err
	}

	done := map[int64]bool{}
	for _, id := range append(recent, top...) {
		if done[id] {
			continue
		}
		done[id] = true
		if err := r.Refresh(ctx, id); err != nil {
			return len(done), err
		}
	}
	return len(done), nil
}
