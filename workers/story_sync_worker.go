package workers

import (
	"context"
	"time"

	"nestory-backend/models"
	"nestory-backend/services"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const syncBatchSize = 25

// StorySyncWorker periodically refreshes metadata on Google-imported stories
// so covers, page counts and preview links stay current.
type StorySyncWorker struct {
	DB      *gorm.DB
	Stories *services.StoryService
}

func NewStorySyncWorker(db *gorm.DB, stories *services.StoryService) *StorySyncWorker {
	return &StorySyncWorker{DB: db, Stories: stories}
}

// Run polls until the context is cancelled. Each tick refreshes the stalest
// batch of imported stories; per-story failures are logged and skipped.
func (w *StorySyncWorker) Run(ctx context.Context, interval time.Duration) {
	log.WithField("interval", interval.String()).Info("story sync worker started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("story sync worker stopped")
			return
		case <-ticker.C:
			w.syncBatch(ctx)
		}
	}
}

func (w *StorySyncWorker) syncBatch(ctx context.Context) {
	var stories []models.Story
	err := w.DB.WithContext(ctx).
		Where("source = ? AND google_book_id <> ''", models.StorySourceGoogle).
		Order("updated_at ASC").
		Limit(syncBatchSize).
		Find(&stories).Error
	if err != nil {
		log.WithError(err).Error("story sync: failed to load batch")
		return
	}
	if len(stories) == 0 {
		return
	}

	synced := 0
	for _, story := range stories {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.Stories.SyncGoogleStory(story.ID); err != nil {
			log.WithError(err).WithField("story_id", story.ID).Warn("story sync: refresh failed")
			continue
		}
		synced++
	}
	log.WithFields(log.Fields{"batch": len(stories), "synced": synced}).Info("story sync batch finished")
}
