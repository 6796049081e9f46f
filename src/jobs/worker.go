package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"Backend-AirForm/src/models"
	"Backend-AirForm/src/realtime"
	"Backend-AirForm/src/services/ai"
	"Backend-AirForm/src/services/analytics"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	summaryCacheTTL    = time.Hour
	summaryStatsPeriod = "30d"
)

// SummaryCacheKey is where the worker leaves a form's generated summary and
// where the read endpoint picks it up.
func SummaryCacheKey(formID string) string {
	return fmt.Sprintf("ai_summary:%s", formID)
}

// Worker runs the queued background tasks.
type Worker struct {
	forms     *mongo.Collection
	redis     *redis.Client
	ai        *ai.Service
	analytics *analytics.Service
	hub       *realtime.Hub
}

func NewWorker(db *mongo.Database, rdb *redis.Client, aiSvc *ai.Service, analyticsSvc *analytics.Service, hub *realtime.Hub) *Worker {
	return &Worker{
		forms:     db.Collection("forms"),
		redis:     rdb,
		ai:        aiSvc,
		analytics: analyticsSvc,
		hub:       hub,
	}
}

// HandleGenerateSummaryTask refreshes the AI analytics summary for one form,
// caches it and tells the owner's dashboard it is ready.
func (w *Worker) HandleGenerateSummaryTask(ctx context.Context, t *asynq.Task) error {
	var payload SummaryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("[jobs] payload decode error:", err)
		return err
	}

	formID, err := primitive.ObjectIDFromHex(payload.FormID)
	if err != nil {
		return err
	}
	userID, err := primitive.ObjectIDFromHex(payload.UserID)
	if err != nil {
		return err
	}

	stats, err := w.analytics.GetFormAnalytics(ctx, formID, userID, summaryStatsPeriod)
	if err != nil {
		if err == analytics.ErrFormNotFound {
			// form deleted between enqueue and run; nothing to do
			log.Println("[jobs] form gone, skipping summary:", payload.FormID)
			return nil
		}
		return err
	}

	var form models.Form
	if err := w.forms.FindOne(ctx, bson.M{"_id": formID}).Decode(&form); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return err
	}

	summary := w.ai.SummarizeAnalytics(ctx, &form, stats)

	if w.redis != nil {
		data, err := json.Marshal(summary)
		if err != nil {
			return err
		}
		if err := w.redis.Set(ctx, SummaryCacheKey(payload.FormID), data, summaryCacheTTL).Err(); err != nil {
			return err
		}
	}

	if w.hub != nil {
		w.hub.PushIfPresent(payload.UserID, realtime.Event{
			Type: "summary_ready",
			Data: map[string]interface{}{"formId": payload.FormID},
		})
	}

	log.Printf("[jobs] summary refreshed form=%s aiGenerated=%t", payload.FormID, summary.AIGenerated)
	return nil
}

// StartServer runs the Asynq worker loop in its own goroutine.
func StartServer(redisAddr string, w *Worker) *asynq.Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeGenerateSummary, w.HandleGenerateSummaryTask)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Println("❌ Asynq server stopped:", err)
		}
	}()

	log.Println("✅ Asynq worker started")
	return srv
}
