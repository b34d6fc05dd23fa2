package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/flight-risk-radar/backend/internal/cache"
	"github.com/DeafMist/flight-risk-radar/backend/internal/config"
	"github.com/DeafMist/flight-risk-radar/backend/internal/elasticsearch"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
	"github.com/DeafMist/flight-risk-radar/backend/internal/models"
	"github.com/DeafMist/flight-risk-radar/backend/internal/mq"
	"github.com/DeafMist/flight-risk-radar/backend/internal/processing"
)

const (
	titleWords  = 14
	dlqAttempts = 5
)

type headlineIndexer interface {
	IndexHeadline(ctx context.Context, doc models.HeadlineDocument) error
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	esClient, err := elasticsearch.Connect(ctx, cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log, elasticsearch.DefaultBackoff)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}
	if err := esClient.EnsureIndex(ctx); err != nil {
		log.Warn("ensure index", slog.Any("err", err))
	}

	seen := cache.NewSeen(cfg.SeenCapacity, cfg.SeenTTL)

	reader := mq.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaConsumer, cfg.BatchSize)
	defer reader.Close()

	dlqTopic := cfg.KafkaTopic + mq.DLQSuffix
	dlqWriter := mq.NewWriter(cfg.KafkaBrokers, dlqTopic)
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, seen, cfg, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			attempts, dlqErr := mq.WriteWithBackoff(ctx, dlqWriter, mq.DeadLetter(msg, err, time.Now()), dlqAttempts, time.Second)
			if errors.Is(dlqErr, context.Canceled) {
				log.Info("context canceled during DLQ retry")
				return
			}
			if dlqErr != nil {
				// Leave the offset uncommitted so the message is reprocessed on restart.
				log.Error("DLQ write exhausted retries",
					slog.Any("err", dlqErr),
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
				continue
			}
			log.Info("message sent to DLQ", slog.Int64("offset", msg.Offset), slog.Int("attempt", attempts))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

func processMessage(ctx context.Context, log *slog.Logger, indexer headlineIndexer, seen *cache.Seen, cfg *config.Worker, msg kafka.Message) error {
	payload, err := mq.ParseMessageJSON[mq.RawHeadline](msg)
	if err != nil {
		return err
	}

	doc, err := buildDocument(payload, cfg, time.Now)
	if err != nil {
		return err
	}

	if seen.IsSeen(doc.ID) {
		log.Debug("duplicate headline", slog.String("id", doc.ID))
		return nil
	}

	if err := indexer.IndexHeadline(ctx, doc); err != nil {
		return err
	}

	seen.MarkSeen(doc.ID)
	log.Info("indexed headline", slog.String("id", doc.ID), slog.String("title", doc.Title))
	return nil
}

func buildDocument(payload mq.RawHeadline, cfg *config.Worker, now func() time.Time) (models.HeadlineDocument, error) {
	title := processing.CleanHTML(payload.Title)
	summary := processing.CleanHTML(payload.Summary)
	if title == "" && summary == "" {
		return models.HeadlineDocument{}, errors.New("empty payload")
	}
	if title == "" {
		title = processing.TitleFromSummary(summary, titleWords)
	}

	link := strings.TrimSpace(payload.Link)
	ts := parseTimestamp(payload.Published)

	var id string
	if link != "" || !ts.IsZero() {
		id = processing.BuildDocumentID(title, link, ts)
	}
	if ts.IsZero() {
		ts = now().UTC()
	}
	// Without a link or a publish time there is nothing stable to hash.
	if id == "" {
		id = uuid.NewString()
	}

	source := strings.TrimSpace(payload.Source)
	if source == "" {
		source = processing.SourceFromLink(link)
	}
	if source == "" {
		source = "unknown"
	}

	return models.HeadlineDocument{
		ID:        id,
		Title:     title,
		Text:      summary,
		Link:      link,
		Timestamp: ts,
		Keywords:  processing.ExtractKeywords(title+" "+processing.CleanText(summary), cfg.KeywordLimit, cfg.KeywordMinLength),
		Source:    source,
	}, nil
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		time.RFC1123Z,
		time.RFC1123,
		"2006-01-02 15:04:05",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts.UTC()
		}
	}

	return time.Time{}
}
