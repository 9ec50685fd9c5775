package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/moodmeter/internal/metrics"
	"github.com/spacesedan/moodmeter/internal/models"
	"github.com/spacesedan/moodmeter/internal/utils"
)

const (
	JOURNAL_TTL           = 30 * 24 * time.Hour
	UNPROCESSED_RETRIES   = 3
	INITIAL_RETRY_BACKOFF = 500 * time.Millisecond
	FINAL_FLUSH_TIMEOUT   = 10 * time.Second
)

// BatchWriter is the part of *dynamodb.Client the journal uses.
type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// UploadJournal buffers upload records and writes them to DynamoDB in
// batches, either when a batch fills up or on a timer.
type UploadJournal struct {
	client  BatchWriter
	table   string
	buffer  *utils.BatchBuffer[models.UploadRecord]
	flushCh chan struct{}
	backoff time.Duration
}

func NewUploadJournal(client BatchWriter, table string) *UploadJournal {
	return &UploadJournal{
		client:  client,
		table:   table,
		buffer:  utils.NewBatchBuffer[models.UploadRecord](utils.DYNAMODB_BATCH_SIZE),
		flushCh: make(chan struct{}, 1),
		backoff: INITIAL_RETRY_BACKOFF,
	}
}

// Record queues rec without blocking the request path.
func (j *UploadJournal) Record(rec models.UploadRecord) {
	if j.buffer.Add(rec) >= utils.DYNAMODB_BATCH_SIZE {
		select {
		case j.flushCh <- struct{}{}:
		default:
		}
	}
}

// Pending reports how many records are buffered and not yet written.
func (j *UploadJournal) Pending() int {
	return j.buffer.Size()
}

// Run flushes until ctx is cancelled, then performs one last flush.
func (j *UploadJournal) Run(ctx context.Context) {
	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), FINAL_FLUSH_TIMEOUT)
			if err := j.Flush(flushCtx); err != nil {
				slog.Error("[UploadJournal] Final flush failed",
					slog.String("error", err.Error()))
			}
			cancel()
			return
		case <-ticker.C:
		case <-j.flushCh:
		}

		if err := j.Flush(ctx); err != nil {
			slog.Error("[UploadJournal] Flush failed",
				slog.String("error", err.Error()))
		}
	}
}

// Flush writes everything currently buffered.
func (j *UploadJournal) Flush(ctx context.Context) error {
	batch := j.buffer.GetAndClear()
	if len(batch) == 0 {
		return nil
	}

	var firstErr error
	for _, chunk := range utils.Chunk(batch, utils.DYNAMODB_BATCH_SIZE) {
		if err := j.writeChunk(ctx, chunk); err != nil {
			metrics.UploadJournalWrites.WithLabelValues("error").Add(float64(len(chunk)))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (j *UploadJournal) writeChunk(ctx context.Context, records []models.UploadRecord) error {
	writeRequests := make([]types.WriteRequest, 0, len(records))
	for _, rec := range records {
		item, err := RecordToDynamoDBItem(rec)
		if err != nil {
			return err
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	out, err := j.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			j.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[UploadJournal] Failed to batch write upload records: %w", err)
	}

	retryCount := 0
	backoff := j.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < UNPROCESSED_RETRIES {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		slog.Warn("[UploadJournal] Retrying unprocessed items...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[j.table])))

		out, err = j.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[UploadJournal] Retry error: %w", err)
		}
		retryCount++
	}

	remaining := len(out.UnprocessedItems[j.table])
	if remaining > 0 {
		slog.Error("[UploadJournal] Some upload records were not written even after retries",
			slog.Int("remaining", remaining))
		metrics.UploadJournalWrites.WithLabelValues("dropped").Add(float64(remaining))
	}
	metrics.UploadJournalWrites.WithLabelValues("written").Add(float64(len(records) - remaining))

	slog.Info("[UploadJournal] Stored upload records",
		slog.Int("count", len(records)-remaining))
	return nil
}

func RecordToDynamoDBItem(rec models.UploadRecord) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("[UploadJournal] Failed to marshal upload record: %w", err)
	}

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	item["created_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", created.Unix())}
	item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", created.Add(JOURNAL_TTL).Unix())}

	return item, nil
}
