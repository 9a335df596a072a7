package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"tailor-backend/internal/store"
	"tailor-backend/internal/store/memory"
)

type fakeUploader struct {
	key  string
	body []byte
	err  error
}

func (f *fakeUploader) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = aws.ToString(in.Key)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestExporterRun(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	_, _ = db.Put(ctx, store.Stocks, "s1", json.RawMessage(`{"name":"Silk"}`))
	_, _ = db.Append(ctx, store.Bills, json.RawMessage(`{"bill_number":"B-1"}`))

	up := &fakeUploader{}
	e := NewExporter(up, Settings{Bucket: "backups", Prefix: "snapshots"})
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	key, err := e.Run(ctx, db, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if key != "snapshots/tailor_20240501_103000.json" || up.key != key {
		t.Errorf("key = %s, uploaded %s", key, up.key)
	}

	var snap Snapshot
	if err := json.Unmarshal(up.body, &snap); err != nil {
		t.Fatalf("uploaded body is not a snapshot: %v", err)
	}
	if len(snap.Collections[store.Stocks]) != 1 || len(snap.Collections[store.Bills]) != 1 {
		t.Errorf("snapshot collections = %v", snap.Collections)
	}
	if _, ok := snap.Collections[store.StockTransactions]; !ok {
		t.Error("empty collections should still be present")
	}
}

func TestExporterUploadError(t *testing.T) {
	up := &fakeUploader{err: errors.New("access denied")}
	e := NewExporter(up, Settings{Bucket: "backups"})
	if _, err := e.Run(context.Background(), memory.New(), time.Now()); err == nil {
		t.Error("Run() succeeded despite upload failure")
	}
}

func TestNewS3ClientRequiresBucket(t *testing.T) {
	if _, err := NewS3Client(context.Background(), Settings{}); err == nil {
		t.Error("NewS3Client() accepted an empty bucket")
	}
}
