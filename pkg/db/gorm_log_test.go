package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/leviwaynedaily/red-carpet-distro-sub000/pkg/logger"
)

func TestQueryLogReportsSlowAndFailedStatements(t *testing.T) {
	buf := &bytes.Buffer{}
	q := newQueryLog(logger.New(logger.Options{ServiceName: "test", Output: buf}), 50*time.Millisecond)
	stmt := func() (string, int64) { return "SELECT * FROM products", 3 }
	ctx := context.Background()

	q.Trace(ctx, time.Now(), stmt, nil)
	if buf.Len() != 0 {
		t.Fatalf("fast successful query should not be logged: %s", buf.String())
	}

	q.Trace(ctx, time.Now(), stmt, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("record not found should not be logged: %s", buf.String())
	}

	q.Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
	if !bytes.Contains(buf.Bytes(), []byte("db.query_slow")) {
		t.Fatalf("expected slow query entry, got %s", buf.String())
	}

	buf.Reset()
	q.Trace(ctx, time.Now(), stmt, errors.New("relation does not exist"))
	if !bytes.Contains(buf.Bytes(), []byte("db.query_failed")) || !bytes.Contains(buf.Bytes(), []byte("SELECT * FROM products")) {
		t.Fatalf("expected failed query entry, got %s", buf.String())
	}

	buf.Reset()
	q.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), stmt, errors.New("ignored"))
	if buf.Len() != 0 {
		t.Fatalf("silent mode should drop everything: %s", buf.String())
	}
}
