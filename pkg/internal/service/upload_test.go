package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	minio "github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yeisme/muzicc/pkg/internal/model"
	"github.com/yeisme/muzicc/pkg/internal/types"
)

// fakeStore 可编程的对象存储替身，记录调用次数.
type fakeStore struct {
	statFn    func(key string) (minio.ObjectInfo, error)
	statCalls int

	presignFn    func(key string) (string, error)
	presignCalls int
}

func (f *fakeStore) StatObject(_ context.Context, key string) (minio.ObjectInfo, error) {
	f.statCalls++
	if f.statFn != nil {
		return f.statFn(key)
	}

	return minio.ObjectInfo{Key: key}, nil
}

func (f *fakeStore) PresignedPutURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	f.presignCalls++
	if f.presignFn != nil {
		return f.presignFn(key)
	}

	return "https://minio.local/muzicc/" + key + "?X-Amz-Signature=test", nil
}

func (f *fakeStore) FileURL(_ context.Context, key string) (string, error) {
	return "https://minio.local/muzicc/" + key, nil
}

// noSuchKeyErr 模拟对象缺失的存储错误码.
func noSuchKeyErr() error {
	return minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// 内存库随连接销毁，收敛到单连接避免各 goroutine 各开一个空库
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Song{}, &model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func newTestService(t *testing.T, store *fakeStore) *SongService {
	t.Helper()

	svc := newSongService(store, openTestDB(t))
	svc.probeDelay = time.Millisecond

	return svc
}

func seedSong(t *testing.T, svc *SongService, key, hash string, ownerID uint, public bool) *model.Song {
	t.Helper()

	song := &model.Song{
		StorageKey: &key,
		OwnerID:    ownerID,
		IsPublic:   public,
	}
	if hash != "" {
		song.ContentHash = &hash
	}

	if err := svc.db.Create(song).Error; err != nil {
		t.Fatalf("seed song: %v", err)
	}

	return song
}

func testHash(c byte) string {
	return strings.Repeat(string(c), 64)
}

func TestCheckFileMiss(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	resp, err := svc.CheckFile(context.Background(), &types.CheckFileRequest{FileHash: testHash('a')})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}

	if resp.Exists {
		t.Fatal("expected miss on empty index")
	}

	if resp.ObjectKey != "" || resp.FileURL != "" {
		t.Fatalf("miss response must be empty, got %+v", resp)
	}
}

func TestCheckFileHit(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	seedSong(t, svc, "songs/0a1b2c3d.mp3", testHash('a'), 1, true)

	resp, err := svc.CheckFile(context.Background(), &types.CheckFileRequest{FileHash: testHash('a')})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}

	if !resp.Exists {
		t.Fatal("expected hit")
	}

	if resp.ObjectKey != "songs/0a1b2c3d.mp3" {
		t.Fatalf("unexpected key %q", resp.ObjectKey)
	}

	if resp.FileURL == "" {
		t.Fatal("hit response must carry a file url")
	}
}

func TestCheckFileRejectsBadHash(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	for _, hash := range []string{"", "abc", strings.Repeat("A", 64), strings.Repeat("g", 64)} {
		if _, err := svc.CheckFile(context.Background(), &types.CheckFileRequest{FileHash: hash}); !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("hash %q: got %v, want ErrInvalidHash", hash, err)
		}
	}
}

func TestRequestUploadURLMiss(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	resp, err := svc.RequestUploadURL(context.Background(), &types.UploadURLRequest{
		Filename:    "track.mp3",
		ContentType: "audio/mpeg",
		FileHash:    testHash('b'),
	})
	if err != nil {
		t.Fatalf("RequestUploadURL: %v", err)
	}

	if resp.AlreadyExists {
		t.Fatal("unexpected dedup hit on empty index")
	}

	if resp.UploadURL == "" {
		t.Fatal("miss must issue an upload url")
	}

	if store.presignCalls != 1 {
		t.Fatalf("presign calls = %d, want 1", store.presignCalls)
	}

	// 没有 confirm 之前不产生记录，再次请求同一指纹仍是 miss
	again, err := svc.RequestUploadURL(context.Background(), &types.UploadURLRequest{
		Filename:    "track.mp3",
		ContentType: "audio/mpeg",
		FileHash:    testHash('b'),
	})
	if err != nil {
		t.Fatalf("second RequestUploadURL: %v", err)
	}

	if again.AlreadyExists {
		t.Fatal("dedup index must not see unconfirmed uploads")
	}

	if again.Key == resp.Key {
		t.Fatal("each miss must mint a fresh key")
	}
}

func TestRequestUploadURLDedupHit(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)
	seedSong(t, svc, "songs/0a1b2c3d.mp3", testHash('a'), 1, true)

	resp, err := svc.RequestUploadURL(context.Background(), &types.UploadURLRequest{
		Filename:    "same-content.mp3",
		ContentType: "audio/mpeg",
		FileHash:    testHash('a'),
	})
	if err != nil {
		t.Fatalf("RequestUploadURL: %v", err)
	}

	if !resp.AlreadyExists {
		t.Fatal("expected dedup hit")
	}

	if resp.UploadURL != "" {
		t.Fatal("dedup hit must not issue an upload url")
	}

	if resp.Key != "songs/0a1b2c3d.mp3" {
		t.Fatalf("dedup hit must return the canonical key, got %q", resp.Key)
	}

	if store.presignCalls != 0 {
		t.Fatalf("presign calls = %d, want 0", store.presignCalls)
	}
}

func TestRequestUploadURLDedupPicksEarliest(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	first := seedSong(t, svc, "songs/11111111.mp3", testHash('c'), 1, true)
	seedSong(t, svc, "songs/22222222.mp3", testHash('c'), 2, true)

	resp, err := svc.RequestUploadURL(context.Background(), &types.UploadURLRequest{
		Filename:    "track.mp3",
		ContentType: "audio/mpeg",
		FileHash:    testHash('c'),
	})
	if err != nil {
		t.Fatalf("RequestUploadURL: %v", err)
	}

	if resp.Key != *first.StorageKey {
		t.Fatalf("canonical key = %q, want earliest %q", resp.Key, *first.StorageKey)
	}
}

func TestRequestUploadURLValidation(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	cases := []struct {
		name string
		req  types.UploadURLRequest
		want error
	}{
		{"wrong content type", types.UploadURLRequest{Filename: "a.mp3", ContentType: "video/mp4", FileHash: testHash('a')}, ErrInvalidContentType},
		{"empty filename", types.UploadURLRequest{Filename: "   ", ContentType: "audio/mpeg", FileHash: testHash('a')}, ErrInvalidFilename},
		{"long filename", types.UploadURLRequest{Filename: strings.Repeat("x", 256), ContentType: "audio/mpeg", FileHash: testHash('a')}, ErrInvalidFilename},
		{"bad hash", types.UploadURLRequest{Filename: "a.mp3", ContentType: "audio/mpeg", FileHash: "nope"}, ErrInvalidHash},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.RequestUploadURL(context.Background(), &tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	if store.presignCalls != 0 {
		t.Fatalf("rejected requests must not presign, got %d calls", store.presignCalls)
	}
}

func TestConfirmUploadInvalidKeySkipsProbe(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	for _, key := range []string{"", "etc/passwd", "songs/0a1b2c3d.wav", "songs/0A1B2C3D.mp3", "songs/0a1b2c3.mp3"} {
		if _, err := svc.ConfirmUpload(context.Background(), 1, &types.ConfirmUploadRequest{Key: key}); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("key %q: got %v, want ErrInvalidKey", key, err)
		}
	}

	if store.statCalls != 0 {
		t.Fatalf("invalid keys must not reach the store, got %d stat calls", store.statCalls)
	}
}

func TestConfirmUploadObjectMissing(t *testing.T) {
	store := &fakeStore{
		statFn: func(string) (minio.ObjectInfo, error) { return minio.ObjectInfo{}, noSuchKeyErr() },
	}
	svc := newTestService(t, store)

	_, err := svc.ConfirmUpload(context.Background(), 1, &types.ConfirmUploadRequest{Key: "songs/0a1b2c3d.mp3"})
	if !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("got %v, want ErrUploadNotFound", err)
	}

	if store.statCalls != existsMaxAttempts {
		t.Fatalf("stat calls = %d, want %d retries before giving up", store.statCalls, existsMaxAttempts)
	}
}

func TestConfirmUploadRetriesThenFinds(t *testing.T) {
	store := &fakeStore{}
	store.statFn = func(key string) (minio.ObjectInfo, error) {
		// 前两次模拟写后读不可见，第三次成功
		if store.statCalls < 3 {
			return minio.ObjectInfo{}, noSuchKeyErr()
		}

		return minio.ObjectInfo{Key: key}, nil
	}

	svc := newTestService(t, store)

	song, err := svc.ConfirmUpload(context.Background(), 1, &types.ConfirmUploadRequest{Key: "songs/0a1b2c3d.mp3"})
	if err != nil {
		t.Fatalf("ConfirmUpload: %v", err)
	}

	if song.ID == 0 {
		t.Fatal("expected persisted record")
	}

	if store.statCalls != 3 {
		t.Fatalf("stat calls = %d, want 3", store.statCalls)
	}
}

func TestConfirmUploadDefinitiveNotFoundNoRetry(t *testing.T) {
	store := &fakeStore{
		statFn: func(string) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NotFound", Message: "not found"}
		},
	}
	svc := newTestService(t, store)

	_, err := svc.ConfirmUpload(context.Background(), 1, &types.ConfirmUploadRequest{Key: "songs/0a1b2c3d.mp3"})
	if !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("got %v, want ErrUploadNotFound", err)
	}

	if store.statCalls != 1 {
		t.Fatalf("stat calls = %d, definitive absence must not retry", store.statCalls)
	}
}

func TestConfirmUploadInfraErrorNotMissing(t *testing.T) {
	store := &fakeStore{
		statFn: func(string) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, minio.ErrorResponse{Code: "AccessDenied", Message: "denied"}
		},
	}
	svc := newTestService(t, store)

	_, err := svc.ConfirmUpload(context.Background(), 1, &types.ConfirmUploadRequest{Key: "songs/0a1b2c3d.mp3"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("got %v, want ErrStoreUnavailable", err)
	}

	if errors.Is(err, ErrUploadNotFound) {
		t.Fatal("infra failure must not be reported as a missing upload")
	}

	if store.statCalls != 1 {
		t.Fatalf("stat calls = %d, infra errors must not retry", store.statCalls)
	}
}

func TestConfirmUploadIdempotent(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	req := &types.ConfirmUploadRequest{Key: "songs/0a1b2c3d.mp3", Title: "First Light", FileHash: testHash('d')}

	first, err := svc.ConfirmUpload(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	second, err := svc.ConfirmUpload(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("repeated confirm created a new record: %d vs %d", first.ID, second.ID)
	}

	var count int64
	if err := svc.db.Model(&model.Song{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 1 {
		t.Fatalf("row count = %d, want 1", count)
	}
}

func TestConfirmUploadRecordsHash(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	song, err := svc.ConfirmUpload(context.Background(), 1, &types.ConfirmUploadRequest{
		Key:      "songs/0a1b2c3d.mp3",
		FileHash: testHash('e'),
	})
	if err != nil {
		t.Fatalf("ConfirmUpload: %v", err)
	}

	if song.ContentHash == nil || *song.ContentHash != testHash('e') {
		t.Fatalf("content hash not recorded: %+v", song.ContentHash)
	}

	// 确认后的记录参与后续去重
	resp, err := svc.CheckFile(context.Background(), &types.CheckFileRequest{FileHash: testHash('e')})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}

	if !resp.Exists {
		t.Fatal("confirmed record must be visible to the dedup index")
	}
}

func TestCreateSongFromURL(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	song, err := svc.CreateSong(context.Background(), 1, &types.CreateSongRequest{
		Title:     "Imported",
		ObjectKey: "https://minio.local:9000/muzicc/songs/0a1b2c3d.mp3",
	})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}

	if song.StorageKey == nil || *song.StorageKey != "songs/0a1b2c3d.mp3" {
		t.Fatalf("url not resolved to key: %+v", song.StorageKey)
	}

	// 建档后可通过列表读回，存储键原样保留
	page, err := svc.ListPublic(context.Background(), &types.ListSongsQuery{})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}

	if len(page.Items) != 1 || *page.Items[0].StorageKey != "songs/0a1b2c3d.mp3" {
		t.Fatalf("round-trip via listing failed: %+v", page.Items)
	}
}

func TestCreateSongMissingKey(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	_, err := svc.CreateSong(context.Background(), 1, &types.CreateSongRequest{Title: "No Key"})
	if !errors.Is(err, ErrMissingStorageKey) {
		t.Fatalf("got %v, want ErrMissingStorageKey", err)
	}
}

func TestCreateSongDedupConverges(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	canonical := seedSong(t, svc, "songs/11111111.mp3", testHash('f'), 1, true)

	// 指纹命中时忽略调用方给的键，收敛到规范记录
	song, err := svc.CreateSong(context.Background(), 2, &types.CreateSongRequest{
		ObjectKey: "songs/22222222.mp3",
		FileHash:  testHash('f'),
	})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}

	if song.ID != canonical.ID {
		t.Fatalf("expected canonical record %d, got %d", canonical.ID, song.ID)
	}
}

func TestCreateSongDuplicateKeyReturnsWinner(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	winner := seedSong(t, svc, "songs/0a1b2c3d.mp3", "", 1, true)

	song, err := svc.CreateSong(context.Background(), 2, &types.CreateSongRequest{
		ObjectKey: "songs/0a1b2c3d.mp3",
	})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}

	if song.ID != winner.ID {
		t.Fatalf("duplicate key must resolve to the first writer, got %d want %d", song.ID, winner.ID)
	}
}

func TestObjectExistsContextCancel(t *testing.T) {
	store := &fakeStore{
		statFn: func(string) (minio.ObjectInfo, error) { return minio.ObjectInfo{}, noSuchKeyErr() },
	}
	svc := newTestService(t, store)
	svc.probeDelay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.objectExists(ctx, "songs/0a1b2c3d.mp3"); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestObjectExistsWrappedError(t *testing.T) {
	// 非 ErrorResponse 类型的底层错误也必须按基础设施故障处理
	store := &fakeStore{
		statFn: func(string) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, fmt.Errorf("dial tcp: connection refused")
		},
	}
	svc := newTestService(t, store)

	_, err := svc.objectExists(context.Background(), "songs/0a1b2c3d.mp3")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("got %v, want ErrStoreUnavailable", err)
	}
}
