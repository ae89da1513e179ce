package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yeisme/muzicc/pkg/internal/model"
	"github.com/yeisme/muzicc/pkg/internal/types"
)

func seedTitled(t *testing.T, svc *SongService, key, title string, ownerID uint, public bool) *model.Song {
	t.Helper()

	song := seedSong(t, svc, key, "", ownerID, public)
	if err := svc.db.Model(song).Update("title", title).Error; err != nil {
		t.Fatalf("set title: %v", err)
	}

	song.Title = &title

	return song
}

func TestListPublicPagination(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	for i := 0; i < 25; i++ {
		seedSong(t, svc, fmt.Sprintf("songs/%08x.mp3", i), "", 1, true)
	}

	page, err := svc.ListPublic(context.Background(), &types.ListSongsQuery{Limit: 20, Offset: 20})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}

	if page.Total != 25 {
		t.Fatalf("total = %d, want 25", page.Total)
	}

	if len(page.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(page.Items))
	}
}

func TestListLimitClamped(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	seedSong(t, svc, "songs/0a1b2c3d.mp3", "", 1, true)

	page, err := svc.ListPublic(context.Background(), &types.ListSongsQuery{Limit: 500, Offset: -3})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}

	if page.Limit != maxListLimit {
		t.Fatalf("limit = %d, want clamped to %d", page.Limit, maxListLimit)
	}

	if page.Offset != 0 {
		t.Fatalf("offset = %d, want 0", page.Offset)
	}
}

func TestListPublicHidesPrivateAndDeleted(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	seedSong(t, svc, "songs/11111111.mp3", "", 1, true)
	seedSong(t, svc, "songs/22222222.mp3", "", 1, false)
	deleted := seedSong(t, svc, "songs/33333333.mp3", "", 1, true)

	if err := svc.DeleteSong(context.Background(), 1, deleted.ID); err != nil {
		t.Fatalf("DeleteSong: %v", err)
	}

	page, err := svc.ListPublic(context.Background(), &types.ListSongsQuery{})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}

	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("expected exactly the public active song, got total=%d items=%d", page.Total, len(page.Items))
	}
}

func TestListByOwnerIncludesPrivate(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	seedSong(t, svc, "songs/11111111.mp3", "", 1, true)
	seedSong(t, svc, "songs/22222222.mp3", "", 1, false)
	seedSong(t, svc, "songs/33333333.mp3", "", 2, true)

	page, err := svc.ListByOwner(context.Background(), 1, &types.ListSongsQuery{})
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}

	if page.Total != 2 {
		t.Fatalf("total = %d, want 2 songs of owner 1", page.Total)
	}
}

func TestListTitleSearch(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	seedTitled(t, svc, "songs/11111111.mp3", "Midnight Rain", 1, true)
	seedTitled(t, svc, "songs/22222222.mp3", "Morning Sun", 1, true)

	page, err := svc.ListPublic(context.Background(), &types.ListSongsQuery{Q: "midnight"})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}

	if page.Total != 1 {
		t.Fatalf("case-insensitive title search total = %d, want 1", page.Total)
	}

	if *page.Items[0].Title != "Midnight Rain" {
		t.Fatalf("unexpected match %q", *page.Items[0].Title)
	}
}

func TestGetSongVisibility(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	private := seedSong(t, svc, "songs/11111111.mp3", "", 1, false)

	if _, err := svc.GetSong(context.Background(), 1, private.ID); err != nil {
		t.Fatalf("owner must see a private song: %v", err)
	}

	if _, err := svc.GetSong(context.Background(), 2, private.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden for a stranger", err)
	}

	if _, err := svc.GetSong(context.Background(), 1, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateSongPatchSemantics(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	song := seedTitled(t, svc, "songs/11111111.mp3", "Old Title", 1, true)

	artist := "New Artist"

	updated, err := svc.UpdateSong(context.Background(), 1, song.ID, &types.SongPatch{Artist: &artist})
	if err != nil {
		t.Fatalf("UpdateSong: %v", err)
	}

	if updated.Artist == nil || *updated.Artist != artist {
		t.Fatalf("artist not applied: %+v", updated.Artist)
	}

	// 补丁未提及的字段保持不变
	var reloaded model.Song
	if err := svc.db.First(&reloaded, song.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	if reloaded.Title == nil || *reloaded.Title != "Old Title" {
		t.Fatalf("title must be untouched, got %+v", reloaded.Title)
	}
}

func TestUpdateSongOwnerOnly(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	song := seedSong(t, svc, "songs/11111111.mp3", "", 1, true)

	title := "Hijacked"
	if _, err := svc.UpdateSong(context.Background(), 2, song.ID, &types.SongPatch{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestDeleteSongSoft(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	song := seedSong(t, svc, "songs/11111111.mp3", "", 1, true)

	if err := svc.DeleteSong(context.Background(), 1, song.ID); err != nil {
		t.Fatalf("DeleteSong: %v", err)
	}

	if _, err := svc.GetSong(context.Background(), 1, song.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted song must read as not found, got %v", err)
	}

	// 软删除：行仍在，存储键仍占用唯一约束
	var reloaded model.Song
	if err := svc.db.First(&reloaded, song.ID).Error; err != nil {
		t.Fatalf("row must survive soft delete: %v", err)
	}

	if !reloaded.IsDeleted {
		t.Fatal("is_deleted flag not set")
	}

	if err := svc.DeleteSong(context.Background(), 1, song.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestDeleteSongOwnerOnly(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	song := seedSong(t, svc, "songs/11111111.mp3", "", 1, true)

	if err := svc.DeleteSong(context.Background(), 2, song.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestDeletedSongLeavesDedupIndex(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	song := seedSong(t, svc, "songs/11111111.mp3", testHash('a'), 1, true)

	if err := svc.DeleteSong(context.Background(), 1, song.ID); err != nil {
		t.Fatalf("DeleteSong: %v", err)
	}

	resp, err := svc.CheckFile(context.Background(), &types.CheckFileRequest{FileHash: testHash('a')})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}

	if resp.Exists {
		t.Fatal("soft-deleted record must not serve dedup hits")
	}
}
