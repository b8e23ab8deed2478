package repository

import (
	"context"
	"path/filepath"
	"testing"

	"VidPlayer/core/catalog"
	"VidPlayer/db"
	"VidPlayer/model"
)

func newSQLiteRepo(t *testing.T) CatalogRepository {
	t.Helper()
	sqlDB, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return NewSQLCatalogRepository(sqlDB)
}

func TestSQLiteImportAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	records := []model.Record{
		{Title: "Funny Dogs", ID: "funny_dogs_video_id", Tags: []string{"#dog", "#animal"}},
		{Title: "Amazing Cats", ID: "amazing_cats_video_id", Tags: []string{"#cat", "#animal"}},
		{Title: "Video about nothing", ID: "nothing_video_id"},
	}
	if err := Import(ctx, repo, records); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count() = %d, %v; want 3", n, err)
	}

	src := NewCatalogSource(repo, "sqlite:test")
	c, err := catalog.Load(ctx, src)
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	all := c.All()
	if len(all) != 3 {
		t.Fatalf("loaded %d videos, want 3", len(all))
	}
	for i, r := range records {
		if all[i].ID != r.ID || all[i].Title != r.Title {
			t.Errorf("video %d = %s/%s, want %s/%s", i, all[i].ID, all[i].Title, r.ID, r.Title)
		}
		if len(all[i].Tags) != len(r.Tags) {
			t.Errorf("video %s tags = %v, want %v", r.ID, all[i].Tags, r.Tags)
		}
	}
}

func TestSQLiteUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	Import(ctx, repo, []model.Record{{Title: "Old", ID: "v1", Tags: []string{"#a"}}})
	if err := Import(ctx, repo, []model.Record{{Title: "New", ID: "v1", Tags: []string{"#b", "#c"}}}); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	v, err := repo.GetByVideoID(ctx, "v1")
	if err != nil || v == nil {
		t.Fatalf("GetByVideoID() = %v, %v", v, err)
	}
	if v.Title != "New" || v.Tags != "#b,#c" {
		t.Errorf("row = %+v", v)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestSQLiteGetMissing(t *testing.T) {
	v, err := newSQLiteRepo(t).GetByVideoID(context.Background(), "missing")
	if v != nil || err != nil {
		t.Errorf("GetByVideoID(missing) = %v, %v; want nil, nil", v, err)
	}
}

func TestCatalogSourceRejectsDuplicates(t *testing.T) {
	// Duplicates cannot reach the table, so feed them through a fake.
	repo := fakeRepo{
		{VideoID: "v1", Title: "A"},
		{VideoID: "v1", Title: "B"},
	}
	if _, err := catalog.Load(context.Background(), NewCatalogSource(repo, "fake")); err == nil {
		t.Error("Load() with duplicate ids should fail")
	}
}

type fakeRepo []*model.CatalogVideo

func (f fakeRepo) List(context.Context) ([]*model.CatalogVideo, error) { return f, nil }

func (f fakeRepo) GetByVideoID(_ context.Context, id string) (*model.CatalogVideo, error) {
	for _, v := range f {
		if v.VideoID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (f fakeRepo) Upsert(context.Context, *model.CatalogVideo) error { return nil }

func (f fakeRepo) Count(context.Context) (int64, error) { return int64(len(f)), nil }
