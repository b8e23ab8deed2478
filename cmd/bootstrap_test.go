package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"VidPlayer/config"
)

const testCatalog = `Funny Dogs | funny_dogs_video_id | #dog , #animal
Amazing Cats | amazing_cats_video_id | #cat , #animal
Video about nothing | nothing_video_id |
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "videos.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadCatalogFromFile(t *testing.T) {
	cfg := &config.Config{CatalogSource: config.SourceFile, CatalogPath: writeCatalog(t, testCatalog)}

	var cl closers
	defer cl.Close()
	c, err := loadCatalog(context.Background(), cfg, &cl)
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestImportThenLoadFromSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		CatalogSource: config.SourceSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "catalog.db"),
	}

	if err := importCatalog(ctx, cfg, writeCatalog(t, testCatalog), config.SourceSQLite); err != nil {
		t.Fatalf("importCatalog() error = %v", err)
	}

	sess, closer, err := newSession(ctx, cfg)
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	defer closer.Close()

	if got := sess.CountVideos(); got != 3 {
		t.Fatalf("CountVideos() = %d, want 3", got)
	}
	v, ok := sess.Video("amazing_cats_video_id")
	if !ok {
		t.Fatal("amazing_cats_video_id not loaded")
	}
	if len(v.Tags) != 2 || v.Tags[0] != "#cat" {
		t.Errorf("tags = %v", v.Tags)
	}
	if sess.Videos()[0].ID != "funny_dogs_video_id" {
		t.Errorf("catalog order not preserved: %+v", sess.Videos())
	}
}

func TestImportRejectsDuplicateIDs(t *testing.T) {
	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "catalog.db")}
	path := writeCatalog(t, testCatalog+"Dogs Again | funny_dogs_video_id | #dog\n")

	if err := importCatalog(context.Background(), cfg, path, config.SourceSQLite); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestOpenSourceErrors(t *testing.T) {
	var cl closers
	defer cl.Close()

	if _, err := openSource(context.Background(), &config.Config{CatalogSource: "ftp"}, &cl); err == nil {
		t.Error("expected error for unknown source")
	}
	if _, err := openRepository(context.Background(), &config.Config{}, "file", &cl); err == nil {
		t.Error("expected error for unsupported repository target")
	}
}

func TestClosersRunInReverse(t *testing.T) {
	var order []int
	var cl closers
	cl.add(func() { order = append(order, 1) })
	cl.add(func() { order = append(order, 2) })
	cl.Close()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("order = %v, want [2 1]", order)
	}
}
