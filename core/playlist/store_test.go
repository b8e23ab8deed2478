package playlist

import (
	"errors"
	"testing"

	"VidPlayer/core/outcome"
	"VidPlayer/model"
)

type fakeVideos map[string]*model.Video

func (f fakeVideos) Lookup(id string) (*model.Video, bool) {
	v, ok := f[id]
	return v, ok
}

func newTestStore() (*Store, fakeVideos) {
	videos := fakeVideos{
		"amazing_cats_video_id":   model.NewVideo(model.Record{Title: "Amazing Cats", ID: "amazing_cats_video_id"}),
		"funny_dogs_video_id":     model.NewVideo(model.Record{Title: "Funny Dogs", ID: "funny_dogs_video_id"}),
		"life_at_google_video_id": model.NewVideo(model.Record{Title: "Life at Google", ID: "life_at_google_video_id"}),
	}
	return NewStore(videos), videos
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"my_playlist", true},
		{"MyList", true},
		{"My List", false},
		{" leading", false},
		{"trailing ", false},
		{"tab\tname", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidName(tt.name); got != tt.want {
				t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	s, _ := newTestStore()

	p, err := s.Create("My_Playlist")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Name != "My_Playlist" {
		t.Errorf("Name = %q, want display casing preserved", p.Name)
	}
	if len(p.VideoIDs) != 0 {
		t.Errorf("new playlist has %d videos", len(p.VideoIDs))
	}

	if _, err := s.Create("my_PLAYLIST"); !errors.Is(err, outcome.ErrAlreadyExists) {
		t.Errorf("Create() with different case error = %v, want already exists", err)
	}
	if _, err := s.Create("My List"); !errors.Is(err, outcome.ErrInvalidName) {
		t.Errorf("Create() multi-word error = %v, want invalid name", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestCreateInvalidNameIsDistinctFromConflict(t *testing.T) {
	s, _ := newTestStore()
	s.Create("My")

	_, err := s.Create("my list")
	if !errors.Is(err, outcome.ErrInvalidName) {
		t.Fatalf("Create() error = %v, want invalid name", err)
	}
	if errors.Is(err, outcome.ErrAlreadyExists) {
		t.Error("invalid name must not also match already exists")
	}
}

func TestExistsAndGet(t *testing.T) {
	s, _ := newTestStore()
	s.Create("Favourites")

	if !s.Exists("FAVOURITES") {
		t.Error("Exists() should be case-insensitive")
	}
	p, ok := s.Get("favourites")
	if !ok || p.Name != "Favourites" {
		t.Errorf("Get() = %v, %v", p, ok)
	}
	if _, ok := s.Get("other"); ok {
		t.Error("Get(other) should report false")
	}
}

func TestDeleteFreesName(t *testing.T) {
	s, _ := newTestStore()
	s.Create("Mix")
	s.AddVideo("Mix", "amazing_cats_video_id")

	if _, err := s.Delete("MIX"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s.Exists("mix") {
		t.Error("playlist still exists after Delete()")
	}
	if _, err := s.Delete("mix"); !errors.Is(err, outcome.ErrPlaylistNotFound) {
		t.Errorf("second Delete() error = %v, want playlist not found", err)
	}

	p, err := s.Create("mix")
	if err != nil {
		t.Fatalf("Create() after Delete() error = %v", err)
	}
	if len(p.VideoIDs) != 0 {
		t.Errorf("recreated playlist kept %d videos", len(p.VideoIDs))
	}
}

func TestAddVideo(t *testing.T) {
	s, videos := newTestStore()
	s.Create("Mix")

	if _, _, err := s.AddVideo("Other", "amazing_cats_video_id"); !errors.Is(err, outcome.ErrPlaylistNotFound) {
		t.Errorf("AddVideo() to missing playlist error = %v", err)
	}
	if _, _, err := s.AddVideo("mix", "missing"); !errors.Is(err, outcome.ErrVideoNotFound) {
		t.Errorf("AddVideo() missing video error = %v", err)
	}

	videos["funny_dogs_video_id"].Flagged = true
	videos["funny_dogs_video_id"].FlagReason = "dont_like_dogs"
	_, _, err := s.AddVideo("mix", "funny_dogs_video_id")
	if !errors.Is(err, outcome.ErrFlagged) || outcome.ReasonOf(err) != "dont_like_dogs" {
		t.Errorf("AddVideo() flagged video error = %v", err)
	}

	p, v, err := s.AddVideo("MIX", "amazing_cats_video_id")
	if err != nil {
		t.Fatalf("AddVideo() error = %v", err)
	}
	if v.ID != "amazing_cats_video_id" || p.Name != "Mix" {
		t.Errorf("AddVideo() = %v, %v", p, v)
	}
	s.AddVideo("mix", "life_at_google_video_id")

	_, _, err = s.AddVideo("mix", "amazing_cats_video_id")
	if !errors.Is(err, outcome.ErrAlreadyInPlaylist) {
		t.Errorf("duplicate AddVideo() error = %v, want already in playlist", err)
	}

	got, _ := s.Get("mix")
	want := []string{"amazing_cats_video_id", "life_at_google_video_id"}
	if !equalIDs(got.VideoIDs, want) {
		t.Errorf("VideoIDs = %v, want %v", got.VideoIDs, want)
	}
}

func TestAddVideoCheckOrder(t *testing.T) {
	s, _ := newTestStore()
	// Missing playlist wins over missing video.
	if _, _, err := s.AddVideo("nope", "missing"); !errors.Is(err, outcome.ErrPlaylistNotFound) {
		t.Errorf("error = %v, want playlist not found", err)
	}
}

func TestRemoveVideo(t *testing.T) {
	s, _ := newTestStore()
	s.Create("Mix")
	s.AddVideo("mix", "amazing_cats_video_id")

	if _, _, err := s.RemoveVideo("other", "amazing_cats_video_id"); !errors.Is(err, outcome.ErrPlaylistNotFound) {
		t.Errorf("RemoveVideo() missing playlist error = %v", err)
	}
	if _, _, err := s.RemoveVideo("mix", "missing"); !errors.Is(err, outcome.ErrVideoNotFound) {
		t.Errorf("RemoveVideo() missing video error = %v", err)
	}
	if _, _, err := s.RemoveVideo("mix", "funny_dogs_video_id"); !errors.Is(err, outcome.ErrNotInPlaylist) {
		t.Errorf("RemoveVideo() non-member error = %v", err)
	}

	p, _, err := s.RemoveVideo("mix", "amazing_cats_video_id")
	if err != nil {
		t.Fatalf("RemoveVideo() error = %v", err)
	}
	if len(p.VideoIDs) != 0 {
		t.Errorf("VideoIDs = %v, want empty", p.VideoIDs)
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	starts := [][]string{
		{},
		{"funny_dogs_video_id"},
		{"funny_dogs_video_id", "life_at_google_video_id"},
	}

	for _, start := range starts {
		s, _ := newTestStore()
		s.Create("Mix")
		for _, id := range start {
			if _, _, err := s.AddVideo("mix", id); err != nil {
				t.Fatalf("AddVideo(%s) error = %v", id, err)
			}
		}
		p, _ := s.Get("mix")
		before := p.Snapshot().VideoIDs

		if _, _, err := s.AddVideo("mix", "amazing_cats_video_id"); err != nil {
			t.Fatalf("AddVideo() error = %v", err)
		}
		if _, _, err := s.RemoveVideo("mix", "amazing_cats_video_id"); err != nil {
			t.Fatalf("RemoveVideo() error = %v", err)
		}

		if !equalIDs(p.VideoIDs, before) {
			t.Errorf("round trip from %v ended at %v", before, p.VideoIDs)
		}
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore()

	if _, err := s.Clear("mix"); !errors.Is(err, outcome.ErrPlaylistNotFound) {
		t.Errorf("Clear() missing playlist error = %v", err)
	}

	s.Create("Mix")
	if _, err := s.Clear("mix"); err != nil {
		t.Errorf("Clear() on empty playlist error = %v", err)
	}

	s.AddVideo("mix", "amazing_cats_video_id")
	s.AddVideo("mix", "funny_dogs_video_id")
	p, err := s.Clear("MIX")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if len(p.VideoIDs) != 0 {
		t.Errorf("VideoIDs = %v, want empty", p.VideoIDs)
	}
	if !s.Exists("mix") {
		t.Error("Clear() removed the playlist")
	}

	if _, _, err := s.AddVideo("mix", "amazing_cats_video_id"); err != nil {
		t.Errorf("AddVideo() after Clear() error = %v", err)
	}
}

func TestList(t *testing.T) {
	s, _ := newTestStore()
	s.Create("b")
	s.Create("A")

	names := make(map[string]bool)
	for _, p := range s.List() {
		names[p.Name] = true
	}
	if len(names) != 2 || !names["A"] || !names["b"] {
		t.Errorf("List() names = %v", names)
	}
}
