package session

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"VidPlayer/core/catalog"
	"VidPlayer/core/outcome"
	"VidPlayer/core/player"
	"VidPlayer/model"
)

var testRecords = []model.Record{
	{Title: "Funny Dogs", ID: "funny_dogs_video_id", Tags: []string{"#dog", "#animal"}},
	{Title: "Amazing Cats", ID: "amazing_cats_video_id", Tags: []string{"#cat", "#animal"}},
	{Title: "Another Cat Video", ID: "another_cat_video_id", Tags: []string{"#cat", "#animal"}},
	{Title: "Life at Google", ID: "life_at_google_video_id", Tags: []string{"#google", "#career"}},
	{Title: "Video about nothing", ID: "nothing_video_id"},
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	c, err := catalog.New(testRecords)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return New(c, opts...)
}

func checkInvariant(t *testing.T, s *Session) {
	t.Helper()
	current, hasCurrent := s.NowPlaying()
	active := 0
	for _, v := range s.Videos() {
		if v.Status == model.StatusStopped {
			continue
		}
		active++
		if !hasCurrent || v.ID != current.ID {
			t.Fatalf("video %s is %v but current is %q", v.ID, v.Status, current.ID)
		}
		if v.Flagged {
			t.Fatalf("flagged video %s is %v", v.ID, v.Status)
		}
	}
	if active > 1 {
		t.Fatalf("%d videos are active", active)
	}
	if hasCurrent && active != 1 {
		t.Fatalf("current video %s is not active", current.ID)
	}
}

func TestSingleCurrentInvariantUnderRandomOps(t *testing.T) {
	s := newTestSession(t, WithPlayerOptions(player.WithRandSource(func() *rand.Rand {
		return rand.New(rand.NewSource(42))
	})))
	r := rand.New(rand.NewSource(1))
	ids := []string{"funny_dogs_video_id", "amazing_cats_video_id", "another_cat_video_id", "life_at_google_video_id", "nothing_video_id", "missing"}

	for i := 0; i < 2000; i++ {
		id := ids[r.Intn(len(ids))]
		switch r.Intn(8) {
		case 0:
			s.Play(id)
		case 1:
			s.Stop()
		case 2:
			s.PlayRandom()
		case 3:
			s.Pause()
		case 4:
			s.Resume()
		case 5:
			s.Flag(id, "")
		case 6:
			s.Unflag(id)
		case 7:
			s.Play(id)
			s.Pause()
		}
		checkInvariant(t, s)
	}
}

func TestFlagCurrentObservedOrder(t *testing.T) {
	var got []model.EventKind
	s := newTestSession(t, WithObserver(ObserverFunc(func(e model.Event) {
		got = append(got, e.Kind)
	})))

	if _, err := s.Play("amazing_cats_video_id"); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if _, err := s.Flag("amazing_cats_video_id", "dont_like_cats"); err != nil {
		t.Fatalf("Flag() error = %v", err)
	}

	want := []model.EventKind{model.EventPlaying, model.EventStopped, model.EventFlagged}
	if len(got) != len(want) {
		t.Fatalf("observed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}

	v, _ := s.Video("amazing_cats_video_id")
	if v.Status != model.StatusStopped || !v.Flagged || v.FlagReason != "dont_like_cats" {
		t.Errorf("video after flag = %+v", v)
	}
}

func TestRejectedOperationsNotifyNothing(t *testing.T) {
	calls := 0
	s := newTestSession(t, WithObserver(ObserverFunc(func(model.Event) { calls++ })))

	s.Stop()
	s.Play("missing")
	s.CreatePlaylist("two words")
	if calls != 0 {
		t.Errorf("observer called %d times for rejected operations", calls)
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestSession(t)
	var got []model.Event
	s.Subscribe(ObserverFunc(func(e model.Event) { got = append(got, e) }))

	s.CreatePlaylist("Mix")
	s.AddToPlaylist("mix", "funny_dogs_video_id")

	if len(got) != 2 {
		t.Fatalf("observed %d events, want 2", len(got))
	}
	if got[0].Kind != model.EventPlaylistCreated || got[0].Playlist != "Mix" {
		t.Errorf("event 0 = %+v", got[0])
	}
	if got[1].Kind != model.EventPlaylistVideoAdded || got[1].VideoID != "funny_dogs_video_id" || got[1].Playlist != "Mix" {
		t.Errorf("event 1 = %+v", got[1])
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Error("events should carry distinct ids")
	}
}

func TestPlaylistFlow(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.CreatePlaylist("My_List"); err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}
	if _, err := s.CreatePlaylist("my_list"); !errors.Is(err, outcome.ErrAlreadyExists) {
		t.Errorf("CreatePlaylist(my_list) error = %v, want already exists", err)
	}

	s.AddToPlaylist("my_list", "amazing_cats_video_id")
	if _, err := s.AddToPlaylist("my_list", "amazing_cats_video_id"); !errors.Is(err, outcome.ErrAlreadyInPlaylist) {
		t.Errorf("duplicate add error = %v", err)
	}
	view, err := s.Playlist("MY_LIST")
	if err != nil {
		t.Fatalf("Playlist() error = %v", err)
	}
	if view.Name != "My_List" || len(view.Videos) != 1 {
		t.Errorf("Playlist() = %+v", view)
	}

	s.Flag("amazing_cats_video_id", "dont_like_cats")
	view, _ = s.Playlist("my_list")
	if len(view.Videos) != 1 || !view.Videos[0].Flagged {
		t.Error("flagged video should stay in playlist and show its flag")
	}
	if _, err := s.AddToPlaylist("my_list", "amazing_cats_video_id"); !errors.Is(err, outcome.ErrFlagged) {
		t.Errorf("add flagged error = %v, want flagged", err)
	}

	if _, err := s.ClearPlaylist("my_list"); err != nil {
		t.Fatalf("ClearPlaylist() error = %v", err)
	}
	if !s.PlaylistExists("my_list") {
		t.Error("playlist should survive Clear")
	}
	if _, err := s.DeletePlaylist("my_list"); err != nil {
		t.Fatalf("DeletePlaylist() error = %v", err)
	}
	if _, err := s.Playlist("my_list"); !errors.Is(err, outcome.ErrPlaylistNotFound) {
		t.Errorf("Playlist() after delete error = %v", err)
	}
}

func TestPlaylistsSorted(t *testing.T) {
	s := newTestSession(t)
	for _, name := range []string{"zeta", "Alpha", "beta"} {
		s.CreatePlaylist(name)
	}
	got := s.Playlists()
	want := []string{"Alpha", "beta", "zeta"}
	for i, p := range got {
		if p.Name != want[i] {
			t.Errorf("Playlists()[%d] = %s, want %s", i, p.Name, want[i])
		}
	}
}

func TestSearchReturnsSnapshots(t *testing.T) {
	s := newTestSession(t)
	results := s.SearchByTag("#cat")
	if len(results) != 2 {
		t.Fatalf("SearchByTag(#cat) = %d results, want 2", len(results))
	}
	results[0].Tags[0] = "#mutated"
	results[0].Flagged = true

	again := s.SearchByTag("#cat")
	if len(again) != 2 || again[0].Tags[0] != "#cat" {
		t.Error("mutating a search result changed session state")
	}

	s.Flag("another_cat_video_id", "")
	if got := s.SearchByTitle("cat"); len(got) != 1 || got[0].ID != "amazing_cats_video_id" {
		t.Errorf("SearchByTitle(cat) after flag = %+v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := newTestSession(t)
	s.CreatePlaylist("Mix")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			id := testRecords[g%len(testRecords)].ID
			for i := 0; i < 200; i++ {
				s.Play(id)
				s.Pause()
				s.AddToPlaylist("mix", id)
				s.SearchByTitle("a")
				s.RemoveFromPlaylist("mix", id)
				s.PlayRandom()
				s.Stop()
			}
		}(g)
	}
	wg.Wait()
	checkInvariant(t, s)
}

func TestCountVideos(t *testing.T) {
	if got := newTestSession(t).CountVideos(); got != len(testRecords) {
		t.Errorf("CountVideos() = %d, want %d", got, len(testRecords))
	}
}
