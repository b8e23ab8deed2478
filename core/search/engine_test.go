package search

import (
	"testing"

	"VidPlayer/model"
)

type fakeLister []*model.Video

func (f fakeLister) All() []*model.Video { return f }

func video(title, id string, tags ...string) *model.Video {
	return model.NewVideo(model.Record{Title: title, ID: id, Tags: tags})
}

func titles(videos []*model.Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
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

func TestByTitleSkipsFlagged(t *testing.T) {
	deep := video("Ocean Deep", "ocean_deep")
	deep.Flagged = true
	deep.FlagReason = "spam"
	e := NewEngine(fakeLister{
		video("Amazing Ocean", "amazing_ocean"),
		deep,
		video("Blue Sky", "blue_sky"),
	})

	got := titles(e.ByTitle("ocean"))
	if !equalStrings(got, []string{"Amazing Ocean"}) {
		t.Errorf("ByTitle(ocean) = %v, want [Amazing Ocean]", got)
	}
}

func TestByTitle(t *testing.T) {
	e := NewEngine(fakeLister{
		video("Funny Dogs", "funny_dogs_video_id"),
		video("Amazing Cats", "amazing_cats_video_id"),
		video("Another Cat Video", "another_cat_video_id"),
		video("Life at Google", "life_at_google_video_id"),
	})

	tests := []struct {
		term string
		want []string
	}{
		{"cat", []string{"Amazing Cats", "Another Cat Video"}},
		{"CAT", []string{"Amazing Cats", "Another Cat Video"}},
		{"dogs", []string{"Funny Dogs"}},
		{"google", []string{"Life at Google"}},
		{"blah", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := e.ByTitle(tt.term)
			if got == nil {
				t.Fatal("ByTitle() returned nil, want empty slice")
			}
			if !equalStrings(titles(got), tt.want) {
				t.Errorf("ByTitle(%q) = %v, want %v", tt.term, titles(got), tt.want)
			}
		})
	}
}

func TestByTag(t *testing.T) {
	flagged := video("Flagged Cat", "flagged_cat", "#cat")
	flagged.Flagged = true
	e := NewEngine(fakeLister{
		video("Funny Dogs", "funny_dogs_video_id", "#dog", "#animal"),
		video("Amazing Cats", "amazing_cats_video_id", "#cat", "#animal"),
		flagged,
		video("Video about nothing", "nothing_video_id"),
	})

	tests := []struct {
		tag  string
		want []string
	}{
		{"#animal", []string{"Amazing Cats", "Funny Dogs"}},
		{"#cat", []string{"Amazing Cats"}},
		{"#CAT", []string{}},
		{"cat", []string{}},
		{"#nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := titles(e.ByTag(tt.tag))
			if !equalStrings(got, tt.want) {
				t.Errorf("ByTag(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestSortByTitleIsCaseSensitive(t *testing.T) {
	videos := []*model.Video{video("apple", "a"), video("Zebra", "z"), video("Banana", "b")}
	SortByTitle(videos)
	got := titles(videos)
	want := []string{"Banana", "Zebra", "apple"}
	if !equalStrings(got, want) {
		t.Errorf("SortByTitle() = %v, want %v", got, want)
	}
}
