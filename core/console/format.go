package console

import (
	"errors"
	"fmt"
	"strings"

	"VidPlayer/core/outcome"
	"VidPlayer/model"
)

// FormatVideo renders a video as `Title (id) [#tag1 #tag2]` with flag and pause suffixes.
func FormatVideo(v model.Video) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) [%s]", v.Title, v.ID, strings.Join(v.Tags, " "))
	if v.Flagged {
		fmt.Fprintf(&b, " - FLAGGED (reason: %s)", v.FlagReason)
	}
	if v.Status == model.StatusPaused {
		b.WriteString(" - PAUSED")
	}
	return b.String()
}

// reason 将失败结果转换为提示文本（冒号之后的部分）
func reason(err error) string {
	var oe *outcome.Error
	if !errors.As(err, &oe) {
		return err.Error()
	}
	switch oe.Kind {
	case outcome.KindVideoNotFound:
		return "Video does not exist"
	case outcome.KindPlaylistNotFound:
		return "Playlist does not exist"
	case outcome.KindAlreadyExists:
		return "A playlist with the same name already exists"
	case outcome.KindInvalidName:
		return "Playlist name must be a single word"
	case outcome.KindAlreadyFlagged:
		return "Video is already flagged"
	case outcome.KindNotFlagged:
		return "Video is not flagged"
	case outcome.KindNotPaused:
		return "Video is not paused"
	case outcome.KindNoneCurrent:
		return "No video is currently playing"
	case outcome.KindCatalogEmpty:
		return "No videos available"
	case outcome.KindAlreadyInPlaylist:
		return "Video already added"
	case outcome.KindNotInPlaylist:
		return "Video is not in playlist"
	case outcome.KindFlagged:
		return fmt.Sprintf("Video is currently flagged (reason: %s)", oe.Reason)
	default:
		return oe.Error()
	}
}

// eventLine 渲染播放类事件，其他事件由各命令自行输出
func eventLine(e model.Event) (string, bool) {
	switch e.Kind {
	case model.EventStopped:
		return "Stopping video: " + e.Title, true
	case model.EventPlaying:
		return "Playing video: " + e.Title, true
	case model.EventPaused:
		return "Pausing video: " + e.Title, true
	case model.EventContinued:
		return "Continuing video: " + e.Title, true
	default:
		return "", false
	}
}
