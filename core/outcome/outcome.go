package outcome

import (
	"errors"
	"fmt"
)

// Kind 核心操作失败的类型
type Kind uint8

const (
	KindVideoNotFound Kind = iota + 1
	KindPlaylistNotFound
	KindAlreadyExists
	KindInvalidName
	KindAlreadyFlagged
	KindNotFlagged
	KindAlreadyPaused
	KindNotPaused
	KindNoneCurrent
	KindCatalogEmpty
	KindAlreadyInPlaylist
	KindNotInPlaylist
	KindFlagged
)

var kindNames = map[Kind]string{
	KindVideoNotFound:     "video_not_found",
	KindPlaylistNotFound:  "playlist_not_found",
	KindAlreadyExists:     "already_exists",
	KindInvalidName:       "invalid_name",
	KindAlreadyFlagged:    "already_flagged",
	KindNotFlagged:        "not_flagged",
	KindAlreadyPaused:     "already_paused",
	KindNotPaused:         "not_paused",
	KindNoneCurrent:       "none_current",
	KindCatalogEmpty:      "catalog_empty",
	KindAlreadyInPlaylist: "already_in_playlist",
	KindNotInPlaylist:     "not_in_playlist",
	KindFlagged:           "flagged",
}

// String returns the snake_case code of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error 核心操作的失败结果
// Subject 为相关的视频 ID 或播放列表名称，Reason 仅在 KindFlagged 时有值
type Error struct {
	Kind    Kind
	Subject string
	Reason  string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Subject != "" {
		msg += ": " + e.Subject
	}
	if e.Reason != "" {
		msg += " (reason: " + e.Reason + ")"
	}
	return msg
}

// Is matches another *Error of the same kind, and ErrNotFound for either not-found kind.
func (e *Error) Is(target error) bool {
	if target == ErrNotFound {
		return e.Kind == KindVideoNotFound || e.Kind == KindPlaylistNotFound
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ErrNotFound 匹配视频或播放列表不存在
var ErrNotFound = errors.New("not found")

// 与 errors.Is 配合使用的哨兵值
var (
	ErrVideoNotFound     = &Error{Kind: KindVideoNotFound}
	ErrPlaylistNotFound  = &Error{Kind: KindPlaylistNotFound}
	ErrAlreadyExists     = &Error{Kind: KindAlreadyExists}
	ErrInvalidName       = &Error{Kind: KindInvalidName}
	ErrAlreadyFlagged    = &Error{Kind: KindAlreadyFlagged}
	ErrNotFlagged        = &Error{Kind: KindNotFlagged}
	ErrAlreadyPaused     = &Error{Kind: KindAlreadyPaused}
	ErrNotPaused         = &Error{Kind: KindNotPaused}
	ErrNoneCurrent       = &Error{Kind: KindNoneCurrent}
	ErrCatalogEmpty      = &Error{Kind: KindCatalogEmpty}
	ErrAlreadyInPlaylist = &Error{Kind: KindAlreadyInPlaylist}
	ErrNotInPlaylist     = &Error{Kind: KindNotInPlaylist}
	ErrFlagged           = &Error{Kind: KindFlagged}
)

// New 创建指定类型的失败结果
func New(kind Kind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// Flagged 创建带标记原因的失败结果
func Flagged(subject, reason string) *Error {
	return &Error{Kind: KindFlagged, Subject: subject, Reason: reason}
}

// KindOf extracts the outcome kind from err.
func KindOf(err error) (Kind, bool) {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind, true
	}
	return 0, false
}

// ReasonOf returns the flag reason carried by a KindFlagged error.
func ReasonOf(err error) string {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Reason
	}
	return ""
}
