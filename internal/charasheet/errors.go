package charasheet

import (
	"errors"
	"fmt"
)

// Reason classifies why a fetch produced no payload.
type Reason string

const (
	ReasonNotFound          Reason = "not_found"
	ReasonMalformedResponse Reason = "malformed_response"
	ReasonTimedOut          Reason = "timed_out"
	ReasonUnsupportedURL    Reason = "unsupported_url"
	ReasonInvalidIdentifier Reason = "invalid_identifier"
)

var (
	ErrNotFound          = errors.New("character sheet not found")
	ErrMalformedResponse = errors.New("malformed character sheet response")
	ErrTimedOut          = errors.New("character sheet request timed out")
	ErrUnsupportedURL    = errors.New("unsupported character sheet url")

	// ErrInvalidIdentifier means the input held no numeric sheet id.
	ErrInvalidIdentifier = errors.New("no character sheet id in input")
)

var reasonSentinels = map[Reason]error{
	ReasonNotFound:          ErrNotFound,
	ReasonMalformedResponse: ErrMalformedResponse,
	ReasonTimedOut:          ErrTimedOut,
	ReasonUnsupportedURL:    ErrUnsupportedURL,
	ReasonInvalidIdentifier: ErrInvalidIdentifier,
}

var reasonMessages = map[Reason]string{
	ReasonNotFound:          "キャラクターシートが見つからないか、アクセスできません",
	ReasonMalformedResponse: "データの形式が正しくありません",
	ReasonTimedOut:          "リクエストがタイムアウトしました",
	ReasonUnsupportedURL:    "対応していないサイトのURLです。キャラクター保管所のURLを入力してください。",
	ReasonInvalidIdentifier: "URLからキャラクターシートIDを抽出できませんでした。正しいURLを入力してください。",
}

// FetchError is returned for every failed fetch. errors.Is matches it
// against the sentinel for its Reason as well as anything in Err's chain.
type FetchError struct {
	Reason  Reason
	SheetID string
	Err     error
}

func (e *FetchError) Error() string {
	if e.SheetID != "" {
		return fmt.Sprintf("fetch sheet %s: %s: %v", e.SheetID, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch sheet: %s: %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	return reasonSentinels[e.Reason] == target
}

// Message is the notice shown to the user.
func (e *FetchError) Message() string {
	if m, ok := reasonMessages[e.Reason]; ok {
		return m
	}
	return "キャラクターシートの取得に失敗しました"
}

func fail(reason Reason, id string, err error) *FetchError {
	if err == nil {
		err = reasonSentinels[reason]
	}
	return &FetchError{Reason: reason, SheetID: id, Err: err}
}
