package viewer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"dollsheet/internal/charasheet"
	"dollsheet/internal/metrics"
	"dollsheet/internal/nechronica"
	"dollsheet/internal/session"
)

// ErrStaleFetch is returned when a fetch finished after a newer fetch or a
// reset; its result has been dropped.
var ErrStaleFetch = errors.New("fetch superseded by a newer request")

// ErrNoSheet is returned for maneuver commands when no sheet is loaded.
var ErrNoSheet = errors.New("no sheet loaded")

// parseFailureMessage is shown when a payload arrived but could not be
// normalized.
const parseFailureMessage = "キャラクターデータの解析に失敗しました"

// Fetcher retrieves a raw payload for user input.
type Fetcher interface {
	Fetch(ctx context.Context, input string) (charasheet.Result, error)
}

type Service struct {
	Store   session.Store[State]
	Fetcher Fetcher
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// New returns a Service. logger and m may be nil.
func New(store session.Store[State], fetcher Fetcher, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Store: store, Fetcher: fetcher, Logger: logger, Metrics: m}
}

// Current returns the state for sid, the zero State when there is none.
func (v *Service) Current(ctx context.Context, sid string) (State, error) {
	st, _, err := v.Store.Get(ctx, sid)
	return st, err
}

// Load fetches input, normalizes it and installs the result. A successful
// load replaces the sheet and clears the overlay. A failed load keeps the
// previous sheet and sets an error notice; the returned error is the fetch
// or parse failure. If another Load, LoadDemo or Reset for sid started in
// the meantime the result is discarded with ErrStaleFetch.
func (v *Service) Load(ctx context.Context, sid, input string) error {
	gen, err := v.begin(ctx, sid, input)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := v.Fetcher.Fetch(ctx, input)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var fe *charasheet.FetchError
		if errors.As(err, &fe) {
			outcome = string(fe.Reason)
		}
	}
	v.Metrics.ObserveFetch(outcome, time.Since(start))
	if err != nil {
		v.Logger.Info("sheet fetch failed", zap.String("input", input), zap.Error(err))
		return v.commitFailure(ctx, sid, gen, err)
	}
	return v.install(ctx, sid, gen, res)
}

// LoadDemo installs the built-in sheet through the same path as Load.
func (v *Service) LoadDemo(ctx context.Context, sid string) error {
	gen, err := v.begin(ctx, sid, charasheet.DemoSheetID)
	if err != nil {
		return err
	}
	res, err := charasheet.Demo()
	if err != nil {
		return v.commitFailure(ctx, sid, gen, err)
	}
	return v.install(ctx, sid, gen, res)
}

func (v *Service) install(ctx context.Context, sid string, gen uint64, res charasheet.Result) error {
	sheet, err := nechronica.Normalize(res.Raw)
	if err != nil {
		v.Metrics.ParseFailure()
		v.Logger.Error("normalize sheet",
			zap.String("sheet_id", res.SheetID),
			zap.Any("payload", res.Raw),
			zap.Error(err))
		return v.commitFailure(ctx, sid, gen, err)
	}
	err = v.Store.Update(ctx, sid, func(st *State) error {
		if st.Generation != gen {
			return ErrStaleFetch
		}
		st.Pending = false
		st.SheetID = res.SheetID
		st.Sheet = sheet
		st.Overlay = nechronica.Overlay{}
		st.Notice = nil
		return nil
	})
	if errors.Is(err, ErrStaleFetch) {
		v.Metrics.StaleFetch()
		v.Logger.Debug("dropping stale sheet", zap.String("sheet_id", res.SheetID), zap.Uint64("generation", gen))
	}
	return err
}

// begin bumps the generation and marks the session pending.
func (v *Service) begin(ctx context.Context, sid, input string) (uint64, error) {
	var gen uint64
	err := v.Store.Update(ctx, sid, func(st *State) error {
		st.Generation++
		st.Pending = true
		st.Input = input
		gen = st.Generation
		return nil
	})
	return gen, err
}

func (v *Service) commitFailure(ctx context.Context, sid string, gen uint64, cause error) error {
	err := v.Store.Update(ctx, sid, func(st *State) error {
		if st.Generation != gen {
			return ErrStaleFetch
		}
		st.Pending = false
		st.Notice = &Notice{Kind: NoticeError, Message: failureMessage(cause)}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStaleFetch) {
			v.Metrics.StaleFetch()
		}
		return err
	}
	return cause
}

func failureMessage(err error) string {
	var fe *charasheet.FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	var pe *nechronica.ParseError
	if errors.As(err, &pe) {
		return parseFailureMessage
	}
	return "キャラクターシートの取得に失敗しました"
}

// Reset drops the sheet and overlay. Any fetch in flight becomes stale.
func (v *Service) Reset(ctx context.Context, sid string) error {
	return v.Store.Update(ctx, sid, func(st *State) error {
		*st = State{Generation: st.Generation + 1, UserID: st.UserID}
		return nil
	})
}

// DismissNotice clears the current notice.
func (v *Service) DismissNotice(ctx context.Context, sid string) error {
	return v.Store.Update(ctx, sid, func(st *State) error {
		st.Notice = nil
		return nil
	})
}

// SetStatus sets one local flag on the maneuver at index.
func (v *Service) SetStatus(ctx context.Context, sid string, index int, f nechronica.StatusField, value bool) error {
	err := v.updateOverlay(ctx, sid, func(st *State, o *nechronica.Overlay) error {
		return o.SetStatus(st.Sheet, index, f, value)
	})
	if err == nil {
		v.Metrics.StatusToggle(string(f))
	}
	return err
}

// ApplyEdit layers a patch over the maneuver at index.
func (v *Service) ApplyEdit(ctx context.Context, sid string, index int, p nechronica.ManeuverPatch) error {
	err := v.updateOverlay(ctx, sid, func(st *State, o *nechronica.Overlay) error {
		return o.ApplyEdit(st.Sheet, index, p)
	})
	if err == nil {
		v.Metrics.ManeuverEdit()
	}
	return err
}

// updateOverlay edits a private copy of the overlay so states already
// handed out by Current never observe the change.
func (v *Service) updateOverlay(ctx context.Context, sid string, fn func(*State, *nechronica.Overlay) error) error {
	return v.Store.Update(ctx, sid, func(st *State) error {
		if st.Sheet == nil {
			return ErrNoSheet
		}
		o := st.Overlay.Clone()
		if err := fn(st, &o); err != nil {
			return err
		}
		st.Overlay = o
		return nil
	})
}

// SetUser records the signed-in user for sid; an empty id signs out.
func (v *Service) SetUser(ctx context.Context, sid, userID string) error {
	return v.Store.Update(ctx, sid, func(st *State) error {
		st.UserID = userID
		return nil
	})
}
