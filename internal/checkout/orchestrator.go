package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/videosplus/backend-videos/internal/common"
	"github.com/videosplus/backend-videos/internal/events"
	"github.com/videosplus/backend-videos/internal/obs"
	"github.com/videosplus/backend-videos/internal/siteconfig"
	"github.com/videosplus/backend-videos/internal/video"
)

// AttemptState is the orchestrator's view of one purchase attempt.
type AttemptState string

const (
	StateChannelSelected        AttemptState = "channel_selected"
	StateConfirming             AttemptState = "confirming"
	StateInFlight               AttemptState = "in_flight"
	StateSucceeded              AttemptState = "succeeded"
	StateSucceededPendingReview AttemptState = "succeeded_pending_review"
	StateCanceled               AttemptState = "canceled"
	StateFailed                 AttemptState = "failed"
)

func (s AttemptState) terminal() bool {
	switch s {
	case StateSucceeded, StateSucceededPendingReview, StateCanceled, StateFailed:
		return true
	}
	return false
}

// SnapshotProvider supplies the configuration snapshot per attempt.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) siteconfig.Snapshot
}

// ContentProvider loads the video being purchased.
type ContentProvider interface {
	Get(ctx context.Context, id string) (video.Video, error)
}

// Granter records an entitlement. The orchestrator only calls it for the
// manual channel, whose completion is optimistic.
type Granter interface {
	Grant(ctx context.Context, buyerID, contentID, channel, sessionID string, pendingReview bool) error
}

type attempt struct {
	id          string
	buyerID     string
	channel     Channel
	state       AttemptState
	intent      PurchaseIntent
	session     Session
	redirectURL string
	ticksLeft   int
	errCode     string
	wallet      *siteconfig.CryptoWallet
	stop        chan struct{}
	superseded  bool
}

// AttemptView is the client-facing projection of an attempt.
type AttemptView struct {
	ID               string       `json:"id"`
	ContentID        string       `json:"contentId"`
	Channel          Channel      `json:"channel"`
	State            AttemptState `json:"state"`
	TicksRemaining   int          `json:"ticksRemaining"`
	MaskedLabel      string       `json:"maskedLabel"`
	AmountMinorUnits int64        `json:"amountMinorUnits"`
	Currency         string       `json:"currency"`
	SessionID        string       `json:"sessionId,omitempty"`
	RedirectURL      string       `json:"redirectUrl,omitempty"`
	ErrorCode        string       `json:"errorCode,omitempty"`
}

// OrchestratorConfig groups Orchestrator dependencies.
type OrchestratorConfig struct {
	Adapters       []Adapter
	Snapshots      SnapshotProvider
	Content        ContentProvider
	Granter        Granter
	Bus            *events.Bus
	Logger         zerolog.Logger
	CountdownTicks int
	TickInterval   time.Duration
	Currency       string
	// AttemptRetention bounds how long a terminal attempt stays pollable
	// before its intent and session are discarded.
	AttemptRetention time.Duration
}

// Orchestrator drives the checkout state machine. One attempt per buyer:
// starting a new attempt tears the previous one down first, and results
// arriving for a superseded attempt are dropped.
type Orchestrator struct {
	adapters  map[Channel]Adapter
	snapshots SnapshotProvider
	content   ContentProvider
	granter   Granter
	bus       *events.Bus
	logger    zerolog.Logger
	ticks     int
	interval  time.Duration
	currency  string
	retention time.Duration
	tracer    trace.Tracer

	mu       sync.Mutex
	attempts map[string]*attempt
	current  map[string]string
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Snapshots == nil {
		return nil, errors.New("checkout: snapshot provider is required")
	}
	if cfg.Content == nil {
		return nil, errors.New("checkout: content provider is required")
	}
	adapters := make(map[Channel]Adapter, len(cfg.Adapters))
	for _, a := range cfg.Adapters {
		adapters[a.Channel()] = a
	}
	ticks := cfg.CountdownTicks
	if ticks <= 0 {
		ticks = 7
	}
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "USD"
	}
	retention := cfg.AttemptRetention
	if retention <= 0 {
		retention = time.Minute
	}
	return &Orchestrator{
		adapters:  adapters,
		snapshots: cfg.Snapshots,
		content:   cfg.Content,
		granter:   cfg.Granter,
		bus:       cfg.Bus,
		logger:    cfg.Logger,
		ticks:     ticks,
		interval:  interval,
		currency:  currency,
		retention: retention,
		tracer:    otel.Tracer("checkout.orchestrator"),
		attempts:  make(map[string]*attempt),
		current:   make(map[string]string),
	}, nil
}

// Start opens a new attempt for the buyer on the chosen channel. The buyer's
// explicit choice always wins; a disabled channel is an error, never a
// substitution.
func (o *Orchestrator) Start(ctx context.Context, buyerID, contentID, channelRaw, walletCode string) (AttemptView, error) {
	ctx, span := o.tracer.Start(ctx, "checkout.start")
	defer span.End()

	channel, ok := ParseChannel(channelRaw)
	if !ok {
		return AttemptView{}, common.ErrInvalidPayload("unknown payment channel")
	}
	span.SetAttributes(attribute.String("checkout.channel", string(channel)))

	snap := o.snapshots.Snapshot(ctx)
	if err := channelAvailable(snap, channel); err != nil {
		incBegin(channel, "unavailable")
		return AttemptView{}, err
	}

	adapter, ok := o.adapters[channel]
	if !ok {
		return AttemptView{}, common.ErrConfiguration(errors.New("channel has no adapter"))
	}

	if strings.TrimSpace(contentID) == "" {
		return AttemptView{}, common.ErrMissingContent()
	}
	v, err := o.content.Get(ctx, contentID)
	if err != nil {
		return AttemptView{}, common.ErrMissingContent()
	}

	var wallet *siteconfig.CryptoWallet
	if channel == ChannelManual && strings.TrimSpace(walletCode) != "" {
		wallet = findWallet(snap.Wallets, walletCode)
		if wallet == nil {
			return AttemptView{}, common.ErrInvalidPayload("unknown wallet")
		}
	}

	att := &attempt{
		id:      uuid.NewString(),
		buyerID: buyerID,
		channel: channel,
		state:   StateChannelSelected,
		intent:  BuildIntent(v, o.currency),
		wallet:  wallet,
		stop:    make(chan struct{}),
	}

	o.mu.Lock()
	o.teardownLocked(buyerID)
	o.attempts[att.id] = att
	o.current[buyerID] = att.id
	if att.channel == ChannelManual {
		att.state = StateInFlight
	} else {
		att.state = StateConfirming
		att.ticksLeft = o.ticks
	}
	view := att.view()
	o.mu.Unlock()

	o.emit(ctx, events.TopicCheckoutStarted, map[string]any{
		"attemptId": att.id,
		"contentId": att.intent.ContentID,
		"channel":   string(channel),
	})

	if att.channel == ChannelManual {
		err := o.begin(ctx, att, adapter)
		o.mu.Lock()
		view = att.view()
		o.mu.Unlock()
		return view, err
	}

	go o.runCountdown(att, adapter)
	return view, nil
}

// Get returns the buyer's view of an attempt.
func (o *Orchestrator) Get(buyerID, attemptID string) (AttemptView, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	att, ok := o.attempts[attemptID]
	if !ok || att.buyerID != buyerID {
		return AttemptView{}, common.ErrNotFound("attempt not found")
	}
	return att.view(), nil
}

// Cancel stops a confirming countdown. Cancellation is effective at any tick
// and has no side effect beyond stopping the timer.
func (o *Orchestrator) Cancel(ctx context.Context, buyerID, attemptID string) (AttemptView, error) {
	o.mu.Lock()
	att, ok := o.attempts[attemptID]
	if !ok || att.buyerID != buyerID {
		o.mu.Unlock()
		return AttemptView{}, common.ErrNotFound("attempt not found")
	}
	if att.state != StateConfirming {
		view := att.view()
		o.mu.Unlock()
		return view, common.NewAppError(common.CodeConflict, "attempt is not awaiting confirmation", 409, nil)
	}
	close(att.stop)
	att.state = StateCanceled
	view := att.view()
	o.mu.Unlock()

	o.scheduleEvict(att.id)
	if obs.CountdownCancelTotal != nil {
		obs.CountdownCancelTotal.Inc()
	}
	incAttempt(att.channel, StateCanceled)
	o.emit(ctx, events.TopicCheckoutCanceled, map[string]any{
		"attemptId": att.id,
		"contentId": att.intent.ContentID,
		"channel":   string(att.channel),
	})
	return view, nil
}

// Approve runs the redirect wallet capture for an in-flight attempt and
// returns the success redirect. A capture failure can never surface as
// success.
func (o *Orchestrator) Approve(ctx context.Context, buyerID, attemptID string) (AttemptView, CaptureResult, error) {
	ctx, span := o.tracer.Start(ctx, "checkout.approve")
	defer span.End()

	o.mu.Lock()
	att, ok := o.attempts[attemptID]
	if !ok || att.buyerID != buyerID {
		o.mu.Unlock()
		return AttemptView{}, CaptureResult{}, common.ErrNotFound("attempt not found")
	}
	if att.channel != ChannelRedirectWallet {
		view := att.view()
		o.mu.Unlock()
		return view, CaptureResult{}, common.NewAppError(common.CodeConflict, "attempt is not a wallet payment", 409, nil)
	}
	if att.state != StateInFlight || att.session.SessionID == "" {
		view := att.view()
		o.mu.Unlock()
		return view, CaptureResult{}, common.NewAppError(common.CodeConflict, "attempt is not awaiting approval", 409, nil)
	}
	orderID := att.session.SessionID
	contentID := att.intent.ContentID
	o.mu.Unlock()

	adapter, _ := o.adapters[ChannelRedirectWallet].(interface {
		Approve(ctx context.Context, snap siteconfig.Snapshot, orderID, contentID string) (CaptureResult, error)
	})
	if adapter == nil {
		return AttemptView{}, CaptureResult{}, common.ErrConfiguration(errors.New("wallet adapter cannot capture"))
	}

	snap := o.snapshots.Snapshot(ctx)
	capture, err := adapter.Approve(ctx, snap, orderID, contentID)

	o.mu.Lock()
	if att.superseded {
		o.mu.Unlock()
		return AttemptView{}, CaptureResult{}, common.ErrNotFound("attempt superseded")
	}
	if err != nil {
		att.state = StateFailed
		att.errCode = errCode(err)
		att.session.Status = StatusFailed
		view := att.view()
		o.mu.Unlock()
		o.scheduleEvict(att.id)
		incCapture("error")
		incAttempt(att.channel, StateFailed)
		o.logger.Error().Err(err).Str("attempt_id", att.id).Msg("wallet capture failed")
		o.emit(ctx, events.TopicCheckoutFailed, map[string]any{
			"attemptId": att.id,
			"contentId": contentID,
			"channel":   string(att.channel),
			"code":      att.errCode,
		})
		return view, CaptureResult{}, err
	}
	att.state = StateSucceeded
	att.session.Status = StatusSucceeded
	view := att.view()
	o.mu.Unlock()

	o.scheduleEvict(att.id)
	incCapture("ok")
	incAttempt(att.channel, StateSucceeded)
	return view, capture, nil
}

// runCountdown advances the confirmation countdown one tick at a time and
// begins the provider round trip when it reaches zero.
func (o *Orchestrator) runCountdown(att *attempt, adapter Adapter) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-att.stop:
			return
		case <-ticker.C:
			o.mu.Lock()
			if att.superseded || att.state != StateConfirming {
				o.mu.Unlock()
				return
			}
			att.ticksLeft--
			if att.ticksLeft > 0 {
				o.mu.Unlock()
				continue
			}
			att.state = StateInFlight
			o.mu.Unlock()
			_ = o.begin(context.Background(), att, adapter)
			return
		}
	}
}

// begin runs the provider round trip and applies the result, unless the
// attempt was superseded while the call was outstanding.
func (o *Orchestrator) begin(ctx context.Context, att *attempt, adapter Adapter) error {
	ctx, span := o.tracer.Start(ctx, "checkout.begin")
	defer span.End()
	span.SetAttributes(attribute.String("checkout.channel", string(att.channel)))

	snap := o.snapshots.Snapshot(ctx)
	started := time.Now()
	result, err := adapter.Begin(ctx, BeginParams{
		Intent:   att.intent,
		Snapshot: snap,
		Wallet:   att.wallet,
		Now:      time.Now(),
	})
	observeProvider(att.channel, "begin", time.Since(started))

	o.mu.Lock()
	if att.superseded {
		o.mu.Unlock()
		return nil
	}
	if err != nil {
		att.state = StateFailed
		att.errCode = errCode(err)
		att.session = Session{Channel: att.channel, ContentID: att.intent.ContentID, Status: StatusFailed}
		o.mu.Unlock()
		o.scheduleEvict(att.id)
		incBegin(att.channel, "error")
		incAttempt(att.channel, StateFailed)
		o.logger.Error().Err(err).Str("channel", string(att.channel)).Msg("provider begin failed")
		o.emit(ctx, events.TopicCheckoutFailed, map[string]any{
			"attemptId": att.id,
			"contentId": att.intent.ContentID,
			"channel":   string(att.channel),
			"code":      att.errCode,
		})
		return err
	}

	att.redirectURL = result.RedirectURL
	att.session = Session{
		Channel:   att.channel,
		SessionID: result.SessionID,
		ContentID: att.intent.ContentID,
		Status:    result.Status,
	}
	if att.channel == ChannelManual {
		att.state = StateSucceededPendingReview
	}
	buyerID := att.buyerID
	contentID := att.intent.ContentID
	sessionID := result.SessionID
	o.mu.Unlock()

	incBegin(att.channel, "ok")
	if att.channel == ChannelManual {
		o.scheduleEvict(att.id)
		incAttempt(att.channel, StateSucceededPendingReview)
		if o.granter != nil {
			if grantErr := o.granter.Grant(ctx, buyerID, contentID, string(ChannelManual), sessionID, true); grantErr != nil {
				o.logger.Error().Err(grantErr).Str("content_id", contentID).Msg("manual grant failed")
			}
		}
		o.emit(ctx, events.TopicPurchasePending, map[string]any{
			"attemptId": att.id,
			"contentId": contentID,
			"buyerId":   buyerID,
			"sessionId": sessionID,
		})
	}
	return nil
}

// teardownLocked cancels and discards the buyer's current attempt. The masked
// intent carries the real title, so a superseded attempt is dropped outright
// rather than kept pollable. Callers hold o.mu.
func (o *Orchestrator) teardownLocked(buyerID string) {
	id, ok := o.current[buyerID]
	if !ok {
		return
	}
	prev, ok := o.attempts[id]
	if !ok {
		return
	}
	prev.superseded = true
	if prev.state == StateConfirming {
		close(prev.stop)
	}
	if !prev.state.terminal() {
		prev.state = StateCanceled
	}
	delete(o.attempts, id)
	delete(o.current, buyerID)
}

// scheduleEvict discards a terminal attempt once the retention window passes.
// Until then the buyer can still poll the final state.
func (o *Orchestrator) scheduleEvict(attemptID string) {
	time.AfterFunc(o.retention, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		att, ok := o.attempts[attemptID]
		if !ok || !att.state.terminal() {
			return
		}
		delete(o.attempts, attemptID)
		if o.current[att.buyerID] == attemptID {
			delete(o.current, att.buyerID)
		}
	})
}

func (o *Orchestrator) emit(ctx context.Context, topic string, payload map[string]any) {
	if o.bus == nil {
		return
	}
	if _, err := o.bus.Emit(ctx, topic, payload); err != nil {
		o.logger.Warn().Err(err).Str("topic", topic).Msg("event emit failed")
	}
}

func (a *attempt) view() AttemptView {
	return AttemptView{
		ID:               a.id,
		ContentID:        a.intent.ContentID,
		Channel:          a.channel,
		State:            a.state,
		TicksRemaining:   a.ticksLeft,
		MaskedLabel:      a.intent.MaskedLabel,
		AmountMinorUnits: a.intent.AmountMinorUnits,
		Currency:         a.intent.Currency,
		SessionID:        a.session.SessionID,
		RedirectURL:      a.redirectURL,
		ErrorCode:        a.errCode,
	}
}

func channelAvailable(snap siteconfig.Snapshot, channel Channel) error {
	switch channel {
	case ChannelHostedCheckout:
		if !snap.HostedCheckoutAvailable() {
			return common.ErrConfiguration(errors.New("hosted checkout not configured"))
		}
	case ChannelRedirectWallet:
		if !snap.RedirectWalletAvailable() {
			return common.ErrConfiguration(errors.New("redirect wallet not configured"))
		}
	case ChannelManual:
		if !snap.ManualChannelAvailable() {
			return common.ErrConfiguration(errors.New("manual channel not configured"))
		}
	}
	return nil
}

func findWallet(wallets []siteconfig.CryptoWallet, code string) *siteconfig.CryptoWallet {
	for i := range wallets {
		if strings.EqualFold(wallets[i].CurrencyCode, code) {
			return &wallets[i]
		}
	}
	return nil
}

func errCode(err error) string {
	if appErr, ok := common.IsAppError(err); ok {
		return appErr.Code
	}
	return common.CodeInternal
}

func incAttempt(channel Channel, state AttemptState) {
	if obs.CheckoutAttemptTotal != nil {
		obs.CheckoutAttemptTotal.WithLabelValues(string(channel), string(state)).Inc()
	}
}

func incBegin(channel Channel, result string) {
	if obs.CheckoutBeginTotal != nil {
		obs.CheckoutBeginTotal.WithLabelValues(string(channel), result).Inc()
	}
}

func incCapture(result string) {
	if obs.CheckoutCaptureTotal != nil {
		obs.CheckoutCaptureTotal.WithLabelValues(result).Inc()
	}
}

func observeProvider(channel Channel, operation string, d time.Duration) {
	if obs.ProviderLatency != nil {
		obs.ProviderLatency.WithLabelValues(string(channel), operation).Observe(obs.DurationMillis(d))
	}
}
