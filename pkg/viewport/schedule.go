package viewport

import "time"

// scheduleAutoFit debounces an auto-fit request. A pending request of
// higher priority survives; otherwise the new request replaces it
// (cancel-and-replace). The pending overlay flag is raised immediately
// unless a click or navigation landed within the suppression window, so
// instant operations don't flash the overlay.
func (e *Engine) scheduleAutoFit(source Source, now time.Time) {
	if e.closed {
		return
	}
	if e.pendingFit != nil && sourcePriority[e.pendingFit.source] > sourcePriority[source] {
		return
	}
	e.pendingFit = &scheduledAutoFit{
		source: source,
		at:     now,
		fireAt: now.Add(AutoFitDelay),
	}
	if now.Sub(e.lastNavAt) >= NavSuppressWindow {
		e.autoFitPending = true
	}
}

// ScheduleAutoFit lets hosts request a debounced fit (e.g. after a filter
// change) under the same priority rules as internal triggers.
func (e *Engine) ScheduleAutoFit(source Source, now time.Time) {
	e.scheduleAutoFit(source, now)
}

// Tick fires every due timer and advances the animation. Hosts call it
// once per frame; all scheduling inside the engine is expressed as
// deadlines checked here, never as host timers.
func (e *Engine) Tick(now time.Time) {
	if e.closed {
		return
	}

	// Liveness: no measurement ever arrived.
	if e.state == StateUninitialized && !e.measureDeadline.IsZero() && !now.Before(e.measureDeadline) {
		e.log.Warn("no viewport measurement; forcing default size",
			"width", FallbackWidth, "height", FallbackHeight)
		ForcedCompletionsTotal.Inc()
		e.width, e.height = FallbackWidth, FallbackHeight
		e.enterPositioning(now)
	}

	// Liveness: positioning never completed (no graph data arrived).
	if e.state == StatePositioning && !e.positioningDeadline.IsZero() && !now.Before(e.positioningDeadline) {
		e.log.Warn("initialization stalled; forcing default transform",
			"timeout", PositioningTimeout)
		ForcedCompletionsTotal.Inc()
		e.completePositioning(now)
	}

	// Resize settle: schedule an auto-fit unless a programmatic navigation
	// just completed — the click's view wins over the resize.
	if e.resizing && !e.resizeSettleAt.IsZero() && !now.Before(e.resizeSettleAt) {
		e.resizing = false
		e.resizeSettleAt = time.Time{}
		if now.Sub(e.lastNavAt) >= NavSuppressWindow {
			e.scheduleAutoFit(SourceResize, now)
		}
	}

	// Debounced auto-fit fires: zoom to the active position's clusters
	// when there are any, otherwise fit everything. Force bypasses the
	// engine's own pending-flag block.
	if e.pendingFit != nil && !now.Before(e.pendingFit.fireAt) {
		src := e.pendingFit.source
		e.pendingFit = nil
		e.autoFitPending = true
		e.activeFitSrc = src
		AutoFitTotal.WithLabelValues(string(src)).Inc()
		e.ZoomTo(ZoomTarget{Kind: ZoomClusters}, ZoomOptions{Force: true}, now)
	}

	e.stepAnimation(now)

	// Settle delay after an auto-fit lands, then clear and notify.
	if !e.settleAt.IsZero() && !now.Before(e.settleAt) {
		e.settleAt = time.Time{}
		e.autoFitPending = false
		e.activeFitSrc = ""
		if e.cb.OnAutoFitComplete != nil {
			e.cb.OnAutoFitComplete()
		}
	}
}

// animationLanded arms the settle timer when a scheduler-driven zoom
// finishes; user navigations clear nothing because they never raised the
// pending flag.
func (e *Engine) animationLanded(now time.Time) {
	if e.autoFitPending && e.settleAt.IsZero() && e.pendingFit == nil {
		e.settleAt = now.Add(AutoFitSettle)
	}
}
