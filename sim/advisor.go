package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Advisor is the backend that plans occupants' days and decides whether
// they keep their seat when stepping away. Implementations live in
// sim/advisory; the core only depends on this contract.
type Advisor interface {
	GenerateSchedule(ctx context.Context, req ScheduleRequest) (ScheduleResponse, error)
	DecideLeave(ctx context.Context, req LeaveRequest) (LeaveResponse, error)
}

// ScheduleRequest describes the occupant whose day is being planned.
type ScheduleRequest struct {
	OccupantID  OccupantID  `json:"occupant_id"`
	Archetype   string      `json:"archetype"`
	Profile     Profile     `json:"profile"`
	Preferences Preferences `json:"preferences"`
	DayStart    TimeOfDay   `json:"day_start"`
	DayEnd      TimeOfDay   `json:"day_end"`
}

// ScheduleResponse is an advisor's plan: an ordered list of {time, action}.
type ScheduleResponse struct {
	Items []ScheduleItem `json:"schedule"`
}

// LeaveRequest is the context for a reserve-or-leave decision.
type LeaveRequest struct {
	OccupantID       OccupantID     `json:"occupant_id"`
	Disposition      Disposition    `json:"disposition"`
	Satisfaction     float64        `json:"satisfaction"`
	Clock            TimeOfDay      `json:"clock"`
	ReservationLimit time.Duration  `json:"reservation_limit"`
	Schedule         []ScheduleItem `json:"schedule"`
}

// LeaveResponse carries "reserve" or "leave".
type LeaveResponse struct {
	Action string `json:"action"`
}

const (
	LeaveActionReserve = "reserve"
	LeaveActionLeave   = "leave"
)

// ErrMalformedReply marks an advisor response the core cannot use.
var ErrMalformedReply = errors.New("malformed advisor reply")

// parseLeaveAction accepts exactly "reserve" or "leave", case-insensitively.
func parseLeaveAction(action string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case LeaveActionReserve:
		return true, nil
	case LeaveActionLeave:
		return false, nil
	}
	return false, fmt.Errorf("%w: leave action %q", ErrMalformedReply, action)
}

// reserveSatisfactionFloor is the satisfaction an orderly occupant needs
// before keeping a seat under the fallback rule.
const reserveSatisfactionFloor = 3.0

func fallbackReserve(d Disposition, satisfaction float64) bool {
	return d == Orderly && satisfaction >= reserveSatisfactionFloor
}

// FallbackAdvisor is the deterministic, dependency-free advisor: every
// occupant gets DefaultSchedule and only orderly occupants on a good seat
// reserve.
type FallbackAdvisor struct{}

func (FallbackAdvisor) GenerateSchedule(_ context.Context, _ ScheduleRequest) (ScheduleResponse, error) {
	return ScheduleResponse{Items: DefaultSchedule().Items()}, nil
}

func (FallbackAdvisor) DecideLeave(_ context.Context, req LeaveRequest) (LeaveResponse, error) {
	if fallbackReserve(req.Disposition, req.Satisfaction) {
		return LeaveResponse{Action: LeaveActionReserve}, nil
	}
	return LeaveResponse{Action: LeaveActionLeave}, nil
}

// DecisionSource records whether an outcome came from the advisor or the
// built-in fallback.
type DecisionSource string

const (
	SourceAdvisor  DecisionSource = "advisor"
	SourceFallback DecisionSource = "fallback"
)

// ScheduleOutcome is the result of planning one occupant's day.
type ScheduleOutcome struct {
	Schedule Schedule
	Source   DecisionSource
	Attempts int
	Err      error // last advisor error when Source is SourceFallback
}

// LeaveOutcome is the resolved reserve-or-leave decision.
type LeaveOutcome struct {
	OccupantID OccupantID
	Reserve    bool
	Source     DecisionSource
	Attempts   int
	Err        error
}

// AdvisoryPolicy wraps an Advisor with per-call timeouts, bounded retries
// with exponential backoff, and the deterministic fallback. Its methods
// never return errors.
type AdvisoryPolicy struct {
	advisor Advisor
	cfg     AdvisorConfig
}

// NewAdvisoryPolicy wraps advisor. A nil advisor makes every call take the
// fallback path immediately.
func NewAdvisoryPolicy(advisor Advisor, cfg AdvisorConfig) *AdvisoryPolicy {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &AdvisoryPolicy{advisor: advisor, cfg: cfg}
}

// Config returns the retry settings in use.
func (p *AdvisoryPolicy) Config() AdvisorConfig { return p.cfg }

// Schedule plans one occupant's day, falling back to DefaultSchedule.
func (p *AdvisoryPolicy) Schedule(ctx context.Context, req ScheduleRequest) ScheduleOutcome {
	var sched Schedule
	attempts, err := p.retry(ctx, func(callCtx context.Context) error {
		if p.advisor == nil {
			return errNoAdvisor
		}
		resp, err := p.advisor.GenerateSchedule(callCtx, req)
		if err != nil {
			return err
		}
		parsed, err := ParseScheduleItems(resp.Items)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedReply, err)
		}
		sched = parsed
		return nil
	})
	if err == nil {
		return ScheduleOutcome{Schedule: sched, Source: SourceAdvisor, Attempts: attempts}
	}
	if !errors.Is(err, errNoAdvisor) {
		logrus.Warnf("[advisory] occupant %d schedule: using fallback after %d attempt(s): %v", req.OccupantID, attempts, err)
	}
	return ScheduleOutcome{Schedule: DefaultSchedule(), Source: SourceFallback, Attempts: attempts, Err: err}
}

// Reserve decides whether an occupant keeps their seat while away.
func (p *AdvisoryPolicy) Reserve(ctx context.Context, req LeaveRequest) LeaveOutcome {
	var reserve bool
	attempts, err := p.retry(ctx, func(callCtx context.Context) error {
		if p.advisor == nil {
			return errNoAdvisor
		}
		resp, err := p.advisor.DecideLeave(callCtx, req)
		if err != nil {
			return err
		}
		reserve, err = parseLeaveAction(resp.Action)
		return err
	})
	if err == nil {
		return LeaveOutcome{OccupantID: req.OccupantID, Reserve: reserve, Source: SourceAdvisor, Attempts: attempts}
	}
	if !errors.Is(err, errNoAdvisor) {
		logrus.Warnf("[advisory] occupant %d leave decision: using fallback after %d attempt(s): %v", req.OccupantID, attempts, err)
	}
	return LeaveOutcome{
		OccupantID: req.OccupantID,
		Reserve:    fallbackReserve(req.Disposition, req.Satisfaction),
		Source:     SourceFallback,
		Attempts:   attempts,
		Err:        err,
	}
}

// ScheduleAll plans every request on a bounded worker pool. Results are
// returned in request order.
func (p *AdvisoryPolicy) ScheduleAll(ctx context.Context, reqs []ScheduleRequest) []ScheduleOutcome {
	out := make([]ScheduleOutcome, len(reqs))
	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)
	for i := range reqs {
		g.Go(func() error {
			out[i] = p.Schedule(ctx, reqs[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// ReserveAll resolves every leave decision on a bounded worker pool.
// Results are returned in request order; callers apply them sequentially.
func (p *AdvisoryPolicy) ReserveAll(ctx context.Context, reqs []LeaveRequest) []LeaveOutcome {
	out := make([]LeaveOutcome, len(reqs))
	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)
	for i := range reqs {
		g.Go(func() error {
			out[i] = p.Reserve(ctx, reqs[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

var errNoAdvisor = errors.New("no advisor configured")

// retry runs call up to MaxRetries+1 times, each bounded by CallTimeout,
// doubling Backoff between attempts. It stops early when ctx ends.
func (p *AdvisoryPolicy) retry(ctx context.Context, call func(context.Context) error) (int, error) {
	var err error
	backoff := p.cfg.Backoff
	attempts := 0
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err == nil {
				err = ctxErr
			}
			return attempts, err
		}
		attempts++
		err = p.attempt(ctx, call)
		if err == nil || errors.Is(err, errNoAdvisor) {
			return attempts, err
		}
		logrus.Debugf("[advisory] attempt %d failed: %v", attempts, err)
		if attempt == p.cfg.MaxRetries || backoff <= 0 {
			continue
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempts, err
		case <-timer.C:
		}
		backoff *= 2
	}
	return attempts, err
}

func (p *AdvisoryPolicy) attempt(ctx context.Context, call func(context.Context) error) error {
	if p.cfg.CallTimeout <= 0 {
		return call(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()
	return call(callCtx)
}
