// Package submission drives a report or membership form from draft to a
// stored record. Every step returns a new State value that can be saved and
// resumed, so callers never hold hidden progress.
package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studentz/pkg/client"
	"studentz/pkg/ident"
	"studentz/pkg/validate"
)

type Kind string

const (
	KindReport Kind = "report"
	KindMember Kind = "member"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseInvalid    Phase = "invalid"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// NoticeDuration is how long a notice stays on screen.
const NoticeDuration = 4500 * time.Millisecond

const (
	msgNetworkError       = "Network error. Could not submit."
	msgReportFailed       = "Submission failed. Please try again."
	msgRegistrationFailed = "Registration failed. Please try again."
)

var ErrUnknownKind = errors.New("unknown submission kind")

// Draft is the unsent form. Exactly one of Report or Member is set, matching Kind.
type Draft struct {
	Kind   Kind                  `json:"kind"`
	Report *validate.ReportInput `json:"report,omitempty"`
	Member *validate.MemberInput `json:"member,omitempty"`
}

func ReportDraft(in validate.ReportInput) Draft {
	return Draft{Kind: KindReport, Report: &in}
}

func MemberDraft(in validate.MemberInput) Draft {
	return Draft{Kind: KindMember, Member: &in}
}

type Notice struct {
	Level        string        `json:"level"` // success, error
	Message      string        `json:"message"`
	DismissAfter time.Duration `json:"dismissAfter"`
}

type State struct {
	Phase      Phase               `json:"phase"`
	Kind       Kind                `json:"kind"`
	Draft      Draft               `json:"draft"`
	PreviewID  string              `json:"previewId,omitempty"`
	Violations validate.Violations `json:"violations,omitempty"`

	Report *client.Report `json:"report,omitempty"`
	Member *client.Member `json:"member,omitempty"`

	Error        string  `json:"error,omitempty"`
	Retryable    bool    `json:"retryable,omitempty"`
	SavedLocally bool    `json:"savedLocally,omitempty"`
	Notice       *Notice `json:"notice,omitempty"`
}

// Done reports whether the state is terminal.
func (s State) Done() bool {
	return s.Phase == PhaseSucceeded || s.Phase == PhaseFailed || s.Phase == PhaseInvalid
}

// Transport sends a validated draft to the server. *client.Client implements it.
type Transport interface {
	SubmitReport(ctx context.Context, in client.NewReport) (*client.Report, error)
	SubmitMember(ctx context.Context, in client.NewMember) (*client.Member, error)
}

type Workflow struct {
	Transport Transport
	// Cache receives members that could not reach the server. Nil disables
	// the offline fallback.
	Cache   *LocalCache
	IDs     *ident.Generator
	Now     func() time.Time
	Timeout time.Duration
}

func New(t Transport, cache *LocalCache) *Workflow {
	return &Workflow{
		Transport: t,
		Cache:     cache,
		IDs:       ident.New(),
		Now:       time.Now,
		Timeout:   client.DefaultTimeout,
	}
}

func Start(d Draft) State {
	return State{Phase: PhaseIdle, Kind: d.Kind, Draft: d}
}

// Validate moves an idle state to Invalid or Submitting. Submitting states
// carry a preview identifier minted on the client.
func (w *Workflow) Validate(s State) (State, error) {
	s.Phase = PhaseValidating
	s.Violations = nil
	s.Notice = nil

	var v validate.Violations
	switch {
	case s.Kind == KindReport && s.Draft.Report != nil:
		v = validate.Report(*s.Draft.Report)
	case s.Kind == KindMember && s.Draft.Member != nil:
		v = validate.Member(*s.Draft.Member)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}

	if len(v) > 0 {
		s.Phase = PhaseInvalid
		s.Violations = v
		s.Notice = notice("error", v.Error())
		return s, nil
	}

	id, err := w.previewID(s.Kind)
	if err != nil {
		return s, err
	}
	s.PreviewID = id
	s.Phase = PhaseSubmitting
	return s, nil
}

// Submit sends a Submitting state and returns Succeeded or Failed.
func (w *Workflow) Submit(ctx context.Context, s State) (State, error) {
	if s.Phase != PhaseSubmitting {
		return s, fmt.Errorf("submit from phase %q", s.Phase)
	}
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	switch {
	case s.Kind == KindReport && s.Draft.Report != nil:
		return w.submitReport(ctx, s), nil
	case s.Kind == KindMember && s.Draft.Member != nil:
		return w.submitMember(ctx, s)
	default:
		return s, fmt.Errorf("%w: %q without a matching draft", ErrUnknownKind, s.Kind)
	}
}

// Run validates and, when the draft is clean, submits it.
func (w *Workflow) Run(ctx context.Context, d Draft) (State, error) {
	s, err := w.Validate(Start(d))
	if err != nil || s.Phase == PhaseInvalid {
		return s, err
	}
	return w.Submit(ctx, s)
}

func (w *Workflow) submitReport(ctx context.Context, s State) State {
	in := s.Draft.Report
	r, err := w.Transport.SubmitReport(ctx, client.NewReport{
		Name:     in.Name,
		College:  in.College,
		Email:    in.Email,
		Category: in.Category,
		Details:  in.Details,
	})
	if err != nil {
		if client.IsTransport(err) {
			return failed(s, msgNetworkError, true)
		}
		return apiFailure(s, err, msgReportFailed)
	}
	if r.ReferenceID == "" {
		r.ReferenceID = s.PreviewID
	}
	s.Phase = PhaseSucceeded
	s.Report = r
	s.Notice = notice("success", "Problem submitted! Reference: "+r.ReferenceID)
	return s
}

func (w *Workflow) submitMember(ctx context.Context, s State) (State, error) {
	in := s.Draft.Member
	m, err := w.Transport.SubmitMember(ctx, client.NewMember{
		Name:     in.Name,
		College:  in.College,
		Email:    in.Email,
		WhatsApp: in.WhatsApp,
		Photo:    in.Photo,
	})
	if err != nil {
		if client.IsTransport(err) && w.Cache != nil {
			return w.saveOffline(s)
		}
		if client.IsTransport(err) {
			return failed(s, msgNetworkError, true), nil
		}
		return apiFailure(s, err, msgRegistrationFailed), nil
	}
	if m.MemberID == "" {
		m.MemberID = s.PreviewID
	}
	if m.Status == "" {
		m.Status = client.StatusActive
	}
	s.Phase = PhaseSucceeded
	s.Member = m
	s.Notice = notice("success", "Welcome to the community! Member ID: "+m.MemberID)
	return s, nil
}

func (w *Workflow) saveOffline(s State) (State, error) {
	in := s.Draft.Member
	m := client.Member{
		MemberID:  s.PreviewID,
		Name:      in.Name,
		College:   in.College,
		Email:     in.Email,
		WhatsApp:  in.WhatsApp,
		Photo:     in.Photo,
		Status:    client.StatusPendingSync,
		CreatedAt: w.now().UTC(),
	}
	if err := w.Cache.Save(m); err != nil {
		return failed(s, msgNetworkError, true), fmt.Errorf("save offline member: %w", err)
	}
	s.Phase = PhaseSucceeded
	s.Member = &m
	s.SavedLocally = true
	s.Notice = notice("success", "Saved locally. Member ID: "+m.MemberID)
	return s, nil
}

func (w *Workflow) previewID(k Kind) (string, error) {
	ids := w.IDs
	if ids == nil {
		ids = ident.New()
	}
	if k == KindMember {
		return ids.MemberID()
	}
	return ids.ReportID()
}

func (w *Workflow) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func apiFailure(s State, err error, fallback string) State {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return failed(s, fallback, false)
	}
	msg := apiErr.Message
	if msg == "" {
		msg = fallback
	}
	return failed(s, msg, apiErr.Retryable())
}

func failed(s State, msg string, retryable bool) State {
	s.Phase = PhaseFailed
	s.Error = msg
	s.Retryable = retryable
	s.Notice = notice("error", msg)
	return s
}

func notice(level, msg string) *Notice {
	return &Notice{Level: level, Message: msg, DismissAfter: NoticeDuration}
}
