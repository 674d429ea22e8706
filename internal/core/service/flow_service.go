package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/workshophub/portal/internal/api/metrics"
	"github.com/workshophub/portal/internal/core/domain"
	"github.com/workshophub/portal/internal/core/ports"
)

type flowService struct {
	backend ports.VerificationBackend
	flows   ports.FlowRepository
	limiter ports.FlowLimiter
	audit   ports.AuditRecorder
	log     zerolog.Logger
}

// NewFlowService returns the FlowService implementation shared by the
// password-reset and email-verification flows.
func NewFlowService(
	backend ports.VerificationBackend,
	flows ports.FlowRepository,
	limiter ports.FlowLimiter,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.FlowService {
	return &flowService{
		backend: backend,
		flows:   flows,
		limiter: limiter,
		audit:   audit,
		log:     log,
	}
}

// Begin validates the identifier locally, asks the backend for a code, and
// only then creates the flow. A local validation failure never reaches the
// backend; a backend failure leaves no flow behind.
func (s *flowService) Begin(ctx context.Context, kind domain.FlowKind, identifier string) (*domain.Flow, error) {
	if err := domain.ValidateIdentifier(identifier); err != nil {
		metrics.OtpActionsTotal.WithLabelValues(string(kind), "begin", "rejected").Inc()
		return nil, err
	}

	if err := s.backend.RequestCode(ctx, identifier); err != nil {
		metrics.OtpActionsTotal.WithLabelValues(string(kind), "begin", "error").Inc()
		return nil, err
	}

	now := time.Now().UTC()
	flow := &domain.Flow{
		ID:         uuid.NewString(),
		Kind:       kind,
		Stage:      domain.StageVerifyCode,
		Identifier: identifier,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.flows.Create(ctx, flow); err != nil {
		return nil, fmt.Errorf("create flow: %w", err)
	}

	metrics.OtpActionsTotal.WithLabelValues(string(kind), "begin", "ok").Inc()
	s.record(flow, "flow_begin", "success")
	return flow, nil
}

// EnterDigit writes one digit into a code slot and reports the next slot to
// focus. Digit edits are local state only; they never call the backend.
func (s *flowService) EnterDigit(ctx context.Context, flowID string, slot int, digit rune) (ports.CodeEntryResult, error) {
	flow, err := s.findAtCodeEntry(ctx, flowID)
	if err != nil {
		return ports.CodeEntryResult{}, err
	}

	code, err := flow.Code.WithDigit(slot, digit)
	if err != nil {
		return ports.CodeEntryResult{}, err
	}

	flow.Code = code
	flow.UpdatedAt = time.Now().UTC()
	if err := s.flows.Update(ctx, flow); err != nil {
		return ports.CodeEntryResult{}, fmt.Errorf("update flow: %w", err)
	}

	return ports.CodeEntryResult{Code: code, Focus: code.NextFocus(slot)}, nil
}

// EraseDigit handles Backspace on a code slot: an empty slot only moves
// focus back, a filled slot is cleared in place.
func (s *flowService) EraseDigit(ctx context.Context, flowID string, slot int) (ports.CodeEntryResult, error) {
	flow, err := s.findAtCodeEntry(ctx, flowID)
	if err != nil {
		return ports.CodeEntryResult{}, err
	}

	if slot >= 0 && slot < domain.CodeSlots && flow.Code[slot] == "" {
		return ports.CodeEntryResult{Code: flow.Code, Focus: flow.Code.PrevFocus(slot)}, nil
	}

	code, err := flow.Code.WithoutDigit(slot)
	if err != nil {
		return ports.CodeEntryResult{}, err
	}

	flow.Code = code
	flow.UpdatedAt = time.Now().UTC()
	if err := s.flows.Update(ctx, flow); err != nil {
		return ports.CodeEntryResult{}, fmt.Errorf("update flow: %w", err)
	}

	return ports.CodeEntryResult{Code: code, Focus: slot}, nil
}

// SubmitCode advances the flow once the joined code is six digits. For reset
// flows the advance is purely local; for email-verification flows the code
// is confirmed with the backend and the flow completes.
func (s *flowService) SubmitCode(ctx context.Context, flowID string) (*domain.Flow, error) {
	release, err := s.lock(ctx, flowID)
	if err != nil {
		return nil, err
	}
	defer release()

	flow, err := s.findAtCodeEntry(ctx, flowID)
	if err != nil {
		return nil, err
	}

	if !flow.Code.Complete() {
		metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "submit_code", "rejected").Inc()
		return nil, domain.NewFieldError("code", "enter all six digits")
	}

	switch flow.Kind {
	case domain.FlowVerifyEmail:
		if err := s.backend.VerifyEmailCode(ctx, flow.Identifier, flow.Code.Joined()); err != nil {
			metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "submit_code", "error").Inc()
			s.record(flow, "code_submit", "failure")
			return nil, err
		}
		if err := flow.Advance(domain.StageDone); err != nil {
			return nil, err
		}
		if err := s.flows.Delete(ctx, flow.ID); err != nil {
			s.log.Warn().Err(err).Str("flow_id", flow.ID).Msg("failed to delete completed flow")
		}
	default:
		if err := flow.Advance(domain.StageSetSecret); err != nil {
			return nil, err
		}
		flow.UpdatedAt = time.Now().UTC()
		if err := s.flows.Update(ctx, flow); err != nil {
			return nil, fmt.Errorf("update flow: %w", err)
		}
	}

	metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "submit_code", "ok").Inc()
	s.record(flow, "code_submit", "success")
	return flow, nil
}

// Resend asks the backend for another code. The stage and the already
// entered digits are left untouched. Resends are throttled per flow.
func (s *flowService) Resend(ctx context.Context, flowID string) error {
	release, err := s.lock(ctx, flowID)
	if err != nil {
		return err
	}
	defer release()

	flow, err := s.findAtCodeEntry(ctx, flowID)
	if err != nil {
		return err
	}

	allowed, err := s.limiter.AllowResend(ctx, flowID)
	if err != nil {
		s.log.Warn().Err(err).Str("flow_id", flowID).Msg("resend throttle check failed, allowing")
		allowed = true
	}
	if !allowed {
		metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "resend", "throttled").Inc()
		return domain.NewFieldError("code", "please wait before requesting another code")
	}

	if err := s.backend.RequestCode(ctx, flow.Identifier); err != nil {
		metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "resend", "error").Inc()
		return err
	}

	metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "resend", "ok").Inc()
	s.record(flow, "flow_resend", "success")
	return nil
}

// SubmitSecret finalizes a password reset. Guards run in order, first
// failure wins; only a locally valid secret reaches the backend. A backend
// failure keeps the flow in the secret stage so the visitor can retry.
func (s *flowService) SubmitSecret(ctx context.Context, flowID, secret, confirm string) (string, error) {
	release, err := s.lock(ctx, flowID)
	if err != nil {
		return "", err
	}
	defer release()

	flow, err := s.flows.Find(ctx, flowID)
	if err != nil {
		return "", err
	}
	if flow.Kind != domain.FlowReset {
		return "", fmt.Errorf("%w: flow has no secret stage", domain.ErrValidation)
	}
	if flow.Stage != domain.StageSetSecret {
		return "", fmt.Errorf("%w: secret not expected at stage %s", domain.ErrValidation, flow.Stage)
	}

	if err := domain.ValidateSecret(secret, confirm); err != nil {
		metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "submit_secret", "rejected").Inc()
		return "", err
	}

	message, err := s.backend.FinalizeReset(ctx, flow.Code.Joined(), secret)
	if err != nil {
		metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "submit_secret", "error").Inc()
		s.record(flow, "secret_submit", "failure")
		return "", err
	}

	if err := flow.Advance(domain.StageDone); err != nil {
		return "", err
	}
	if err := s.flows.Delete(ctx, flow.ID); err != nil {
		s.log.Warn().Err(err).Str("flow_id", flow.ID).Msg("failed to delete completed flow")
	}

	metrics.OtpActionsTotal.WithLabelValues(string(flow.Kind), "submit_secret", "ok").Inc()
	s.record(flow, "secret_submit", "success")
	return message, nil
}

// findAtCodeEntry loads a flow and ensures it still accepts code input.
func (s *flowService) findAtCodeEntry(ctx context.Context, flowID string) (*domain.Flow, error) {
	flow, err := s.flows.Find(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.Stage == domain.StageDone {
		return nil, domain.ErrFlowDone
	}
	if flow.Stage != domain.StageVerifyCode {
		return nil, fmt.Errorf("%w: code not expected at stage %s", domain.ErrValidation, flow.Stage)
	}
	return flow, nil
}

// lock serializes submits on one flow. While a submit is in flight every
// further submit on the same flow is rejected with ErrFlowBusy. When the
// lock store itself is unreachable the action proceeds without the lock.
func (s *flowService) lock(ctx context.Context, flowID string) (func(), error) {
	ok, err := s.limiter.AcquireSubmit(ctx, flowID)
	if err != nil {
		s.log.Warn().Err(err).Str("flow_id", flowID).Msg("submit lock unavailable, proceeding")
		return func() {}, nil
	}
	if !ok {
		return nil, domain.ErrFlowBusy
	}
	return func() {
		if err := s.limiter.ReleaseSubmit(context.WithoutCancel(ctx), flowID); err != nil {
			s.log.Warn().Err(err).Str("flow_id", flowID).Msg("failed to release submit lock")
		}
	}, nil
}

func (s *flowService) record(flow *domain.Flow, action, outcome string) {
	s.audit.Record(ports.AuthEvent{
		SubjectID: flow.ID,
		Action:    action,
		Outcome:   outcome,
		Detail:    string(flow.Kind),
		Timestamp: time.Now().UTC(),
	})
}
