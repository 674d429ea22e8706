package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FlowKind distinguishes the two verification flows sharing the stage machine.
type FlowKind string

const (
	// FlowReset is the forgot-password flow: identifier, code, new secret.
	FlowReset FlowKind = "reset"
	// FlowVerifyEmail proves control of an email address; it ends at the code.
	FlowVerifyEmail FlowKind = "verify_email"
)

// Stage is a discrete step in a verification flow.
type Stage string

const (
	StageCollectIdentifier Stage = "collect_identifier"
	StageVerifyCode        Stage = "verify_code"
	StageSetSecret         Stage = "set_secret"
	StageDone              Stage = "done"
)

// stageTransitions defines the forward-only moves of the machine. Resend is
// not a transition: it re-requests a code without leaving verify_code.
var stageTransitions = map[Stage][]Stage{
	StageCollectIdentifier: {StageVerifyCode},
	StageVerifyCode:        {StageSetSecret, StageDone},
	StageSetSecret:         {StageDone},
}

// CanAdvanceTo reports whether moving from s to next is a legal transition.
func (s Stage) CanAdvanceTo(next Stage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CodeSlots is the number of digits in a one-time code.
const CodeSlots = 6

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Code holds the one-time code as entered so far: six ordered slots, each
// empty or a single decimal digit. The zero value is all slots empty.
// Updates are functional; WithDigit and WithoutDigit return a new value and
// never mutate the receiver, so focus handling can never observe a
// half-applied edit.
type Code [CodeSlots]string

// WithDigit returns a copy of the code with the given slot set. Non-digit
// input and out-of-range slots are rejected.
func (c Code) WithDigit(slot int, digit rune) (Code, error) {
	if slot < 0 || slot >= CodeSlots {
		return c, NewFieldError("code", "no such code slot")
	}
	if digit < '0' || digit > '9' {
		return c, NewFieldError("code", "only digits are accepted")
	}
	c[slot] = string(digit)
	return c, nil
}

// WithoutDigit returns a copy of the code with the given slot cleared.
func (c Code) WithoutDigit(slot int) (Code, error) {
	if slot < 0 || slot >= CodeSlots {
		return c, NewFieldError("code", "no such code slot")
	}
	c[slot] = ""
	return c, nil
}

// Joined returns the concatenation of all entered digits.
func (c Code) Joined() string {
	return strings.Join(c[:], "")
}

// Complete reports whether all six slots hold a decimal digit.
func (c Code) Complete() bool {
	return codePattern.MatchString(c.Joined())
}

// NextFocus returns the slot to focus after a digit was entered at slot:
// the next empty slot, except that focus never advances past the last slot.
func (c Code) NextFocus(slot int) int {
	for i := slot + 1; i < CodeSlots; i++ {
		if c[i] == "" {
			return i
		}
	}
	return slot
}

// PrevFocus returns the slot to focus after Backspace at slot: an empty
// slot hands focus to the previous one, a filled slot keeps it.
func (c Code) PrevFocus(slot int) int {
	if slot > 0 && c[slot] == "" {
		return slot - 1
	}
	return slot
}

// Flow is one in-progress verification. The new secret and its confirmation
// are request-scoped inputs checked at finalize time; they are never stored
// on the flow.
type Flow struct {
	ID         string
	Kind       FlowKind
	Stage      Stage
	Identifier string
	Code       Code
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Advance moves the flow to the next stage, rejecting anything but a legal
// forward transition.
func (f *Flow) Advance(next Stage) error {
	if !f.Stage.CanAdvanceTo(next) {
		return fmt.Errorf("%w: cannot advance from %s to %s", ErrValidation, f.Stage, next)
	}
	f.Stage = next
	return nil
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateIdentifier checks the email shape of a flow identifier. A failure
// here blocks the transition locally; the backend is never called.
func ValidateIdentifier(identifier string) error {
	if !emailPattern.MatchString(identifier) {
		return NewFieldError("email", "must be a valid email address")
	}
	return nil
}

// MinSecretLen is the minimum length of a new password.
const MinSecretLen = 8

// ValidateSecret checks the new secret and its confirmation. Checks run in
// order and the first failure wins.
func ValidateSecret(secret, confirm string) error {
	if len(secret) < MinSecretLen {
		return NewFieldError("password", fmt.Sprintf("must be at least %d characters", MinSecretLen))
	}
	if secret != confirm {
		return NewFieldError("password_confirm", "passwords do not match")
	}
	return nil
}
