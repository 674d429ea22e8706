package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// --- Request / Response types ---

type beginFlowRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type flowResponse struct {
	FlowID string `json:"flow_id"`
	Stage  string `json:"stage"`
}

type digitRequest struct {
	Slot int `json:"slot" validate:"min=0,max=5"`
	// Digit is the entered character; empty means Backspace on the slot.
	Digit string `json:"digit" validate:"omitempty,len=1,numeric"`
}

type codeStateResponse struct {
	Code  []string `json:"code"`
	Focus int      `json:"focus"`
}

type secretRequest struct {
	// Length and equality guards live in the domain so their error
	// ordering is exact; the transport only requires presence.
	Password        string `json:"password"         validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message,omitempty"`
	// Redirect is where the caller should navigate next, when set.
	Redirect string `json:"redirect,omitempty"`
}
