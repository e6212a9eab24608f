package otphttp

import (
	"log/slog"
	"net/http"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	otpapp "gitlab.com/verimail/otp-backend/internal/application/otp"
	"gitlab.com/verimail/otp-backend/internal/application/otp/cmd"
	"gitlab.com/verimail/otp-backend/internal/domain/otp"
	"gitlab.com/verimail/otp-backend/pkg/apperr"
	"gitlab.com/verimail/otp-backend/pkg/env"
	"gitlab.com/verimail/otp-backend/pkg/httpx"
	"gitlab.com/verimail/otp-backend/pkg/logging"
	"gitlab.com/verimail/otp-backend/pkg/otelx"
	"gitlab.com/verimail/otp-backend/pkg/sanitizex"
	"gitlab.com/verimail/otp-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("otp-backend/internal/ports/http/otp")
	logger = otelslog.NewLogger("otp-backend/internal/ports/http/otp")
)

const (
	IssuedMessage   = "OTP generated and sent successfully."
	VerifiedMessage = "OTP verified successfully"
)

type HTTP struct {
	tracer trace.Tracer
	logger *slog.Logger
	cmd    *otpapp.Command
	query  *otpapp.Query
}

type Args struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	App    *otpapp.App
}

func NewHTTP(args Args) *HTTP {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &HTTP{
		tracer: args.Tracer,
		logger: args.Logger,
		cmd:    &args.App.Command,
		query:  &args.App.Query,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/v1/otp", func(r chi.Router) {
		r.Post("/", h.Issue)
		r.Post("/verify", h.Verify)
	})

	if env.Current() == env.Dev || env.Current() == env.Local || env.Current() == env.Test {
		r.Get("/dev/otp/{email}", h.GetCode)
	}
}

type IssueRequest struct {
	Email string `json:"email"`
}

func (r *IssueRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
}

func (r *IssueRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *IssueRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
	)
}

func (h *HTTP) Issue(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "IssueOtp")
	defer span.End()

	var req IssueRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleError(w, r, span, apperr.NewInvalid(err.Error()), "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		// callers get a single stable message for any email shape problem
		httpx.HandleError(w, r, span, otp.ErrInvalidEmail, "failed to validate request body")
		return
	}

	if err := h.cmd.Issue.Handle(ctx, cmd.Issue{Email: req.Email}); err != nil {
		httpx.HandleError(w, r, span, err, "failed to issue otp")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"message": IssuedMessage})
}

type VerifyRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

func (r *VerifyRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.Otp = sanitizex.CleanSingleLine(r.Otp)
}

func (r *VerifyRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (h *HTTP) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VerifyOtp")
	defer span.End()

	var req VerifyRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleError(w, r, span, apperr.NewInvalid(err.Error()), "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)

	// Shape checks happen inside the verification itself, so that a code of
	// the wrong length still reports as a mismatch and not a separate error.
	if err := h.cmd.Verify.Handle(ctx, cmd.Verify{Email: req.Email, Code: req.Otp}); err != nil {
		httpx.HandleError(w, r, span, err, "failed to verify otp")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"message": VerifiedMessage})
}

func (h *HTTP) GetCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOtpCode")
	defer span.End()

	email := chi.URLParam(r, "email")
	email = sanitizex.CleanSingleLine(email)

	if err := validation.Validate(email, validationx.EmailRules...); err != nil {
		httpx.HandleError(w, r, span, err, "failed to validate email")
		return
	}

	code, err := h.query.GetCode.Handle(ctx, email)
	if err != nil {
		httpx.HandleError(w, r, span, err, "failed to get otp code")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"otp": code})
}
