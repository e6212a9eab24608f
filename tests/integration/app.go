package integration

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/verimail/otp-backend/internal/adapters/repos/postgres"
	mailapp "gitlab.com/verimail/otp-backend/internal/application/mail"
	otpapp "gitlab.com/verimail/otp-backend/internal/application/otp"
	otphttp "gitlab.com/verimail/otp-backend/internal/ports/http/otp"
	"gitlab.com/verimail/otp-backend/pkg/env"
	"gitlab.com/verimail/otp-backend/tests/mocks"
)

type App struct {
	HTTPHandler    http.Handler
	MockMailSender *mocks.MockMailSender
	OtpRepo        *postgres.OtpRepo
	MailApp        *mailapp.App
}

func NewApp(pool *pgxpool.Pool) (*App, error) {
	mux := chi.NewRouter()

	otpRepo := postgres.NewOtpRepo(pool, nil, nil)

	mockMailSender := mocks.NewMockMailSender()

	app := otpapp.NewApp(otpapp.Args{
		Mode:    env.Test,
		Repo:    otpRepo,
		PgxPool: pool,
	})

	otphttp.NewHTTP(otphttp.Args{App: app}).Route(mux)

	return &App{
		HTTPHandler:    mux,
		MockMailSender: mockMailSender,
		OtpRepo:        otpRepo,
		MailApp:        mailapp.NewApp(mailapp.Args{Mailsender: mockMailSender}),
	}, nil
}
