package http

import (
	"github.com/go-chi/chi/v5"

	otpapp "gitlab.com/verimail/otp-backend/internal/application/otp"
	otphttp "gitlab.com/verimail/otp-backend/internal/ports/http/otp"
)

type Port struct {
	otp *otphttp.HTTP
}

type Args struct {
	OtpApp *otpapp.App
}

func NewPort(args Args) *Port {
	return &Port{
		otp: otphttp.NewHTTP(otphttp.Args{
			App: args.OtpApp,
		}),
	}
}

func (p *Port) Route(r chi.Router) chi.Router {
	if r == nil {
		r = chi.NewRouter()
	}

	p.otp.Route(r)

	return r
}
