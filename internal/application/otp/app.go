package otpapp

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/verimail/otp-backend/internal/application/otp/cmd"
	"gitlab.com/verimail/otp-backend/internal/application/otp/query"
	"gitlab.com/verimail/otp-backend/pkg/env"
)

type App struct {
	Command Command
	Query   Query
}

type Command struct {
	Issue  *cmd.IssueHandler
	Verify *cmd.VerifyHandler
}

type Query struct {
	GetCode *query.GetCodeHandler
}

type Args struct {
	Mode    env.Mode
	Repo    cmd.Repo
	PgxPool *pgxpool.Pool
}

func NewApp(args Args) *App {
	return &App{
		Command: Command{
			Issue: cmd.NewIssueHandler(cmd.IssueHandlerArgs{
				Mode: args.Mode,
				Repo: args.Repo,
			}),
			Verify: cmd.NewVerifyHandler(cmd.VerifyHandlerArgs{
				Repo: args.Repo,
			}),
		},
		Query: Query{
			GetCode: query.NewGetCodeHandler(args.PgxPool),
		},
	}
}
