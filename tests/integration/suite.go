package integration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	otpbackend "gitlab.com/verimail/otp-backend"
	"gitlab.com/verimail/otp-backend/internal/domain/event"
	watermillport "gitlab.com/verimail/otp-backend/internal/ports/watermill"
	postgrespkg "gitlab.com/verimail/otp-backend/pkg/postgres"
	"gitlab.com/verimail/otp-backend/pkg/watermillx"
)

type TestSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	pgPool      *pgxpool.Pool
	app         *App
	router      *message.Router
}

func (s *TestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("otp_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	s.Require().NoError(err)
	s.pgContainer = pgContainer

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pgPool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	migrateDSN := strings.Replace(connStr, "postgres://", "pgx://", 1)
	err = postgrespkg.Migrate(migrateDSN, &otpbackend.Migrations)
	s.Require().NoError(err)

	wlogger := watermill.NewStdLogger(true, true)
	err = watermillx.InitializeEventSchema(ctx, s.pgPool, wlogger)
	s.Require().NoError(err)

	s.app, err = NewApp(s.pgPool)
	s.Require().NoError(err)

	s.router, err = message.NewRouter(message.RouterConfig{}, wlogger)
	s.Require().NoError(err)

	wmPort, err := watermillport.NewPortForTest(s.router, s.pgPool, wlogger)
	s.Require().NoError(err)
	err = wmPort.Run(ctx, watermillport.AppEventHandlers{Mail: s.app.MailApp})
	s.Require().NoError(err)

	go func() {
		if err := s.router.Run(context.Background()); err != nil {
			s.T().Logf("event router stopped: %v", err)
		}
	}()
	<-s.router.Running()
}

func (s *TestSuite) TearDownSuite() {
	if s.router != nil {
		_ = s.router.Close()
	}

	if s.pgPool != nil {
		s.pgPool.Close()
	}

	if s.pgContainer != nil {
		err := s.pgContainer.Terminate(context.Background())
		s.Require().NoError(err)
	}
}

func (s *TestSuite) AfterTest(suiteName, testName string) {
	_, err := s.pgPool.Exec(context.Background(), "TRUNCATE TABLE otp_codes")
	s.Require().NoError(err)

	if s.app.MockMailSender != nil {
		s.app.MockMailSender.Reset()
	}
}

func (s *TestSuite) App() *App {
	return s.app
}

// AssertEvent looks up the newest outbox row for the event type and runs fn
// against the decoded payload.
func AssertEvent[T event.Event](s *TestSuite, fn func(event T)) {
	typeName := fmt.Sprintf("%T", new(T))
	if strings.HasPrefix(typeName, "*") {
		typeName = typeName[2:]
	}
	e := new(T)

	query := fmt.Sprintf(
		`SELECT payload FROM %s WHERE metadata->>'name' = $1 ORDER BY "offset" DESC LIMIT 1`,
		"watermill_"+T.GetStreamName(*e),
	)

	row := s.pgPool.QueryRow(context.Background(), query, typeName)
	err := row.Scan(&e)
	s.Require().NoError(err, "Failed to get event from database")
	s.Require().NotNil(e, "Event should not be nil")
	fn(*e)
}
