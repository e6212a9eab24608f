package fixtures

const (
	ValidEmail       = "test@example.com"
	ValidSecondEmail = "another@example.com"
	InvalidEmail     = "not-an-email"

	ValidCode = "123456"
	WrongCode = "654321"
)
