package mails

type Payload struct {
	To      string
	Subject string
	Body    string
}
