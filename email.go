package authcore

import "fmt"

// EmailMessage is a transport-agnostic verification mail, ready to hand to
// whatever mail client the caller uses.
type EmailMessage struct {
	To      string
	From    string
	Subject string
	Text    string
}

// CreateEmailMessage returns a factory producing the default verification
// email: a link back to the auth server's verify route carrying the token
// and address as query parameters.
func CreateEmailMessage(authServerURL, from string) func(to, token string) EmailMessage {
	return func(to, token string) EmailMessage {
		return EmailMessage{
			To:      to,
			From:    from,
			Subject: "Verify Your Email",
			Text: fmt.Sprintf(
				"Click on the link to verify your email %s/authorize/verify?token=%s&email=%s",
				authServerURL, token, to,
			),
		}
	}
}
