package mailer

// Job is one queued outbound email. Producers publish it to the mail queue
// and never wait for delivery.
type Job struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
