package email

// Config holds email delivery configuration. The Postmark tokens are
// optional so development environments can run with the dev sender;
// SenderEmail identifies the from-address on all outbound mail.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@lifehub.app"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@lifehub.app"`
	DevOutputDir         string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"` // used when Postmark tokens are absent
}
