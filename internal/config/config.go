package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	Auth   Auth   `envPrefix:"AUTH_"`
	Paypal Paypal `envPrefix:"PAYPAL_"`
	Stripe Stripe `envPrefix:"STRIPE_"`
	SMTP   SMTP   `envPrefix:"SMTP_"`
	Store  Store  `envPrefix:"STORE_"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Auth struct {
	JWTSecret     string `env:"JWT_SECRET"`
	SessionMaxAge int    `env:"SESSION_MAX_AGE" envDefault:"2592000"` // seconds, 30 days
}

type SMTP struct {
	Host       string `env:"HOST"`
	Port       string `env:"PORT" envDefault:"587"`
	Username   string `env:"USERNAME"`
	Password   string `env:"PASSWORD"`
	SenderName string `env:"SENDER_NAME" envDefault:"Prostore"`
	Sender     string `env:"SENDER" envDefault:"onboarding@prostore.dev"`
}

// Store carries checkout policy: which payment methods are offered and the
// free-shipping / tax parameters used when recomputing cart totals.
type Store struct {
	PaymentMethods       []string `env:"PAYMENT_METHODS" envSeparator:"," envDefault:"PayPal,Stripe,CashOnDelivery"`
	DefaultPaymentMethod string   `env:"DEFAULT_PAYMENT_METHOD" envDefault:"PayPal"`
	FreeShippingMin      string   `env:"FREE_SHIPPING_MIN" envDefault:"100"`
	ShippingPrice        string   `env:"SHIPPING_PRICE" envDefault:"10"`
	TaxRate              string   `env:"TAX_RATE" envDefault:"0.15"`
	PageSize             int      `env:"PAGE_SIZE" envDefault:"12"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
