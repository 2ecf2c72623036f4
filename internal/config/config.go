package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Auth      Auth      `envPrefix:"AUTH_"`
	Checkout  Checkout  `envPrefix:"CHECKOUT_"`
	Payment   Payment   `envPrefix:"PAYMENT_"`
	Paypal    Paypal    `envPrefix:"PAYPAL_"`
	BrainTree Braintree `envPrefix:"BRAINTREE_"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

// Enabled reports whether enough credentials are present to talk to PayPal.
func (p Paypal) Enabled() bool {
	return p.BaseApiURL != "" && p.ClientID != "" && p.ClientSecret != ""
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT" envDefault:"sandbox"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
}

func (b Braintree) Enabled() bool {
	return b.MerchantID != "" && b.PublicKey != "" && b.PrivateKey != ""
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsDevelopment() bool {
	return e.Name == "development"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"` // mysql, postgres, sqlite
	URL    string `env:"DATABASE_URL" envDefault:"marketplace.db"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Checkout struct {
	Currency          string `env:"CURRENCY" envDefault:"USD"`
	ShippingCost      int64  `env:"SHIPPING_COST" envDefault:"0"` // minor units, flat for every order
	OrderNumberOffset int64  `env:"ORDER_NUMBER_OFFSET" envDefault:"10000"`
}

type Payment struct {
	Timeout            time.Duration `env:"TIMEOUT" envDefault:"15s"`
	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"5"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}
