package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/domain/repository"
	pkgAuth "github.com/polkiloo/gencart/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		newAuthUseCase,
		NewCatalogUseCase,
		NewCartUseCase,
		NewOrderUseCase,
		NewPaymentUseCase,
		NewWalletUseCase,
		NewShippingPolicy,
		NewPaymentSettings,
		func(p *PaymentUseCase) PaymentInitiator { return p },
	),
)

func newAuthUseCase(store repository.Store, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, cfg *config.Config) *AuthUseCase {
	return NewAuthUseCase(store.Users(), hasher, strategy, cfg.StaffLogins)
}

// NewShippingPolicy reads the shipping step function from configuration.
func NewShippingPolicy(cfg *config.Config) ShippingPolicy {
	return ShippingPolicy{Threshold: cfg.ShippingThreshold, Surcharge: cfg.ShippingSurcharge}
}

// NewPaymentSettings reads payment state machine settings from configuration.
func NewPaymentSettings(cfg *config.Config) PaymentSettings {
	return PaymentSettings{
		MerchantAddress:  cfg.MerchantAddress,
		TTL:              cfg.PaymentTTL,
		AutoConfirm:      cfg.PaymentAutoConfirm,
		MinConfirmations: cfg.MinConfirmations,
		TxTimeout:        cfg.TxTimeout,
	}
}
