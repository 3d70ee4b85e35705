package handlers

import (
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/server/http/dto"
)

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		DiscountPrice:  p.DiscountPrice,
		EffectivePrice: p.EffectivePrice(),
		Inventory:      p.Inventory,
	}
}

func toAddressResponse(a model.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:         a.ID,
		FullName:   a.FullName,
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func toCartResponse(cart *model.Cart) dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, dto.CartItemResponse{
			ID:       item.ID,
			Product:  toProductResponse(item.Product),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}
	return dto.CartResponse{
		ID:        cart.ID,
		Items:     items,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		})
	}
	return dto.OrderResponse{
		ID:                order.ID,
		UserID:            order.UserID,
		Status:            string(order.Status),
		PaymentStatus:     order.PaymentStatus,
		ShippingAddressID: order.ShippingAddressID,
		BillingAddressID:  order.BillingAddressID,
		Subtotal:          order.Subtotal,
		ShippingCost:      order.ShippingCost,
		TotalAmount:       order.TotalAmount,
		Items:             items,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

func toOrderList(orders []model.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	return resp
}

func toBlockchainPaymentResponse(p *model.BlockchainPayment) dto.BlockchainPaymentResponse {
	return dto.BlockchainPaymentResponse{
		ID:              p.ID.String(),
		OrderID:         p.OrderID,
		WalletPaymentID: p.WalletPaymentID.String(),
		Status:          string(p.Status),
		InitiatedAt:     p.InitiatedAt,
		ConfirmedAt:     p.ConfirmedAt,
		ExpiresAt:       p.ExpiresAt,
	}
}

func toWalletResponse(w model.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:         w.ID.String(),
		Address:    w.Address,
		WalletType: string(w.Type),
		IsVerified: w.IsVerified,
		VerifiedAt: w.VerifiedAt,
		Balance:    w.Balance,
		CreatedAt:  w.CreatedAt,
	}
}

func toTransactionResponse(t model.WalletTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                t.ID.String(),
		Type:              string(t.Type),
		Amount:            t.Amount,
		FromAddress:       t.FromAddress,
		ToAddress:         t.ToAddress,
		Hash:              t.Hash,
		Status:            string(t.Status),
		GasFee:            t.GasFee,
		BlockNumber:       t.BlockNumber,
		ConfirmationCount: t.ConfirmationCount,
		CreatedAt:         t.CreatedAt,
	}
}

func toWalletPaymentResponse(p model.WalletPayment) dto.WalletPaymentResponse {
	resp := dto.WalletPaymentResponse{
		ID:        p.ID.String(),
		OrderID:   p.OrderRef,
		Amount:    p.Amount,
		USDAmount: p.USDAmount,
		Status:    string(p.Status),
		Hash:      p.Hash,
		CreatedAt: p.CreatedAt,
	}
	if p.TransactionID != nil {
		id := p.TransactionID.String()
		resp.TransactionID = &id
	}
	return resp
}
