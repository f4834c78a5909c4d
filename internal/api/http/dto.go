package http

import (
	"psrental-backend/internal/domain"
	"psrental-backend/internal/service"
)

type LocationRequest struct {
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng      float64 `json:"lng" validate:"gte=-180,lte=180"`
	Address  string  `json:"address" validate:"required"`
	Accuracy string  `json:"accuracy" validate:"omitempty,oneof=high medium low"`
}

func (l LocationRequest) toDomain() domain.Location {
	return domain.Location{Lat: l.Lat, Lng: l.Lng, Address: l.Address, Accuracy: domain.LocationAccuracy(l.Accuracy)}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type AddTransactionRequest struct {
	Type          string           `json:"type" validate:"required,oneof=delivery_only pickup_unit"`
	Package       string           `json:"package" validate:"required_if=Type pickup_unit,package_id"`
	CustomerName  string           `json:"customer_name" validate:"required"`
	CustomerPhone string           `json:"customer_phone" validate:"required"`
	CustomerType  string           `json:"customer_type" validate:"omitempty,oneof=subscriber non_subscriber"`
	IdentityPhoto string           `json:"identity_photo"`
	Location      *LocationRequest `json:"location" validate:"required"`
	Amount        int64            `json:"amount" validate:"gte=0"`
	Notes         string           `json:"notes"`
	PaymentStatus string           `json:"payment_status" validate:"omitempty,oneof=paid unpaid partial"`
	PaidAmount    *int64           `json:"paid_amount"`
	FavoriteName  string           `json:"favorite_name"` // also saves the location as a favorite when set
}

func (r AddTransactionRequest) toInput() service.NewTransaction {
	in := service.NewTransaction{
		Type:          domain.TransactionType(r.Type),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerType:  domain.CustomerType(r.CustomerType),
		IdentityPhoto: r.IdentityPhoto,
		Location:      r.Location.toDomain(),
		Amount:        r.Amount,
		Notes:         r.Notes,
		PaymentStatus: domain.PaymentStatus(r.PaymentStatus),
		PaidAmount:    r.PaidAmount,
	}
	if r.Package != "" {
		id := domain.PackageID(r.Package)
		in.Package = &id
	}
	return in
}

type DeleteTransactionRequest struct {
	Reason string `json:"reason" validate:"required"`
	PIN    string `json:"pin" validate:"required,len=6,numeric"`
}

type ExtendDaysRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

type ExtendHoursRequest struct {
	Hours int `json:"hours" validate:"required,min=1"`
}

type AdditionalPaymentRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Note   string `json:"note"`
}

type PaymentStatusRequest struct {
	Status     string `json:"status" validate:"required,oneof=paid unpaid partial"`
	PaidAmount *int64 `json:"paid_amount" validate:"required_if=Status partial"`
}

type UpdateStockRequest struct {
	Stock  *int   `json:"stock" validate:"required,gte=0"`
	Reason string `json:"reason" validate:"required"`
}

type FavoriteLocationRequest struct {
	Name     string           `json:"name" validate:"required"`
	Location *LocationRequest `json:"location" validate:"required"`
}

type UpdatePricingRequest struct {
	Price *int64 `json:"price" validate:"required,gte=0"`
}

type CreatePricingRequest struct {
	Name  string `json:"name" validate:"required"`
	Price *int64 `json:"price" validate:"required,gte=0"`
}

type SavingsRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Note   string `json:"note"`
}
