package dto

import (
	"duzanda/internal/models"
)

type CreateProductRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Volume            string  `json:"volume"`
	PackageType       string  `json:"package_type"`
	QuantityInPackage uint32  `json:"quantity_in_package"`
	PricePerUnit      string  `json:"price_per_unit" binding:"required"`
	PricePerPackage   string  `json:"price_per_package" binding:"required"`
	OldPrice          *string `json:"old_price"`
	Stock             uint32  `json:"stock"`
}

type UpdateProductRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Volume            *string `json:"volume"`
	PackageType       *string `json:"package_type"`
	QuantityInPackage *uint32 `json:"quantity_in_package"`
	PricePerUnit      *string `json:"price_per_unit"`
	PricePerPackage   *string `json:"price_per_package"`
	OldPrice          *string `json:"old_price"`
	Stock             *uint32 `json:"stock"`
}

type ProductResponse struct {
	ID                string  `json:"id"`
	MasterID          string  `json:"master_id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Volume            string  `json:"volume,omitempty"`
	PackageType       string  `json:"package_type,omitempty"`
	QuantityInPackage uint32  `json:"quantity_in_package"`
	PricePerUnit      string  `json:"price_per_unit"`
	PricePerPackage   string  `json:"price_per_package"`
	OldPrice          *string `json:"old_price,omitempty"`
	Stock             uint32  `json:"stock"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID.String(),
		MasterID:          p.MasterID.String(),
		Name:              p.Name,
		Description:       p.Description,
		Volume:            p.Volume,
		PackageType:       p.PackageType,
		QuantityInPackage: p.QuantityInPackage,
		PricePerUnit:      p.PricePerUnit.StringFixed(2),
		PricePerPackage:   p.PricePerPackage.StringFixed(2),
		Stock:             p.Stock,
	}
	if p.OldPrice.Valid {
		s := p.OldPrice.Decimal.StringFixed(2)
		resp.OldPrice = &s
	}
	return resp
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

func NewProductListResponse(list []models.Product, total int64) ProductListResponse {
	resp := ProductListResponse{
		Products: make([]ProductResponse, 0, len(list)),
		Total:    total,
	}
	for i := range list {
		resp.Products = append(resp.Products, NewProductResponse(&list[i]))
	}
	return resp
}
