package models

// PackageItem is one cart line item as handed over by the order platform.
type PackageItem struct {
	ProductID       string  `json:"product_id" validate:"required"`
	ShippingClassID int     `json:"shipping_class_id" validate:"min=0"`
	Quantity        int     `json:"quantity" validate:"required,min=1"`
	UnitPrice       float64 `json:"unit_price" validate:"min=0"`
}

// Package is the cart contents a shipping quote is calculated for.
type Package struct {
	Items []PackageItem `json:"items"`
}

// TotalQuantity sums the quantities of all line items.
func (p Package) TotalQuantity() int {
	total := 0
	for _, item := range p.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount sums quantity times unit price across all line items.
func (p Package) TotalAmount() float64 {
	total := 0.0
	for _, item := range p.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}
