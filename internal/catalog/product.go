package catalog

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Product is a catalog row. ID is assigned by the store on create and never
// changes afterwards; image, description and category are optional.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// ProductInput carries the client-settable fields of a product. Any id in the
// request payload is deliberately absent here: on update the path id wins.
type ProductInput struct {
	Name        string  `json:"name"        validate:"required"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Image       string  `json:"image"`
	Description string  `json:"description" validate:"omitempty,min=10"`
	Category    string  `json:"category"    validate:"required"`
}

var validate = validator.New()

// Validate checks create-request constraints and reports the first violation
// as a client-facing message.
func (in ProductInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Message: fieldMessage(verrs[0])}
	}
	return &ValidationError{Message: "Invalid product"}
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		return "Product name cannot be empty"
	case "Price":
		return "Product price must be greater than 0"
	case "Category":
		return "Product category cannot be empty"
	case "Description":
		return "Product description must be at least 10 characters long"
	}
	return "Invalid product"
}

// SeedCatalog returns the demo inventory the service boots with when backed
// by the in-memory store.
func SeedCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Nike Air Max", Price: 199.99, Image: "/assets/images/nike.jpg", Description: "Classic Nike Air Max sneakers", Category: "Shoes"},
		{ID: 2, Name: "Adidas Ultra Boost", Price: 179.99, Image: "/assets/images/adidas-ultraboost.jpg", Description: "Comfortable running shoes", Category: "Shoes"},
		{ID: 3, Name: "T-Shirt", Price: 19.99, Image: "/assets/images/tshirt.jpeg", Description: "Comfortable running shoes", Category: "Clothes"},
		{ID: 4, Name: "Nike Air Max", Price: 199.99, Image: "/assets/images/nike.jpg", Description: "Classic Nike Air Max sneakers", Category: "Shoes"},
		{ID: 5, Name: "Adidas Ultra Boost", Price: 179.99, Image: "/assets/images/adidas-ultraboost.jpg", Description: "Comfortable running shoes", Category: "Shoes"},
		{ID: 6, Name: "T-Shirt", Price: 19.99, Image: "/assets/images/tshirt.jpeg", Description: "Comfortable running shoes", Category: "Clothes"},
		{ID: 7, Name: "Nike Air Max 2", Price: 199.99, Image: "/assets/images/nike.jpg", Description: "Classic Nike Air Max sneakers", Category: "Shoes"},
		{ID: 8, Name: "Adidas Ultra Boost 2", Price: 179.99, Image: "/assets/images/adidas-ultraboost.jpg", Description: "Comfortable running shoes", Category: "Shoes"},
		{ID: 9, Name: "T-Shirt 2", Price: 19.99, Image: "/assets/images/tshirt.jpeg", Description: "Comfortable running shoes", Category: "Clothes"},
	}
}
