package models

// ProductCategory is the closed set of catalog categories.
type ProductCategory string

const (
	CategoryEasyClean     ProductCategory = "easy-clean"
	CategoryAntimicrobial ProductCategory = "antimicrobial"
	CategoryEco           ProductCategory = "eco"
)

// Specifications describes the physical properties shown on a product card.
type Specifications struct {
	Material       string   `json:"material" validate:"required"`
	Dimensions     string   `json:"dimensions"`
	Weight         string   `json:"weight"`
	Capacity       string   `json:"capacity,omitempty"`
	Certifications []string `json:"certifications"`
}

// Product represents a product in the catalog.
type Product struct {
	Record
	Name           string          `json:"name" validate:"required,min=2,max=100"`
	Description    string          `json:"description" validate:"omitempty,max=2000"`
	Price          int64           `json:"price" validate:"gte=0"`
	Category       ProductCategory `json:"category" validate:"required,oneof=easy-clean antimicrobial eco"`
	Image          string          `json:"image"`
	Features       []string        `json:"features" gorm:"serializer:json;type:text"`
	Specifications Specifications  `json:"specifications" gorm:"serializer:json;type:text"`
}

func (Product) TableName() string { return "products" }

// ProductPatch holds the fields an admin may change on a product. Nil fields are left untouched.
type ProductPatch struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description    *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price          *int64           `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category       *ProductCategory `json:"category,omitempty" validate:"omitempty,oneof=easy-clean antimicrobial eco"`
	Image          *string          `json:"image,omitempty"`
	Features       []string         `json:"features,omitempty"`
	Specifications *Specifications  `json:"specifications,omitempty"`
}
