package types

import "time"

// Property types. Lead interest uses the same values plus InterestAny.
const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeOffice     = "office"
	PropertyTypeCommercial = "commercial"
	PropertyTypeLand       = "land"
	PropertyTypeParking    = "parking"
	PropertyTypeStorage    = "storage"
	PropertyTypePenthouse  = "penthouse"
	PropertyTypeLoft       = "loft"
)

// Property statuses.
const (
	PropertyAvailable = "available"
	PropertyReserved  = "reserved"
	PropertySold      = "sold"
	PropertyRented    = "rented"
)

// PropertyTypes lists the accepted property types in display order.
var PropertyTypes = []string{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeOffice,
	PropertyTypeCommercial,
	PropertyTypeLand,
	PropertyTypeParking,
	PropertyTypeStorage,
	PropertyTypePenthouse,
	PropertyTypeLoft,
}

// PropertyStatuses lists the accepted property statuses.
var PropertyStatuses = []string{PropertyAvailable, PropertyReserved, PropertySold, PropertyRented}

// Property is a listing managed by the agency. Price is a whole amount in
// the agency currency. Features and Images keep their order.
type Property struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Price       int64     `json:"price"`
	Location    string    `json:"location"`
	Address     string    `json:"address"`
	Bedrooms    *int64    `json:"bedrooms"`
	Bathrooms   *int64    `json:"bathrooms"`
	Area        *int64    `json:"area"`
	Features    []string  `json:"features"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Normalize fills the defaults of a new record.
func (p *Property) Normalize() {
	if p.Status == "" {
		p.Status = PropertyAvailable
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
}

// PropertyPatch carries the caller-supplied fields of a Property. Nil fields
// are left unchanged by Apply.
type PropertyPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Price       *int64    `json:"price,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Bedrooms    *int64    `json:"bedrooms,omitempty"`
	Bathrooms   *int64    `json:"bathrooms,omitempty"`
	Area        *int64    `json:"area,omitempty"`
	Features    *[]string `json:"features,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Status      *string   `json:"status,omitempty"`
}

// Apply copies every non-nil field onto p.
func (pp PropertyPatch) Apply(p *Property) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Type != nil {
		p.Type = *pp.Type
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Location != nil {
		p.Location = *pp.Location
	}
	if pp.Address != nil {
		p.Address = *pp.Address
	}
	if pp.Bedrooms != nil {
		p.Bedrooms = Ptr(*pp.Bedrooms)
	}
	if pp.Bathrooms != nil {
		p.Bathrooms = Ptr(*pp.Bathrooms)
	}
	if pp.Area != nil {
		p.Area = Ptr(*pp.Area)
	}
	if pp.Features != nil {
		p.Features = append([]string{}, (*pp.Features)...)
	}
	if pp.Images != nil {
		p.Images = append([]string{}, (*pp.Images)...)
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
}

// New builds a record from the patch with defaults for absent fields.
func (pp PropertyPatch) New() Property {
	p := Property{}
	pp.Apply(&p)
	p.Normalize()
	return p
}

// Validate checks the patch. Title, description, type, price, location and
// address are required on create.
func (pp PropertyPatch) Validate(create bool) error {
	var v validator
	v.text("title", pp.Title, create)
	v.text("description", pp.Description, create)
	v.required("type", pp.Type != nil, create)
	v.oneOf("type", pp.Type, PropertyTypes)
	v.required("price", pp.Price != nil, create)
	v.nonNegative("price", pp.Price)
	v.text("location", pp.Location, create)
	v.text("address", pp.Address, create)
	v.nonNegative("bedrooms", pp.Bedrooms)
	v.nonNegative("bathrooms", pp.Bathrooms)
	v.nonNegative("area", pp.Area)
	v.oneOf("status", pp.Status, PropertyStatuses)
	return v.err()
}
