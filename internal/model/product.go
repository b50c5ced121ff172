package model

import (
	"errors"
	"time"
)

// ProductID is the natural key of a product, e.g. its barcode. It is unique
// among active catalog products but may repeat across historical requests
// and missing-product reports.
type ProductID = string

// DBId is the surrogate integer key assigned by the store on insert.
type DBId = int64

// ErrVolumeWeightRatio is returned when the volume/weight ratio does not
// match the quantity type of the product.
var ErrVolumeWeightRatio = errors.New("volume_weight_ratio must be set exactly for volume-based products")

// ProductImage is a raw image payload together with its content type.
type ProductImage struct {
	ContentType string
	Data        []byte
}

// ProductInfo carries the scalar attributes of a product.
type ProductInfo struct {
	ID       ProductID
	Name     string
	Producer *string

	QuantityType QuantityType

	// Portion is the size of a single portion, in grams or litres
	// depending on QuantityType.
	Portion float64

	// VolumeWeightRatio converts a volume-based portion back to a weight
	// equivalent. Present if and only if QuantityType is QuantityVolume.
	VolumeWeightRatio *float64
}

// Validate checks the invariants of the product info.
func (p ProductInfo) Validate() error {
	hasRatio := p.VolumeWeightRatio != nil
	if (p.QuantityType == QuantityVolume) != hasRatio {
		return ErrVolumeWeightRatio
	}
	return nil
}

// ProductDescription is the unit of storage for both catalog products and
// pending product requests. Images are optional and loaded independently.
type ProductDescription struct {
	Info      ProductInfo
	Preview   *ProductImage
	FullImage *ProductImage
	Nutrients Nutrients
}

// ProductRequest is a user submission awaiting admin action.
type ProductRequest struct {
	Description ProductDescription
	Date        time.Time
}

// MissingProduct is a user report that a product id could not be found.
type MissingProduct struct {
	ProductID ProductID
	Date      time.Time
}
