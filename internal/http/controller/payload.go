package controller

import (
	"fmt"
	"time"

	"github.com/nutrikeep/product-db/internal/model"
	"github.com/nutrikeep/product-db/internal/repository"
)

// ProductImagePayload is the wire form of a product image. Data is
// base64-encoded by the JSON codec.
type ProductImagePayload struct {
	ContentType string `json:"content_type" binding:"required"`
	Data        []byte `json:"data" binding:"required"`
}

// NutrientsPayload carries the nutrient values per portion. Macro nutrients
// are expressed in grams, vitamins and minerals in milligrams, vitamin D in
// micrograms. Absent fields are omitted.
type NutrientsPayload struct {
	KCal          float64  `json:"kcal"`
	Protein       *float64 `json:"protein_grams,omitempty"`
	Fat           *float64 `json:"fat_grams,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates_grams,omitempty"`
	Sugar         *float64 `json:"sugar_grams,omitempty"`
	Salt          *float64 `json:"salt_grams,omitempty"`
	VitaminA      *float64 `json:"vitamin_a_mg,omitempty"`
	VitaminC      *float64 `json:"vitamin_c_mg,omitempty"`
	VitaminD      *float64 `json:"vitamin_d_mug,omitempty"`
	Iron          *float64 `json:"iron_mg,omitempty"`
	Calcium       *float64 `json:"calcium_mg,omitempty"`
	Magnesium     *float64 `json:"magnesium_mg,omitempty"`
	Sodium        *float64 `json:"sodium_mg,omitempty"`
	Zinc          *float64 `json:"zinc_mg,omitempty"`
}

// ProductDescriptionPayload is the wire form of a full product description.
type ProductDescriptionPayload struct {
	ID                string               `json:"id" binding:"required"`
	Name              string               `json:"name" binding:"required"`
	Producer          *string              `json:"producer,omitempty"`
	QuantityType      string               `json:"quantity_type" binding:"required"`
	Portion           float64              `json:"portion" binding:"required"`
	VolumeWeightRatio *float64             `json:"volume_weight_ratio,omitempty"`
	Nutrients         NutrientsPayload     `json:"nutrients"`
	Preview           *ProductImagePayload `json:"preview,omitempty"`
	FullImage         *ProductImagePayload `json:"full_image,omitempty"`
}

func weightPayloadGrams(w *model.Weight) *float64 {
	if w == nil {
		return nil
	}
	v := w.Grams()
	return &v
}

func weightPayloadMilligrams(w *model.Weight) *float64 {
	if w == nil {
		return nil
	}
	v := w.Milligrams()
	return &v
}

func weightPayloadMicrograms(w *model.Weight) *float64 {
	if w == nil {
		return nil
	}
	v := w.Micrograms()
	return &v
}

func weightFromGramsPayload(v *float64) *model.Weight {
	if v == nil {
		return nil
	}
	w := model.WeightFromGrams(*v)
	return &w
}

func weightFromMilligramsPayload(v *float64) *model.Weight {
	if v == nil {
		return nil
	}
	w := model.WeightFromMilligrams(*v)
	return &w
}

func weightFromMicrogramsPayload(v *float64) *model.Weight {
	if v == nil {
		return nil
	}
	w := model.WeightFromMicrograms(*v)
	return &w
}

func toNutrientsPayload(n model.Nutrients) NutrientsPayload {
	return NutrientsPayload{
		KCal:          n.KCal,
		Protein:       weightPayloadGrams(n.Protein),
		Fat:           weightPayloadGrams(n.Fat),
		Carbohydrates: weightPayloadGrams(n.Carbohydrates),
		Sugar:         weightPayloadGrams(n.Sugar),
		Salt:          weightPayloadGrams(n.Salt),
		VitaminA:      weightPayloadMilligrams(n.VitaminA),
		VitaminC:      weightPayloadMilligrams(n.VitaminC),
		VitaminD:      weightPayloadMicrograms(n.VitaminD),
		Iron:          weightPayloadMilligrams(n.Iron),
		Calcium:       weightPayloadMilligrams(n.Calcium),
		Magnesium:     weightPayloadMilligrams(n.Magnesium),
		Sodium:        weightPayloadMilligrams(n.Sodium),
		Zinc:          weightPayloadMilligrams(n.Zinc),
	}
}

func (p NutrientsPayload) toModel() model.Nutrients {
	return model.Nutrients{
		KCal:          p.KCal,
		Protein:       weightFromGramsPayload(p.Protein),
		Fat:           weightFromGramsPayload(p.Fat),
		Carbohydrates: weightFromGramsPayload(p.Carbohydrates),
		Sugar:         weightFromGramsPayload(p.Sugar),
		Salt:          weightFromGramsPayload(p.Salt),
		VitaminA:      weightFromMilligramsPayload(p.VitaminA),
		VitaminC:      weightFromMilligramsPayload(p.VitaminC),
		VitaminD:      weightFromMicrogramsPayload(p.VitaminD),
		Iron:          weightFromMilligramsPayload(p.Iron),
		Calcium:       weightFromMilligramsPayload(p.Calcium),
		Magnesium:     weightFromMilligramsPayload(p.Magnesium),
		Sodium:        weightFromMilligramsPayload(p.Sodium),
		Zinc:          weightFromMilligramsPayload(p.Zinc),
	}
}

func toImagePayload(img *model.ProductImage) *ProductImagePayload {
	if img == nil {
		return nil
	}
	return &ProductImagePayload{
		ContentType: img.ContentType,
		Data:        img.Data,
	}
}

func imageFromPayload(p *ProductImagePayload) *model.ProductImage {
	if p == nil {
		return nil
	}
	return &model.ProductImage{
		ContentType: p.ContentType,
		Data:        p.Data,
	}
}

func toDescriptionPayload(desc model.ProductDescription) ProductDescriptionPayload {
	return ProductDescriptionPayload{
		ID:                desc.Info.ID,
		Name:              desc.Info.Name,
		Producer:          desc.Info.Producer,
		QuantityType:      string(desc.Info.QuantityType),
		Portion:           desc.Info.Portion,
		VolumeWeightRatio: desc.Info.VolumeWeightRatio,
		Nutrients:         toNutrientsPayload(desc.Nutrients),
		Preview:           toImagePayload(desc.Preview),
		FullImage:         toImagePayload(desc.FullImage),
	}
}

func (p ProductDescriptionPayload) toModel() (model.ProductDescription, error) {
	desc := model.ProductDescription{
		Info: model.ProductInfo{
			ID:                p.ID,
			Name:              p.Name,
			Producer:          p.Producer,
			QuantityType:      model.QuantityType(p.QuantityType),
			Portion:           p.Portion,
			VolumeWeightRatio: p.VolumeWeightRatio,
		},
		Preview:   imageFromPayload(p.Preview),
		FullImage: imageFromPayload(p.FullImage),
		Nutrients: p.Nutrients.toModel(),
	}
	if err := desc.Info.Validate(); err != nil {
		return model.ProductDescription{}, err
	}
	return desc, nil
}

// SortingPayload is the wire form of a sorting request.
type SortingPayload struct {
	Field string `json:"field" binding:"required"`
	Order string `json:"order"`
}

// ProductQueryPayload is the wire form of a product query. At most one of
// product_id and search may be set.
type ProductQueryPayload struct {
	ProductID   *string         `json:"product_id,omitempty"`
	Search      *string         `json:"search,omitempty"`
	Sorting     *SortingPayload `json:"sorting,omitempty"`
	Offset      int64           `json:"offset"`
	Limit       int64           `json:"limit"`
	WithPreview bool            `json:"with_preview"`
}

var sortingFields = map[string]repository.SortingField{
	string(repository.SortByName):         repository.SortByName,
	string(repository.SortByProductID):    repository.SortByProductID,
	string(repository.SortByReportedDate): repository.SortByReportedDate,
	string(repository.SortBySimilarity):   repository.SortBySimilarity,
}

func parseSortingOrder(s string) (repository.SortingOrder, error) {
	switch s {
	case "", string(repository.Ascending):
		return repository.Ascending, nil
	case string(repository.Descending):
		return repository.Descending, nil
	default:
		return "", fmt.Errorf("unknown sorting order %q", s)
	}
}

func (p *SortingPayload) toRepository() (*repository.Sorting, error) {
	if p == nil {
		return nil, nil
	}
	field, ok := sortingFields[p.Field]
	if !ok {
		return nil, fmt.Errorf("unknown sorting field %q", p.Field)
	}
	order, err := parseSortingOrder(p.Order)
	if err != nil {
		return nil, err
	}
	return &repository.Sorting{Field: field, Order: order}, nil
}

func (p ProductQueryPayload) toRepository() (repository.ProductQuery, error) {
	if p.ProductID != nil && p.Search != nil {
		return repository.ProductQuery{}, fmt.Errorf("product_id and search are mutually exclusive")
	}

	sorting, err := p.Sorting.toRepository()
	if err != nil {
		return repository.ProductQuery{}, err
	}

	return repository.ProductQuery{
		Filter: repository.SearchFilter{
			ProductID: p.ProductID,
			Search:    p.Search,
		},
		Sorting: sorting,
		Offset:  p.Offset,
		Limit:   p.Limit,
	}, nil
}

// MissingProductQueryPayload is the wire form of a missing-product report
// query.
type MissingProductQueryPayload struct {
	ProductID *string `json:"product_id,omitempty"`
	Order     string  `json:"order"`
	Offset    int64   `json:"offset"`
	Limit     int64   `json:"limit"`
}

func (p MissingProductQueryPayload) toRepository() (repository.MissingProductQuery, error) {
	order, err := parseSortingOrder(p.Order)
	if err != nil {
		return repository.MissingProductQuery{}, err
	}
	return repository.MissingProductQuery{
		ProductID: p.ProductID,
		Order:     order,
		Offset:    p.Offset,
		Limit:     p.Limit,
	}, nil
}

// MissingProductPayload is the wire form of one stored missing-product
// report.
type MissingProductPayload struct {
	ProductID string    `json:"product_id"`
	Date      time.Time `json:"date"`
}

func toMissingProductPayload(m model.MissingProduct) MissingProductPayload {
	return MissingProductPayload{
		ProductID: m.ProductID,
		Date:      m.Date,
	}
}

// ProductRequestPayload is the wire form of one stored product request.
type ProductRequestPayload struct {
	Description ProductDescriptionPayload `json:"description"`
	Date        time.Time                 `json:"date"`
}

func toProductRequestPayload(r model.ProductRequest) ProductRequestPayload {
	return ProductRequestPayload{
		Description: toDescriptionPayload(r.Description),
		Date:        r.Date,
	}
}
