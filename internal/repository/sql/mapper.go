package sql

import (
	"database/sql"
	"time"

	"github.com/nutrikeep/product-db/internal/model"
	"github.com/nutrikeep/product-db/internal/repository"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// nutrientArgs converts a Nutrients aggregate into its 14 storage columns.
// Macro nutrients are stored as grams, vitamins and minerals as milligrams,
// vitamin D as micrograms. Absent fields bind SQL NULL.
func nutrientArgs(n model.Nutrients) []any {
	return []any{
		n.KCal,
		gramsArg(n.Protein),
		gramsArg(n.Fat),
		gramsArg(n.Carbohydrates),
		gramsArg(n.Sugar),
		gramsArg(n.Salt),
		milligramsArg(n.VitaminA),
		milligramsArg(n.VitaminC),
		microgramsArg(n.VitaminD),
		milligramsArg(n.Iron),
		milligramsArg(n.Calcium),
		milligramsArg(n.Magnesium),
		milligramsArg(n.Sodium),
		milligramsArg(n.Zinc),
	}
}

func gramsArg(w *model.Weight) any {
	if w == nil {
		return nil
	}
	return w.Grams()
}

func milligramsArg(w *model.Weight) any {
	if w == nil {
		return nil
	}
	return w.Milligrams()
}

func microgramsArg(w *model.Weight) any {
	if w == nil {
		return nil
	}
	return w.Micrograms()
}

func weightFromGrams(v sql.NullFloat64) *model.Weight {
	if !v.Valid {
		return nil
	}
	w := model.WeightFromGrams(v.Float64)
	return &w
}

func weightFromMilligrams(v sql.NullFloat64) *model.Weight {
	if !v.Valid {
		return nil
	}
	w := model.WeightFromMilligrams(v.Float64)
	return &w
}

func weightFromMicrograms(v sql.NullFloat64) *model.Weight {
	if !v.Valid {
		return nil
	}
	w := model.WeightFromMicrograms(v.Float64)
	return &w
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// descriptionRow buffers the scalar columns of one product-description
// projection before conversion into the domain aggregate.
type descriptionRow struct {
	productID         string
	name              string
	producer          sql.NullString
	quantityType      string
	portion           float64
	volumeWeightRatio sql.NullFloat64

	kcal               float64
	proteinGrams       sql.NullFloat64
	fatGrams           sql.NullFloat64
	carbohydratesGrams sql.NullFloat64
	sugarGrams         sql.NullFloat64
	saltGrams          sql.NullFloat64
	vitaminAMg         sql.NullFloat64
	vitaminCMg         sql.NullFloat64
	vitaminDMug        sql.NullFloat64
	ironMg             sql.NullFloat64
	calciumMg          sql.NullFloat64
	magnesiumMg        sql.NullFloat64
	sodiumMg           sql.NullFloat64
	zincMg             sql.NullFloat64

	previewData        []byte
	previewContentType sql.NullString
}

func (r *descriptionRow) scanDest(withPreview bool) []any {
	dest := []any{
		&r.productID, &r.name, &r.producer, &r.quantityType, &r.portion, &r.volumeWeightRatio,
		&r.kcal, &r.proteinGrams, &r.fatGrams, &r.carbohydratesGrams, &r.sugarGrams, &r.saltGrams,
		&r.vitaminAMg, &r.vitaminCMg, &r.vitaminDMug, &r.ironMg, &r.calciumMg, &r.magnesiumMg,
		&r.sodiumMg, &r.zincMg,
	}
	if withPreview {
		dest = append(dest, &r.previewData, &r.previewContentType)
	}
	return dest
}

func (r *descriptionRow) toDescription(withPreview bool) (model.ProductDescription, error) {
	desc := model.ProductDescription{
		Info: model.ProductInfo{
			ID:                r.productID,
			Name:              r.name,
			Producer:          stringPtr(r.producer),
			QuantityType:      model.QuantityType(r.quantityType),
			Portion:           r.portion,
			VolumeWeightRatio: floatPtr(r.volumeWeightRatio),
		},
		Nutrients: model.Nutrients{
			KCal:          r.kcal,
			Protein:       weightFromGrams(r.proteinGrams),
			Fat:           weightFromGrams(r.fatGrams),
			Carbohydrates: weightFromGrams(r.carbohydratesGrams),
			Sugar:         weightFromGrams(r.sugarGrams),
			Salt:          weightFromGrams(r.saltGrams),
			VitaminA:      weightFromMilligrams(r.vitaminAMg),
			VitaminC:      weightFromMilligrams(r.vitaminCMg),
			VitaminD:      weightFromMicrograms(r.vitaminDMug),
			Iron:          weightFromMilligrams(r.ironMg),
			Calcium:       weightFromMilligrams(r.calciumMg),
			Magnesium:     weightFromMilligrams(r.magnesiumMg),
			Sodium:        weightFromMilligrams(r.sodiumMg),
			Zinc:          weightFromMilligrams(r.zincMg),
		},
	}

	// A product may legitimately have no image: NULL preview yields nil,
	// never an empty image. Bytes without a content type mean the stored row
	// is malformed.
	if withPreview && r.previewData != nil {
		if !r.previewContentType.Valid {
			return model.ProductDescription{}, &repository.SerializationError{
				Detail: "preview image stored without a content type",
			}
		}
		desc.Preview = &model.ProductImage{
			ContentType: r.previewContentType.String,
			Data:        r.previewData,
		}
	}

	return desc, nil
}

// scanProductDescription maps one catalog-product projection row back into
// the domain aggregate.
func scanProductDescription(s rowScanner, withPreview bool) (model.ProductDescription, error) {
	var row descriptionRow
	if err := s.Scan(row.scanDest(withPreview)...); err != nil {
		return model.ProductDescription{}, err
	}
	return row.toDescription(withPreview)
}

// scanRequestedProduct maps one product-request projection row (surrogate id
// and submission date followed by the description columns) back into the
// domain aggregate.
func scanRequestedProduct(s rowScanner, withPreview bool) (repository.RequestedProduct, error) {
	var (
		id   model.DBId
		date time.Time
		row  descriptionRow
	)
	dest := append([]any{&id, &date}, row.scanDest(withPreview)...)
	if err := s.Scan(dest...); err != nil {
		return repository.RequestedProduct{}, err
	}

	desc, err := row.toDescription(withPreview)
	if err != nil {
		return repository.RequestedProduct{}, err
	}

	return repository.RequestedProduct{
		ID: id,
		Request: model.ProductRequest{
			Description: desc,
			Date:        date,
		},
	}, nil
}
