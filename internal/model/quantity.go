package model

// QuantityType tells whether a product portion is measured by weight or by volume.
type QuantityType string

const (
	// QuantityWeight marks a product whose portion is a weight in grams.
	QuantityWeight QuantityType = "weight"

	// QuantityVolume marks a product whose portion is a volume in litres.
	QuantityVolume QuantityType = "volume"
)

// Weight is a mass stored canonically in grams. Values are only produced
// through the constructor functions so the internal representation is
// always the base unit.
type Weight struct {
	grams float64
}

// WeightFromGrams creates a Weight from a value in grams.
func WeightFromGrams(g float64) Weight {
	return Weight{grams: g}
}

// WeightFromMilligrams creates a Weight from a value in milligrams.
func WeightFromMilligrams(mg float64) Weight {
	return Weight{grams: mg * 1e-3}
}

// WeightFromMicrograms creates a Weight from a value in micrograms.
func WeightFromMicrograms(ug float64) Weight {
	return Weight{grams: ug * 1e-6}
}

// Grams returns the weight in grams.
func (w Weight) Grams() float64 {
	return w.grams
}

// Milligrams returns the weight in milligrams.
func (w Weight) Milligrams() float64 {
	return w.grams * 1e3
}

// Micrograms returns the weight in micrograms.
func (w Weight) Micrograms() float64 {
	return w.grams * 1e6
}

// Volume is stored canonically in litres, constructed the same way as Weight.
type Volume struct {
	litres float64
}

// VolumeFromLitres creates a Volume from a value in litres.
func VolumeFromLitres(l float64) Volume {
	return Volume{litres: l}
}

// VolumeFromMillilitres creates a Volume from a value in millilitres.
func VolumeFromMillilitres(ml float64) Volume {
	return Volume{litres: ml * 1e-3}
}

// Litres returns the volume in litres.
func (v Volume) Litres() float64 {
	return v.litres
}

// Millilitres returns the volume in millilitres.
func (v Volume) Millilitres() float64 {
	return v.litres * 1e3
}
