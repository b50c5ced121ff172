package model

// Nutrients holds the nutrient facts of a product, expressed per 100 g
// (or per the 100 ml weight equivalent for volume-based products).
// Every field except KCal is optional; a nil pointer means the value is
// unknown and is stored as SQL NULL.
type Nutrients struct {
	KCal          float64
	Protein       *Weight
	Fat           *Weight
	Carbohydrates *Weight
	Sugar         *Weight
	Salt          *Weight
	VitaminA      *Weight
	VitaminC      *Weight
	VitaminD      *Weight
	Iron          *Weight
	Calcium       *Weight
	Magnesium     *Weight
	Sodium        *Weight
	Zinc          *Weight
}
