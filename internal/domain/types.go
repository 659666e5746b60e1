package domain

// Nutrition is the per-100g nutrient density of a catalog product. It is the
// ground truth for scaling item macros and never changes once a product is
// created.
type Nutrition struct {
	KcalPer100g    float64 `json:"kcalPer100g"`
	ProteinPer100g float64 `json:"proteinPer100g"`
	FatPer100g     float64 `json:"fatPer100g"`
	CarbsPer100g   float64 `json:"carbsPer100g"`
}

// Unit is a named portion of a product. Grams is the weight of exactly one
// unit (e.g. "slice" -> 30). Units belong to the catalog; users never invent
// them.
type Unit struct {
	Label string  `json:"label"`
	Grams float64 `json:"grams"`
}

// GramsLabel is the unit label used when a quantity is entered directly in
// grams rather than as a count of a catalog unit.
const GramsLabel = "g"

// Quantity is an amount entered either directly in grams or as a count of a
// catalog unit. A nil Unit means the value is grams.
type Quantity struct {
	Value float64
	Unit  *Unit
}

// Grams builds a Quantity expressed directly in grams.
func Grams(value float64) Quantity {
	return Quantity{Value: value}
}

// UnitAmount builds a Quantity expressed as a count of a catalog unit.
func UnitAmount(value float64, unit Unit) Quantity {
	return Quantity{Value: value, Unit: &unit}
}

// Label returns the unit label the quantity was entered in.
func (q Quantity) Label() string {
	if q.Unit == nil {
		return GramsLabel
	}
	return q.Unit.Label
}

// ItemStatus describes how confidently a draft item was matched against the
// food catalog.
type ItemStatus string

const (
	StatusMatched           ItemStatus = "matched"
	StatusNotFound          ItemStatus = "not_found"
	StatusNeedsConfirmation ItemStatus = "needs_confirmation"
)

// DraftItem is one food item in an uncommitted meal draft. QuantityGrams is
// always QuantityUnitValue when UnitMatched is "g", otherwise
// QuantityUnitValue times the grams of one matched unit. The macro fields
// track QuantityGrams immediately after every mutation.
type DraftItem struct {
	ProductID         string     `json:"productId,omitempty"`
	Name              string     `json:"name"`
	Barcode           string     `json:"barcode,omitempty"`
	QuantityGrams     float64    `json:"quantityGrams"`
	QuantityUnitValue float64    `json:"quantityUnitValue"`
	UnitMatched       string     `json:"unitMatched"`
	Kcal              float64    `json:"kcal"`
	Protein           float64    `json:"protein"`
	Fat               float64    `json:"fat"`
	Carbs             float64    `json:"carbs"`
	Confidence        float64    `json:"confidence"`
	Status            ItemStatus `json:"status"`
}

// DraftMeal is a meal being assembled locally before commit. It is never
// persisted; it is discarded on commit or cancel.
type DraftMeal struct {
	ID               string      `json:"id"`
	MealType         MealType    `json:"mealType"`
	Items            []DraftItem `json:"items"`
	RawSource        string      `json:"rawSource,omitempty"`
	ProcessingTimeMs int64       `json:"processingTimeMs,omitempty"`
}

// MealEntry is a committed, server-durable record of one food item consumed
// on one date. The server owns it; any client copy is a replica.
type MealEntry struct {
	ID           string   `json:"id"`
	ProductID    string   `json:"productId"`
	Date         string   `json:"date"`
	MealType     MealType `json:"mealType"`
	AmountGrams  float64  `json:"amountGrams"`
	Kcal         float64  `json:"kcal"`
	Protein      float64  `json:"protein"`
	Fat          float64  `json:"fat"`
	Carbs        float64  `json:"carbs"`
	UnitLabel    string   `json:"unitLabel,omitempty"`
	UnitGrams    float64  `json:"unitGrams,omitempty"`
	UnitQuantity float64  `json:"unitQuantity,omitempty"`
	GIPer100g    *float64 `json:"giPer100g,omitempty"`
}

// NewEntry is the payload for logging one ledger entry.
type NewEntry struct {
	ProductID    string   `json:"productId"`
	Date         string   `json:"date"`
	MealType     MealType `json:"mealType"`
	AmountGrams  float64  `json:"amountGrams"`
	Kcal         float64  `json:"kcal"`
	Protein      float64  `json:"protein"`
	Fat          float64  `json:"fat"`
	Carbs        float64  `json:"carbs"`
	UnitLabel    string   `json:"unitLabel,omitempty"`
	UnitGrams    float64  `json:"unitGrams,omitempty"`
	UnitQuantity float64  `json:"unitQuantity,omitempty"`
}

// EntryPatch is a partial update of a committed entry. Nil fields are left
// unchanged.
type EntryPatch struct {
	AmountGrams *float64  `json:"amountGrams,omitempty"`
	MealType    *MealType `json:"mealType,omitempty"`
}

// DailyLog aggregates the committed entries of one date. Totals equal the sum
// of the entry macros once the cache has settled; during an optimistic
// mutation they may transiently diverge.
type DailyLog struct {
	Date         string      `json:"date"`
	Entries      []MealEntry `json:"entries"`
	TotalKcal    float64     `json:"totalKcal"`
	TotalProtein float64     `json:"totalProtein"`
	TotalFat     float64     `json:"totalFat"`
	TotalCarbs   float64     `json:"totalCarbs"`
}

// FoodProduct is a catalog product as served by the food catalog service.
type FoodProduct struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode,omitempty"`
	Nutrition Nutrition `json:"nutrition"`
	Units     []Unit    `json:"units"`
	GIPer100g *float64  `json:"giPer100g,omitempty"`
}

// UnitByLabel finds a product unit by its label.
func (p *FoodProduct) UnitByLabel(label string) *Unit {
	for i := range p.Units {
		if p.Units[i].Label == label {
			return &p.Units[i]
		}
	}
	return nil
}

// CreateProduct is the payload for creating a catalog product.
type CreateProduct struct {
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode,omitempty"`
	Nutrition Nutrition `json:"nutrition"`
	Units     []Unit    `json:"units,omitempty"`
}

// Profile holds the user attributes needed to derive a daily goal. Fields are
// pointers so an unset attribute is distinguishable from zero.
type Profile struct {
	WeightKg      *float64 `json:"weightKg,omitempty"`
	HeightCm      *float64 `json:"heightCm,omitempty"`
	Age           *int     `json:"age,omitempty"`
	Gender        *string  `json:"gender,omitempty"`
	ActivityLevel *string  `json:"activityLevel,omitempty"`
}

// Goal is a daily calorie and macro target. Calories in kcal, macros in grams.
type Goal struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
	Carbs    int `json:"carbs"`
}
