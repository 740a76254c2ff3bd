// Package taxonomy holds the static product taxonomy: category keyword rules,
// brand spellings, dispensing forms and ingredient keywords. Tables are plain
// ordered slices so classification is deterministic; the first-enumerated
// entry wins ties.
package taxonomy

import "strings"

// CategoryRule maps one product type to the keywords that indicate it.
type CategoryRule struct {
	ProductType string
	Keywords    []string
}

// CategoryRules is the primary classification table. More specific multi-word
// categories are enumerated before the generic ones they overlap with.
var CategoryRules = []CategoryRule{
	{"Leave-In Conditioner", []string{"leave-in conditioner", "leave in conditioner", "leave-in", "detangler"}},
	{"Mask/Deep Conditioner", []string{"deep conditioner", "deep conditioning", "hair mask", "hair masque", "treatment mask", "repair mask"}},
	{"Shampoo", []string{"shampoo", "clarifying shampoo", "co-wash", "cowash", "hair cleanser"}},
	{"Conditioner", []string{"conditioner", "rinse out conditioner", "hair rinse"}},
	{"Hair Oil", []string{"hair oil", "scalp oil", "growth oil", "hair serum", "scalp serum"}},
	{"Edge Control", []string{"edge control", "edge gel", "edge tamer"}},
	{"Hair Gel", []string{"hair gel", "styling gel", "curling gel", "gelly", "custard"}},
	{"Curl Cream", []string{"curl cream", "curling cream", "curl defining cream", "curl enhancing smoothie", "twist cream"}},
	{"Hair Cream", []string{"hair cream", "styling cream", "moisturizing cream"}},
	{"Hair Butter", []string{"hair butter", "whipped hair butter", "twist butter"}},
	{"Hair Spray", []string{"hair spray", "hairspray", "hair mist", "braid spray", "refresher spray"}},
	{"Mousse", []string{"mousse", "styling foam", "wrap foam"}},
	{"Pomade", []string{"pomade", "hair wax", "styling wax", "loc gel"}},
	{"Face Cleanser", []string{"face wash", "facial cleanser", "face cleanser"}},
	{"Face Serum", []string{"face serum", "facial serum", "vitamin c serum"}},
	{"Face Moisturizer", []string{"face moisturizer", "facial moisturizer", "face cream", "day cream", "night cream"}},
	{"Face Mask", []string{"face mask", "facial mask", "clay mask", "sheet mask"}},
	{"Body Lotion", []string{"body lotion", "body cream", "body moisturizer"}},
	{"Body Butter", []string{"body butter", "whipped body butter"}},
	{"Body Scrub", []string{"body scrub", "sugar scrub", "salt scrub"}},
	{"Bar Soap", []string{"bar soap", "soap bar", "black soap", "cleansing bar"}},
	{"Body Wash", []string{"body wash", "shower gel", "bath gel"}},
	{"Lip Balm", []string{"lip balm", "lip butter", "chapstick"}},
	{"Lip Gloss", []string{"lip gloss", "lip oil", "lip lacquer"}},
	{"Beard Care", []string{"beard oil", "beard balm", "beard butter", "beard wash"}},
	{"Deodorant", []string{"deodorant", "antiperspirant"}},
	{"Toothpaste", []string{"toothpaste", "tooth powder"}},
	{"Perfume", []string{"perfume", "eau de parfum", "cologne", "fragrance oil"}},
	{"Scented Candle", []string{"scented candle", "candle", "wax melt"}},
	{"Vitamins", []string{"multivitamin", "vitamin", "supplement", "gummies", "sea moss", "elderberry"}},
	{"Nail Polish", []string{"nail polish", "nail lacquer"}},
}

// SpecialRules cover product types that are not body/hair goods but still
// show up under the camera. Any hit is reported at a fixed high confidence.
var SpecialRules = []CategoryRule{
	{"Gift Card", []string{"gift card", "giftcard", "gift certificate", "e-gift card"}},
}

// BrandVariant maps one observed spelling to the canonical brand name.
type BrandVariant struct {
	Variant   string
	Canonical string
}

// BrandVariants is the last-resort brand table, checked only when no
// category keyword matched. Variants are lowercase.
var BrandVariants = []BrandVariant{
	{"sheamoisture", "SheaMoisture"},
	{"shea moisture", "SheaMoisture"},
	{"mielle", "Mielle Organics"},
	{"carol's daughter", "Carol's Daughter"},
	{"carols daughter", "Carol's Daughter"},
	{"camille rose", "Camille Rose"},
	{"tgin", "TGIN"},
	{"pattern beauty", "Pattern Beauty"},
	{"kinky-curly", "Kinky-Curly"},
	{"kinky curly", "Kinky-Curly"},
	{"as i am", "As I Am"},
	{"aunt jackie's", "Aunt Jackie's"},
	{"aunt jackies", "Aunt Jackie's"},
	{"the doux", "The Doux"},
	{"uncle funky's daughter", "Uncle Funky's Daughter"},
	{"alikay", "Alikay Naturals"},
	{"oyin", "Oyin Handmade"},
	{"taliah waajid", "Taliah Waajid"},
	{"design essentials", "Design Essentials"},
	{"the honey pot", "The Honey Pot"},
}

// OCRCorrections fixes the misreadings the text recognizer produces most
// often on curved bottle labels. Applied in order, before matching.
var OCRCorrections = []struct {
	Wrong, Right string
}{
	{"sharnpoo", "shampoo"},
	{"condltioner", "conditioner"},
	{"conditloner", "conditioner"},
	{"0il", "oil"},
	{"rnask", "mask"},
	{"rnoisturizer", "moisturizer"},
}

// FormRule maps a dispensing form to the keywords that indicate it.
type FormRule struct {
	Form     string
	Keywords []string
}

// FormRules mirror the data normalizer's form extraction; first match wins.
var FormRules = []FormRule{
	{"oil", []string{"oil", "serum"}},
	{"cream", []string{"cream", "lotion", "butter"}},
	{"gel", []string{"gel", "gelly"}},
	{"spray", []string{"spray", "mist"}},
	{"foam", []string{"foam", "mousse"}},
	{"bar", []string{"bar", "soap bar"}},
	{"balm", []string{"balm"}},
	{"wax", []string{"wax", "pomade"}},
	{"powder", []string{"powder"}},
	{"liquid", []string{"liquid", "shampoo", "conditioner"}},
}

// IngredientKeywords are hero ingredients worth searching on when nothing
// more specific survived classification.
var IngredientKeywords = []string{
	"shea butter",
	"coconut oil",
	"jamaican black castor oil",
	"castor oil",
	"argan oil",
	"jojoba oil",
	"tea tree",
	"aloe vera",
	"black seed oil",
	"rice water",
	"rosemary",
	"hibiscus",
	"mango butter",
	"cocoa butter",
	"marula oil",
	"baobab",
	"honey",
	"avocado",
}

// StopWords are dropped from the token fallback query.
var StopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"this": true, "that": true, "your": true, "our": true, "all": true,
	"new": true, "free": true, "size": true, "pack": true, "net": true,
	"per": true,
}

// mainCategories resolves a product type to its parent catalog category.
var mainCategories = map[string]string{
	"Shampoo":               "Hair Care",
	"Conditioner":           "Hair Care",
	"Leave-In Conditioner":  "Hair Care",
	"Mask/Deep Conditioner": "Hair Care",
	"Hair Oil":              "Hair Care",
	"Hair Gel":              "Hair Care",
	"Edge Control":          "Hair Care",
	"Curl Cream":            "Hair Care",
	"Hair Cream":            "Hair Care",
	"Hair Butter":           "Hair Care",
	"Hair Spray":            "Hair Care",
	"Mousse":                "Hair Care",
	"Pomade":                "Hair Care",
	"Face Cleanser":         "Skin Care",
	"Face Serum":            "Skin Care",
	"Face Moisturizer":      "Skin Care",
	"Face Mask":             "Skin Care",
	"Lip Balm":              "Skin Care",
	"Lip Gloss":             "Skin Care",
	"Nail Polish":           "Skin Care",
	"Body Lotion":           "Body Care",
	"Body Butter":           "Body Care",
	"Body Scrub":            "Body Care",
	"Bar Soap":              "Body Care",
	"Body Wash":             "Body Care",
	"Deodorant":             "Body Care",
	"Toothpaste":            "Body Care",
	"Perfume":               "Body Care",
	"Beard Care":            "Men's Care",
	"Scented Candle":        "Home Care",
	"Vitamins":              "Vitamins & Supplements",
}

// MainCategoryFor returns the parent category for a product type, or "Other"
// when the type is unknown.
func MainCategoryFor(productType string) string {
	if category, ok := mainCategories[productType]; ok {
		return category
	}
	return "Other"
}

// DetectForm returns the dispensing form indicated by the text, or "" when
// none of the form keywords appear. Text is expected lowercase.
func DetectForm(text string) string {
	for _, rule := range FormRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				return rule.Form
			}
		}
	}
	return ""
}

// DetectIngredients returns the known ingredient keywords present in the
// text, in table order. Text is expected lowercase.
func DetectIngredients(text string) []string {
	var found []string
	for _, keyword := range IngredientKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}
