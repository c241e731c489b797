package catalog

import "strings"

type Category string

const (
	CategoryMedical        Category = "MEDICAL"
	CategoryAdministrative Category = "ADMINISTRATIVE"
	CategoryLegal          Category = "LEGAL"
	CategoryBilling        Category = "BILLING"
	CategoryUnclassified   Category = "UNCLASSIFIED"
)

// precedence is fixed: the first category whose keyword list matches wins.
var precedence = []Category{
	CategoryMedical,
	CategoryAdministrative,
	CategoryLegal,
	CategoryBilling,
}

// Categories lists every category a classifier can return, unclassified
// included, in precedence order.
func Categories() []Category {
	return append(append([]Category{}, precedence...), CategoryUnclassified)
}

// DefaultKeywords are the process-title fragments used by the organisation's
// sectors. They are configuration, not logic: deployments extend them
// through CLASSIFIER_*_KEYWORDS without touching the matching code.
func DefaultKeywords() map[Category][]string {
	return map[Category][]string{
		CategoryMedical: {
			"autorización", "autorizacion", "reintegro", "sur",
			"medicación", "medicacion", "medicamento",
			"presupuesto", "discapacidad",
		},
		CategoryAdministrative: {
			"legajo", "correspondencia", "nota", "despacho", "correo",
		},
		CategoryLegal: {
			"carta documento", "legal", "amparo", "judicial",
		},
		CategoryBilling: {
			"factura", "facturación", "facturacion", "hospital público", "hospital publico",
		},
	}
}

// Classifier maps a free-text process title to a semantic category by
// ordered keyword containment.
type Classifier struct {
	keywords map[Category][]string
}

// NewClassifier builds a classifier from per-category keyword lists. Empty
// or missing lists fall back to the defaults for that category.
func NewClassifier(keywords map[Category][]string) *Classifier {
	merged := DefaultKeywords()
	for category, list := range keywords {
		if len(list) == 0 {
			continue
		}
		lowered := make([]string, 0, len(list))
		for _, kw := range list {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				lowered = append(lowered, kw)
			}
		}
		if len(lowered) > 0 {
			merged[category] = lowered
		}
	}

	return &Classifier{keywords: merged}
}

// Classify returns the first category in precedence order with a keyword
// contained in the lower-cased title, or CategoryUnclassified.
func (c *Classifier) Classify(processTitle string) Category {
	title := strings.ToLower(processTitle)

	for _, category := range precedence {
		for _, keyword := range c.keywords[category] {
			if strings.Contains(title, keyword) {
				return category
			}
		}
	}

	return CategoryUnclassified
}
