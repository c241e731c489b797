package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(nil)

	cases := []struct {
		title string
		want  Category
	}{
		{"Pedido de Autorización de Medicamentos", CategoryMedical},
		{"Factura Hospital Público", CategoryBilling},
		{"Carta Documento Judicial", CategoryLegal},
		{"Legajo de Empleado", CategoryAdministrative},
		{"Mantenimiento de Red", CategoryUnclassified},
		{"", CategoryUnclassified},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			require.Equal(t, tc.want, classifier.Classify(tc.title))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(nil)

	// "Reintegro de Factura" matches both MEDICAL (reintegro) and BILLING
	// (factura); the earlier category in precedence order wins.
	require.Equal(t, CategoryMedical, classifier.Classify("Reintegro de Factura"))

	// matching is case-insensitive
	require.Equal(t, CategoryLegal, classifier.Classify("CARTA DOCUMENTO urgente"))
}

func TestClassifyCustomKeywords(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(map[Category][]string{
		CategoryLegal: {"sumario"},
	})

	// the overridden list replaces the default one for that category only
	require.Equal(t, CategoryLegal, classifier.Classify("Sumario Interno 2026"))
	require.Equal(t, CategoryUnclassified, classifier.Classify("Amparo de Salud"))
	require.Equal(t, CategoryMedical, classifier.Classify("Autorización"))
}
