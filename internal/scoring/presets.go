package scoring

import (
	"fmt"
	"strings"
)

// Variant names a built-in threshold table.
type Variant string

const (
	// VariantA is the tri-state (Sí/No) guide: unfit <60, conditional 60–90, fit ≥90.
	VariantA Variant = "a"
	// VariantB is the checkbox guide: unfit <50, conditional 50–80, fit ≥80.
	VariantB Variant = "b"
)

// presetBands is the registry of built-in bandings.
var presetBands = map[Variant][]Band{
	VariantA: {
		{LowerBound: 0, Tier: Unfit},
		{LowerBound: 60, Tier: Conditional},
		{LowerBound: 90, Tier: Fit},
	},
	VariantB: {
		{LowerBound: 0, Tier: Unfit},
		{LowerBound: 50, Tier: Conditional},
		{LowerBound: 80, Tier: Fit},
	},
}

// DefaultCopy returns the guidance text shown for each tier.
func DefaultCopy() map[Tier]TierCopy {
	return map[Tier]TierCopy{
		Unfit: {
			Label:   "No apto",
			Heading: "Riesgo alto. Detén altas/pagos y corrige de inmediato.",
			Detail: "Riesgo de no deducibilidad/no acreditamiento y contingencias laborales/fiscales. " +
				"Exige correcciones antes de contratar o continuar.",
		},
		Conditional: {
			Label:   "Condicionado",
			Heading: "Avance parcial. Contrata o paga solo contra plan de cierre con fechas.",
			Detail: "Asegura evidencias mensuales (SAT/IMSS/INFONAVIT/nómina), contrato con cláusulas REPSE y trazabilidad. " +
				"Documenta todo.",
		},
		Fit: {
			Label:   "Apto",
			Heading: "Proveedor con cumplimiento sólido.",
			Detail: "Mantén auditorías periódicas y el paquete de evidencias para conservar deducibilidad " +
				"y minimizar riesgos.",
		},
	}
}

// ParseVariant normalizes a variant name ("a", "A", "b", ...).
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presetBands[v]; !ok {
		return "", fmt.Errorf("invalid checklist variant %q: must be one of: a, b", s)
	}
	return v, nil
}

// PresetBands returns a copy of the bands for v.
func PresetBands(v Variant) ([]Band, error) {
	bands, ok := presetBands[v]
	if !ok {
		return nil, fmt.Errorf("no threshold table defined for variant %q", v)
	}
	out := make([]Band, len(bands))
	copy(out, bands)
	return out, nil
}

// Preset builds the Table for a built-in variant with the default copy.
func Preset(v Variant) (*Table, error) {
	bands, err := PresetBands(v)
	if err != nil {
		return nil, err
	}
	return NewTable(bands, DefaultCopy())
}

// MustPreset is Preset for the built-in variants; it panics on error.
func MustPreset(v Variant) *Table {
	t, err := Preset(v)
	if err != nil {
		panic(err)
	}
	return t
}
