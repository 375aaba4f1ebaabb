package scoring

import "strings"

// Rule names the normalization applied to a criterion's raw attribute.
type Rule int

const (
	// RuleScale1to5 maps a 1-5 rating to (x-1)/4.
	RuleScale1to5 Rule = iota
	// RuleScale0to5 maps a 0-5 rating to x/5.
	RuleScale0to5
	// RulePercent maps a 0-100 percentage to x/100.
	RulePercent
	// RuleBinary clips a 0/1 flag to [0,1]; blank counts as 0.
	RuleBinary
	// RuleBinaryOr combines two 0/1 flags with logical OR.
	RuleBinaryOr
	// RuleYesNo maps Sí/No style text to 1/0.
	RuleYesNo
	// RuleCountCost inverts a count where fewer is better via min-max:
	// (max-x)/(max-min), 1.0 when the column has no spread.
	RuleCountCost
)

// Criterion binds a catalog code to its raw source column(s) and
// normalization rule. The catalog is the closed domain vocabulary: criterion
// codes in the weight sheet resolve against it (or against the cost-special
// codes) once, during validation, never per pair.
type Criterion struct {
	Code    string
	Columns []string
	Rule    Rule
}

// Catalog lists every recognized quality/service criterion.
var Catalog = []Criterion{
	{Code: "Acceso_Transporte_Publico", Columns: []string{"Acceso_Transporte_Publico (1-5)"}, Rule: RuleScale1to5},
	{Code: "MisionVisionProposito_AlineacionDocencia", Columns: []string{"MisionVisionProposito_AlineacionDocencia (1-5)"}, Rule: RuleScale1to5},
	{Code: "Evalua_Estudiantes_Profesores", Columns: []string{"Evalua_Estudiantes_Profesores (0-5)"}, Rule: RuleScale0to5},
	{Code: "Vinculacion_Planta_Especialistas_%", Columns: []string{"Vinculacion_Planta_Especialistas_%"}, Rule: RulePercent},
	{Code: "Servicios_UCI_UCIN", Columns: []string{"Servicios_UCI (0/1)", "Servicios_UCIN (0/1)"}, Rule: RuleBinaryOr},
	{Code: "Servicios_Pediatricos", Columns: []string{"Servicios_Pediatricos (0/1)"}, Rule: RuleBinary},
	{Code: "Servicios_Obstetricia", Columns: []string{"Servicios_Obstetricia (0/1)"}, Rule: RuleBinary},
	{Code: "Nro_Universidades_Comparten", Columns: []string{"Nro_Universidades_Comparten"}, Rule: RuleCountCost},
	{Code: "Es_Hospital_Universitario", Columns: []string{"Es_Hospital_Universitario"}, Rule: RuleBinary},
	{Code: "Escenario_Avalado_Practicas", Columns: []string{"Escenario_Avalado_Practicas"}, Rule: RuleBinary},
	{Code: "Admiten_Docentes_Externos", Columns: []string{"Admiten_Docentes_Externos (Sí/No)"}, Rule: RuleYesNo},
	{Code: "Areas_Bienestar", Columns: []string{"Areas_Bienestar (0/1)"}, Rule: RuleBinary},
	{Code: "Areas_Academicas", Columns: []string{"Areas_Academicas (0/1)"}, Rule: RuleBinary},
}

// Cost-special criterion codes: their scores come from the cost resolver,
// not from institution attributes.
const (
	CodeContribution = "%_Contraprestacion_Matricula"
	CodePPECharge    = "Cobro_EPP"
	CodePPERequired  = "EPP_Exigidos"
)

// IsCostSpecial reports whether a canonical criterion code is resolved by
// the cost resolver.
func IsCostSpecial(code string) bool {
	return code == CodeContribution || code == CodePPECharge || code == CodePPERequired
}

// CanonicalCode normalizes a criterion code from the weight catalog for
// matching: it strips a trailing parenthesized unit annotation (so
// "Cobro_EPP (No cobra/Cobra a la Universidad)" matches "Cobro_EPP") and
// collapses internal whitespace.
func CanonicalCode(raw string) string {
	code := strings.TrimSpace(raw)
	if strings.HasSuffix(code, ")") {
		if open := strings.LastIndex(code, "("); open >= 0 {
			code = strings.TrimSpace(code[:open])
		}
	}
	return strings.Join(strings.Fields(code), " ")
}
