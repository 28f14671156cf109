package finance

import (
	"fmt"
	"strings"
)

// Scalar is a single profile field as received: a number, a numeric-looking
// string, or anything else the caller sent. It remembers whether the key was
// present at all, so first-match field resolution can tell a null value apart
// from an absent one.
type Scalar struct {
	value   any
	present bool
}

// Present reports whether the field key existed in the decoded section.
func (s Scalar) Present() bool { return s.present }

// Float coerces the field value to a finite float64. Absent fields are 0.
func (s Scalar) Float() float64 {
	if !s.present {
		return 0
	}
	return ToFloat(s.value)
}

// Text returns the field value as a trimmed string, or "" when the field is
// absent or not string-like. Used for tag fields such as the future
// commitments frequency.
func (s Scalar) Text() string {
	if !s.present || s.value == nil {
		return ""
	}
	if str, ok := s.value.(string); ok {
		return strings.TrimSpace(str)
	}
	return strings.TrimSpace(fmt.Sprint(s.value))
}

// EconomicSection holds the recognized fields of the "economico" section.
// Unrecognized keys in the incoming document are dropped on construction.
type EconomicSection struct {
	IngresosFijos         Scalar
	IngresosVariables     Scalar
	PrestacionesFijas     Scalar
	PrestacionesVariables Scalar
	EgresosFijos          Scalar
	EgresosVariables      Scalar

	CreditoMensual   Scalar
	PagoMensualDeuda Scalar // legacy name for CreditoMensual
	CreditoAnual     Scalar

	FuturosCompromisosAnual      Scalar
	FuturosCompromisosTotalAnual Scalar // legacy name for the annual total
	FuturosCompromisosMensual    Scalar
	FuturosCompromisos           Scalar
	FuturosCompromisosFrecuencia Scalar

	FondoEmergencia Scalar
}

// PatrimonySection holds the recognized fields of the "patrimonial" section.
type PatrimonySection struct {
	ActivosInmobiliarios  Scalar
	ActivosDesgasteRapido Scalar
	Inversiones           Scalar
	SociedadesYAcciones   Scalar
	FondoEmergencia       Scalar

	SeguroVida                  Scalar
	ValorSeguroAuto             Scalar
	SegurosAccidentesPersonales Scalar
	SeguroInmuebles             Scalar
	GastosFuneral               Scalar
	PlanRetiroSA                Scalar
	PlanAhorroSA                Scalar
	PersonaClaveSA              Scalar
	IntersociosSA               Scalar
	SumaAseguradaGMM            Scalar
}

// Profile is the decoded financial-profile document. Sections the document
// does not carry stay zero-valued, which computes the same as all-zero input.
type Profile struct {
	Economico   EconomicSection
	Patrimonial PatrimonySection
}

// Flags are the anti-double-counting toggles. Absent flags are false.
type Flags struct {
	CreditoIncluidoEnEgresos            bool
	FuturosCompromisosIncluidoEnEgresos bool
}

func scalarAt(m map[string]any, key string) Scalar {
	v, ok := m[key]
	return Scalar{value: v, present: ok}
}

func sectionMap(m map[string]any, key string) map[string]any {
	sub, _ := m[key].(map[string]any)
	return sub
}

// ProfileFrom builds a typed Profile from a decoded document mapping,
// keeping only recognized fields.
func ProfileFrom(m map[string]any) Profile {
	eco := sectionMap(m, "economico")
	pat := sectionMap(m, "patrimonial")

	return Profile{
		Economico: EconomicSection{
			IngresosFijos:         scalarAt(eco, "ingresos_fijos"),
			IngresosVariables:     scalarAt(eco, "ingresos_variables"),
			PrestacionesFijas:     scalarAt(eco, "prestaciones_fijas"),
			PrestacionesVariables: scalarAt(eco, "prestaciones_variables"),
			EgresosFijos:          scalarAt(eco, "egresos_fijos"),
			EgresosVariables:      scalarAt(eco, "egresos_variables"),

			CreditoMensual:   scalarAt(eco, "credito_mensual"),
			PagoMensualDeuda: scalarAt(eco, "pago_mensual_deuda"),
			CreditoAnual:     scalarAt(eco, "credito_anual"),

			FuturosCompromisosAnual:      scalarAt(eco, "futuros_compromisos_anual"),
			FuturosCompromisosTotalAnual: scalarAt(eco, "futuros_compromisos_total_anual"),
			FuturosCompromisosMensual:    scalarAt(eco, "futuros_compromisos_mensual"),
			FuturosCompromisos:           scalarAt(eco, "futuros_compromisos"),
			FuturosCompromisosFrecuencia: scalarAt(eco, "futuros_compromisos_frecuencia"),

			FondoEmergencia: scalarAt(eco, "fondo_emergencia"),
		},
		Patrimonial: PatrimonySection{
			ActivosInmobiliarios:  scalarAt(pat, "activos_inmobiliarios"),
			ActivosDesgasteRapido: scalarAt(pat, "activos_desgaste_rapido"),
			Inversiones:           scalarAt(pat, "inversiones"),
			SociedadesYAcciones:   scalarAt(pat, "sociedades_y_acciones"),
			FondoEmergencia:       scalarAt(pat, "fondo_emergencia"),

			SeguroVida:                  scalarAt(pat, "seguro_vida"),
			ValorSeguroAuto:             scalarAt(pat, "valor_seguro_auto"),
			SegurosAccidentesPersonales: scalarAt(pat, "seguros_accidentes_personales"),
			SeguroInmuebles:             scalarAt(pat, "seguro_inmuebles"),
			GastosFuneral:               scalarAt(pat, "gastos_funeral"),
			PlanRetiroSA:                scalarAt(pat, "plan_retiro_sa"),
			PlanAhorroSA:                scalarAt(pat, "plan_ahorro_sa"),
			PersonaClaveSA:              scalarAt(pat, "persona_clave_sa"),
			IntersociosSA:               scalarAt(pat, "intersocios_sa"),
			SumaAseguradaGMM:            scalarAt(pat, "suma_asegurada_gmm"),
		},
	}
}

// FlagsFrom builds Flags from the decoded flags mapping. Unrecognized keys
// are ignored; values are interpreted as boolean-like.
func FlagsFrom(m map[string]any) Flags {
	return Flags{
		CreditoIncluidoEnEgresos:            truthy(m["credito_incluido_en_egresos"]),
		FuturosCompromisosIncluidoEnEgresos: truthy(m["futuros_compromisos_incluido_en_egresos"]),
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes", "si", "sí":
			return true
		}
		return false
	default:
		return ToFloat(v) != 0
	}
}

// Metrics are the raw (unrounded) derived quantities. The JSON form is the
// wire shape of the "raw" part of a compute response.
type Metrics struct {
	IngresosFijos         float64 `json:"ingresos_fijos"`
	IngresosVariables     float64 `json:"ingresos_variables"`
	PrestacionesFijas     float64 `json:"prestaciones_fijas"`
	PrestacionesVariables float64 `json:"prestaciones_variables"`
	EgresosFijos          float64 `json:"egresos_fijos"`
	EgresosVariables      float64 `json:"egresos_variables"`

	IngresosTotalesMensuales     float64 `json:"ingresos_totales_mensuales"`
	PrestacionesTotalesMensuales float64 `json:"prestaciones_totales_mensuales"`
	IngresosGlobalesMensuales    float64 `json:"ingresos_globales_mensuales"`
	EgresosGlobalesMensuales     float64 `json:"egresos_globales_mensuales"`

	CreditoMensual               float64 `json:"credito_mensual"`
	CreditoAnual                 float64 `json:"credito_anual"`
	FuturosCompromisosTotalAnual float64 `json:"futuros_compromisos_total_anual"`

	BalanceMensualOperativo float64 `json:"balance_mensual_operativo"`
	BalanceTotalMensual     float64 `json:"balance_total_mensual"`
	BalanceTotalAnual       float64 `json:"balance_total_anual"`
	BalanceGlobal           float64 `json:"balance_global"`

	FondoEmergencia float64 `json:"fondo_emergencia"`
	PorcEmergencia  float64 `json:"porc_emergencia"`
	MesesCubiertos  float64 `json:"meses_cubiertos"`

	ActivosInmobiliarios  float64 `json:"activos_inmobiliarios"`
	ActivosDesgasteRapido float64 `json:"activos_desgaste_rapido"`
	Inversiones           float64 `json:"inversiones"`
	SociedadesYAcciones   float64 `json:"sociedades_y_acciones"`

	PatrimonioTotal             float64 `json:"patrimonio_total"`
	ProteccionTotal             float64 `json:"proteccion_total"`
	PorcCobertura               float64 `json:"porc_cobertura"`
	RiesgoPatrimonialPorcentaje float64 `json:"riesgo_patrimonial_porcentaje"`
	NivelRiesgoPatrimonial      string  `json:"nivel_riesgo_patrimonial"`
}
