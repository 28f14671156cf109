package finance

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

// FuturosCompromisosDesc is the fixed narrative for the future commitments
// row of the display structure.
const FuturosCompromisosDesc = "Compromisos futuros anualizados según lo declarado"

// esMoney renders monetary amounts the ES way: dot for thousands, comma for
// decimals, always two fractional digits.
var esMoney = money.NewFormatter(2, ",", ".", "", "1")

// Formatted is the locale-formatted display structure assembled from raw
// metrics. Its JSON form is the "formatted" part of a compute response.
type Formatted struct {
	OperacionFinal               OperacionFinal    `json:"operacion_final"`
	BalanceTotal                 string            `json:"balance_total"`
	BalanceGlobal                string            `json:"balance_global"`
	FondoDeEmergencia            string            `json:"fondo_de_emergencia"`
	OperacionesPerfilPatrimonial PerfilPatrimonial `json:"operaciones_perfil_patrimonial"`
}

// OperacionFinal summarizes the monthly income/expense operation.
type OperacionFinal struct {
	IngresosMensualesFijos     string `json:"ingresos_mensuales_fijos"`
	IngresosMensualesVariables string `json:"ingresos_mensuales_variables"`
	IngresosTotales            string `json:"ingresos_totales"`
	PrestacionesTotales        string `json:"prestaciones_totales"`
	IngresosGlobales           string `json:"ingresos_globales"`
	EgresosGlobales            string `json:"egresos_globales"`
	FuturosCompromisos         string `json:"futuros_compromisos"`
	FuturosCompromisosTotal    string `json:"futuros_compromisos_total"`
	CreditoMensual             string `json:"credito_mensual"`
	CreditoAnual               string `json:"credito_anual"`
}

// PerfilPatrimonial summarizes patrimony, protection and risk.
type PerfilPatrimonial struct {
	PatrimonioTotal             string  `json:"patrimonio_total"`
	ProteccionTotal             string  `json:"proteccion_total"`
	NivelRiesgoPatrimonial      string  `json:"nivel_riesgo_patrimonial"`
	RiesgoPatrimonialPorcentaje float64 `json:"riesgo_patrimonial_porcentaje"`
	ActivosDesgasteRapido       string  `json:"activos_desgaste_rapido"`
	ActivosInmobiliarios        string  `json:"activos_inmobiliarios"`
	Inversiones                 string  `json:"inversiones"`
	SociedadesYAcciones         string  `json:"sociedades_y_acciones"`
}

// Format renders raw metrics into the display structure. Total: inputs are
// already finite floats, so there is no failure mode.
func Format(m Metrics) Formatted {
	return Formatted{
		OperacionFinal: OperacionFinal{
			IngresosMensualesFijos:     FormatMoney(m.IngresosFijos),
			IngresosMensualesVariables: FormatMoney(m.IngresosVariables),
			IngresosTotales:            FormatMoney(m.IngresosTotalesMensuales),
			PrestacionesTotales:        FormatMoney(m.PrestacionesTotalesMensuales),
			IngresosGlobales:           FormatMoney(m.IngresosGlobalesMensuales),
			EgresosGlobales:            FormatMoney(m.EgresosGlobalesMensuales),
			FuturosCompromisos:         FuturosCompromisosDesc,
			FuturosCompromisosTotal:    FormatMoney(m.FuturosCompromisosTotalAnual) + " (anual)",
			CreditoMensual:             FormatMoney(m.CreditoMensual),
			CreditoAnual:               FormatMoney(m.CreditoAnual),
		},
		BalanceTotal:      FormatMoney(m.BalanceTotalMensual),
		BalanceGlobal:     FormatMoney(m.BalanceGlobal),
		FondoDeEmergencia: FormatPercent(m.PorcEmergencia) + " (" + FormatNumber(m.MesesCubiertos, 2) + " meses de ingresos equivalentes)",
		OperacionesPerfilPatrimonial: PerfilPatrimonial{
			PatrimonioTotal:             FormatMoney(m.PatrimonioTotal),
			ProteccionTotal:             FormatMoney(m.ProteccionTotal),
			NivelRiesgoPatrimonial:      m.NivelRiesgoPatrimonial,
			RiesgoPatrimonialPorcentaje: math.Round(m.RiesgoPatrimonialPorcentaje*100) / 100,
			ActivosDesgasteRapido:       FormatMoney(m.ActivosDesgasteRapido),
			ActivosInmobiliarios:        FormatMoney(m.ActivosInmobiliarios),
			Inversiones:                 FormatMoney(m.Inversiones),
			SociedadesYAcciones:         FormatMoney(m.SociedadesYAcciones),
		},
	}
}

// FormatMoney renders a monetary amount: "1234567.89" -> "1.234.567,89",
// sign preserved for negatives.
func FormatMoney(v float64) string {
	v = finite(v)
	cents := int64(math.Round(v * 100))
	return esMoney.Format(cents)
}

// FormatPercent renders a percentage with a decimal comma and two digits.
func FormatPercent(v float64) string {
	return FormatNumber(v, 2) + "%"
}

// FormatNumber renders a plain number with a decimal comma and the given
// digit count. No thousands grouping.
func FormatNumber(v float64, decimals int) string {
	s := strconv.FormatFloat(finite(v), 'f', decimals, 64)
	return strings.Replace(s, ".", ",", 1)
}
