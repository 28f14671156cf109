package finance

import (
	"fmt"
	"math"
	"strings"
)

// Weights crediting only partial liquidity of a policy against patrimony:
// a vehicle policy counts at 60% of its insured value, major medical at 2%
// of the insured sum.
const (
	autoCoverageWeight = 0.60
	gmmCoverageWeight  = 0.02
)

// Risk tier thresholds on the (un-clamped) coverage percentage.
const (
	coverageHighRiskMax     = 45.0
	coverageModerateRiskMax = 80.0
)

// Compute derives all financial metrics from a profile. It is pure and
// total: malformed or absent fields coerce to 0 instead of failing. The
// returned notes describe, in order, every derivation or override that
// changed behavior; they are diagnostic only.
func Compute(p Profile, f Flags) (Metrics, []string) {
	notes := []string{}
	eco := p.Economico
	pat := p.Patrimonial

	ingresosFijos := eco.IngresosFijos.Float()
	ingresosVariables := eco.IngresosVariables.Float()
	prestacionesFijas := eco.PrestacionesFijas.Float()
	prestacionesVariables := eco.PrestacionesVariables.Float()
	egresosFijos := eco.EgresosFijos.Float()
	egresosVariables := eco.EgresosVariables.Float()

	// Credit: monthly figure under its current or legacy name, derived from
	// the annual figure when only that was reported.
	creditoMensual := firstPresent(eco.CreditoMensual, eco.PagoMensualDeuda).Float()
	if creditoMensual == 0 {
		if anual := eco.CreditoAnual.Float(); anual != 0 {
			creditoMensual = anual / 12.0
			notes = append(notes, "credito_mensual no venía; se derivó de credito_anual/12.")
		}
	}
	if f.CreditoIncluidoEnEgresos {
		if creditoMensual != 0 {
			notes = append(notes, "credito_incluido_en_egresos=true: se forzó credito_mensual=0 para evitar doble conteo.")
		}
		creditoMensual = 0
	}
	creditoAnual := creditoMensual * 12.0

	futurosTotalAnual, futurosNote := resolveFuturos(eco)
	if futurosNote != "" {
		notes = append(notes, futurosNote)
	}
	if f.FuturosCompromisosIncluidoEnEgresos {
		if futurosTotalAnual != 0 {
			notes = append(notes, "futuros_compromisos_incluido_en_egresos=true: se forzó futuros_compromisos_total_anual=0 para evitar doble conteo.")
		}
		futurosTotalAnual = 0
	}

	ingresosTotalesMensuales := ingresosFijos + ingresosVariables
	prestacionesTotalesMensuales := prestacionesFijas + prestacionesVariables
	ingresosGlobalesMensuales := ingresosTotalesMensuales + prestacionesTotalesMensuales
	egresosGlobalesMensuales := egresosVariables + egresosFijos

	// Emergency fund lives in the patrimonial section; older profiles carry
	// it under economico.
	fondoEmergencia := pat.FondoEmergencia.Float()
	if fondoEmergencia == 0 {
		fondoEmergencia = eco.FondoEmergencia.Float()
	}

	var porcEmergencia, mesesCubiertos float64
	if ingresosTotalesMensuales > 0 {
		porcEmergencia = fondoEmergencia / ingresosTotalesMensuales * 100.0
		mesesCubiertos = fondoEmergencia / ingresosTotalesMensuales
	}

	balanceMensualOperativo := ingresosGlobalesMensuales - egresosGlobalesMensuales
	balanceTotalMensual := balanceMensualOperativo - creditoMensual
	balanceTotalAnual := balanceTotalMensual * 12.0
	balanceGlobal := balanceTotalAnual - futurosTotalAnual

	activosInmobiliarios := pat.ActivosInmobiliarios.Float()
	activosDesgasteRapido := pat.ActivosDesgasteRapido.Float()
	inversiones := pat.Inversiones.Float()
	sociedadesYAcciones := pat.SociedadesYAcciones.Float()

	patrimonioTotal := activosInmobiliarios +
		activosDesgasteRapido +
		inversiones +
		sociedadesYAcciones +
		fondoEmergencia

	proteccionTotal := pat.SeguroVida.Float() +
		autoCoverageWeight*pat.ValorSeguroAuto.Float() +
		pat.SegurosAccidentesPersonales.Float() +
		pat.SeguroInmuebles.Float() +
		pat.GastosFuneral.Float() +
		pat.PlanRetiroSA.Float() +
		pat.PlanAhorroSA.Float() +
		pat.PersonaClaveSA.Float() +
		pat.IntersociosSA.Float() +
		gmmCoverageWeight*pat.SumaAseguradaGMM.Float()

	var porcCobertura float64
	if patrimonioTotal > 0 {
		porcCobertura = proteccionTotal / patrimonioTotal * 100.0
	}

	riesgoPorcentaje := clamp(100.0-porcCobertura, 0, 100)

	var nivelRiesgo string
	switch {
	case porcCobertura <= coverageHighRiskMax:
		nivelRiesgo = "Alto"
	case porcCobertura <= coverageModerateRiskMax:
		nivelRiesgo = "Moderado"
	default:
		nivelRiesgo = "Bajo"
	}

	return Metrics{
		IngresosFijos:         ingresosFijos,
		IngresosVariables:     ingresosVariables,
		PrestacionesFijas:     prestacionesFijas,
		PrestacionesVariables: prestacionesVariables,
		EgresosFijos:          egresosFijos,
		EgresosVariables:      egresosVariables,

		IngresosTotalesMensuales:     ingresosTotalesMensuales,
		PrestacionesTotalesMensuales: prestacionesTotalesMensuales,
		IngresosGlobalesMensuales:    ingresosGlobalesMensuales,
		EgresosGlobalesMensuales:     egresosGlobalesMensuales,

		CreditoMensual:               creditoMensual,
		CreditoAnual:                 creditoAnual,
		FuturosCompromisosTotalAnual: futurosTotalAnual,

		BalanceMensualOperativo: balanceMensualOperativo,
		BalanceTotalMensual:     balanceTotalMensual,
		BalanceTotalAnual:       balanceTotalAnual,
		BalanceGlobal:           balanceGlobal,

		FondoEmergencia: fondoEmergencia,
		PorcEmergencia:  porcEmergencia,
		MesesCubiertos:  mesesCubiertos,

		ActivosInmobiliarios:  activosInmobiliarios,
		ActivosDesgasteRapido: activosDesgasteRapido,
		Inversiones:           inversiones,
		SociedadesYAcciones:   sociedadesYAcciones,

		PatrimonioTotal:             patrimonioTotal,
		ProteccionTotal:             proteccionTotal,
		PorcCobertura:               porcCobertura,
		RiesgoPatrimonialPorcentaje: riesgoPorcentaje,
		NivelRiesgoPatrimonial:      nivelRiesgo,
	}, notes
}

// ComputeFinancials runs the full pipeline tail: derivation plus display
// formatting. This is the entry point the transport consumes.
func ComputeFinancials(p Profile, f Flags) (Metrics, Formatted, []string) {
	raw, notes := Compute(p, f)
	return raw, Format(raw), notes
}

// resolveFuturos normalizes future commitments to one annual figure.
// Priority: explicit annual (current name, then legacy), explicit monthly
// times 12, then a generic value qualified by a frequency tag. A value that
// coerces to 0 does not resolve a step.
func resolveFuturos(eco EconomicSection) (total float64, note string) {
	if total = firstPresent(eco.FuturosCompromisosAnual, eco.FuturosCompromisosTotalAnual).Float(); total != 0 {
		return total, ""
	}
	if mensual := eco.FuturosCompromisosMensual.Float(); mensual != 0 {
		return mensual * 12.0, ""
	}
	valor := eco.FuturosCompromisos.Float()
	if valor == 0 {
		return 0, ""
	}
	tag := strings.ToLower(eco.FuturosCompromisosFrecuencia.Text())
	switch tag {
	case "anual", "annual", "año", "anio", "yearly":
		return valor, ""
	case "", "mensual", "monthly", "mes":
		return valor * 12.0, ""
	default:
		return valor * 12.0, fmt.Sprintf("frecuencia de futuros_compromisos %q no reconocida; se asumió mensual.", tag)
	}
}

func firstPresent(ss ...Scalar) Scalar {
	for _, s := range ss {
		if s.Present() {
			return s
		}
	}
	return Scalar{}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
