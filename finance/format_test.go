package finance

import "testing"

func TestFormatMoney(t *testing.T) {
	testCases := []struct {
		name  string
		value float64
		want  string
	}{
		{"grouped with decimals", 1234567.89, "1.234.567,89"},
		{"negative", -5, "-5,00"},
		{"zero", 0, "0,00"},
		{"thousands", 1000, "1.000,00"},
		{"no grouping needed", 999.9, "999,90"},
		{"rounds to cents", 10.005, "10,01"},
		{"negative grouped", -1234.5, "-1.234,50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatMoney(tc.value); got != tc.want {
				t.Errorf("FormatMoney(%v) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(45.5); got != "45,50%" {
		t.Errorf("FormatPercent(45.5) = %q, want 45,50%%", got)
	}
	if got := FormatPercent(0); got != "0,00%" {
		t.Errorf("FormatPercent(0) = %q, want 0,00%%", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(3.14159, 2); got != "3,14" {
		t.Errorf("FormatNumber(3.14159, 2) = %q, want 3,14", got)
	}
	if got := FormatNumber(12, 0); got != "12" {
		t.Errorf("FormatNumber(12, 0) = %q, want 12", got)
	}
}

func TestFormatDisplayStructure(t *testing.T) {
	raw, _ := Compute(profileOf(
		map[string]any{"ingresos_fijos": 2000, "egresos_fijos": 500, "futuros_compromisos_anual": 1200},
		map[string]any{"fondo_emergencia": 6000, "inversiones": 4000},
	), Flags{})

	f := Format(raw)

	if f.OperacionFinal.IngresosGlobales != "2.000,00" {
		t.Errorf("ingresos_globales = %q, want 2.000,00", f.OperacionFinal.IngresosGlobales)
	}
	if f.OperacionFinal.FuturosCompromisos != FuturosCompromisosDesc {
		t.Errorf("futuros_compromisos narrative = %q", f.OperacionFinal.FuturosCompromisos)
	}
	if f.OperacionFinal.FuturosCompromisosTotal != "1.200,00 (anual)" {
		t.Errorf("futuros_compromisos_total = %q, want annual suffix", f.OperacionFinal.FuturosCompromisosTotal)
	}
	if f.BalanceTotal != "1.500,00" {
		t.Errorf("balance_total = %q, want 1.500,00", f.BalanceTotal)
	}
	// (2000-500)*12 - 1200 = 16800
	if f.BalanceGlobal != "16.800,00" {
		t.Errorf("balance_global = %q, want 16.800,00", f.BalanceGlobal)
	}
	// 6000/2000 = 300% and 3 months
	if f.FondoDeEmergencia != "300,00% (3,00 meses de ingresos equivalentes)" {
		t.Errorf("fondo_de_emergencia = %q", f.FondoDeEmergencia)
	}
	if f.OperacionesPerfilPatrimonial.PatrimonioTotal != "10.000,00" {
		t.Errorf("patrimonio_total = %q, want 10.000,00", f.OperacionesPerfilPatrimonial.PatrimonioTotal)
	}
	if f.OperacionesPerfilPatrimonial.NivelRiesgoPatrimonial != "Alto" {
		t.Errorf("nivel_riesgo_patrimonial = %q, want Alto", f.OperacionesPerfilPatrimonial.NivelRiesgoPatrimonial)
	}
	if f.OperacionesPerfilPatrimonial.RiesgoPatrimonialPorcentaje != 100 {
		t.Errorf("riesgo_patrimonial_porcentaje = %v, want 100", f.OperacionesPerfilPatrimonial.RiesgoPatrimonialPorcentaje)
	}
}

func TestFormatRiskPercentageRounded(t *testing.T) {
	raw, _ := Compute(profileOf(nil, map[string]any{
		"inversiones": 300,
		"seguro_vida": 100, // coverage 33.333...%, risk 66.666...%
	}), Flags{})

	f := Format(raw)

	if f.OperacionesPerfilPatrimonial.RiesgoPatrimonialPorcentaje != 66.67 {
		t.Errorf("formatted riesgo = %v, want 66.67", f.OperacionesPerfilPatrimonial.RiesgoPatrimonialPorcentaje)
	}
	if raw.RiesgoPatrimonialPorcentaje == 66.67 {
		t.Error("raw riesgo must stay unrounded")
	}
}
