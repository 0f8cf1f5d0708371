package decreto_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gdpcloud/decreto-engine/decreto"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// Valid RUTs for fixtures (mod-11 check digits verified by hand):
//   12.345.678-5, 11.111.111-1, 7.654.321-6
const (
	rutA = "12.345.678-5"
	rutB = "11.111.111-1"
	rutC = "7.654.321-6"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func paDecree(id, rut, start string, diasHaber, cantidad float64) *decreto.Decree {
	return &decreto.Decree{
		ID:           id,
		CreatedAt:    time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC),
		Kind:         decreto.KindPA,
		Acto:         "1/2025",
		Funcionario:  "Maria Perez",
		RUT:          rut,
		CantidadDias: dec(cantidad),
		FechaInicio:  decreto.MustDate(start),
		TipoJornada:  decreto.ShiftFull,
		PA:           &decreto.PADetail{DiasHaber: dec(diasHaber)},
	}
}

func flDecree(id, rut, start, end string, cantidad float64, fl *decreto.FLDetail) *decreto.Decree {
	if fl == nil {
		fl = &decreto.FLDetail{}
	}
	fl.FechaTermino = decreto.MustDate(end)
	return &decreto.Decree{
		ID:           id,
		CreatedAt:    time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC),
		Kind:         decreto.KindFL,
		Acto:         "1/2025",
		Funcionario:  "Juan Soto",
		RUT:          rut,
		CantidadDias: dec(cantidad),
		FechaInicio:  decreto.MustDate(start),
		TipoJornada:  decreto.ShiftFull,
		FL:           fl,
	}
}

func createdAt(d *decreto.Decree, ts string) *decreto.Decree {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	d.CreatedAt = t
	return d
}
