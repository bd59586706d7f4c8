package dailyrun_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Botiquin-api/internal/application/dailyrun"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula la base: lotes, medicamentos, pauta y libro de movimientos.
// memTxRunner clona el estado antes de cada "transacción" y lo restaura si la
// callback devuelve error, imitando el rollback de postgres.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	batches   map[int64]*entity.Batch
	medicines map[string]*entity.Medicine
	reqs      []entity.DailyRequirement
	moves     []*entity.StockMove
	nextMove  int64

	failDeduct bool // fuerza un error de datos a mitad de la asignación
}

func newMemStore() *memStore {
	return &memStore{
		batches:   map[int64]*entity.Batch{},
		medicines: map[string]*entity.Medicine{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, b := range s.batches {
		cp := *b
		c.batches[id] = &cp
	}
	for id, m := range s.medicines {
		cp := *m
		c.medicines[id] = &cp
	}
	c.reqs = append([]entity.DailyRequirement(nil), s.reqs...)
	c.moves = append([]*entity.StockMove(nil), s.moves...)
	c.nextMove = s.nextMove
	c.failDeduct = s.failDeduct
	return c
}

func (s *memStore) restore(from *memStore) {
	s.batches = from.batches
	s.medicines = from.medicines
	s.reqs = from.reqs
	s.moves = from.moves
	s.nextMove = from.nextMove
}

func (s *memStore) addMedicine(id, name string) {
	s.medicines[id] = &entity.Medicine{ID: id, Name: name}
}

func (s *memStore) addBatch(id int64, medicineID, stock string, expiry *time.Time) {
	s.batches[id] = &entity.Batch{
		BatchID:    id,
		MedicineID: medicineID,
		BatchNo:    "L" + decimal.NewFromInt(id).String(),
		StockUnits: dec(stock),
		ExpiryDate: expiry,
	}
}

func (s *memStore) addRequirement(medicineID, unitsPerDay string) {
	s.reqs = append(s.reqs, entity.DailyRequirement{
		MedicineID:  medicineID,
		UnitsPerDay: dec(unitsPerDay),
	})
}

func (s *memStore) movesByReason(reason string) []*entity.StockMove {
	var out []*entity.StockMove
	for _, m := range s.moves {
		if m.Reason == reason {
			out = append(out, m)
		}
	}
	return out
}

// ── repos fake ────────────────────────────────────────────────────────────────

type memBatchRepo struct{ s *memStore }

func (r *memBatchRepo) GetByID(_ context.Context, id int64) (*entity.Batch, error) {
	return r.s.batches[id], nil
}

func (r *memBatchRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r *memBatchRepo) ListExpired(_ context.Context, runDate time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.StockUnits.GreaterThan(decimal.Zero) && b.Expired(runDate) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BatchID < out[j].BatchID })
	return out, nil
}

func (r *memBatchRepo) ListEligibleFEFO(_ context.Context, medicineID string, runDate time.Time) ([]*entity.Batch, error) {
	day := time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, runDate.Location())
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.MedicineID != medicineID || !b.StockUnits.GreaterThan(decimal.Zero) {
			continue
		}
		if b.ExpiryDate != nil && b.ExpiryDate.Before(day) {
			continue
		}
		out = append(out, b)
	}
	// Se devuelve sin ordenar a propósito: el orquestador re-ordena con fefo.Sort.
	return out, nil
}

func (r *memBatchRepo) ListFEFO(context.Context, string, bool) ([]*entity.Batch, error) {
	return nil, nil
}

func (r *memBatchRepo) ListExpiringWithin(context.Context, time.Time, int) ([]*entity.Batch, error) {
	return nil, nil
}

func (r *memBatchRepo) DeductStock(_ context.Context, id int64, qty decimal.Decimal) error {
	if r.s.failDeduct {
		return errors.New("deduct: conexión perdida")
	}
	b, ok := r.s.batches[id]
	if !ok {
		return errors.New("lote inexistente")
	}
	next := b.StockUnits.Sub(qty)
	if next.LessThan(decimal.Zero) {
		return errors.New("stock negativo")
	}
	b.StockUnits = next
	return nil
}

func (r *memBatchRepo) ZeroStock(_ context.Context, id int64) error {
	b, ok := r.s.batches[id]
	if !ok {
		return errors.New("lote inexistente")
	}
	b.StockUnits = decimal.Zero
	return nil
}

func (r *memBatchRepo) SetStock(_ context.Context, id int64, qty decimal.Decimal) error {
	b, ok := r.s.batches[id]
	if !ok {
		return errors.New("lote inexistente")
	}
	b.StockUnits = qty
	return nil
}

func (r *memBatchRepo) UpsertReceive(context.Context, string, string, decimal.Decimal, *time.Time) (*entity.Batch, error) {
	return nil, errors.New("no usado en este test")
}

func (r *memBatchRepo) UpsertKeyed(context.Context, *entity.Batch) error {
	return errors.New("no usado en este test")
}

func (r *memBatchRepo) AggregateStock(_ context.Context, medicineID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.s.batches {
		if b.MedicineID == medicineID {
			total = total.Add(b.StockUnits)
		}
	}
	return total, nil
}

type memMoveRepo struct{ s *memStore }

func (r *memMoveRepo) Append(_ context.Context, move *entity.StockMove) error {
	r.s.nextMove++
	move.ID = r.s.nextMove
	cp := *move
	r.s.moves = append(r.s.moves, &cp)
	return nil
}

func (r *memMoveRepo) ExistsConsumptionOn(_ context.Context, date time.Time) (bool, error) {
	y, m, d := date.Date()
	for _, mv := range r.s.moves {
		my, mm, md := mv.TS.Date()
		if mv.Reason == entity.MoveReasonConsumption && my == y && mm == m && md == d {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMoveRepo) List(context.Context, string, *time.Time, int) ([]*entity.StockMove, error) {
	return r.s.moves, nil
}

func (r *memMoveRepo) SumDeltasByBatch(_ context.Context, batchID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, mv := range r.s.moves {
		if mv.BatchID != nil && *mv.BatchID == batchID {
			sum = sum.Add(mv.QtyChange)
		}
	}
	return sum, nil
}

type memDosageRepo struct{ s *memStore }

func (r *memDosageRepo) ListDailyRequirements(context.Context) ([]entity.DailyRequirement, error) {
	return r.s.reqs, nil
}

func (r *memDosageRepo) GetByMedicine(context.Context, string) (*entity.DosagePlan, error) {
	return nil, nil
}

func (r *memDosageRepo) Upsert(context.Context, *entity.DosagePlan) error { return nil }

type memMedicineRepo struct{ s *memStore }

func (r *memMedicineRepo) GetByID(_ context.Context, id string) (*entity.Medicine, error) {
	return r.s.medicines[id], nil
}

func (r *memMedicineRepo) List(context.Context, string, int, int) ([]*entity.Medicine, error) {
	return nil, nil
}

func (r *memMedicineRepo) Upsert(context.Context, *entity.Medicine) error { return nil }

// memTxRunner simula la transacción: clona el estado y lo restaura en error.
type memTxRunner struct{ s *memStore }

func (tx *memTxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	moveRepo repository.StockMoveRepository,
	dosageRepo repository.DosageRepository,
	medicineRepo repository.MedicineRepository,
) error) error {
	before := tx.s.clone()
	err := fn(&memBatchRepo{tx.s}, &memMoveRepo{tx.s}, &memDosageRepo{tx.s}, &memMedicineRepo{tx.s})
	if err != nil {
		tx.s.restore(before)
	}
	return err
}

// ── helpers ───────────────────────────────────────────────────────────────────

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newRunUC(s *memStore) *dailyrun.RunUseCase {
	return dailyrun.NewRunUseCase(&memTxRunner{s}, decimal.Zero, 0)
}

var runDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Run diario
// ──────────────────────────────────────────────────────────────────────────────

// Camino feliz: dos lotes, la dosis cruza la frontera del primero.
func TestRun_DeduccionFEFOEntreLotes(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "50", dayPtr("2026-04-01"))
	s.addBatch(2, "MED-001", "30", dayPtr("2026-06-01"))
	s.addRequirement("MED-001", "60")

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	assert.Equal(t, dailyrun.StateCommitted, res.State)
	assert.True(t, s.batches[1].StockUnits.IsZero(), "el lote más temprano se agota primero")
	assert.True(t, s.batches[2].StockUnits.Equal(dec("20")))

	consumos := s.movesByReason(entity.MoveReasonConsumption)
	require.Len(t, consumos, 2, "un movimiento por lote tocado")
	assert.True(t, consumos[0].QtyChange.Equal(dec("-50")))
	assert.True(t, consumos[1].QtyChange.Equal(dec("-10")))
	assert.Equal(t, res.RunID, consumos[0].RunID, "todos los movimientos comparten run_id")
	assert.Empty(t, s.movesByReason(entity.MoveReasonShortfall))
}

// Idempotencia: un segundo run del mismo día termina en Skipped sin tocar nada.
func TestRun_SegundoRunDelDiaSeOmite(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "50", nil)
	s.addRequirement("MED-001", "10")

	uc := newRunUC(s)
	first, err := uc.Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)
	require.Equal(t, dailyrun.StateCommitted, first.State)
	movesAfterFirst := len(s.moves)

	second, err := uc.Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err, "el skip es benigno, no un error")

	assert.Equal(t, dailyrun.StateSkipped, second.State)
	assert.True(t, s.batches[1].StockUnits.Equal(dec("40")), "el stock no cambia en el skip")
	assert.Len(t, s.moves, movesAfterFirst, "el libro no crece en el skip")
}

// Force repite el día deduciendo de nuevo.
func TestRun_ForceRepiteElDia(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "50", nil)
	s.addRequirement("MED-001", "10")

	uc := newRunUC(s)
	_, err := uc.Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	res, err := uc.Run(context.Background(), dailyrun.RunInput{Date: runDate, Force: true})
	require.NoError(t, err)

	assert.Equal(t, dailyrun.StateCommitted, res.State)
	assert.True(t, res.Forced)
	assert.True(t, s.batches[1].StockUnits.Equal(dec("30")), "la dosis se dedujo dos veces")
}

// El recorte de vencidos corre antes de la asignación: el stock vencido no se
// consume aunque fuera el más temprano.
func TestRun_RecorteDeVencidosAntesDeAsignar(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "40", dayPtr("2026-03-01")) // vencido antes del run
	s.addBatch(2, "MED-001", "25", dayPtr("2026-05-01"))
	s.addRequirement("MED-001", "10")

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	assert.Equal(t, 1, res.ExpiredBatches)
	assert.True(t, res.ExpiredUnits.Equal(dec("40")))
	assert.True(t, s.batches[1].StockUnits.IsZero(), "el vencido queda en cero")
	assert.True(t, s.batches[2].StockUnits.Equal(dec("15")), "la dosis salió del lote vigente")

	expirados := s.movesByReason(entity.MoveReasonExpired)
	require.Len(t, expirados, 1)
	assert.True(t, expirados[0].QtyChange.Equal(dec("-40")), "delta negativo del recorte completo")
	assert.Contains(t, expirados[0].Note, "Auto-scrap expired before 2026-03-15")
}

// El asiento 'expired' lleva la cantidad previa al recorte como delta negativo
// aunque el repositorio devuelva la misma entidad que ZeroStock deja en cero.
func TestRun_RecorteAsientaCantidadPreviaAlRecorte(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "50", dayPtr("2026-03-01"))

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	assert.True(t, s.batches[1].StockUnits.IsZero())
	assert.True(t, res.ExpiredUnits.Equal(dec("50")),
		"el resumen cuenta las unidades que había antes del recorte")

	expirados := s.movesByReason(entity.MoveReasonExpired)
	require.Len(t, expirados, 1)
	assert.True(t, expirados[0].QtyChange.Equal(dec("-50")),
		"el delta del asiento es la cantidad previa en negativo, no cero")
}

// Un lote que vence exactamente el día del run no se recorta y es consumible.
func TestRun_LoteQueVenceHoySigueConsumible(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "20", dayPtr("2026-03-15"))
	s.addRequirement("MED-001", "5")

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExpiredBatches)
	assert.True(t, s.batches[1].StockUnits.Equal(dec("15")))
}

// Shortfall: se consume lo disponible y se registra el faltante sin delta.
func TestRun_ShortfallRegistraFaltanteSinDelta(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "3", nil)
	s.addRequirement("MED-001", "10")

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err, "el shortfall no es un error del run")

	assert.Equal(t, dailyrun.StateCommitted, res.State)
	assert.Equal(t, 1, res.Shortfalls)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].Consumed.Equal(dec("3")))
	assert.True(t, res.Items[0].Shortfall.Equal(dec("7")))

	faltantes := s.movesByReason(entity.MoveReasonShortfall)
	require.Len(t, faltantes, 1)
	assert.Nil(t, faltantes[0].BatchID, "el shortfall no referencia lote")
	assert.True(t, faltantes[0].QtyChange.IsZero(), "el shortfall no mueve stock")
	assert.Contains(t, faltantes[0].Note, "Needed 7 more units on 2026-03-15")
}

// El shortfall de un medicamento no contamina a los demás.
func TestRun_ShortfallAislado(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addMedicine("MED-002", "Ibuprofeno 400mg")
	s.addBatch(1, "MED-001", "0.5", nil)
	s.addBatch(2, "MED-002", "30", nil)
	s.addRequirement("MED-001", "2")
	s.addRequirement("MED-002", "3")

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	assert.Equal(t, dailyrun.StateCommitted, res.State)
	assert.Equal(t, 1, res.Shortfalls)
	assert.True(t, s.batches[2].StockUnits.Equal(dec("27")),
		"el medicamento con stock completo se dedujo con normalidad")
}

// Entrada de pauta que referencia un medicamento inexistente: warning y sigue.
func TestRun_PautaConMedicamentoDesconocidoSoloAvisa(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "10", nil)
	s.addRequirement("MED-FANTASMA", "4")
	s.addRequirement("MED-001", "2")

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	assert.Equal(t, dailyrun.StateCommitted, res.State)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "MED-FANTASMA")
	require.Len(t, res.Items, 1, "la entrada fantasma no genera item")
	assert.True(t, s.batches[1].StockUnits.Equal(dec("8")))
}

// Error de datos a mitad del run: la transacción revierte todo, incluido el
// recorte de vencidos ya aplicado.
func TestRun_ErrorRevierteTodaLaTransaccion(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "40", dayPtr("2026-03-01")) // vencido, se recorta primero
	s.addBatch(2, "MED-001", "25", dayPtr("2026-05-01"))
	s.addRequirement("MED-001", "10")
	s.failDeduct = true

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.Error(t, err)

	assert.Equal(t, dailyrun.StateFailed, res.State)
	assert.NotEmpty(t, res.Error)
	assert.True(t, s.batches[1].StockUnits.Equal(dec("40")), "el recorte se revirtió")
	assert.True(t, s.batches[2].StockUnits.Equal(dec("25")), "nada quedó deducido")
	assert.Empty(t, s.moves, "el libro quedó intacto")
}

// Invariante de conciliación: tras varios runs, la suma de deltas del libro de
// cada lote iguala su stock actual (partiendo de un libro con las recepciones).
func TestRun_ConciliacionDelLibro(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "50", dayPtr("2026-04-01"))
	s.addBatch(2, "MED-001", "30", dayPtr("2026-06-01"))
	s.addRequirement("MED-001", "12")

	// Recepciones iniciales en el libro para que la suma arranque igual al stock.
	moveRepo := &memMoveRepo{s}
	for id, b := range map[int64]*entity.Batch{1: s.batches[1], 2: s.batches[2]} {
		batchID := id
		require.NoError(t, moveRepo.Append(context.Background(), &entity.StockMove{
			TS: runDate.AddDate(0, -1, 0), MedicineID: b.MedicineID, BatchID: &batchID,
			QtyChange: b.StockUnits, Reason: entity.MoveReasonReceipt,
		}))
	}

	uc := newRunUC(s)
	for i := 0; i < 3; i++ {
		res, err := uc.Run(context.Background(), dailyrun.RunInput{
			Date: runDate.AddDate(0, 0, i),
		})
		require.NoError(t, err)
		require.Equal(t, dailyrun.StateCommitted, res.State)
	}

	for id, b := range s.batches {
		sum, err := moveRepo.SumDeltasByBatch(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, sum.Equal(b.StockUnits),
			"lote %d: suma del libro %s != stock %s", id, sum, b.StockUnits)
	}
}

// Los movimientos del run usan la hora ancla del día, no el reloj del sistema.
func TestRun_TimestampsUsanHoraAncla(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "10", nil)
	s.addRequirement("MED-001", "2")

	uc := dailyrun.NewRunUseCase(&memTxRunner{s}, decimal.Zero, 8)
	_, err := uc.Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	require.NotEmpty(t, s.moves)
	for _, mv := range s.moves {
		assert.Equal(t, 8, mv.TS.Hour())
		assert.Equal(t, runDate.Day(), mv.TS.Day())
	}
}

// Una entrada de pauta con units_per_day = 0 no toca su medicamento: ni
// deducción, ni shortfall, ni item en el resumen.
func TestRun_RequerimientoCeroNoTocaElMedicamento(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addMedicine("MED-002", "Ibuprofeno 400mg")
	s.addBatch(1, "MED-001", "10", nil)
	s.addBatch(2, "MED-002", "8", nil)
	s.addRequirement("MED-001", "0")
	s.addRequirement("MED-002", "2")

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	assert.Equal(t, dailyrun.StateCommitted, res.State)
	assert.True(t, s.batches[1].StockUnits.Equal(dec("10")), "stock intacto con requerimiento cero")
	assert.True(t, s.batches[2].StockUnits.Equal(dec("6")))
	require.Len(t, res.Items, 1, "la entrada en cero no genera item")
	assert.Equal(t, "MED-002", res.Items[0].MedicineID)
	for _, mv := range s.moves {
		assert.NotEqual(t, "MED-001", mv.MedicineID, "ningún asiento para el medicamento en cero")
	}
}

// Pauta vacía: el run se confirma sin items ni movimientos.
func TestRun_PautaVaciaConfirmaSinMovimientos(t *testing.T) {
	s := newMemStore()
	s.addMedicine("MED-001", "Paracetamol 500mg")
	s.addBatch(1, "MED-001", "10", nil)

	res, err := newRunUC(s).Run(context.Background(), dailyrun.RunInput{Date: runDate})
	require.NoError(t, err)

	assert.Equal(t, dailyrun.StateCommitted, res.State)
	assert.Empty(t, res.Items)
	assert.Empty(t, s.moves)
}
