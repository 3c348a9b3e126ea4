package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	perioddomain "github.com/rivierasoft/monapaie/internal/period/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) perioddomain.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&perioddomain.EmployeeRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewRepository(Param{In: fx.In{}, DB: db, GenID: node})
}

func record(matricule string, gross int64) perioddomain.EmployeeRecord {
	rec := perioddomain.FromInput("co_1", 2024, 3, payrolldomain.EmployeeInput{
		Matricule:        matricule,
		ResidencyCountry: payrolldomain.CountryMonaco,
		BaseSalaryCents:  gross,
		BaseHours:        169,
	})
	rec.GrossCents = gross
	return rec
}

func TestLoadPeriodEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.LoadPeriod(context.Background(), "co_1", 2024, 3)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveAndLoadPeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SavePeriod(ctx, "co_1", 2024, 3, []perioddomain.EmployeeRecord{
		record("M002", 250_000),
		record("M001", 350_000),
	})
	require.NoError(t, err)

	records, err := store.LoadPeriod(ctx, "co_1", 2024, 3)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// ordered by matricule
	assert.Equal(t, "M001", records[0].Matricule)
	assert.Equal(t, "M002", records[1].Matricule)
	assert.Equal(t, int64(350_000), records[0].GrossCents)
	assert.NotZero(t, records[0].ID)
}

func TestSavePeriodReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePeriod(ctx, "co_1", 2024, 3, []perioddomain.EmployeeRecord{
		record("M001", 350_000),
		record("M002", 250_000),
	}))
	require.NoError(t, store.SavePeriod(ctx, "co_1", 2024, 3, []perioddomain.EmployeeRecord{
		record("M001", 360_000),
	}))

	records, err := store.LoadPeriod(ctx, "co_1", 2024, 3)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "M001", records[0].Matricule)
	assert.Equal(t, int64(360_000), records[0].GrossCents)
}

func TestSavePeriodIsolatedByCompanyAndPeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePeriod(ctx, "co_1", 2024, 2, []perioddomain.EmployeeRecord{record("M001", 350_000)}))
	require.NoError(t, store.SavePeriod(ctx, "co_1", 2024, 3, []perioddomain.EmployeeRecord{record("M001", 351_000)}))
	require.NoError(t, store.SavePeriod(ctx, "co_2", 2024, 3, []perioddomain.EmployeeRecord{record("M001", 400_000)}))

	feb, err := store.LoadPeriod(ctx, "co_1", 2024, 2)
	require.NoError(t, err)
	require.Len(t, feb, 1)
	assert.Equal(t, int64(350_000), feb[0].GrossCents)

	mar, err := store.LoadPeriod(ctx, "co_1", 2024, 3)
	require.NoError(t, err)
	require.Len(t, mar, 1)
	assert.Equal(t, int64(351_000), mar[0].GrossCents)

	other, err := store.LoadPeriod(ctx, "co_2", 2024, 3)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, int64(400_000), other[0].GrossCents)
}

func TestRecordInputRoundTrip(t *testing.T) {
	in := payrolldomain.EmployeeInput{
		Matricule:        "M009",
		FirstName:        "Lucie",
		LastName:         "Moreau",
		ResidencyCountry: payrolldomain.CountryFrance,
		BaseSalaryCents:  420_000,
		BaseHours:        169,
		OvertimeHours125: 4,
		AbsenceHours:     7,
		AbsenceType:      payrolldomain.AbsenceUnpaid,
		TicketCount:      20,
		Remark:           "Prime exceptionnelle",
	}

	rec := perioddomain.FromInput("co_1", 2024, 3, in)
	assert.Equal(t, in, rec.Input())
}

func TestPreviousPeriod(t *testing.T) {
	year, month := perioddomain.PreviousPeriod(2024, 3)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 2, month)

	year, month = perioddomain.PreviousPeriod(2024, 1)
	assert.Equal(t, 2023, year)
	assert.Equal(t, 12, month)
}
