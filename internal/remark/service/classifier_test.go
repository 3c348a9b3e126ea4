package service

import (
	"testing"

	remarkdomain "github.com/rivierasoft/monapaie/internal/remark/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyNewHire(t *testing.T) {
	tests := []struct {
		name   string
		remark string
		day    int
	}{
		{"embauche le", "Embauche le 15 du mois", 15},
		{"arrivee date slash", "Arrivée le 10/03", 10},
		{"nouveau salarie", "Nouveau salarié, entrée le 3 mars", 3},
		{"prise de poste 1er", "Prise de poste le 1er avril", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.remark)
			assert.Equal(t, remarkdomain.TypeNewHire, c.Type)
			require.NotNil(t, c.Day)
			assert.Equal(t, tt.day, *c.Day)
		})
	}
}

func TestClassifyDeparture(t *testing.T) {
	tests := []struct {
		name   string
		remark string
	}{
		{"depart", "Départ de l'entreprise le 20"},
		{"demission", "Démission effective au 12/06"},
		{"licenciement", "Licenciement économique"},
		{"fin de contrat", "Fin de contrat CDD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.remark)
			assert.Equal(t, remarkdomain.TypeDeparture, c.Type)
		})
	}
}

func TestClassifySalaryChange(t *testing.T) {
	c := Classify("Augmentation de salaire suite à la promotion")
	assert.Equal(t, remarkdomain.TypeSalaryChange, c.Type)
	assert.True(t, c.Type.Explains())

	c = Classify("Revalorisation annuelle")
	assert.Equal(t, remarkdomain.TypeSalaryChange, c.Type)
}

func TestClassifyUnpaidLeave(t *testing.T) {
	c := Classify("Congé sans solde du 5 au 12")
	assert.Equal(t, remarkdomain.TypeUnpaidLeave, c.Type)
	assert.False(t, c.Type.Explains())
}

func TestClassifyBonusPrimaryAndLayered(t *testing.T) {
	// bonus alone becomes the primary type
	c := Classify("Prime exceptionnelle versée ce mois")
	assert.Equal(t, remarkdomain.TypeBonus, c.Type)
	assert.True(t, c.HasBonus)

	// bonus layered on a stronger primary
	c = Classify("Embauche le 15 avec prime de bienvenue")
	assert.Equal(t, remarkdomain.TypeNewHire, c.Type)
	assert.True(t, c.HasBonus)

	c = Classify("Versement du 13e mois")
	assert.Equal(t, remarkdomain.TypeBonus, c.Type)
}

func TestClassifyProrate(t *testing.T) {
	c := Classify("Salaire proratisé sur le mois")
	assert.Equal(t, remarkdomain.TypeProrate, c.Type)
	assert.True(t, c.HasProrate)

	// prorate layered under departure
	c = Classify("Départ le 10, paie au prorata")
	assert.Equal(t, remarkdomain.TypeDeparture, c.Type)
	assert.True(t, c.HasProrate)
	require.NotNil(t, c.Day)
	assert.Equal(t, 10, *c.Day)
}

func TestClassifyOrdering(t *testing.T) {
	// new_hire wins over salary_change when both vocabularies appear
	c := Classify("Embauche avec nouveau salaire négocié")
	assert.Equal(t, remarkdomain.TypeNewHire, c.Type)

	// departure wins over salary_change
	c = Classify("Départ, dernier salaire avec augmentation rétroactive")
	assert.Equal(t, remarkdomain.TypeDeparture, c.Type)
}

func TestClassifyNone(t *testing.T) {
	for _, remark := range []string{"", "   ", "RAS", "Dossier à compléter"} {
		c := Classify(remark)
		assert.Equal(t, remarkdomain.TypeNone, c.Type)
		assert.Nil(t, c.Day)
		assert.False(t, c.HasBonus)
		assert.False(t, c.HasProrate)
	}
}

func TestExtractDayFormats(t *testing.T) {
	tests := []struct {
		remark string
		day    int
	}{
		{"sortie le 28", 28},
		{"entrée le 1er", 1},
		{"arrivée 15/03/2024", 15},
		{"départ 7 juillet", 7},
		{"embauche le 2 février", 2},
	}
	for _, tt := range tests {
		d := extractDay(tt.remark)
		require.NotNil(t, d, tt.remark)
		assert.Equal(t, tt.day, *d, tt.remark)
	}

	assert.Nil(t, extractDay("aucune date ici"))
	assert.Nil(t, extractDay("le 45 n'est pas un jour"))
}
