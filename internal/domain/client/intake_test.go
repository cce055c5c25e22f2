package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

func TestContraindicationsOrder(t *testing.T) {
	q := models.Questionnaire{
		Adult:                 true,
		DermatologicTreatment: "isotretinoína",
		Diabetes:              true,
		Allergies:             " látex ",
		PregnantOrNursing:     true,
		HeartProblems:         "arritmia",
	}

	assert.Equal(t, []string{
		"Alergias: látex",
		"Gestante ou Amamentando",
		"Problemas Cardíacos: arritmia",
		"Diabetes",
		"Tratamento Dermatológico: isotretinoína",
	}, Contraindications(q))
}

func TestContraindicationsIgnoresBlankAnswers(t *testing.T) {
	got := Contraindications(models.Questionnaire{Adult: true, Medications: "   "})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestApplyQuestionnaire(t *testing.T) {
	c := &models.Client{Name: "Ana"}

	require.NoError(t, ApplyQuestionnaire(c, models.Questionnaire{Adult: true, Hypertension: true}))
	assert.True(t, c.QuestionnaireAnswered)
	assert.True(t, HasBlockingContraindications(c))
	assert.True(t, c.Questionnaire.Data().Hypertension)

	require.NoError(t, ApplyQuestionnaire(c, models.Questionnaire{Adult: true}))
	assert.False(t, HasBlockingContraindications(c))
}

func TestApplyQuestionnaireMinorNeedsResponsible(t *testing.T) {
	c := &models.Client{Name: "Bia"}

	err := ApplyQuestionnaire(c, models.Questionnaire{Adult: false})
	assert.True(t, httperr.IsBusiness(err, "responsible_signature_required"))
	assert.False(t, c.QuestionnaireAnswered)

	require.NoError(t, ApplyQuestionnaire(c, models.Questionnaire{Adult: false, ResponsibleSignature: "Maria"}))
}

func TestNormalizeContact(t *testing.T) {
	got, err := NormalizeContact(Contact{
		Name:  "  Carla Souza ",
		Phone: "(11) 98888-7777",
		Email: " Carla@Exemplo.com ",
		CPF:   "123.456.789-09",
	})
	require.NoError(t, err)
	assert.Equal(t, Contact{
		Name:  "Carla Souza",
		Phone: "11988887777",
		Email: "carla@exemplo.com",
		CPF:   "12345678909",
	}, got)

	_, err = NormalizeContact(Contact{Phone: "11988887777"})
	assert.True(t, httperr.IsBusiness(err, "name_required"))

	_, err = NormalizeContact(Contact{Name: "x", Phone: "123"})
	assert.True(t, httperr.IsBusiness(err, "invalid_phone"))

	_, err = NormalizeContact(Contact{Name: "x", Phone: "11988887777", Email: "nope"})
	assert.True(t, httperr.IsBusiness(err, "invalid_email"))
}
