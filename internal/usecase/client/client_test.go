package client_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/testutil"
	uc "github.com/BruksfildServices01/studio-manager/internal/usecase/client"
)

var now = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

type sentMessage struct {
	phone string
	body  string
}

type fakeMessenger struct {
	sent []sentMessage
	err  error
}

func (m *fakeMessenger) Send(_ context.Context, phone, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{phone: phone, body: body})
	return nil
}

func setup(t *testing.T) (context.Context, *store.Store, uc.Deps, *testutil.Clock) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, testutil.NewDB(t))
	require.NoError(t, err)
	clock := testutil.NewClock(now)
	return ctx, st, uc.Deps{Store: st, Now: clock.Now}, clock
}

func TestRegisterClient(t *testing.T) {
	ctx, st, deps, _ := setup(t)
	register := uc.NewRegisterClient(deps, false)

	c, err := register.Execute(ctx, uc.RegisterClientInput{
		Name:          "Ana Lima",
		Phone:         "(11) 98765-4321",
		Questionnaire: &models.Questionnaire{Adult: true, Allergies: "iodo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "11987654321", c.Phone)
	assert.Equal(t, []string{"Alergias: iodo"}, []string(c.Contraindications))
	assert.True(t, c.QuestionnaireAnswered)

	got, err := st.Clients().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", got.Name)
	assert.Equal(t, "iodo", got.Questionnaire.Data().Allergies)

	_, err = register.Execute(ctx, uc.RegisterClientInput{Name: "Outra", Phone: "11987654321"})
	assert.True(t, httperr.IsBusiness(err, "client_phone_exists"))

	_, err = register.Execute(ctx, uc.RegisterClientInput{Name: "", Phone: "11911112222"})
	assert.True(t, httperr.IsBusiness(err, "name_required"))
}

func TestUpdateAndDeleteClient(t *testing.T) {
	ctx, st, deps, _ := setup(t)
	register := uc.NewRegisterClient(deps, false)
	update := uc.NewUpdateClient(deps)
	del := uc.NewDeleteClient(deps)

	c, err := register.Execute(ctx, uc.RegisterClientInput{Name: "Bia", Phone: "11911112222"})
	require.NoError(t, err)

	got, err := update.Execute(ctx, c.ID, uc.UpdateClientInput{Name: "Beatriz", Phone: "11911112222", Email: "bia@exemplo.com"})
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", got.Name)
	assert.Equal(t, 2, got.Version)

	_, err = update.Execute(ctx, c.ID, uc.UpdateClientInput{Name: "Velha", Phone: "11911112222", Version: 1})
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))

	ap := &models.Appointment{ClientID: c.ID, ServiceID: "s", Status: "scheduled"}
	require.NoError(t, st.Appointments().Put(ctx, ap))

	err = del.Execute(ctx, c.ID)
	assert.True(t, httperr.IsBusiness(err, "client_has_active_appointments"))

	ap.Status = "completed"
	require.NoError(t, st.Appointments().Put(ctx, ap))
	require.NoError(t, del.Execute(ctx, c.ID))

	_, err = st.Clients().Get(ctx, c.ID)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	err = del.Execute(ctx, c.ID)
	assert.True(t, httperr.IsBusiness(err, "client_not_found"))
}

func TestSendAndAnswerQuestionnaire(t *testing.T) {
	ctx, st, deps, clock := setup(t)
	signer := uc.NewLinkSigner("secret", "https://totalbronze.example/anamnese/", time.Hour, clock.Now)
	messenger := &fakeMessenger{}

	c, err := uc.NewRegisterClient(deps, false).Execute(ctx, uc.RegisterClientInput{Name: "Carla", Phone: "11988887777"})
	require.NoError(t, err)

	sent, err := uc.NewSendQuestionnaire(deps, signer, messenger, "Total Bronze").Execute(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, sent.QuestionnaireSent)
	assert.True(t, strings.HasPrefix(sent.QuestionnaireLink, "https://totalbronze.example/anamnese/"+c.ID+"?token="))

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "5511988887777", messenger.sent[0].phone)
	assert.Contains(t, messenger.sent[0].body, "Olá Carla!")
	assert.Contains(t, messenger.sent[0].body, sent.QuestionnaireLink)

	u, err := url.Parse(sent.QuestionnaireLink)
	require.NoError(t, err)
	token := u.Query().Get("token")

	answer := uc.NewAnswerQuestionnaire(deps, signer)
	answered, err := answer.ExecuteWithToken(ctx, token, models.Questionnaire{Adult: true, Diabetes: true})
	require.NoError(t, err)
	assert.True(t, answered.QuestionnaireAnswered)
	assert.Equal(t, []string{"Diabetes"}, []string(answered.Contraindications))

	stored, err := st.Clients().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, stored.QuestionnaireSent)
	assert.True(t, stored.Questionnaire.Data().Diabetes)

	clock.Advance(2 * time.Hour)
	_, err = answer.ExecuteWithToken(ctx, token, models.Questionnaire{Adult: true})
	assert.True(t, httperr.IsBusiness(err, "invalid_token"))
}

func TestSendQuestionnaireDeliveryFailure(t *testing.T) {
	ctx, st, deps, clock := setup(t)
	signer := uc.NewLinkSigner("secret", "https://x", time.Hour, clock.Now)

	c, err := uc.NewRegisterClient(deps, false).Execute(ctx, uc.RegisterClientInput{Name: "Dani", Phone: "11977776666"})
	require.NoError(t, err)

	_, err = uc.NewSendQuestionnaire(deps, signer, &fakeMessenger{err: errors.New("offline")}, "Total Bronze").Execute(ctx, c.ID)
	require.Error(t, err)

	stored, err := st.Clients().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, stored.QuestionnaireSent)
}

func TestLinkSignerRejectsForeignTokens(t *testing.T) {
	a := uc.NewLinkSigner("one", "https://x", time.Hour, nil)
	b := uc.NewLinkSigner("two", "https://x", time.Hour, nil)

	token, err := a.Token("client-1")
	require.NoError(t, err)

	id, err := a.ClientID(token)
	require.NoError(t, err)
	assert.Equal(t, "client-1", id)

	_, err = b.ClientID(token)
	assert.True(t, httperr.IsBusiness(err, "invalid_token"))

	_, err = a.ClientID("not-a-token")
	assert.True(t, httperr.IsBusiness(err, "invalid_token"))
}
