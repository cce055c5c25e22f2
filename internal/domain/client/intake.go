package client

import (
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/validators"
)

// Contraindications lists the findings of a questionnaire that block a
// session, in the order the form asks them.
func Contraindications(q models.Questionnaire) []string {
	out := []string{}
	text := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, fmt.Sprintf("%s: %s", label, v))
		}
	}

	text("Alergias", q.Allergies)
	text("Medicamentos em uso", q.Medications)
	if q.PregnantOrNursing {
		out = append(out, "Gestante ou Amamentando")
	}
	text("Doenças de Pele", q.SkinDiseases)
	text("Cirurgias Recentes", q.RecentSurgery)
	text("Problemas Cardíacos", q.HeartProblems)
	if q.Hypertension {
		out = append(out, "Hipertensão")
	}
	if q.Diabetes {
		out = append(out, "Diabetes")
	}
	text("Histórico de Câncer", q.CancerHistory)
	text("Tratamento Dermatológico", q.DermatologicTreatment)

	return out
}

// HasBlockingContraindications reports whether the client may not be booked.
func HasBlockingContraindications(c *models.Client) bool {
	return len(c.Contraindications) > 0
}

// ApplyQuestionnaire stores the answers and recomputes the contraindications.
func ApplyQuestionnaire(c *models.Client, q models.Questionnaire) error {
	if !q.Adult && strings.TrimSpace(q.ResponsibleSignature) == "" {
		return httperr.ErrValidation("responsible_signature_required", c.ID)
	}
	c.Questionnaire = datatypes.NewJSONType(q)
	c.Contraindications = Contraindications(q)
	c.QuestionnaireAnswered = true
	return nil
}

// Contact is the editable contact data of a client.
type Contact struct {
	Name  string
	Phone string
	Email string
	CPF   string
}

// NormalizeContact trims the fields, reduces the phone to digits and
// validates what is present.
func NormalizeContact(in Contact) (Contact, error) {
	out := Contact{
		Name:  strings.TrimSpace(in.Name),
		Phone: validators.NormalizePhone(in.Phone),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
		CPF:   validators.NormalizePhone(in.CPF),
	}

	if out.Name == "" {
		return out, httperr.ErrValidation("name_required", "")
	}
	if !validators.IsPhoneValid(out.Phone) {
		return out, httperr.ErrValidation("invalid_phone", in.Phone)
	}
	if out.Email != "" && !validators.IsEmailSyntaxValid(out.Email) {
		return out, httperr.ErrValidation("invalid_email", in.Email)
	}
	if out.CPF != "" && len(out.CPF) != 11 {
		return out, httperr.ErrValidation("invalid_cpf", in.CPF)
	}
	return out, nil
}
