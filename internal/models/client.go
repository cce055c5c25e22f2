package models

import "gorm.io/datatypes"

// Questionnaire guarda as respostas da ficha de anamnese.
type Questionnaire struct {
	Adult                bool   `json:"adult"`
	ResponsibleSignature string `json:"responsible_signature,omitempty"`
	SkinPhototype        string `json:"skin_phototype,omitempty"`

	Allergies             string `json:"allergies,omitempty"`
	Medications           string `json:"medications,omitempty"`
	PregnantOrNursing     bool   `json:"pregnant_or_nursing"`
	SkinDiseases          string `json:"skin_diseases,omitempty"`
	RecentSurgery         string `json:"recent_surgery,omitempty"`
	HeartProblems         string `json:"heart_problems,omitempty"`
	Hypertension          bool   `json:"hypertension"`
	Diabetes              bool   `json:"diabetes"`
	CancerHistory         string `json:"cancer_history,omitempty"`
	DermatologicTreatment string `json:"dermatologic_treatment,omitempty"`
}

type Client struct {
	Base

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;index" json:"phone"`
	Email string `gorm:"size:100" json:"email"`
	CPF   string `gorm:"size:14" json:"cpf"`

	Questionnaire     datatypes.JSONType[Questionnaire] `json:"questionnaire"`
	Contraindications datatypes.JSONSlice[string]       `json:"contraindications"`

	QuestionnaireSent     bool   `json:"questionnaire_sent"`
	QuestionnaireAnswered bool   `json:"questionnaire_answered"`
	QuestionnaireLink     string `gorm:"size:255" json:"questionnaire_link"`
}

func (Client) TableName() string { return "clientes" }
