package kommo

type CreateLeadInput struct {
	Name     string // Nome do estabelecimento
	Phone    string // Ex: "5511999999999"
	Address  string
	Criteria string // Busca que originou o lead, vira tag
	Origin   string // Ex: "PROSPECCAO"
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}
