package model

// Lender identifies the lending company printed on contracts.
type Lender struct {
	Name           string `yaml:"lender_name" json:"lender_name"`
	CompanyLicense string `yaml:"company_license" json:"company_license"`
	CompanyAddress string `yaml:"company_address" json:"company_address"`
	LegalRep       string `yaml:"legal_rep" json:"legal_rep"`
	EstablishDate  string `yaml:"establish_date" json:"establish_date"`
}

// ContractView is the data behind the borrower's loan contract.
type ContractView struct {
	Lender
	ContractTitle   string `json:"contract_title"`
	ContractNo      string `json:"contract_no"`
	BorrowerName    string `json:"borrower_name"`
	IDCard          string `json:"id_card_value"`
	Phone           string `json:"phone_value"`
	BankCard        string `json:"bank_card_value"`
	ServiceAmount   string `json:"service_amount_value"`
	LoanDate        string `json:"loan_date"`
	DueDate         string `json:"due_date"`
	CompanySealName string `json:"company_seal_name"`
	DateText        string `json:"date_text"`
}
