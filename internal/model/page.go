package model

const (
	PageIndex     = "index"
	PageLogin     = "login"
	PageUser      = "user"
	PageRepayment = "repayment"
	PageContract  = "contract"
)

type IndexPage struct {
	Title            string `json:"title"`
	PageTitle        string `json:"page_title"`
	Subtitle         string `json:"subtitle"`
	WelcomeText      string `json:"welcome_text"`
	AmountLabel      string `json:"amount_label"`
	AmountValue      string `json:"amount_value"`
	RateLabel        string `json:"rate_label"`
	LoginBtnText     string `json:"login_btn_text"`
	TipText          string `json:"tip_text"`
	Step1Text        string `json:"step1_text"`
	Step2Text        string `json:"step2_text"`
	Step3Text        string `json:"step3_text"`
	ProductTitle     string `json:"product_title"`
	RateInfo         string `json:"rate_info"`
	MaxAmount        string `json:"max_amount"`
	PaymentMethod    string `json:"payment_method"`
	ProcessMethod    string `json:"process_method"`
	CooperationTitle string `json:"cooperation_title"`
}

type LoginPage struct {
	CodePlaceholder string `json:"code_placeholder"`
	GetCodeBtn      string `json:"get_code_btn"`
	LoginAuthType   string `json:"login_auth_type"`
}

type UserPage struct {
	WelcomeText      string `json:"welcome_text"`
	Subtitle         string `json:"subtitle"`
	AmountLabel      string `json:"amount_label"`
	AmountValue      string `json:"amount_value"`
	UserName         string `json:"user_name"`
	Menu1Text        string `json:"menu1_text"`
	Menu2Text        string `json:"menu2_text"`
	Menu3Text        string `json:"menu3_text"`
	Menu4Text        string `json:"menu4_text"`
	Menu5Text        string `json:"menu5_text"`
	Menu6Text        string `json:"menu6_text"`
	ImpactTitle      string `json:"impact_title"`
	PenaltyText      string `json:"penalty_text"`
	CreditText       string `json:"credit_text"`
	LegalText        string `json:"legal_text"`
	CooperationTitle string `json:"cooperation_title"`
}

type RepaymentPage struct {
	WelcomeText      string `json:"welcome_text"`
	AmountLabel      string `json:"amount_label"`
	Amount           string `json:"amount"`
	PaidAmount       string `json:"paid_amount"`
	RateLabel        string `json:"rate_label"`
	InterestRate     string `json:"interest_rate"`
	ProcessTimeLabel string `json:"process_time_label"`
	LoanDate         string `json:"loan_date"`
	CycleLabel       string `json:"cycle_label"`
	DueDateLabel     string `json:"due_date_label"`
	DueDate          string `json:"due_date"`
	TotalFeeLabel    string `json:"total_fee_label"`
	TotalInterest    string `json:"total_interest"`
	StatusLabel      string `json:"status_label"`
	Status           string `json:"status"`
	PenaltyLabel     string `json:"penalty_label"`
	OverdueAmount    string `json:"amount_end_amount"`
	OverdueDays      string `json:"amount_end_day"`
	TotalAmountLabel string `json:"total_amount_label"`
	TotalAmount      string `json:"total_amount"`
	ContractBtnText  string `json:"contract_btn_text"`
	UploadTitle      string `json:"upload_title"`
	SelectBtnText    string `json:"select_btn_text"`
	RepaymentPeriods string `json:"repayment_periods"`
	IsRepaid         string `json:"is_repaid"`
	IsFreeInterest   string `json:"is_free_interest"`
	LoanNo           string `json:"loan_no"`
}

type ContractPage struct {
	ContractView
}
