package service

import (
	"context"
	"errors"
	"strconv"

	"loan_portal/internal/config"
	"loan_portal/internal/logger"
	"loan_portal/internal/model"
)

// PageService assembles the static copy and borrower figures each front-end
// page renders.
type PageService interface {
	Data(ctx context.Context, page string, sess *model.UserSession) (interface{}, error)
}

type pageService struct {
	settings  SettingService
	users     UserService
	contracts ContractService
	lender    model.Lender
	log       *logger.Logger
}

// NewPageService creates a new PageService
func NewPageService(settings SettingService, users UserService, contracts ContractService, lender model.Lender, log *logger.Logger) PageService {
	return &pageService{
		settings:  settings,
		users:     users,
		contracts: contracts,
		lender:    lender,
		log:       log.With("service", "PageService"),
	}
}

// Data returns the payload for page. Unknown pages get the index payload.
// sess may be nil; pages then fall back to sample figures.
func (s *pageService) Data(ctx context.Context, page string, sess *model.UserSession) (interface{}, error) {
	switch page {
	case model.PageLogin:
		return model.LoginPage{CodePlaceholder: "请输入验证码", GetCodeBtn: "获取验证码", LoginAuthType: "1"}, nil
	case model.PageUser:
		return s.userPage(ctx, sess)
	case model.PageRepayment:
		return s.repaymentPage(ctx, sess)
	case model.PageContract:
		return s.contractPage(ctx, sess)
	default:
		return s.indexPage(ctx)
	}
}

func (s *pageService) welcomeText(ctx context.Context) string {
	text, err := s.settings.String(ctx, config.SettingWelcomeText)
	if err != nil {
		s.log.Warn("failed to read welcome text", "error", err)
	}
	return text
}

func (s *pageService) indexPage(ctx context.Context) (model.IndexPage, error) {
	siteName, err := s.settings.String(ctx, config.SettingSiteName)
	if err != nil {
		return model.IndexPage{}, err
	}
	return model.IndexPage{
		Title:            "金融服务平台",
		PageTitle:        siteName,
		Subtitle:         "快速服务 优惠价格",
		WelcomeText:      "欢迎使用我们的服务",
		AmountLabel:      "最高额度",
		AmountValue:      "500,000元",
		RateLabel:        "日利率",
		LoginBtnText:     "立即申请",
		TipText:          "快速审批，安全可靠",
		Step1Text:        "3分钟申请服务",
		Step2Text:        "30秒最快审批",
		Step3Text:        "1分钟最快详情",
		ProductTitle:     "产品详情",
		RateInfo:         "年化费率（单利）7.2%~34%",
		MaxAmount:        "最高可申请200,000元",
		PaymentMethod:    "等额本息、等额本金、本息同还",
		ProcessMethod:    "快1分钟，详情至本人银行卡",
		CooperationTitle: "合作机构",
	}, nil
}

// borrower looks up the session's borrower. A missing session or borrower
// is not an error.
func (s *pageService) borrower(ctx context.Context, sess *model.UserSession) (*model.RepaymentView, error) {
	if sess == nil || sess.Phone == "" {
		return nil, nil
	}
	view, err := s.users.Repayment(ctx, sess.Phone)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return view, err
}

func (s *pageService) userPage(ctx context.Context, sess *model.UserSession) (model.UserPage, error) {
	page := model.UserPage{
		WelcomeText:      s.welcomeText(ctx),
		Subtitle:         "超快下款 超低利率",
		AmountLabel:      "欠款金额",
		AmountValue:      "0元",
		UserName:         defaultDisplayName,
		Menu1Text:        "申请服务",
		Menu2Text:        "我的服务",
		Menu3Text:        "我的欠款",
		Menu4Text:        "在线客服",
		Menu5Text:        "我的资料",
		Menu6Text:        "个人中心",
		ImpactTitle:      "逾期影响",
		PenaltyText:      "延迟费用/延迟费",
		CreditText:       "上报征信",
		LegalText:        "出行受限",
		CooperationTitle: "合作机构",
	}
	if sess != nil && sess.Name != "" {
		page.UserName = sess.Name
	}
	view, err := s.borrower(ctx, sess)
	if err != nil {
		return model.UserPage{}, err
	}
	if view != nil {
		page.UserName = view.Name
		page.AmountValue = view.AmountDue + "元"
	}
	return page, nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (s *pageService) repaymentPage(ctx context.Context, sess *model.UserSession) (model.RepaymentPage, error) {
	page := model.RepaymentPage{
		WelcomeText:      s.welcomeText(ctx),
		AmountLabel:      "借款金额",
		Amount:           "6000元",
		PaidAmount:       "0.00元",
		RateLabel:        "年化利率",
		InterestRate:     model.DefaultInterestRate,
		ProcessTimeLabel: "放款时间",
		LoanDate:         "2024-07-28",
		CycleLabel:       "周期",
		DueDateLabel:     "到期日期",
		DueDate:          defaultDueDate,
		TotalFeeLabel:    "总利息",
		TotalInterest:    "652.80",
		StatusLabel:      "借款状态",
		Status:           model.LoanStatusNormal,
		PenaltyLabel:     "逾期金额",
		OverdueAmount:    "1200.00",
		OverdueDays:      "30",
		TotalAmountLabel: "总还款金额",
		TotalAmount:      "7852.80",
		ContractBtnText:  "贷款合同",
		UploadTitle:      "上传凭证图片",
		SelectBtnText:    "选择图片并自动上传",
		RepaymentPeriods: "全额还款",
		IsRepaid:         "0",
		IsFreeInterest:   "0",
		LoanNo:           "DHT2024110100-4374-024",
	}
	view, err := s.borrower(ctx, sess)
	if err != nil {
		return model.RepaymentPage{}, err
	}
	if view == nil {
		return page, nil
	}

	page.Amount = view.LoanAmount + "元"
	page.PaidAmount = view.PaidAmount + "元"
	page.LoanDate = view.LoanDate
	page.DueDate = view.DueDate
	page.TotalInterest = view.TotalInterest
	page.Status = view.Status
	page.OverdueAmount = view.OverdueAmount
	page.OverdueDays = strconv.Itoa(view.OverdueDays)
	page.TotalAmount = view.TotalRepayment
	page.IsRepaid = flag(view.IsSettled)
	page.IsFreeInterest = flag(view.IsInterestFree)
	page.LoanNo = view.LoanNumber
	return page, nil
}

func (s *pageService) contractPage(ctx context.Context, sess *model.UserSession) (model.ContractPage, error) {
	if sess != nil && sess.Phone != "" {
		view, err := s.contracts.View(ctx, sess.Phone)
		if err == nil {
			return model.ContractPage{ContractView: *view}, nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return model.ContractPage{}, err
		}
	}

	phone := "138****8888"
	if sess != nil && sess.Phone != "" {
		phone = sess.Phone
	}
	return model.ContractPage{ContractView: model.ContractView{
		Lender:          s.lender,
		ContractTitle:   contractTitle,
		ContractNo:      defaultContractNo,
		BorrowerName:    "张三",
		IDCard:          "110101199001011234",
		Phone:           phone,
		BankCard:        "6222****1234",
		ServiceAmount:   "6000元",
		DueDate:         defaultDueDate,
		CompanySealName: s.lender.Name,
	}}, nil
}
