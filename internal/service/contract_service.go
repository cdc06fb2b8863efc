package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
)

const (
	contractTitle     = "借款合同"
	defaultContractNo = "XA-56PR36647"
	contractDateText  = "2006/1/2"
	contractFontName  = "contract"
)

// ContractService builds loan contracts for borrowers and renders them as PDF
type ContractService interface {
	View(ctx context.Context, phone string) (*model.ContractView, error)
	ViewByUserID(ctx context.Context, id int64) (*model.ContractView, error)
	RenderPDF(view *model.ContractView) ([]byte, error)
}

type contractService struct {
	users    UserService
	lender   model.Lender
	fontPath string
	log      *logger.Logger
	now      func() time.Time
}

// NewContractService creates a new ContractService. fontPath points at a TTF
// with CJK glyphs; without it the PDF falls back to a core font.
func NewContractService(users UserService, lender model.Lender, fontPath string, log *logger.Logger) ContractService {
	return &contractService{
		users:    users,
		lender:   lender,
		fontPath: fontPath,
		log:      log.With("service", "ContractService"),
		now:      time.Now,
	}
}

func (s *contractService) build(u *model.User) *model.ContractView {
	contractNo := u.LoanNumber
	if contractNo == "" {
		contractNo = defaultContractNo
	}
	loanDate := ""
	if u.LoanDate != nil {
		loanDate = u.LoanDate.Format(dateLayout)
	}
	name := u.Name
	if name == "" {
		name = defaultDisplayName
	}
	return &model.ContractView{
		Lender:          s.lender,
		ContractTitle:   contractTitle,
		ContractNo:      contractNo,
		BorrowerName:    name,
		IDCard:          u.IDNumber,
		Phone:           u.Phone,
		BankCard:        u.BankCard,
		ServiceAmount:   money(u.Amount) + "元",
		LoanDate:        loanDate,
		DueDate:         DueDate(u.LoanDate),
		CompanySealName: s.lender.Name,
		DateText:        s.now().Format(contractDateText),
	}
}

func (s *contractService) View(ctx context.Context, phone string) (*model.ContractView, error) {
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return s.build(user), nil
}

func (s *contractService) ViewByUserID(ctx context.Context, id int64) (*model.ContractView, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.build(user), nil
}

type contractPDF struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

func (c *contractPDF) title(s string) {
	c.pdf.SetFont(c.font, "B", 18)
	c.pdf.CellFormat(0, 10, c.tr(s), "", 1, "C", false, 0, "")
}

func (c *contractPDF) sectionTitle(s string) {
	c.pdf.SetFont(c.font, "B", 12)
	c.pdf.CellFormat(0, 7, c.tr(s), "", 1, "L", false, 0, "")
	c.pdf.SetFont(c.font, "", 11)
}

func (c *contractPDF) kvLine(key, val string) {
	c.pdf.SetFont(c.font, "B", 11)
	c.pdf.CellFormat(45, 6, c.tr(key+":"), "", 0, "L", false, 0, "")
	c.pdf.SetFont(c.font, "", 11)
	c.pdf.CellFormat(0, 6, c.tr(val), "", 1, "L", false, 0, "")
}

func (c *contractPDF) hr() {
	y := c.pdf.GetY() + 1.5
	c.pdf.SetLineWidth(0.2)
	c.pdf.Line(20, y, 190, y)
	c.pdf.SetY(y + 2)
}

func (s *contractService) newPDF() *contractPDF {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	if s.fontPath != "" {
		pdf.AddUTF8Font(contractFontName, "", s.fontPath)
		pdf.AddUTF8Font(contractFontName, "B", s.fontPath)
		return &contractPDF{pdf: pdf, font: contractFontName, tr: func(s string) string { return s }}
	}
	return &contractPDF{pdf: pdf, font: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// RenderPDF lays out the contract on a single A4 page.
func (s *contractService) RenderPDF(view *model.ContractView) ([]byte, error) {
	c := s.newPDF()
	c.pdf.SetTitle(view.ContractTitle, true)
	c.pdf.SetAuthor(view.Name, true)
	c.pdf.AddPage()

	c.title(view.ContractTitle)
	c.pdf.SetFont(c.font, "", 11)
	c.pdf.CellFormat(0, 7, c.tr("合同编号: "+view.ContractNo), "", 1, "C", false, 0, "")
	c.hr()

	c.sectionTitle("出借人")
	c.kvLine("名称", view.Name)
	c.kvLine("统一社会信用代码", view.CompanyLicense)
	c.kvLine("地址", view.CompanyAddress)
	c.kvLine("法定代表人", view.LegalRep)
	c.kvLine("成立日期", view.EstablishDate)
	c.hr()

	c.sectionTitle("借款人")
	c.kvLine("姓名", view.BorrowerName)
	c.kvLine("身份证号", view.IDCard)
	c.kvLine("手机号", view.Phone)
	c.kvLine("收款银行卡", view.BankCard)
	c.hr()

	c.sectionTitle("借款信息")
	c.kvLine("借款金额", view.ServiceAmount)
	c.kvLine("放款时间", view.LoanDate)
	c.kvLine("到期日期", view.DueDate)
	c.kvLine("年化利率", model.DefaultInterestRate)
	c.kvLine("还款方式", model.DefaultCycle)
	c.hr()

	c.pdf.Ln(6)
	c.kvLine("出借人(盖章)", view.CompanySealName)
	c.kvLine("签订日期", view.DateText)

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render contract PDF: %w", err)
	}
	return buf.Bytes(), nil
}
